// Package calendar persists the delivery schedule and exposes the
// scheduling agent's local delivery-planning tools.
package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound indicates no delivery is scheduled for the order.
	ErrNotFound = errors.New("delivery not found")

	// ErrAlreadyScheduled indicates the order already has a delivery.
	ErrAlreadyScheduled = errors.New("delivery already scheduled")
)

// Delivery is one scheduled drop-off.
type Delivery struct {
	OrderID      string
	DeliveryTime time.Time
	Address      string
	CustomerName string
	Status       string
	CreatedAt    time.Time
}

// Store keeps the schedule in sqlite so it survives across sessions.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the schedule database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scheduled_deliveries (
		order_id TEXT PRIMARY KEY,
		delivery_time DATETIME NOT NULL,
		address TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deliveries_time ON scheduled_deliveries(delivery_time);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Schedule records a delivery. Fails with ErrAlreadyScheduled when the
// order already has one.
func (s *Store) Schedule(ctx context.Context, d *Delivery) error {
	if d.Status == "" {
		d.Status = "scheduled"
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scheduled_deliveries (order_id, delivery_time, address, customer_name, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.OrderID, d.DeliveryTime.UTC(), d.Address, d.CustomerName, d.Status, d.CreatedAt)
	if err != nil {
		var existing int
		row := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM scheduled_deliveries WHERE order_id = ?`, d.OrderID)
		if scanErr := row.Scan(&existing); scanErr == nil && existing > 0 {
			return fmt.Errorf("%w: %s", ErrAlreadyScheduled, d.OrderID)
		}
		return err
	}
	return nil
}

// Get retrieves the delivery scheduled for an order.
func (s *Store) Get(ctx context.Context, orderID string) (*Delivery, error) {
	var d Delivery
	err := s.db.QueryRowContext(ctx, `
		SELECT order_id, delivery_time, address, customer_name, status, created_at
		FROM scheduled_deliveries WHERE order_id = ?
	`, orderID).Scan(&d.OrderID, &d.DeliveryTime, &d.Address, &d.CustomerName, &d.Status, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns all deliveries ordered by delivery time.
func (s *Store) List(ctx context.Context) ([]*Delivery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, delivery_time, address, customer_name, status, created_at
		FROM scheduled_deliveries ORDER BY delivery_time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.OrderID, &d.DeliveryTime, &d.Address, &d.CustomerName, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Conflicts returns deliveries scheduled within the window around t.
// A courier handles one drop-off per slot, so anything inside the
// window blocks the requested time.
func (s *Store) Conflicts(ctx context.Context, t time.Time, window time.Duration) ([]*Delivery, error) {
	from := t.Add(-window).UTC()
	to := t.Add(window).UTC()
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, delivery_time, address, customer_name, status, created_at
		FROM scheduled_deliveries
		WHERE delivery_time > ? AND delivery_time < ? AND status = 'scheduled'
		ORDER BY delivery_time
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.OrderID, &d.DeliveryTime, &d.Address, &d.CustomerName, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
