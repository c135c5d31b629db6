package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/joss/pizzaiolo/internal/tool"
)

// Delivery timing: the kitchen quotes 25 minutes of prep and the
// courier another 10.
const (
	PrepTime     = 25 * time.Minute
	CourierTime  = 10 * time.Minute
	slotWindow   = 10 * time.Minute
	timeLayoutNZ = "2006-01-02T15:04:05"
)

// SuggestDeliveryTime returns the default slot for an order placed now.
func SuggestDeliveryTime(now time.Time) time.Time {
	return now.Add(PrepTime + CourierTime).UTC().Truncate(time.Second)
}

// parseDeliveryTime accepts RFC 3339 or a zoneless ISO 8601 timestamp,
// which is what models tend to produce. Zoneless times are read as UTC.
func parseDeliveryTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(timeLayoutNZ, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("deliveryTime %q is not an ISO 8601 timestamp", raw)
	}
	return t.UTC(), nil
}

// AvailabilityTool answers whether a delivery slot is free.
type AvailabilityTool struct {
	store *Store
}

func NewAvailabilityTool(store *Store) *AvailabilityTool {
	return &AvailabilityTool{store: store}
}

func (t *AvailabilityTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        "checkCalendarAvailability",
		Description: "Check if a given time is available for delivery.",
		InputSchema: map[string]tool.FieldSpec{
			"deliveryTime": {
				Type:        "string",
				Description: "ISO 8601 datetime to check.",
				Required:    true,
			},
		},
	}
}

func (t *AvailabilityTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	when, err := parseDeliveryTime(args["deliveryTime"].(string))
	if err != nil {
		return nil, err
	}

	conflicts, err := t.store.Conflicts(ctx, when, slotWindow)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}

	if len(conflicts) == 0 {
		return map[string]any{
			"available": true,
			"time":      when.Format(time.RFC3339),
			"message":   "Time slot is available.",
		}, nil
	}

	times := make([]any, 0, len(conflicts))
	for _, c := range conflicts {
		times = append(times, c.DeliveryTime.Format(time.RFC3339))
	}
	return map[string]any{
		"available": false,
		"time":      when.Format(time.RFC3339),
		"conflicts": times,
		"message":   "Another delivery is already scheduled near this time.",
	}, nil
}

// ScheduleTool records a delivery on the calendar.
type ScheduleTool struct {
	store *Store
}

func NewScheduleTool(store *Store) *ScheduleTool {
	return &ScheduleTool{store: store}
}

func (t *ScheduleTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        "scheduleDelivery",
		Description: "Schedule a pizza delivery time.",
		InputSchema: map[string]tool.FieldSpec{
			"orderId": {
				Type:        "string",
				Description: "Order ID from the pizza system.",
				Required:    true,
			},
			"deliveryTime": {
				Type:        "string",
				Description: "ISO 8601 datetime for delivery.",
				Required:    true,
			},
			"address": {
				Type:        "string",
				Description: "Delivery address.",
				Required:    true,
			},
			"customerName": {
				Type:        "string",
				Description: "Customer name.",
				Required:    true,
			},
		},
	}
}

func (t *ScheduleTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	when, err := parseDeliveryTime(args["deliveryTime"].(string))
	if err != nil {
		return nil, err
	}

	d := &Delivery{
		OrderID:      args["orderId"].(string),
		DeliveryTime: when,
		Address:      args["address"].(string),
		CustomerName: args["customerName"].(string),
	}
	if err := t.store.Schedule(ctx, d); err != nil {
		return nil, err
	}

	return map[string]any{
		"success":      true,
		"orderId":      d.OrderID,
		"deliveryTime": when.Format(time.RFC3339),
		"message":      "Delivery scheduled successfully.",
	}, nil
}

var (
	_ tool.Invoker = (*AvailabilityTool)(nil)
	_ tool.Invoker = (*ScheduleTool)(nil)
)

// Register adds both delivery-planning tools to a registry.
func Register(r *tool.Registry, store *Store) error {
	if err := r.Register(NewAvailabilityTool(store)); err != nil {
		return err
	}
	return r.Register(NewScheduleTool(store))
}
