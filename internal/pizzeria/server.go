// Package pizzeria is the mock pizza REST API the ordering agent's
// tools are generated against. It serves its own OpenAPI document, so
// tool generation works against either the live /openapi.json endpoint
// or the embedded copy.
package pizzeria

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joss/pizzaiolo/internal/logging"
)

//go:embed openapi.json
var openAPIDoc []byte

// OpenAPIDocument returns the API description used for tool generation.
func OpenAPIDocument() []byte {
	return openAPIDoc
}

const prepTimeQuote = "25 minutes"

// Order is a placed order with its full lifecycle state.
type Order struct {
	OrderID               string  `json:"orderId"`
	PizzaID               string  `json:"pizzaId"`
	PizzaName             string  `json:"pizzaName"`
	Size                  string  `json:"size"`
	Quantity              int     `json:"quantity"`
	Address               string  `json:"address"`
	CustomerName          string  `json:"customerName,omitempty"`
	Phone                 string  `json:"phone,omitempty"`
	Status                string  `json:"status"`
	TotalPrice            float64 `json:"totalPrice"`
	CreatedAt             string  `json:"createdAt"`
	EstimatedDeliveryTime string  `json:"estimatedDeliveryTime"`
}

type orderRequest struct {
	PizzaID      string `json:"pizzaId"`
	Size         string `json:"size"`
	Quantity     int    `json:"quantity"`
	Address      string `json:"address"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
}

// Server holds orders in memory, like a lunch-rush whiteboard. State
// does not survive restarts; the delivery calendar is the durable part.
type Server struct {
	mu     sync.Mutex
	orders map[string]*Order
	placed []string // order ids in placement order
	menu   []Pizza
	now    func() time.Time
	log    *logging.Logger
}

func NewServer() *Server {
	return &Server{
		orders: make(map[string]*Order),
		menu:   Menu(),
		now:    time.Now,
		log:    logging.New("pizzeria"),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /api/pizzas", s.handleListPizzas)
	mux.HandleFunc("POST /api/orders", s.handlePlaceOrder)
	mux.HandleFunc("GET /api/orders", s.handleListOrders)
	mux.HandleFunc("GET /api/orders/{orderId}", s.handleTrackOrder)
	mux.HandleFunc("PUT /api/orders/{orderId}/status", s.handleUpdateStatus)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "Pizzaiolo API",
		"version": "1.0.0",
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openAPIDoc)
}

func (s *Server) handleListPizzas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.menu)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pizza, ok := s.findPizza(req.PizzaID)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Pizza not found")
		return
	}
	multiplier, ok := SizeMultipliers[req.Size]
	if !ok {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid size %q, expected one of s, m, l", req.Size))
		return
	}
	if req.Quantity < 1 || req.Quantity > 10 {
		writeDetail(w, http.StatusBadRequest, "quantity must be between 1 and 10")
		return
	}
	if req.Address == "" {
		writeDetail(w, http.StatusBadRequest, "address is required")
		return
	}

	total := round2(pizza.Price * float64(req.Quantity) * multiplier)
	created := s.now().UTC()
	order := &Order{
		OrderID:               newOrderID(),
		PizzaID:               pizza.ID,
		PizzaName:             pizza.Name,
		Size:                  req.Size,
		Quantity:              req.Quantity,
		Address:               req.Address,
		CustomerName:          req.CustomerName,
		Phone:                 req.Phone,
		Status:                StatusConfirmed,
		TotalPrice:            total,
		CreatedAt:             created.Format(time.RFC3339),
		EstimatedDeliveryTime: created.Add(35 * time.Minute).Format(time.RFC3339),
	}

	s.mu.Lock()
	s.orders[order.OrderID] = order
	s.placed = append(s.placed, order.OrderID)
	s.mu.Unlock()

	s.log.Info("order_placed", map[string]any{
		"order_id": order.OrderID,
		"pizza":    order.PizzaName,
		"total":    order.TotalPrice,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId":               order.OrderID,
		"status":                order.Status,
		"prepTime":              prepTimeQuote,
		"totalPrice":            order.TotalPrice,
		"estimatedDeliveryTime": order.EstimatedDeliveryTime,
	})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]*Order, 0, len(s.placed))
	for _, id := range s.placed {
		out = append(out, s.orders[id])
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrackOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	order, ok := s.orders[r.PathValue("orderId")]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if !validStatuses[status] {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", status))
		return
	}

	s.mu.Lock()
	order, ok := s.orders[r.PathValue("orderId")]
	if ok {
		order.Status = status
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}

	s.log.Info("status_updated", map[string]any{"order_id": order.OrderID, "status": status})
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) findPizza(id string) (Pizza, bool) {
	for _, p := range s.menu {
		if p.ID == id {
			return p, true
		}
	}
	return Pizza{}, false
}

// Statuses returns the valid order statuses in a stable order, for
// CLI help output.
func Statuses() []string {
	out := make([]string, 0, len(validStatuses))
	for s := range validStatuses {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func newOrderID() string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "ORD" + frag
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
