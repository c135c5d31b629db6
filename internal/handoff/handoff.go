// Package handoff carries a confirmed order from the ordering session
// to the scheduling session. The payload is built once, after the
// ordering loop has terminated, and the scheduling loop receives it as
// a synthetic tool result in an otherwise fresh transcript. The two
// loops share nothing else.
package handoff

import (
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/joss/pizzaiolo/internal/agent"
	"github.com/joss/pizzaiolo/internal/conversation"
	"github.com/joss/pizzaiolo/internal/tool"
)

// ErrNoConfirmedOrder indicates the ordering session ended without a
// successfully placed order, so there is nothing to schedule.
var ErrNoConfirmedOrder = errors.New("ordering session ended without a confirmed order")

// Item is one line of a confirmed order.
type Item struct {
	PizzaID  string `json:"pizzaId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// OrderPayload is the one-shot handoff between the two agents.
type OrderPayload struct {
	OrderID         string `json:"orderId"`
	Items           []Item `json:"items"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// FromOutcome builds the payload from the ordering loop's recorded
// placeOrder call: the order id comes from the server reply, the items
// and address from the arguments that placed it.
func FromOutcome(out *agent.Outcome) (*OrderPayload, error) {
	if out == nil || out.Recorded == nil {
		return nil, ErrNoConfirmedOrder
	}
	rc := out.Recorded

	reply, ok := rc.Result.Payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected reply shape %T", ErrNoConfirmedOrder, rc.Result.Payload)
	}
	orderID, ok := reply["orderId"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("%w: reply carries no order id", ErrNoConfirmedOrder)
	}

	args := rc.Request.Args
	item := Item{
		PizzaID:  stringArg(args, "pizzaId"),
		Size:     stringArg(args, "size"),
		Quantity: intArg(args, "quantity"),
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	return &OrderPayload{
		OrderID:         orderID,
		Items:           []Item{item},
		DeliveryAddress: stringArg(args, "address"),
	}, nil
}

// SeedEntry renders the payload as the synthetic tool result that opens
// the scheduling transcript, as if an order-lookup tool had just run.
func (p *OrderPayload) SeedEntry() conversation.Entry {
	items := make([]any, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, map[string]any{
			"pizzaId":  it.PizzaID,
			"size":     it.Size,
			"quantity": it.Quantity,
		})
	}
	return conversation.Entry{
		Kind:   conversation.KindToolResult,
		CallID: "handoff_" + ulid.Make().String(),
		ToolResult: &tool.CallResult{
			Tool:    "confirmedOrder",
			Success: true,
			Payload: map[string]any{
				"orderId":         p.OrderID,
				"items":           items,
				"deliveryAddress": p.DeliveryAddress,
			},
		},
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
