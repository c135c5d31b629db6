package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pizzaiolo/internal/agent"
	"github.com/joss/pizzaiolo/internal/conversation"
	"github.com/joss/pizzaiolo/internal/tool"
)

func confirmedOutcome() *agent.Outcome {
	return &agent.Outcome{
		FinalAnswer: "Order placed!",
		Recorded: &agent.RecordedCall{
			Request: tool.CallRequest{
				Tool: "placeOrder",
				Args: map[string]any{
					"pizzaId":  "4",
					"size":     "s",
					"quantity": float64(2),
					"address":  "123 Road, Alex",
				},
			},
			Result: tool.CallResult{
				Tool:    "placeOrder",
				Success: true,
				Payload: map[string]any{"orderId": "ORD1a2b3c4d", "status": "received"},
			},
		},
	}
}

func TestFromOutcome(t *testing.T) {
	p, err := FromOutcome(confirmedOutcome())
	require.NoError(t, err)

	assert.Equal(t, "ORD1a2b3c4d", p.OrderID)
	assert.Equal(t, "123 Road, Alex", p.DeliveryAddress)
	require.Len(t, p.Items, 1)
	assert.Equal(t, Item{PizzaID: "4", Size: "s", Quantity: 2}, p.Items[0])
}

func TestFromOutcomeNoOrder(t *testing.T) {
	_, err := FromOutcome(&agent.Outcome{FinalAnswer: "never mind"})
	require.ErrorIs(t, err, ErrNoConfirmedOrder)

	_, err = FromOutcome(nil)
	require.ErrorIs(t, err, ErrNoConfirmedOrder)
}

func TestFromOutcomeMissingOrderID(t *testing.T) {
	out := confirmedOutcome()
	out.Recorded.Result.Payload = map[string]any{"status": "received"}

	_, err := FromOutcome(out)
	require.ErrorIs(t, err, ErrNoConfirmedOrder)
}

func TestFromOutcomeDefaultsQuantity(t *testing.T) {
	out := confirmedOutcome()
	delete(out.Recorded.Request.Args, "quantity")

	p, err := FromOutcome(out)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Items[0].Quantity)
}

func TestSeedEntry(t *testing.T) {
	p, err := FromOutcome(confirmedOutcome())
	require.NoError(t, err)

	e := p.SeedEntry()
	assert.Equal(t, conversation.KindToolResult, e.Kind)
	assert.NotEmpty(t, e.CallID)
	require.NotNil(t, e.ToolResult)
	assert.True(t, e.ToolResult.Success)

	payload := e.ToolResult.Payload.(map[string]any)
	assert.Equal(t, "ORD1a2b3c4d", payload["orderId"])
	assert.Equal(t, "123 Road, Alex", payload["deliveryAddress"])
	items := payload["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].(map[string]any)["quantity"])
}

func TestSeedEntriesAreIndependent(t *testing.T) {
	p, err := FromOutcome(confirmedOutcome())
	require.NoError(t, err)

	a := p.SeedEntry()
	b := p.SeedEntry()
	assert.NotEqual(t, a.CallID, b.CallID)
}
