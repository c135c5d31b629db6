package handoff

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pizzaiolo/internal/agent"
	"github.com/joss/pizzaiolo/internal/calendar"
	"github.com/joss/pizzaiolo/internal/provider"
	"github.com/joss/pizzaiolo/internal/testutil"
	"github.com/joss/pizzaiolo/internal/tool"
)

// stubOrderTool stands in for the generated placeOrder REST tool.
type stubOrderTool struct{}

func (stubOrderTool) Definition() tool.Definition {
	return tool.Definition{
		Name: "placeOrder",
		InputSchema: map[string]tool.FieldSpec{
			"pizzaId":  {Type: "string", Required: true},
			"size":     {Type: "string", Required: true},
			"quantity": {Type: "integer", Required: true},
			"address":  {Type: "string", Required: true},
		},
	}
}

func (stubOrderTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return map[string]any{"orderId": "ORDAB12CD34", "status": "confirmed", "totalPrice": 720.0}, nil
}

func schedulingRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	store, err := calendar.Open(filepath.Join(t.TempDir(), "calendar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	r := tool.NewRegistry()
	require.NoError(t, calendar.Register(r, store))
	return r
}

func TestWorkflowEndToEnd(t *testing.T) {
	orderReg := tool.NewRegistry()
	require.NoError(t, orderReg.Register(stubOrderTool{}))

	orderingProvider := testutil.NewScriptedProvider(
		provider.NewToolCall(tool.CallRequest{Tool: "placeOrder", Args: map[string]any{
			"pizzaId": "4", "size": "s", "quantity": float64(2), "address": "123 Road, Alex",
		}}),
		provider.NewFinalAnswer("Order ORDAB12CD34 placed. Total 720. ETA 35 minutes."),
	)
	ordering := agent.New(agent.Config{
		Provider:   orderingProvider,
		Registry:   orderReg,
		RecordTool: "placeOrder",
	})

	schedulingProvider := testutil.NewScriptedProvider(
		provider.NewToolCall(tool.CallRequest{Tool: "checkCalendarAvailability", Args: map[string]any{
			"deliveryTime": "2026-08-29T12:35:00Z",
		}}),
		provider.NewToolCall(tool.CallRequest{Tool: "scheduleDelivery", Args: map[string]any{
			"orderId":      "ORDAB12CD34",
			"deliveryTime": "2026-08-29T12:35:00Z",
			"address":      "123 Road, Alex",
			"customerName": "Alex",
		}}),
		provider.NewFinalAnswer("Delivery scheduled for 12:35 UTC."),
	)
	scheduling := agent.New(agent.Config{
		Provider:   schedulingProvider,
		Registry:   schedulingRegistry(t),
		RecordTool: "scheduleDelivery",
	})

	w := NewWorkflow(ordering, scheduling)
	w.Now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	res, err := w.Execute(context.Background(), "I want two small chicken tikka pizzas")
	require.NoError(t, err)

	assert.Equal(t, "ORDAB12CD34", res.OrderID)
	assert.True(t, res.Scheduled)
	assert.Contains(t, res.OrderAnswer, "ORDAB12CD34")
	assert.Contains(t, res.ScheduleAnswer, "scheduled")

	// scheduling transcript starts from the seeded payload
	entries := scheduling.Transcript()
	require.NotEmpty(t, entries)
	require.NotNil(t, entries[0].ToolResult)
	assert.Equal(t, "confirmedOrder", entries[0].ToolResult.Tool)

	// the user-visible scheduling request carries the suggested slot
	reqs := schedulingProvider.Requests()
	require.NotEmpty(t, reqs)
	assert.Contains(t, reqs[0].Transcript[1].Text, "2026-08-29T12:35:00Z")
	assert.Contains(t, reqs[0].Transcript[1].Text, "ORDAB12CD34")
}

func TestWorkflowNoOrderSkipsScheduling(t *testing.T) {
	ordering := agent.New(agent.Config{
		Provider:   testutil.NewScriptedProvider(provider.NewFinalAnswer("We only sell pizza, sorry.")),
		Registry:   tool.NewRegistry(),
		RecordTool: "placeOrder",
	})
	schedulingProvider := testutil.NewScriptedProvider(provider.NewFinalAnswer("unreachable"))
	scheduling := agent.New(agent.Config{Provider: schedulingProvider, Registry: tool.NewRegistry()})

	res, err := NewWorkflow(ordering, scheduling).Execute(context.Background(), "sell me a burger")
	require.NoError(t, err)

	assert.False(t, res.Scheduled)
	assert.Empty(t, res.OrderID)
	assert.Equal(t, "We only sell pizza, sorry.", res.OrderAnswer)
	assert.Zero(t, schedulingProvider.Calls())
}

func TestWorkflowNotScheduledWithoutBooking(t *testing.T) {
	orderReg := tool.NewRegistry()
	require.NoError(t, orderReg.Register(stubOrderTool{}))

	ordering := agent.New(agent.Config{
		Provider: testutil.NewScriptedProvider(
			provider.NewToolCall(tool.CallRequest{Tool: "placeOrder", Args: map[string]any{
				"pizzaId": "2", "size": "l", "quantity": float64(1), "address": "9 Bay Rd",
			}}),
			provider.NewFinalAnswer("Order ORDAB12CD34 placed."),
		),
		Registry:   orderReg,
		RecordTool: "placeOrder",
	})

	// the scheduling backend answers politely but never books a slot
	scheduling := agent.New(agent.Config{
		Provider:   testutil.NewScriptedProvider(provider.NewFinalAnswer("I will get to it.")),
		Registry:   schedulingRegistry(t),
		RecordTool: "scheduleDelivery",
	})

	res, err := NewWorkflow(ordering, scheduling).Execute(context.Background(), "one veggie supreme")
	require.NoError(t, err)

	assert.Equal(t, "ORDAB12CD34", res.OrderID)
	assert.False(t, res.Scheduled, "an answer without a booked slot is not a scheduled delivery")
	assert.Equal(t, "I will get to it.", res.ScheduleAnswer)
}

func TestWorkflowSchedulingDeliveryPersisted(t *testing.T) {
	store, err := calendar.Open(filepath.Join(t.TempDir(), "calendar.db"))
	require.NoError(t, err)
	defer store.Close()

	reg := tool.NewRegistry()
	require.NoError(t, calendar.Register(reg, store))

	orderReg := tool.NewRegistry()
	require.NoError(t, orderReg.Register(stubOrderTool{}))

	ordering := agent.New(agent.Config{
		Provider: testutil.NewScriptedProvider(
			provider.NewToolCall(tool.CallRequest{Tool: "placeOrder", Args: map[string]any{
				"pizzaId": "1", "size": "m", "quantity": float64(1), "address": "5 Hill St",
			}}),
			provider.NewFinalAnswer("Done, order ORDAB12CD34."),
		),
		Registry:   orderReg,
		RecordTool: "placeOrder",
	})
	scheduling := agent.New(agent.Config{
		Provider: testutil.NewScriptedProvider(
			provider.NewToolCall(tool.CallRequest{Tool: "scheduleDelivery", Args: map[string]any{
				"orderId":      "ORDAB12CD34",
				"deliveryTime": "2026-08-29T19:00:00Z",
				"address":      "5 Hill St",
				"customerName": "Sam",
			}}),
			provider.NewFinalAnswer("Scheduled for 19:00."),
		),
		Registry:   reg,
		RecordTool: "scheduleDelivery",
	})

	_, err = NewWorkflow(ordering, scheduling).Execute(context.Background(), "one margherita")
	require.NoError(t, err)

	d, err := store.Get(context.Background(), "ORDAB12CD34")
	require.NoError(t, err)
	assert.Equal(t, "5 Hill St", d.Address)
	assert.Equal(t, "scheduled", d.Status)
}
