package handoff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joss/pizzaiolo/internal/agent"
	"github.com/joss/pizzaiolo/internal/calendar"
	"github.com/joss/pizzaiolo/internal/logging"
)

// Workflow runs the full order-then-schedule flow: the ordering loop
// terminates first, its confirmed order becomes the handoff payload,
// and only then does the scheduling loop start. The loops never run
// concurrently and share nothing but the payload.
//
// The ordering loop must record "placeOrder" and the scheduling loop
// "scheduleDelivery" (agent.Config.RecordTool); Result.OrderID and
// Result.Scheduled are derived from those recorded calls.
type Workflow struct {
	Ordering   *agent.Loop
	Scheduling *agent.Loop

	// Now is the clock used to suggest a delivery slot (tests pin it).
	Now func() time.Time

	log *logging.Logger
}

func NewWorkflow(ordering, scheduling *agent.Loop) *Workflow {
	return &Workflow{
		Ordering:   ordering,
		Scheduling: scheduling,
		Now:        time.Now,
		log:        logging.New("handoff"),
	}
}

// Result is the combined outcome of both sessions.
type Result struct {
	OrderAnswer    string
	ScheduleAnswer string
	OrderID        string

	// Scheduled is true only when the scheduling session actually
	// booked a slot, not merely when it produced an answer.
	Scheduled bool
}

// Execute runs the workflow for one user request. An ordering session
// that ends without a confirmed order is not an error: the result
// carries the ordering answer and Scheduled stays false.
func (w *Workflow) Execute(ctx context.Context, userRequest string) (*Result, error) {
	orderOut, err := w.Ordering.Run(ctx, userRequest)
	if err != nil {
		return nil, fmt.Errorf("ordering session: %w", err)
	}

	res := &Result{OrderAnswer: orderOut.FinalAnswer}

	payload, err := FromOutcome(orderOut)
	if errors.Is(err, ErrNoConfirmedOrder) {
		w.log.Info("no_confirmed_order", nil)
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.OrderID = payload.OrderID

	w.log.Info("handoff", map[string]any{"order_id": payload.OrderID})
	w.Scheduling.Seed(payload.SeedEntry())

	suggested := calendar.SuggestDeliveryTime(w.Now())
	scheduleOut, err := w.Scheduling.Run(ctx, schedulingRequest(payload, suggested))
	if err != nil {
		return nil, fmt.Errorf("scheduling session: %w", err)
	}

	res.ScheduleAnswer = scheduleOut.FinalAnswer
	res.Scheduled = scheduleOut.Recorded != nil
	return res, nil
}

// schedulingRequest phrases the handoff for the scheduling backend.
func schedulingRequest(p *OrderPayload, suggested time.Time) string {
	return fmt.Sprintf(
		"A pizza order has been placed.\n"+
			"- Order ID: %s\n"+
			"- Prep time: 25 minutes\n"+
			"- Address: %s\n"+
			"- Suggested delivery time (UTC): %s\n\n"+
			"Please schedule the delivery and confirm the delivery time.",
		p.OrderID, p.DeliveryAddress, suggested.Format(time.RFC3339),
	)
}
