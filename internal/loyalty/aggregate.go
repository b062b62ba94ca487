package loyalty

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/glowdesk/internal/models"
	"github.com/example/glowdesk/internal/rewards"
)

// CustomerAggregate is the derived, never-persisted view of a customer's
// event history. It is recomputed on every read; the checkins table stays the
// source of truth.
type CustomerAggregate struct {
	Visits    int            `json:"visits"`
	LastVisit time.Time      `json:"last_visit"`
	Unlocked  []rewards.Tier `json:"unlocked"`
}

// Aggregate projects a customer and its check-in events into a
// CustomerAggregate. Pure and total: any well-formed input, including zero
// events, produces a result. With no events LastVisit falls back to the
// customer's creation time.
func Aggregate(customer models.Customer, events []models.CheckinEvent, policy *rewards.Policy) CustomerAggregate {
	last := customer.CreatedAt
	for _, event := range events {
		if event.CheckinTime.After(last) {
			last = event.CheckinTime
		}
	}

	return CustomerAggregate{
		Visits:    len(events),
		LastVisit: last,
		Unlocked:  policy.Unlocked(len(events)),
	}
}

// AggregateAll projects a batch of customers, preserving input order. Events
// are supplied pre-grouped by customer id so callers can load the whole batch
// in one query instead of one round trip per customer.
func AggregateAll(customers []models.Customer, eventsByCustomer map[uuid.UUID][]models.CheckinEvent, policy *rewards.Policy) []CustomerAggregate {
	aggregates := make([]CustomerAggregate, 0, len(customers))
	for _, customer := range customers {
		aggregates = append(aggregates, Aggregate(customer, eventsByCustomer[customer.ID], policy))
	}
	return aggregates
}
