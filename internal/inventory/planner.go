package inventory

import (
	"time"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/repository"
	"github.com/andresuchdata/inventory-manager/pkg/logger"
)

const deliveryDateLayout = "2006-01-02"

// Planner builds reorder suggestions for every product whose stock health
// calls for a purchase.
type Planner struct {
	now func() time.Time
}

// NewPlanner creates a planner that stamps plans with the wall clock
func NewPlanner() *Planner {
	return &Planner{now: time.Now}
}

// NewPlannerWithClock creates a planner with a fixed time source.
func NewPlannerWithClock(now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{now: now}
}

// Plan scans store in enumeration order. Products that cannot be evaluated
// are skipped; the plan as a whole never fails.
func (p *Planner) Plan(store repository.RecordStore) domain.ReorderPlan {
	if s, ok := store.(repository.Snapshotter); ok {
		store = s.Snapshot()
	}

	now := p.now()
	suggestions := make([]domain.ReorderSuggestion, 0)

	for _, id := range store.ProductIDs() {
		status, err := Evaluate(store, id)
		if err != nil {
			logger.Log.Warn().Err(err).Str("product_id", id).Msg("reorder planner: skipping product")
			continue
		}
		if !status.Status.NeedsReorder() {
			continue
		}

		suggestions = append(suggestions, domain.ReorderSuggestion{
			ProductID:                status.ID,
			ProductName:              status.Name,
			CurrentStock:             status.CurrentStock,
			ReorderPoint:             status.ReorderPoint,
			RecommendedOrderQuantity: status.ReorderQuantity,
			Urgency:                  status.Status.Urgency(),
			ExpectedDelivery:         ExpectedDelivery(now, status.LeadTimeDays),
		})
	}

	return domain.ReorderPlan{
		Suggestions: suggestions,
		TotalCount:  len(suggestions),
		GeneratedAt: domain.Timestamp(now),
	}
}

// ExpectedDelivery is now plus leadTimeDays whole days, as a UTC calendar date.
func ExpectedDelivery(now time.Time, leadTimeDays int) string {
	return now.UTC().Add(time.Duration(leadTimeDays) * 24 * time.Hour).Format(deliveryDateLayout)
}
