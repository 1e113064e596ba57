package inventory

import (
	"fmt"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/repository"
)

// Classify applies the stock health priority chain. The first matching rule
// wins; reorder_needed must be checked before low_stock.
func Classify(currentStock int, policy domain.PolicyRecord) domain.StockStatus {
	switch {
	case currentStock <= policy.ReorderPoint:
		return domain.StatusReorderNeeded
	case currentStock < policy.MinStock:
		return domain.StatusLowStock
	case currentStock > policy.MaxStock:
		return domain.StatusOverstock
	default:
		return domain.StatusNormal
	}
}

// Evaluate joins the stock and policy records for productID and computes its
// stock health. Both records must exist.
func Evaluate(store repository.RecordStore, productID string) (domain.EvaluatedStatus, error) {
	stock, err := store.GetStock(productID)
	if err != nil {
		return domain.EvaluatedStatus{}, err
	}
	policy, err := store.GetPolicy(productID)
	if err != nil {
		return domain.EvaluatedStatus{}, err
	}

	return Join(stock, policy)
}

// Join computes the EvaluatedStatus for an already-matched pair of records.
func Join(stock domain.StockRecord, policy domain.PolicyRecord) (domain.EvaluatedStatus, error) {
	utilization, err := stockUtilization(stock.CurrentStock, policy.MaxStock)
	if err != nil {
		return domain.EvaluatedStatus{}, fmt.Errorf("product %q: %w", stock.ID, err)
	}

	status := Classify(stock.CurrentStock, policy)
	alerts := make([]string, 0, 1)
	if alert := domain.StatusAlert(status); alert != "" {
		alerts = append(alerts, alert)
	}

	return domain.EvaluatedStatus{
		ID:               policy.ID,
		Name:             policy.Name,
		Category:         stock.Category,
		CurrentStock:     stock.CurrentStock,
		Unit:             stock.Unit,
		LastUpdated:      stock.LastUpdated,
		Location:         stock.Location,
		MinStock:         policy.MinStock,
		MaxStock:         policy.MaxStock,
		OptimalStock:     policy.OptimalStock,
		ReorderPoint:     policy.ReorderPoint,
		ReorderQuantity:  policy.ReorderQuantity,
		LeadTimeDays:     policy.LeadTimeDays,
		SeasonalFactor:   policy.SeasonalFactor,
		Status:           status,
		Alerts:           alerts,
		StockDifference:  stock.CurrentStock - policy.OptimalStock,
		StockUtilization: utilization,
	}, nil
}
