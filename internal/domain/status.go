package domain

// StockStatus classifies a product's stock health
type StockStatus string

const (
	StatusNormal        StockStatus = "normal"
	StatusReorderNeeded StockStatus = "reorder_needed"
	StatusLowStock      StockStatus = "low_stock"
	StatusOverstock     StockStatus = "overstock"
)

// Urgency of a reorder suggestion
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
)

var statusAlerts = map[StockStatus]string{
	StatusReorderNeeded: "reorder needed",
	StatusLowStock:      "stock is low",
	StatusOverstock:     "stock is excessive",
}

// StatusAlert returns the alert text for a status, or "" when the status raises none.
func StatusAlert(status StockStatus) string {
	return statusAlerts[status]
}

// NeedsReorder reports whether the status qualifies for a reorder suggestion.
func (s StockStatus) NeedsReorder() bool {
	return s == StatusReorderNeeded || s == StatusLowStock
}

// Urgency maps a reorder-qualifying status to its urgency.
func (s StockStatus) Urgency() Urgency {
	if s == StatusReorderNeeded {
		return UrgencyHigh
	}

	return UrgencyMedium
}
