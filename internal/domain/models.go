// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// seasonalFactor is rendered as a JSON number, matching the dataset files.
	decimal.MarshalJSONWithoutQuotes = true
}

// StockRecord is the current on-hand observation for a product
type StockRecord struct {
	ID           string    `json:"id" yaml:"id" db:"id" validate:"required"`
	Name         string    `json:"name" yaml:"name" db:"name"`
	Category     string    `json:"category" yaml:"category" db:"category"`
	CurrentStock int       `json:"currentStock" yaml:"currentStock" db:"current_stock" validate:"min=0"`
	Unit         string    `json:"unit" yaml:"unit" db:"unit"`
	LastUpdated  time.Time `json:"lastUpdated" yaml:"lastUpdated" db:"last_updated"`
	Location     string    `json:"location" yaml:"location" db:"location"`
}

// PolicyRecord is the optimal-inventory policy for a product.
// minStock <= optimalStock <= maxStock is expected but not enforced.
type PolicyRecord struct {
	ID              string          `json:"id" yaml:"id" db:"id" validate:"required"`
	Name            string          `json:"name" yaml:"name" db:"name"`
	MinStock        int             `json:"minStock" yaml:"minStock" db:"min_stock" validate:"min=0"`
	MaxStock        int             `json:"maxStock" yaml:"maxStock" db:"max_stock" validate:"min=0"`
	OptimalStock    int             `json:"optimalStock" yaml:"optimalStock" db:"optimal_stock" validate:"min=0"`
	ReorderPoint    int             `json:"reorderPoint" yaml:"reorderPoint" db:"reorder_point"`
	ReorderQuantity int             `json:"reorderQuantity" yaml:"reorderQuantity" db:"reorder_quantity"`
	LeadTimeDays    int             `json:"leadTimeDays" yaml:"leadTimeDays" db:"lead_time_days" validate:"min=0"`
	SeasonalFactor  decimal.Decimal `json:"seasonalFactor" yaml:"seasonalFactor" db:"seasonal_factor"`
}

// EvaluatedStatus joins a StockRecord and its PolicyRecord with the derived
// stock health fields. Where both records carry the same key (id, name) the
// policy value is used.
type EvaluatedStatus struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	CurrentStock     int             `json:"currentStock"`
	Unit             string          `json:"unit"`
	LastUpdated      time.Time       `json:"lastUpdated"`
	Location         string          `json:"location"`
	MinStock         int             `json:"minStock"`
	MaxStock         int             `json:"maxStock"`
	OptimalStock     int             `json:"optimalStock"`
	ReorderPoint     int             `json:"reorderPoint"`
	ReorderQuantity  int             `json:"reorderQuantity"`
	LeadTimeDays     int             `json:"leadTimeDays"`
	SeasonalFactor   decimal.Decimal `json:"seasonalFactor"`
	Status           StockStatus     `json:"status"`
	Alerts           []string        `json:"alerts"`
	StockDifference  int             `json:"stockDifference"`
	StockUtilization string          `json:"stockUtilization"`
}

// ReorderSuggestion is a single purchase recommendation
type ReorderSuggestion struct {
	ProductID                string  `json:"productId"`
	ProductName              string  `json:"productName"`
	CurrentStock             int     `json:"currentStock"`
	ReorderPoint             int     `json:"reorderPoint"`
	RecommendedOrderQuantity int     `json:"recommendedOrderQuantity"`
	Urgency                  Urgency `json:"urgency"`
	ExpectedDelivery         string  `json:"expectedDelivery"` // YYYY-MM-DD
}

// ReorderPlan is the result of one planning pass over every known product
type ReorderPlan struct {
	Suggestions []ReorderSuggestion `json:"reorderSuggestions"`
	TotalCount  int                 `json:"totalItemsNeedingReorder"`
	GeneratedAt Timestamp           `json:"generatedAt"`
}

// Dataset is the transport shape every data source produces.
// Slice order is the insertion order of the mappings.
type Dataset struct {
	Current []StockRecord  `json:"current" yaml:"current" validate:"dive"`
	Optimal []PolicyRecord `json:"optimal" yaml:"optimal" validate:"dive"`
}

// Timestamp renders as UTC with millisecond precision, e.g. 2024-06-13T10:00:00.000Z
type Timestamp time.Time

const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var parsed time.Time
	if err := parsed.UnmarshalJSON(b); err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}
