package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/inventory"
	"github.com/andresuchdata/inventory-manager/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 13, 12, 0, 0, 0, time.UTC)

func fixtureDataset() *domain.Dataset {
	updated := time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC)
	return &domain.Dataset{
		Current: []domain.StockRecord{
			{ID: "product_003", Name: "Product C", Category: "food", CurrentStock: 8, Unit: "box", LastUpdated: updated, Location: "C-1-1"},
			{ID: "product_001", Name: "Product A", Category: "electronics", CurrentStock: 25, Unit: "pcs", LastUpdated: updated, Location: "A-1-2"},
			{ID: "product_009", Name: "Stock only", CurrentStock: 5, LastUpdated: updated},
			{ID: "product_010", Name: "Zero max", CurrentStock: 5, LastUpdated: updated},
			{ID: "product_011", Name: "Healthy <&>", CurrentStock: 60, LastUpdated: updated},
		},
		Optimal: []domain.PolicyRecord{
			{ID: "product_001", Name: "Product A", MinStock: 20, MaxStock: 100, OptimalStock: 50, ReorderPoint: 30, ReorderQuantity: 50, LeadTimeDays: 7, SeasonalFactor: decimal.RequireFromString("1.2")},
			{ID: "product_003", Name: "Product C", MinStock: 10, MaxStock: 50, OptimalStock: 25, ReorderPoint: 15, ReorderQuantity: 30, LeadTimeDays: 3, SeasonalFactor: decimal.NewFromInt(1)},
			{ID: "product_010", Name: "Zero max", MinStock: 0, MaxStock: 0, OptimalStock: 0, ReorderPoint: 0},
			{ID: "product_011", Name: "Healthy <&>", MinStock: 10, MaxStock: 100, OptimalStock: 50, ReorderPoint: 20},
			{ID: "product_020", Name: "Policy only", MinStock: 1, MaxStock: 10, OptimalStock: 5},
		},
	}
}

func newTestService() *InventoryService {
	store := repository.NewMemoryStore(fixtureDataset())
	return NewInventoryService(store, inventory.NewPlannerWithClock(func() time.Time { return fixedNow }))
}

func keysInOrder(t *testing.T, text string) []string {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(text))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func TestDispatchCurrentInventory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res := svc.Dispatch(ctx, ToolCurrentInventory, map[string]any{ArgProductID: "product_003"})
	require.False(t, res.IsError)

	var rec domain.StockRecord
	require.NoError(t, json.Unmarshal([]byte(res.Text), &rec))
	assert.Equal(t, 8, rec.CurrentStock)
	assert.Contains(t, res.Text, "\n  \"id\": \"product_003\"", "two-space indentation")

	res = svc.Dispatch(ctx, ToolCurrentInventory, nil)
	require.False(t, res.IsError)
	assert.Equal(t, []string{"product_003", "product_001", "product_009", "product_010", "product_011"}, keysInOrder(t, res.Text))
	assert.Contains(t, res.Text, "Healthy <&>", "no HTML escaping")

	res = svc.Dispatch(ctx, ToolCurrentInventory, map[string]any{ArgProductID: ""})
	require.False(t, res.IsError)
	assert.Len(t, keysInOrder(t, res.Text), 5, "empty id selects all products")
}

func TestDispatchNotFoundMessages(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		tool string
		id   string
		want string
	}{
		{ToolCurrentInventory, "nope", `product ID "nope" was not found.`},
		{ToolOptimalInventory, "product_009", `optimal inventory data for product ID "product_009" was not found.`},
		{ToolInventoryStatus, "product_009", `data for product ID "product_009" was not found.`},
		{ToolInventoryStatus, "product_020", `data for product ID "product_020" was not found.`},
	}
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.id, func(t *testing.T) {
			res := svc.Dispatch(ctx, tt.tool, map[string]any{ArgProductID: tt.id})
			assert.False(t, res.IsError)
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestDispatchOptimalInventory(t *testing.T) {
	svc := newTestService()

	res := svc.Dispatch(context.Background(), ToolOptimalInventory, map[string]any{})
	require.False(t, res.IsError)
	assert.Equal(t, []string{"product_001", "product_003", "product_010", "product_011", "product_020"}, keysInOrder(t, res.Text))
	assert.Contains(t, res.Text, `"seasonalFactor": 1.2`)
}

func TestDispatchInventoryStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res := svc.Dispatch(ctx, ToolInventoryStatus, map[string]any{ArgProductID: "product_003"})
	require.False(t, res.IsError)

	var status domain.EvaluatedStatus
	require.NoError(t, json.Unmarshal([]byte(res.Text), &status))
	assert.Equal(t, domain.StatusReorderNeeded, status.Status)
	assert.Equal(t, []string{"reorder needed"}, status.Alerts)
	assert.Equal(t, -17, status.StockDifference)
	assert.Equal(t, "16.0%", status.StockUtilization)

	res = svc.Dispatch(ctx, ToolInventoryStatus, nil)
	require.False(t, res.IsError)
	// product_009 has no policy and product_010 cannot compute utilization.
	assert.Equal(t, []string{"product_003", "product_001", "product_011"}, keysInOrder(t, res.Text))
	assert.Contains(t, res.Text, `"alerts": []`)

	res = svc.Dispatch(ctx, ToolInventoryStatus, map[string]any{ArgProductID: "product_010"})
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(res.Text, "an error occurred: "))
	assert.Contains(t, res.Text, "product_010")
}

func TestDispatchReorderSuggestions(t *testing.T) {
	svc := newTestService()

	res := svc.Dispatch(context.Background(), ToolReorderSuggestions, map[string]any{ArgProductID: 42})
	require.False(t, res.IsError, "arguments are ignored")

	var plan struct {
		Suggestions []domain.ReorderSuggestion `json:"reorderSuggestions"`
		Total       int                        `json:"totalItemsNeedingReorder"`
		GeneratedAt string                     `json:"generatedAt"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Text), &plan))

	require.Len(t, plan.Suggestions, 2)
	assert.Equal(t, 2, plan.Total)
	assert.Equal(t, "2024-06-13T12:00:00.000Z", plan.GeneratedAt)

	first := plan.Suggestions[0]
	assert.Equal(t, "product_003", first.ProductID)
	assert.Equal(t, domain.UrgencyHigh, first.Urgency)
	assert.Equal(t, 30, first.RecommendedOrderQuantity)
	assert.Equal(t, "2024-06-16", first.ExpectedDelivery)

	assert.Equal(t, "product_001", plan.Suggestions[1].ProductID)
	assert.Equal(t, "2024-06-20", plan.Suggestions[1].ExpectedDelivery)
}

func TestDispatchErrors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res := svc.Dispatch(ctx, "delete_everything", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, "unknown tool: delete_everything", res.Text)

	res = svc.Dispatch(ctx, ToolCurrentInventory, map[string]any{ArgProductID: 7})
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(res.Text, "an error occurred: "))
	assert.Contains(t, res.Text, "must be a string")
}

func TestProductIDArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    string
		wantErr bool
	}{
		{"nil args", nil, "", false},
		{"absent", map[string]any{}, "", false},
		{"null", map[string]any{ArgProductID: nil}, "", false},
		{"empty", map[string]any{ArgProductID: ""}, "", false},
		{"id", map[string]any{ArgProductID: "product_001"}, "product_001", false},
		{"number", map[string]any{ArgProductID: 1.5}, "", true},
		{"object", map[string]any{ArgProductID: map[string]any{}}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := productIDArg(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidOperation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type panickingStore struct {
	repository.RecordStore
}

func (panickingStore) GetStock(id string) (domain.StockRecord, error) {
	panic("store exploded")
}

func TestDispatchRecoversPanics(t *testing.T) {
	svc := NewInventoryService(panickingStore{repository.NewMemoryStore(nil)}, nil)

	var res ToolResult
	require.NotPanics(t, func() {
		res = svc.Dispatch(WithRequestID(context.Background(), "req-1"), ToolCurrentInventory, map[string]any{ArgProductID: "x"})
	})
	assert.True(t, res.IsError)
	assert.Equal(t, "an error occurred: store exploded", res.Text)
}

func TestEmptyStore(t *testing.T) {
	svc := NewInventoryService(repository.NewMemoryStore(nil), nil)
	ctx := context.Background()

	for _, tool := range []string{ToolCurrentInventory, ToolOptimalInventory, ToolInventoryStatus} {
		res := svc.Dispatch(ctx, tool, nil)
		assert.False(t, res.IsError)
		assert.Equal(t, "{}", res.Text, tool)
	}

	res := svc.Dispatch(ctx, ToolReorderSuggestions, nil)
	assert.Contains(t, res.Text, `"reorderSuggestions": []`)
	assert.Contains(t, res.Text, `"totalItemsNeedingReorder": 0`)
}

func TestTypedOperations(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetCurrentStock("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetStatus("product_010")
	assert.ErrorIs(t, err, domain.ErrComputation)

	out, err := json.Marshal(svc.ListStatuses())
	require.NoError(t, err)
	var statuses map[string]domain.EvaluatedStatus
	require.NoError(t, json.Unmarshal(out, &statuses))
	assert.Len(t, statuses, 3)
	assert.Equal(t, domain.StatusNormal, statuses["product_011"].Status)
}

func TestToolsCatalog(t *testing.T) {
	tools := Tools()
	require.Len(t, tools, 4)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.Equal(t, "object", tool.InputSchema.Type)
	}
	assert.Equal(t, []string{ToolCurrentInventory, ToolOptimalInventory, ToolInventoryStatus, ToolReorderSuggestions}, names)
	assert.Contains(t, tools[0].InputSchema.Properties, ArgProductID)
	assert.Empty(t, tools[3].InputSchema.Properties)

	tools[0].Name = "mutated"
	assert.Equal(t, ToolCurrentInventory, Tools()[0].Name)
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "abc", RequestID(WithRequestID(context.Background(), "abc")))

	a, b := RequestID(context.Background()), RequestID(context.Background())
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
