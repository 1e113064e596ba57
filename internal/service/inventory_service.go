package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/inventory"
	"github.com/andresuchdata/inventory-manager/internal/metrics"
	"github.com/andresuchdata/inventory-manager/internal/repository"
	"github.com/andresuchdata/inventory-manager/pkg/logger"
)

// ToolResult is the outcome of one tool invocation. Lookups that find nothing
// are reported as plain text with IsError unset.
type ToolResult struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError"`
}

type toolHandler func(s *InventoryService, productID string) (any, error)

type toolBinding struct {
	handle   toolHandler
	takesID  bool
	notFound string
}

var bindings = map[string]toolBinding{
	ToolCurrentInventory: {
		takesID:  true,
		notFound: `product ID "%s" was not found.`,
		handle: func(s *InventoryService, id string) (any, error) {
			if id == "" {
				return s.ListCurrentStock(), nil
			}
			return s.GetCurrentStock(id)
		},
	},
	ToolOptimalInventory: {
		takesID:  true,
		notFound: `optimal inventory data for product ID "%s" was not found.`,
		handle: func(s *InventoryService, id string) (any, error) {
			if id == "" {
				return s.ListPolicies(), nil
			}
			return s.GetPolicy(id)
		},
	},
	ToolInventoryStatus: {
		takesID:  true,
		notFound: `data for product ID "%s" was not found.`,
		handle: func(s *InventoryService, id string) (any, error) {
			if id == "" {
				return s.ListStatuses(), nil
			}
			return s.GetStatus(id)
		},
	},
	ToolReorderSuggestions: {
		handle: func(s *InventoryService, _ string) (any, error) {
			return s.ReorderSuggestions(), nil
		},
	},
}

// InventoryService answers inventory queries against a record store.
type InventoryService struct {
	store   repository.RecordStore
	planner *inventory.Planner
}

func NewInventoryService(store repository.RecordStore, planner *inventory.Planner) *InventoryService {
	if planner == nil {
		planner = inventory.NewPlanner()
	}
	return &InventoryService{store: store, planner: planner}
}

// snapshot pins one consistent view of the store for a multi-record pass.
func (s *InventoryService) snapshot() repository.RecordStore {
	if snap, ok := s.store.(repository.Snapshotter); ok {
		return snap.Snapshot()
	}
	return s.store
}

func (s *InventoryService) GetCurrentStock(productID string) (domain.StockRecord, error) {
	return s.store.GetStock(productID)
}

// ListCurrentStock returns every stock record keyed by id, in insertion order.
func (s *InventoryService) ListCurrentStock() *domain.OrderedMap[domain.StockRecord] {
	records := s.snapshot().ListStock()
	out := domain.NewOrderedMap[domain.StockRecord](len(records))
	for _, rec := range records {
		out.Set(rec.ID, rec)
	}
	return out
}

func (s *InventoryService) GetPolicy(productID string) (domain.PolicyRecord, error) {
	return s.store.GetPolicy(productID)
}

// ListPolicies returns every policy record keyed by id, in insertion order.
func (s *InventoryService) ListPolicies() *domain.OrderedMap[domain.PolicyRecord] {
	records := s.snapshot().ListPolicies()
	out := domain.NewOrderedMap[domain.PolicyRecord](len(records))
	for _, rec := range records {
		out.Set(rec.ID, rec)
	}
	return out
}

func (s *InventoryService) GetStatus(productID string) (domain.EvaluatedStatus, error) {
	return inventory.Evaluate(s.snapshot(), productID)
}

// ListStatuses evaluates every product in the current-stock mapping. Products
// that cannot be evaluated are left out.
func (s *InventoryService) ListStatuses() *domain.OrderedMap[domain.EvaluatedStatus] {
	store := s.snapshot()
	ids := store.ProductIDs()
	out := domain.NewOrderedMap[domain.EvaluatedStatus](len(ids))

	for _, id := range ids {
		status, err := inventory.Evaluate(store, id)
		if err != nil {
			logger.Log.Warn().Err(err).Str("product_id", id).Msg("inventory status: skipping product")
			continue
		}
		out.Set(id, status)
	}
	return out
}

func (s *InventoryService) ReorderSuggestions() domain.ReorderPlan {
	return s.planner.Plan(s.store)
}

// Dispatch runs the named tool. It never panics and never returns a Go error;
// failures are reported through ToolResult.IsError.
func (s *InventoryService) Dispatch(ctx context.Context, name string, args map[string]any) (result ToolResult) {
	started := time.Now()
	requestID := RequestID(ctx)
	outcome := metrics.OutcomeOK
	metricTool := name

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().
				Str("request_id", requestID).
				Str("tool", name).
				Interface("panic", r).
				Msg("tool call panicked")
			result = errorResult(fmt.Sprintf("%v", r))
		}
		if result.IsError {
			outcome = metrics.OutcomeError
		}
		metrics.ObserveToolCall(metricTool, outcome, started)

		logger.Log.Info().
			Str("request_id", requestID).
			Str("tool", name).
			Str("outcome", outcome).
			Dur("latency", time.Since(started)).
			Msg("tool call")
	}()

	binding, ok := bindings[name]
	if !ok {
		metricTool = "unknown"
		return ToolResult{Text: "unknown tool: " + name, IsError: true}
	}

	var productID string
	if binding.takesID {
		id, err := productIDArg(args)
		if err != nil {
			return errorResult(err.Error())
		}
		productID = id
	}

	payload, err := binding.handle(s, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && productID != "" {
			outcome = metrics.OutcomeNotFound
			return ToolResult{Text: fmt.Sprintf(binding.notFound, productID)}
		}
		return errorResult(err.Error())
	}

	text, err := encodeJSON(payload)
	if err != nil {
		return errorResult(err.Error())
	}
	return ToolResult{Text: text}
}

func errorResult(message string) ToolResult {
	return ToolResult{Text: "an error occurred: " + message, IsError: true}
}

// productIDArg reads the optional productId argument. Absent, null and empty
// all select every product.
func productIDArg(args map[string]any) (string, error) {
	raw, ok := args[ArgProductID]
	if !ok || raw == nil {
		return "", nil
	}
	id, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", domain.ErrInvalidOperation, ArgProductID, raw)
	}
	return id, nil
}

// encodeJSON renders v with two-space indentation and no HTML escaping.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
