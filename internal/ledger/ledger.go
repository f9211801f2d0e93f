// Package ledger holds the in-memory tabular state and the sale-registration
// transaction. Operations are pure: they take the current state and return
// the next state, so a failed transaction leaves the caller's tables exactly
// as they were.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"tiendafacil/backend/internal/domain"
	"tiendafacil/backend/internal/sku"
	"tiendafacil/backend/internal/textnorm"
	"tiendafacil/backend/internal/xid"
)

var (
	// ErrProductNotFound reports a sale or lookup against a product name
	// that has no exact match in the inventory table.
	ErrProductNotFound = errors.New("product not found")

	ErrInvalidSale = errors.New("invalid sale")
)

// InsufficientStockError carries the available quantity so the operator can
// correct the sale without guessing.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, only %d available", e.Product, e.Requested, e.Available)
}

// State is both tables as loaded from the store. Sales are kept newest
// first.
type State struct {
	Inventory []domain.InventoryRecord
	Sales     []domain.SaleRecord
}

func (s State) clone() State {
	return State{
		Inventory: slices.Clone(s.Inventory),
		Sales:     slices.Clone(s.Sales),
	}
}

// RegisterSale validates a sale against current stock, computes cost and
// profit, prepends the sale record and decrements the inventory quantity.
// Lookup is by exact product name; when duplicate names exist the first
// match wins, which mirrors the sheet's own behavior (name uniqueness is a
// known data-quality gap, not something to paper over here).
func RegisterSale(state State, req domain.SaleRequest, now time.Time) (State, domain.SaleRecord, error) {
	if req.Units < 1 {
		return state, domain.SaleRecord{}, fmt.Errorf("%w: units must be at least 1", ErrInvalidSale)
	}
	if req.CustomerType != domain.CustomerRetail && req.CustomerType != domain.CustomerWholesale {
		return state, domain.SaleRecord{}, fmt.Errorf("%w: unknown customer type %q", ErrInvalidSale, req.CustomerType)
	}

	idx := -1
	for i, rec := range state.Inventory {
		if rec.Name == req.ProductName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return state, domain.SaleRecord{}, fmt.Errorf("%w: %q", ErrProductNotFound, req.ProductName)
	}

	product := state.Inventory[idx]
	if product.Quantity < req.Units {
		return state, domain.SaleRecord{}, &InsufficientStockError{
			Product:   req.ProductName,
			Requested: req.Units,
			Available: product.Quantity,
		}
	}

	totalCost := product.UnitCost * float64(req.Units)
	// No floor on profit: the system surfaces losses, it does not hide them.
	netProfit := req.FinalPrice - totalCost - req.DirectExpenses

	sale := domain.SaleRecord{
		SaleID:         xid.New(),
		Timestamp:      now.Format(domain.SaleTimeLayout),
		SKUSold:        product.SKU,
		ProductSold:    product.Name,
		Units:          req.Units,
		CustomerType:   req.CustomerType,
		FinalPrice:     req.FinalPrice,
		TotalCost:      totalCost,
		DirectExpenses: req.DirectExpenses,
		NetProfit:      netProfit,
		RecordedBy:     req.RecordedBy,
	}

	next := state.clone()
	next.Sales = append([]domain.SaleRecord{sale}, next.Sales...)
	next.Inventory[idx].Quantity -= req.Units

	return next, sale, nil
}

// Search returns every inventory record whose normalized name or SKU
// contains the normalized term. An empty result is a valid outcome, not an
// error.
func Search(inventory []domain.InventoryRecord, term string) []domain.InventoryRecord {
	needle := textnorm.Normalize(term)
	matches := make([]domain.InventoryRecord, 0)
	for _, rec := range inventory {
		if strings.Contains(textnorm.Normalize(rec.Name), needle) ||
			strings.Contains(textnorm.Normalize(rec.SKU), needle) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// DeleteProduct removes every record whose name matches exactly and reports
// how many were removed. Deleting a name that is not present is a no-op.
func DeleteProduct(state State, name string) (State, int) {
	kept := make([]domain.InventoryRecord, 0, len(state.Inventory))
	for _, rec := range state.Inventory {
		if rec.Name != name {
			kept = append(kept, rec)
		}
	}
	removed := len(state.Inventory) - len(kept)
	if removed == 0 {
		return state, 0
	}
	next := state
	next.Inventory = kept
	return next, removed
}

// BulkMerge appends the imported records (assigning fresh product ids and
// generating SKUs for blank ones), then deduplicates by product name keeping
// the last occurrence, so imported rows replace existing rows with the same
// name wholesale. Returns the next state and how many SKUs were generated.
func BulkMerge(state State, imported []domain.InventoryRecord) (State, int) {
	generated := 0
	merged := slices.Clone(state.Inventory)
	for _, rec := range imported {
		rec.ProductID = xid.New()
		if strings.TrimSpace(rec.SKU) == "" {
			rec.SKU = sku.Generate(rec.Name)
			generated++
		}
		merged = append(merged, rec)
	}

	lastByName := make(map[string]int, len(merged))
	for i, rec := range merged {
		lastByName[rec.Name] = i
	}
	deduped := make([]domain.InventoryRecord, 0, len(lastByName))
	for i, rec := range merged {
		if lastByName[rec.Name] == i {
			deduped = append(deduped, rec)
		}
	}

	next := state
	next.Inventory = deduped
	return next, generated
}
