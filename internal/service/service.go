// Package service is the application layer: every mutating operation
// re-reads both tables from the store, applies the ledger transformation,
// and writes both tables back wholesale. That re-read narrows (but does not
// eliminate) the race window against other sessions editing the sheet; the
// store's whole-table overwrite means last writer wins, which is the
// accepted trade-off for this system.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"tiendafacil/backend/internal/domain"
	"tiendafacil/backend/internal/fileio"
	"tiendafacil/backend/internal/ledger"
	"tiendafacil/backend/internal/tablestore"
)

// ErrSaveFailed wraps a store write failure. The in-memory mutation is
// discarded and the operator must be told the save did not happen.
var ErrSaveFailed = errors.New("save failed")

var ErrUnknownOperator = errors.New("unknown operator")

var ErrInvalidPrice = errors.New("final price must be greater than zero")

type Service struct {
	store     tablestore.Store
	log       zerolog.Logger
	operators map[string]bool
	now       func() time.Time
}

func New(store tablestore.Store, logger zerolog.Logger, operators []string) *Service {
	allowed := make(map[string]bool, len(operators))
	for _, op := range operators {
		allowed[op] = true
	}
	return &Service{
		store:     store,
		log:       logger,
		operators: allowed,
		now:       time.Now,
	}
}

// loadState reads both tables fresh. A failed read degrades to an empty,
// correctly-shaped table with a logged warning so downstream logic never
// sees a nil table; the operator notices the empty catalog.
func (s *Service) loadState(ctx context.Context) ledger.State {
	return ledger.State{
		Inventory: ledger.DecodeInventory(s.readRows(ctx, domain.InventoryTable, domain.InventoryColumns)),
		Sales:     ledger.DecodeSales(s.readRows(ctx, domain.SalesTable, domain.SalesColumns)),
	}
}

func (s *Service) readRows(ctx context.Context, table string, columns []string) []map[string]string {
	rows, err := s.store.ReadTable(ctx, table, columns)
	if err != nil {
		s.log.Warn().Err(err).Str("table", table).Msg("table read failed, continuing with empty table")
		return nil
	}
	return rows
}

func (s *Service) saveState(ctx context.Context, state ledger.State) error {
	if err := s.store.WriteTable(ctx, domain.InventoryTable, domain.InventoryColumns, ledger.EncodeInventory(state.Inventory)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrSaveFailed, domain.InventoryTable, err)
	}
	if err := s.store.WriteTable(ctx, domain.SalesTable, domain.SalesColumns, ledger.EncodeSales(state.Sales)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrSaveFailed, domain.SalesTable, err)
	}
	return nil
}

// RegisterSale runs the sale transaction against freshly loaded tables and
// persists both on success.
func (s *Service) RegisterSale(ctx context.Context, req domain.SaleRequest) (domain.SaleResponse, error) {
	if !s.operators[req.RecordedBy] {
		return domain.SaleResponse{}, fmt.Errorf("%w: %q", ErrUnknownOperator, req.RecordedBy)
	}
	if req.FinalPrice <= 0 {
		return domain.SaleResponse{}, ErrInvalidPrice
	}

	state := s.loadState(ctx)
	next, sale, err := ledger.RegisterSale(state, req, s.now())
	if err != nil {
		return domain.SaleResponse{}, err
	}
	if err := s.saveState(ctx, next); err != nil {
		return domain.SaleResponse{}, err
	}

	remaining := 0
	for _, rec := range next.Inventory {
		if rec.Name == req.ProductName {
			remaining = rec.Quantity
			break
		}
	}

	s.log.Info().
		Str("sale_id", sale.SaleID).
		Str("product", sale.ProductSold).
		Int("units", sale.Units).
		Float64("net_profit", sale.NetProfit).
		Str("recorded_by", sale.RecordedBy).
		Msg("sale registered")

	return domain.SaleResponse{Sale: sale, RemainingStock: remaining}, nil
}

// DeleteProduct removes every inventory record with the exact name. Deleting
// a name that is not present is a no-op, not an error.
func (s *Service) DeleteProduct(ctx context.Context, name string) (int, error) {
	state := s.loadState(ctx)
	next, removed := ledger.DeleteProduct(state, name)
	if removed == 0 {
		s.log.Debug().Str("product", name).Msg("delete of absent product, nothing to do")
		return 0, nil
	}
	if err := s.saveState(ctx, next); err != nil {
		return 0, err
	}
	s.log.Info().Str("product", name).Int("removed", removed).Msg("product deleted")
	return removed, nil
}

// ImportInventory parses the upload, merges it into the freshly loaded
// catalog (imported rows win on duplicate names) and persists the result.
func (s *Service) ImportInventory(ctx context.Context, upload io.Reader, filename string) (domain.ImportResult, error) {
	records, err := fileio.ReadInventoryUpload(upload, filename)
	if err != nil {
		return domain.ImportResult{}, err
	}

	state := s.loadState(ctx)
	next, generated := ledger.BulkMerge(state, records)
	if err := s.saveState(ctx, next); err != nil {
		return domain.ImportResult{}, err
	}

	s.log.Info().
		Int("imported", len(records)).
		Int("generated_skus", generated).
		Int("catalog_size", len(next.Inventory)).
		Msg("inventory import merged")

	return domain.ImportResult{
		Imported:      len(records),
		GeneratedSKUs: generated,
		CatalogSize:   len(next.Inventory),
	}, nil
}

func (s *Service) ListInventory(ctx context.Context) []domain.InventoryRecord {
	return s.loadState(ctx).Inventory
}

func (s *Service) SearchInventory(ctx context.Context, term string) []domain.InventoryRecord {
	return ledger.Search(s.loadState(ctx).Inventory, term)
}

// ListSales returns sales newest first; limit 0 means all.
func (s *Service) ListSales(ctx context.Context, limit int) []domain.SaleRecord {
	sales := s.loadState(ctx).Sales
	if limit > 0 && limit < len(sales) {
		sales = sales[:limit]
	}
	return sales
}

// SalesReport accumulates net profit across the full sales table and
// includes the 20 most recent sales.
func (s *Service) SalesReport(ctx context.Context) domain.SalesReport {
	sales := s.loadState(ctx).Sales
	total := 0.0
	for _, sale := range sales {
		total += sale.NetProfit
	}
	recent := sales
	if len(recent) > 20 {
		recent = recent[:20]
	}
	return domain.SalesReport{
		TotalNetProfit: total,
		SaleCount:      len(sales),
		Recent:         recent,
	}
}

// ExportSales returns the sales table as ordered columns and cells, ready
// for a spreadsheet export.
func (s *Service) ExportSales(ctx context.Context) ([]string, [][]string) {
	rows := ledger.EncodeSales(s.loadState(ctx).Sales)
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = tablestore.RowValues(row, domain.SalesColumns)
	}
	return domain.SalesColumns, cells
}
