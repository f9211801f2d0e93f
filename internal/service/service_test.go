package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tiendafacil/backend/internal/domain"
	"tiendafacil/backend/internal/ledger"
	"tiendafacil/backend/internal/tablestore"
	"tiendafacil/backend/internal/tablestore/memory"
)

var testOperators = []string{"Martin", "Amanda"}

func newTestService(store tablestore.Store) *Service {
	svc := New(store, zerolog.Nop(), testOperators)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)
	}
	return svc
}

type failWriteStore struct {
	inner tablestore.Store
}

func (s *failWriteStore) ReadTable(ctx context.Context, name string, columns []string) ([]map[string]string, error) {
	return s.inner.ReadTable(ctx, name, columns)
}

func (s *failWriteStore) WriteTable(context.Context, string, []string, []map[string]string) error {
	return errors.New("sheet unavailable")
}

type failReadStore struct{}

func (failReadStore) ReadTable(context.Context, string, []string) ([]map[string]string, error) {
	return nil, errors.New("backend offline")
}

func (failReadStore) WriteTable(context.Context, string, []string, []map[string]string) error {
	return errors.New("backend offline")
}

func TestRegisterSalePersists(t *testing.T) {
	svc := newTestService(memory.NewSeeded())
	ctx := context.Background()

	resp, err := svc.RegisterSale(ctx, domain.SaleRequest{
		ProductName:    "Lámpara LED 12V",
		Units:          2,
		CustomerType:   domain.CustomerRetail,
		FinalPrice:     13000,
		DirectExpenses: 500,
		RecordedBy:     "Martin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.RemainingStock != 8 {
		t.Errorf("remaining stock = %d, want 8", resp.RemainingStock)
	}
	if resp.Sale.TotalCost != 7000 {
		t.Errorf("total cost = %v, want 7000", resp.Sale.TotalCost)
	}
	if resp.Sale.NetProfit != 5500 {
		t.Errorf("net profit = %v, want 5500", resp.Sale.NetProfit)
	}
	if resp.Sale.Timestamp != "2025-06-01 10:30:00" {
		t.Errorf("timestamp = %q", resp.Sale.Timestamp)
	}

	sales := svc.ListSales(ctx, 0)
	if len(sales) != 1 || sales[0].SaleID != resp.Sale.SaleID {
		t.Errorf("sale not persisted: %+v", sales)
	}

	report := svc.SalesReport(ctx)
	if report.TotalNetProfit != 5500 || report.SaleCount != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestRegisterSaleRejections(t *testing.T) {
	svc := newTestService(memory.NewSeeded())
	ctx := context.Background()
	base := domain.SaleRequest{
		ProductName:  "Lámpara LED 12V",
		Units:        1,
		CustomerType: domain.CustomerRetail,
		FinalPrice:   6500,
		RecordedBy:   "Martin",
	}

	badOperator := base
	badOperator.RecordedBy = "Nadie"
	if _, err := svc.RegisterSale(ctx, badOperator); !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}

	freePrice := base
	freePrice.FinalPrice = 0
	if _, err := svc.RegisterSale(ctx, freePrice); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}

	badProduct := base
	badProduct.ProductName = "No existe"
	if _, err := svc.RegisterSale(ctx, badProduct); !errors.Is(err, ledger.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestSaveFailureAbortsSale(t *testing.T) {
	inner := memory.NewSeeded()
	svc := newTestService(&failWriteStore{inner: inner})
	ctx := context.Background()

	_, err := svc.RegisterSale(ctx, domain.SaleRequest{
		ProductName:  "Lámpara LED 12V",
		Units:        1,
		CustomerType: domain.CustomerRetail,
		FinalPrice:   6500,
		RecordedBy:   "Martin",
	})
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("expected ErrSaveFailed, got %v", err)
	}

	// The backing store kept its original quantities.
	check := newTestService(inner)
	for _, rec := range check.ListInventory(ctx) {
		if rec.Name == "Lámpara LED 12V" && rec.Quantity != 10 {
			t.Errorf("aborted sale changed stored stock: %d", rec.Quantity)
		}
	}
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	svc := newTestService(failReadStore{})
	ctx := context.Background()

	if got := svc.ListInventory(ctx); len(got) != 0 {
		t.Errorf("expected empty inventory, got %+v", got)
	}
	_, err := svc.RegisterSale(ctx, domain.SaleRequest{
		ProductName:  "Lámpara LED 12V",
		Units:        1,
		CustomerType: domain.CustomerRetail,
		FinalPrice:   6500,
		RecordedBy:   "Martin",
	})
	if !errors.Is(err, ledger.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound against empty catalog, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService(memory.NewSeeded())
	ctx := context.Background()

	removed, err := svc.DeleteProduct(ctx, "Cable USB 5m")
	if err != nil || removed != 1 {
		t.Fatalf("delete = (%d, %v), want (1, nil)", removed, err)
	}
	if got := svc.ListInventory(ctx); len(got) != 2 {
		t.Errorf("catalog size after delete = %d, want 2", len(got))
	}

	// Absent name: no-op, and crucially no write is attempted.
	failing := newTestService(&failWriteStore{inner: memory.NewSeeded()})
	removed, err = failing.DeleteProduct(ctx, "No existe")
	if err != nil || removed != 0 {
		t.Errorf("absent delete = (%d, %v), want (0, nil)", removed, err)
	}
}

func TestImportInventory(t *testing.T) {
	svc := newTestService(memory.NewSeeded())
	ctx := context.Background()

	csv := "CODIGO_SKU,NOMBRE_PRODUCTO,CANTIDAD_ACTUAL,COSTO_UNITARIO,PRECIO_BASE,PRECIO_PUBLICO,UBICACION_FISICA\n" +
		",Cable USB 5m,50,1000,1500,2000,B2\n" +
		",Linterna,12,2000,3000,4000,C1\n"

	result, err := svc.ImportInventory(ctx, strings.NewReader(csv), "stock.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Imported != 2 || result.GeneratedSKUs != 2 {
		t.Errorf("result = %+v", result)
	}
	if result.CatalogSize != 4 {
		t.Errorf("catalog size = %d, want 4 (one replaced, one added)", result.CatalogSize)
	}

	for _, rec := range svc.ListInventory(ctx) {
		if rec.Name == "Cable USB 5m" && rec.Quantity != 50 {
			t.Errorf("imported row did not replace existing: %+v", rec)
		}
	}
}

func TestSearchInventory(t *testing.T) {
	svc := newTestService(memory.NewSeeded())
	got := svc.SearchInventory(context.Background(), "lampara")
	if len(got) != 1 || got[0].Name != "Lámpara LED 12V" {
		t.Errorf("search = %+v", got)
	}
}

func TestListSalesLimit(t *testing.T) {
	svc := newTestService(memory.NewSeeded())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.RegisterSale(ctx, domain.SaleRequest{
			ProductName:  "Pilas AA x4",
			Units:        1,
			CustomerType: domain.CustomerRetail,
			FinalPrice:   1500,
			RecordedBy:   "Amanda",
		}); err != nil {
			t.Fatalf("sale %d: %v", i, err)
		}
	}

	if got := svc.ListSales(ctx, 2); len(got) != 2 {
		t.Errorf("limited list = %d sales, want 2", len(got))
	}
	if got := svc.ListSales(ctx, 0); len(got) != 3 {
		t.Errorf("unlimited list = %d sales, want 3", len(got))
	}
}

func TestExportSales(t *testing.T) {
	svc := newTestService(memory.NewSeeded())
	ctx := context.Background()

	if _, err := svc.RegisterSale(ctx, domain.SaleRequest{
		ProductName:  "Cable USB 5m",
		Units:        2,
		CustomerType: domain.CustomerWholesale,
		FinalPrice:   3600,
		RecordedBy:   "Martin",
	}); err != nil {
		t.Fatalf("sale: %v", err)
	}

	columns, rows := svc.ExportSales(ctx)
	if len(columns) != len(domain.SalesColumns) {
		t.Fatalf("columns = %v", columns)
	}
	if len(rows) != 1 || len(rows[0]) != len(columns) {
		t.Fatalf("rows = %+v", rows)
	}
}
