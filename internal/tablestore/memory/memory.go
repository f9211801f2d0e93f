// Package memory is the in-process table store used for tests and for
// running the backend without any external backing sheet.
package memory

import (
	"context"
	"sync"

	"tiendafacil/backend/internal/domain"
	"tiendafacil/backend/internal/tablestore"
)

type Store struct {
	mu     sync.RWMutex
	tables map[string][]map[string]string
}

func New() *Store {
	return &Store{tables: make(map[string][]map[string]string)}
}

// NewSeeded returns a store preloaded with a small demo catalog, so the
// backend is usable out of the box in dev mode.
func NewSeeded() *Store {
	s := New()
	s.tables[domain.InventoryTable] = []map[string]string{
		{
			"ID_PRODUCTO": "a1b2c3d4", "CODIGO_SKU": "LAM12-X4Q",
			"NOMBRE_PRODUCTO": "Lámpara LED 12V", "CANTIDAD_ACTUAL": "10",
			"COSTO_UNITARIO": "3.500", "PRECIO_BASE": "5.000", "PRECIO_PUBLICO": "6.500",
			"UBICACION_FISICA": "Estante A1",
		},
		{
			"ID_PRODUCTO": "e5f6a7b8", "CODIGO_SKU": "CAB5-R2D",
			"NOMBRE_PRODUCTO": "Cable USB 5m", "CANTIDAD_ACTUAL": "24",
			"COSTO_UNITARIO": "1.200", "PRECIO_BASE": "1.800", "PRECIO_PUBLICO": "2.500",
			"UBICACION_FISICA": "Cajón B2",
		},
		{
			"ID_PRODUCTO": "c9d0e1f2", "CODIGO_SKU": "PIL-9K1",
			"NOMBRE_PRODUCTO": "Pilas AA x4", "CANTIDAD_ACTUAL": "40",
			"COSTO_UNITARIO": "800", "PRECIO_BASE": "1.200", "PRECIO_PUBLICO": "1.500",
			"UBICACION_FISICA": "Mostrador",
		},
	}
	s.tables[domain.SalesTable] = nil
	return s
}

func (s *Store) ReadTable(_ context.Context, name string, columns []string) ([]map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tablestore.ShapeRows(s.tables[name], columns), nil
}

func (s *Store) WriteTable(_ context.Context, name string, columns []string, rows []map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = tablestore.ShapeRows(rows, columns)
	return nil
}
