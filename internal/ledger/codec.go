package ledger

import (
	"strconv"

	"tiendafacil/backend/internal/domain"
	"tiendafacil/backend/internal/price"
)

// The codec is the store-adapter boundary: rows come in as strings and are
// coerced to typed records here, leniently, so a hand-edited cell never
// crashes a session. Going out, amounts are rendered so they round-trip
// through price.Parse.

func DecodeInventory(rows []map[string]string) []domain.InventoryRecord {
	records := make([]domain.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.InventoryRecord{
			ProductID:   row["ID_PRODUCTO"],
			SKU:         row["CODIGO_SKU"],
			Name:        row["NOMBRE_PRODUCTO"],
			Quantity:    lenientInt(row["CANTIDAD_ACTUAL"]),
			UnitCost:    price.Parse(row["COSTO_UNITARIO"]),
			BasePrice:   price.Parse(row["PRECIO_BASE"]),
			PublicPrice: price.Parse(row["PRECIO_PUBLICO"]),
			Location:    row["UBICACION_FISICA"],
		})
	}
	return records
}

func EncodeInventory(records []domain.InventoryRecord) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]string{
			"ID_PRODUCTO":      rec.ProductID,
			"CODIGO_SKU":       rec.SKU,
			"NOMBRE_PRODUCTO":  rec.Name,
			"CANTIDAD_ACTUAL":  strconv.Itoa(rec.Quantity),
			"COSTO_UNITARIO":   price.Format(rec.UnitCost),
			"PRECIO_BASE":      price.Format(rec.BasePrice),
			"PRECIO_PUBLICO":   price.Format(rec.PublicPrice),
			"UBICACION_FISICA": rec.Location,
		})
	}
	return rows
}

func DecodeSales(rows []map[string]string) []domain.SaleRecord {
	records := make([]domain.SaleRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.SaleRecord{
			SaleID:         row["ID_VENTA"],
			Timestamp:      row["FECHA_HORA"],
			SKUSold:        row["CODIGO_SKU_VENDIDO"],
			ProductSold:    row["NOMBRE_PRODUCTO_VENDIDO"],
			Units:          lenientInt(row["CANTIDAD_UNIDADES"]),
			CustomerType:   row["TIPO_CLIENTE"],
			FinalPrice:     price.Parse(row["PRECIO_VENTA_FINAL"]),
			TotalCost:      price.Parse(row["COSTO_DEL_PRODUCTO_TOTAL"]),
			DirectExpenses: price.Parse(row["GASTOS_DIRECTOS_VIAJE"]),
			NetProfit:      price.Parse(row["GANANCIA_NETA"]),
			RecordedBy:     row["VENDEDOR_REGISTRA"],
		})
	}
	return records
}

func EncodeSales(records []domain.SaleRecord) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]string{
			"ID_VENTA":                 rec.SaleID,
			"FECHA_HORA":               rec.Timestamp,
			"CODIGO_SKU_VENDIDO":       rec.SKUSold,
			"NOMBRE_PRODUCTO_VENDIDO":  rec.ProductSold,
			"CANTIDAD_UNIDADES":        strconv.Itoa(rec.Units),
			"TIPO_CLIENTE":             rec.CustomerType,
			"PRECIO_VENTA_FINAL":       price.Format(rec.FinalPrice),
			"COSTO_DEL_PRODUCTO_TOTAL": price.Format(rec.TotalCost),
			"GASTOS_DIRECTOS_VIAJE":    price.Format(rec.DirectExpenses),
			"GANANCIA_NETA":            price.Format(rec.NetProfit),
			"VENDEDOR_REGISTRA":        rec.RecordedBy,
		})
	}
	return rows
}

func lenientInt(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return int(price.Parse(s))
}
