package domain

// Table names and column schemas mirror the spreadsheet the business already
// keeps. The Spanish headers are part of the external contract: the store
// writes them verbatim as the header row, and bulk imports are validated
// against them.
const (
	InventoryTable = "Inventario"
	SalesTable     = "Ventas"
)

var InventoryColumns = []string{
	"ID_PRODUCTO", "CODIGO_SKU", "NOMBRE_PRODUCTO", "CANTIDAD_ACTUAL",
	"COSTO_UNITARIO", "PRECIO_BASE", "PRECIO_PUBLICO", "UBICACION_FISICA",
}

var SalesColumns = []string{
	"ID_VENTA", "FECHA_HORA", "CODIGO_SKU_VENDIDO", "NOMBRE_PRODUCTO_VENDIDO",
	"CANTIDAD_UNIDADES", "TIPO_CLIENTE", "PRECIO_VENTA_FINAL",
	"COSTO_DEL_PRODUCTO_TOTAL", "GASTOS_DIRECTOS_VIAJE", "GANANCIA_NETA",
	"VENDEDOR_REGISTRA",
}

const (
	CustomerRetail    = "Minorista"
	CustomerWholesale = "Mayorista"
)

// SaleTimeLayout is the FECHA_HORA format already present in the sales sheet.
const SaleTimeLayout = "2006-01-02 15:04:05"

type InventoryRecord struct {
	ProductID   string  `json:"product_id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	BasePrice   float64 `json:"base_price"`
	PublicPrice float64 `json:"public_price"`
	Location    string  `json:"location"`
}

// SuggestedPrice returns the wholesale price for Mayorista customers and the
// retail price for everyone else, matching the default the sale form offers.
func (r InventoryRecord) SuggestedPrice(customerType string) float64 {
	if customerType == CustomerWholesale {
		return r.BasePrice
	}
	return r.PublicPrice
}

// SaleRecord is an immutable snapshot of one completed sale. SKU and product
// name are copied from the inventory record at sale time; later inventory
// edits or deletions do not touch past sales.
type SaleRecord struct {
	SaleID         string  `json:"sale_id"`
	Timestamp      string  `json:"timestamp"`
	SKUSold        string  `json:"sku_sold"`
	ProductSold    string  `json:"product_sold"`
	Units          int     `json:"units"`
	CustomerType   string  `json:"customer_type"`
	FinalPrice     float64 `json:"final_price"`
	TotalCost      float64 `json:"total_cost"`
	DirectExpenses float64 `json:"direct_expenses"`
	NetProfit      float64 `json:"net_profit"`
	RecordedBy     string  `json:"recorded_by"`
}

type SaleRequest struct {
	ProductName    string  `json:"product_name"`
	Units          int     `json:"units"`
	CustomerType   string  `json:"customer_type"`
	FinalPrice     float64 `json:"final_price"`
	DirectExpenses float64 `json:"direct_expenses"`
	RecordedBy     string  `json:"recorded_by"`
}

type SaleResponse struct {
	Sale           SaleRecord `json:"sale"`
	RemainingStock int        `json:"remaining_stock"`
}

type InventoryListResponse struct {
	Products []InventoryRecord `json:"products"`
	Total    int               `json:"total"`
}

// ProductMatch is a search hit with the price the sale form should offer for
// each customer type already computed.
type ProductMatch struct {
	InventoryRecord
	SuggestedRetail    float64 `json:"suggested_retail"`
	SuggestedWholesale float64 `json:"suggested_wholesale"`
}

type SearchResponse struct {
	Matches []ProductMatch `json:"matches"`
	Total   int            `json:"total"`
}

type DeleteResponse struct {
	ProductName string `json:"product_name"`
	Deleted     int    `json:"deleted"`
}

type SalesListResponse struct {
	Sales []SaleRecord `json:"sales"`
}

type ImportResult struct {
	Imported      int `json:"imported"`
	GeneratedSKUs int `json:"generated_skus"`
	CatalogSize   int `json:"catalog_size"`
}

type SalesReport struct {
	TotalNetProfit float64      `json:"total_net_profit"`
	SaleCount      int          `json:"sale_count"`
	Recent         []SaleRecord `json:"recent"`
}
