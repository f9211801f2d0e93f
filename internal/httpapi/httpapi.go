package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	excelize "github.com/xuri/excelize/v2"

	"tiendafacil/backend/internal/domain"
	"tiendafacil/backend/internal/fileio"
	"tiendafacil/backend/internal/ledger"
	"tiendafacil/backend/internal/service"
)

type API struct {
	service      *service.Service
	log          zerolog.Logger
	allowOrigins []string
	maxUpload    int64
}

func New(svc *service.Service, logger zerolog.Logger, allowOrigins []string, maxUploadMB int) *API {
	if maxUploadMB < 1 {
		maxUploadMB = 16
	}
	return &API{
		service:      svc,
		log:          logger,
		allowOrigins: allowOrigins,
		maxUpload:    int64(maxUploadMB) * 1024 * 1024,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	// Order matters: recover -> request id -> logging -> cors -> body limit.
	r.Use(Recover(a.log))
	r.Use(RequestID())
	r.Use(Logging(a.log))
	r.Use(CORS(a.allowOrigins))
	r.Use(LimitBytes(a.maxUpload))

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/inventory", a.handleInventory)
		r.Delete("/inventory/{name}", a.handleInventoryDelete)
		r.Post("/inventory/import", a.handleInventoryImport)
		r.Post("/sales", a.handleRegisterSale)
		r.Get("/sales", a.handleSales)
		r.Get("/sales/export", a.handleSalesExport)
		r.Get("/reports/sales", a.handleSalesReport)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleInventory lists the catalog, or searches it when the search query is
// present. Search wants at least 3 characters, same rule the sale form
// applies, so a single letter does not match half the catalog.
func (a *API) handleInventory(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")
	if term == "" {
		products := a.service.ListInventory(r.Context())
		writeJSON(w, http.StatusOK, domain.InventoryListResponse{Products: products, Total: len(products)})
		return
	}
	if len([]rune(term)) < 3 {
		writeError(w, http.StatusBadRequest, errors.New("search term must have at least 3 characters"))
		return
	}

	matches := make([]domain.ProductMatch, 0)
	for _, rec := range a.service.SearchInventory(r.Context(), term) {
		matches = append(matches, domain.ProductMatch{
			InventoryRecord:    rec,
			SuggestedRetail:    rec.SuggestedPrice(domain.CustomerRetail),
			SuggestedWholesale: rec.SuggestedPrice(domain.CustomerWholesale),
		})
	}
	writeJSON(w, http.StatusOK, domain.SearchResponse{Matches: matches, Total: len(matches)})
}

func (a *API) handleInventoryDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing product name"))
		return
	}

	removed, err := a.service.DeleteProduct(r.Context(), name)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.DeleteResponse{ProductName: name, Deleted: removed})
}

func (a *API) handleInventoryImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(a.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
		return
	}
	defer file.Close()

	result, err := a.service.ImportInventory(r.Context(), file, header.Filename)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleRegisterSale(w http.ResponseWriter, r *http.Request) {
	var req domain.SaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.service.RegisterSale(r.Context(), req)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handleSales(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 1000)
	writeJSON(w, http.StatusOK, domain.SalesListResponse{
		Sales: a.service.ListSales(r.Context(), limit),
	})
}

func (a *API) handleSalesReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.SalesReport(r.Context()))
}

// handleSalesExport streams the full sales table as an XLSX download.
func (a *API) handleSalesExport(w http.ResponseWriter, r *http.Request) {
	columns, rows := a.service.ExportSales(r.Context())

	f := excelize.NewFile()
	defer f.Close()

	sheet := domain.SalesTable
	index, err := f.NewSheet(sheet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="ventas.xlsx"`)
	if err := f.Write(w); err != nil {
		a.log.Error().Err(err).Msg("sales export write failed")
	}
}

// writeDomainError maps the error taxonomy to HTTP statuses. Save failures
// keep their full message even at 5xx: the operator must learn that the
// change was not stored.
func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	var stockErr *ledger.InsufficientStockError
	var formatErr *fileio.ImportFormatError

	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     stockErr.Error(),
			"available": stockErr.Available,
		})
	case errors.Is(err, ledger.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &formatErr),
		errors.Is(err, ledger.ErrInvalidSale),
		errors.Is(err, service.ErrUnknownOperator),
		errors.Is(err, service.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrSaveFailed):
		a.log.Error().Err(err).Msg("store write failed, operation aborted")
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": fmt.Sprintf("the change was NOT saved: %v", err),
		})
	default:
		writeError(w, http.StatusBadRequest, err)
	}
}
