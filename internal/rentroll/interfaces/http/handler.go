package rentrollhttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"propfolio-cloud/internal/auth"
	"propfolio-cloud/internal/observability/metrics"
	"propfolio-cloud/internal/rentroll/application"
	rentroll "propfolio-cloud/internal/rentroll/domain"
	"propfolio-cloud/internal/rentroll/interfaces"
)

// Handler serves rent roll views and exports under /api/v1/rent-roll.
type Handler struct {
	service *application.Service
}

// NewHandler constructs a handler.
func NewHandler(service *application.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("rent roll handler: nil service")
	}
	return &Handler{service: service}, nil
}

// ServeHTTP dispatches rent roll routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		auth.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	switch r.URL.Path {
	case "/api/v1/rent-roll":
		h.handlePortfolio(w, r)
	case "/api/v1/rent-roll/export":
		h.handleExport(w, r)
	case "/api/v1/rent-roll/aging":
		h.handleAging(w, r)
	default:
		auth.WriteError(w, http.StatusNotFound, "not found")
	}
}

// scope resolves the owner filter. Owners only ever see their own
// properties, admins may filter by ownerId.
func scope(r *http.Request) (tenantID, ownerID string) {
	ctx := r.Context()
	tenantID = auth.TenantIDFromContext(ctx)
	if auth.RoleFromContext(ctx) == auth.RoleAdmin {
		return tenantID, r.URL.Query().Get("ownerId")
	}
	return tenantID, auth.UserIDFromContext(ctx)
}

func (h *Handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	filter, err := rentroll.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenantID, ownerID := scope(r)
	report, err := h.service.ForPortfolio(r.Context(), tenantID, ownerID, r.URL.Query().Get("propertyId"), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		auth.WriteError(w, http.StatusBadRequest, "unsupported format")
		return
	}

	tenantID, ownerID := scope(r)
	report, err := h.service.ForPortfolio(r.Context(), tenantID, ownerID, r.URL.Query().Get("propertyId"), rentroll.StatusFilterAll)
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		writeServiceError(w, err)
		return
	}

	var payload []byte
	switch format {
	case "csv":
		payload, err = interfaces.BuildRentRollCSV(report.Rows)
	case "xlsx":
		payload, err = interfaces.BuildRentRollXLSX(report)
	}
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		auth.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filename := "rent-roll-" + time.Now().Format("2006-01-02") + "." + format
	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))
	_, _ = w.Write(payload)
}

func (h *Handler) handleAging(w http.ResponseWriter, r *http.Request) {
	tenantID, ownerID := scope(r)
	report, err := h.service.Aging(r.Context(), tenantID, ownerID, r.URL.Query().Get("propertyId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, report)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrPropertyNotFound):
		auth.WriteError(w, http.StatusNotFound, "property not found")
	default:
		auth.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
