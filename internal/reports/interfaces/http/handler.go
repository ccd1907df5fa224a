package reportshttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"propfolio-cloud/internal/auth"
	billingapp "propfolio-cloud/internal/billing/application"
	"propfolio-cloud/internal/observability/metrics"
	"propfolio-cloud/internal/reports/application"
	reports "propfolio-cloud/internal/reports/domain"
	"propfolio-cloud/internal/reports/interfaces"
)

// Handler serves P&L reports under /api/v1/reports.
type Handler struct {
	company  *application.CompanyService
	owners   *application.OwnerService
	property *application.PropertyService
	ownerOf  auth.PropertyOwnerChecker
	clock    billingapp.Clock
}

// NewHandler constructs a handler.
func NewHandler(
	company *application.CompanyService,
	owners *application.OwnerService,
	property *application.PropertyService,
	ownerOf auth.PropertyOwnerChecker,
	clock billingapp.Clock,
) (*Handler, error) {
	if company == nil || owners == nil || property == nil {
		return nil, errors.New("reports handler: nil service")
	}
	if clock == nil {
		return nil, errors.New("reports handler: nil clock")
	}
	return &Handler{company: company, owners: owners, property: property, ownerOf: ownerOf, clock: clock}, nil
}

// ServeHTTP dispatches report routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		auth.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	switch r.URL.Path {
	case "/api/v1/reports/epm-pl":
		h.handleCompany(w, r)
	case "/api/v1/reports/owner-pl":
		h.handleOwner(w, r)
	case "/api/v1/reports/property-pl":
		h.handleProperty(w, r)
	case "/api/v1/reports/property-pl/export.pdf":
		h.handlePropertyPDF(w, r)
	default:
		auth.WriteError(w, http.StatusNotFound, "not found")
	}
}

// periodParams reads period, year and month, defaulting the anchor to
// the current month.
func (h *Handler) periodParams(r *http.Request) (reports.PeriodType, int, int, error) {
	periodType, err := reports.ParsePeriodType(r.URL.Query().Get("period"))
	if err != nil {
		return "", 0, 0, err
	}
	now := h.clock.Now().UTC()
	year := now.Year()
	month := int(now.Month())
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			return "", 0, 0, errors.New("year must be numeric")
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			return "", 0, 0, errors.New("month must be numeric")
		}
	}
	return periodType, year, month, nil
}

func (h *Handler) handleCompany(w http.ResponseWriter, r *http.Request) {
	periodType, year, month, err := h.periodParams(r)
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.company.Build(r.Context(), auth.TenantIDFromContext(r.Context()), periodType, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) handleOwner(w http.ResponseWriter, r *http.Request) {
	periodType, year, month, err := h.periodParams(r)
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	ownerID := auth.UserIDFromContext(ctx)
	if auth.RoleFromContext(ctx) == auth.RoleAdmin {
		ownerID = r.URL.Query().Get("ownerId")
	}
	report, err := h.owners.Build(ctx, auth.TenantIDFromContext(ctx), ownerID, periodType, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) handleProperty(w http.ResponseWriter, r *http.Request) {
	report, ok := h.buildPropertyReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, report)
}

func (h *Handler) handlePropertyPDF(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, ok := h.buildPropertyReport(w, r)
	if !ok {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		return
	}
	payload, err := interfaces.BuildPropertyReportPDF(report)
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		auth.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	metrics.ObserveExport("pdf", metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="property-pl.pdf"`)
	_, _ = w.Write(payload)
}

func (h *Handler) buildPropertyReport(w http.ResponseWriter, r *http.Request) (*reports.PropertyReport, bool) {
	periodType, year, month, err := h.periodParams(r)
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	propertyID := r.URL.Query().Get("propertyId")
	if propertyID == "" {
		auth.WriteError(w, http.StatusBadRequest, "propertyId required")
		return nil, false
	}

	ctx := r.Context()
	if h.ownerOf != nil && auth.RoleFromContext(ctx) != auth.RoleAdmin {
		if err := h.ownerOf.EnsurePropertyOwner(ctx, auth.UserIDFromContext(ctx), propertyID); err != nil {
			auth.WriteError(w, http.StatusNotFound, "property not found")
			return nil, false
		}
	}

	report, err := h.property.Build(ctx, auth.TenantIDFromContext(ctx), propertyID, periodType, year, month)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	return report, true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reports.ErrInvalidPeriod), errors.Is(err, application.ErrOwnerRequired):
		auth.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrPropertyNotFound):
		auth.WriteError(w, http.StatusNotFound, "property not found")
	default:
		auth.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
