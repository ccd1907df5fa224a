package portfoliohttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"propfolio-cloud/internal/auth"
	billingapp "propfolio-cloud/internal/billing/application"
	billing "propfolio-cloud/internal/billing/domain"
	rentrollapp "propfolio-cloud/internal/rentroll/application"
	rentroll "propfolio-cloud/internal/rentroll/domain"
	reportsapp "propfolio-cloud/internal/reports/application"
)

// Handler serves per-property views under /api/v1/properties/{id}/...
type Handler struct {
	rentRoll *rentrollapp.Service
	summary  *reportsapp.SummaryService
	ownerOf  auth.PropertyOwnerChecker
	clock    billingapp.Clock
}

// NewHandler constructs a handler.
func NewHandler(rentRoll *rentrollapp.Service, summary *reportsapp.SummaryService, ownerOf auth.PropertyOwnerChecker, clock billingapp.Clock) (*Handler, error) {
	if rentRoll == nil || summary == nil {
		return nil, errors.New("properties handler: nil service")
	}
	if clock == nil {
		return nil, errors.New("properties handler: nil clock")
	}
	return &Handler{rentRoll: rentRoll, summary: summary, ownerOf: ownerOf, clock: clock}, nil
}

// ServeHTTP dispatches /api/v1/properties/{id}/{view}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		auth.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/properties/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		auth.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	propertyID, view := parts[0], parts[1]

	// Owners only reach their own properties, admins skip the check.
	ctx := r.Context()
	if h.ownerOf != nil && auth.RoleFromContext(ctx) != auth.RoleAdmin {
		if err := h.ownerOf.EnsurePropertyOwner(ctx, auth.UserIDFromContext(ctx), propertyID); err != nil {
			auth.WriteError(w, http.StatusNotFound, "property not found")
			return
		}
	}

	switch view {
	case "rent-roll":
		h.handleRentRoll(w, r, propertyID)
	case "financial-summary":
		h.handleFinancialSummary(w, r, propertyID)
	default:
		auth.WriteError(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) handleRentRoll(w http.ResponseWriter, r *http.Request, propertyID string) {
	filter, err := rentroll.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.rentRoll.ForProperty(r.Context(), auth.TenantIDFromContext(r.Context()), propertyID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) handleFinancialSummary(w http.ResponseWriter, r *http.Request, propertyID string) {
	monthStart := billing.MonthOf(h.clock.Now().UTC())
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := billing.ParseMonthKey(raw)
		if err != nil {
			auth.WriteError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		monthStart = parsed
	}
	summary, err := h.summary.Build(r.Context(), auth.TenantIDFromContext(r.Context()), propertyID, monthStart)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rentrollapp.ErrPropertyNotFound), errors.Is(err, reportsapp.ErrPropertyNotFound):
		auth.WriteError(w, http.StatusNotFound, "property not found")
	default:
		auth.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
