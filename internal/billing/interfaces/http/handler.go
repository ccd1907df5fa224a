package billinghttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"propfolio-cloud/internal/audit"
	"propfolio-cloud/internal/auth"
	"propfolio-cloud/internal/billing/application"
	billing "propfolio-cloud/internal/billing/domain"
)

// Handler handles billing run APIs under /api/v1/billing.
type Handler struct {
	charges     *application.ChargeService
	lateFees    *application.LateFeeService
	cronSecret  string
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(charges *application.ChargeService, lateFees *application.LateFeeService, cronSecret string, auditLogger audit.Logger) (*Handler, error) {
	if charges == nil {
		return nil, errors.New("billing handler: nil charge service")
	}
	if lateFees == nil {
		return nil, errors.New("billing handler: nil late fee service")
	}
	return &Handler{charges: charges, lateFees: lateFees, cronSecret: cronSecret, auditLogger: auditLogger}, nil
}

// ServeHTTP dispatches billing routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/billing/generate-charges" && r.Method == http.MethodPost:
		h.handleGenerateCharges(w, r)
	case r.URL.Path == "/api/v1/billing/apply-late-fees" && r.Method == http.MethodPost:
		h.handleApplyLateFees(w, r)
	default:
		auth.WriteError(w, http.StatusNotFound, "not found")
	}
}

// authorize accepts an admin session or the shared scheduler secret. The
// auth middleware leaves billing paths exempt, so both checks happen here.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (actor, role string, ok bool) {
	if auth.CronSecretValid(r, h.cronSecret) {
		return "cron", "cron", true
	}
	contextRole := auth.RoleFromContext(r.Context())
	if contextRole == "" {
		auth.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return "", "", false
	}
	if contextRole != auth.RoleAdmin {
		auth.WriteError(w, http.StatusForbidden, "forbidden")
		return "", "", false
	}
	return auth.UserIDFromContext(r.Context()), string(contextRole), true
}

func (h *Handler) handleGenerateCharges(w http.ResponseWriter, r *http.Request) {
	actor, role, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req struct {
		PropertyID string `json:"property_id"`
		Month      int    `json:"month"`
		Year       int    `json:"year"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	result, err := h.charges.Generate(r.Context(), application.GenerateRequest{
		TenantID:   auth.TenantIDFromContext(r.Context()),
		PropertyID: req.PropertyID,
		Year:       req.Year,
		Month:      req.Month,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, actor, role, "billing.generate_charges", req.PropertyID, result)
	writeJSON(w, map[string]any{
		"success":          true,
		"period":           result.Period,
		"leases_processed": result.LeasesProcessed,
		"charges_created":  result.ChargesCreated,
		"charges_skipped":  result.ChargesSkipped,
		"details": map[string]any{
			"created": result.Created,
			"skipped": result.Skipped,
		},
	})
}

func (h *Handler) handleApplyLateFees(w http.ResponseWriter, r *http.Request) {
	actor, role, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req struct {
		PropertyID string `json:"property_id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	result, err := h.lateFees.Apply(r.Context(), application.ApplyRequest{
		TenantID:   auth.TenantIDFromContext(r.Context()),
		PropertyID: req.PropertyID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAudit(r, actor, role, "billing.apply_late_fees", req.PropertyID, result)
	writeJSON(w, map[string]any{
		"success":              true,
		"date":                 result.Date,
		"charges_processed":    result.ChargesProcessed,
		"late_fees_applied":    result.LateFeesApplied,
		"late_fees_skipped":    result.LateFeesSkipped,
		"total_fees_generated": result.TotalFeesGenerated,
		"details": map[string]any{
			"applied": result.Applied,
			"skipped": result.Skipped,
		},
	})
}

func (h *Handler) logAudit(r *http.Request, actor, role, action, propertyID string, payload any) {
	if h.auditLogger == nil {
		return
	}
	metadata, _ := json.Marshal(payload)
	_ = h.auditLogger.Log(context.WithoutCancel(r.Context()), audit.Entry{
		TenantID:     auth.TenantIDFromContext(r.Context()),
		Actor:        actor,
		Role:         role,
		Action:       action,
		ResourceType: "billing_run",
		PropertyID:   propertyID,
		Metadata:     metadata,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, billing.ErrInvalidPeriod) {
		auth.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	auth.WriteError(w, http.StatusInternalServerError, "internal error")
}
