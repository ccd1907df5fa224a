package expenseshttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"propfolio-cloud/internal/audit"
	"propfolio-cloud/internal/auth"
	"propfolio-cloud/internal/expenses/application"
)

// Handler serves the bulk expense import under /api/v1/expenses.
type Handler struct {
	importer    *application.ImportService
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(importer *application.ImportService, auditLogger audit.Logger) (*Handler, error) {
	if importer == nil {
		return nil, errors.New("expenses handler: nil import service")
	}
	return &Handler{importer: importer, auditLogger: auditLogger}, nil
}

// ServeHTTP dispatches expense routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/v1/expenses/import" && r.Method == http.MethodPost {
		h.handleImport(w, r)
		return
	}
	auth.WriteError(w, http.StatusNotFound, "not found")
}

// handleImport accepts a CSV upload, either a multipart "file" part or
// the raw request body.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := uploadReader(r)
	if err != nil {
		auth.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer cleanup()

	propertyID := r.URL.Query().Get("propertyId")
	result, err := h.importer.ImportCSV(r.Context(), auth.TenantIDFromContext(r.Context()), propertyID, upload)
	if err != nil {
		if errors.Is(err, application.ErrEmptyImport) {
			auth.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		auth.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.auditLogger != nil {
		metadata, _ := json.Marshal(result)
		_ = h.auditLogger.Log(context.WithoutCancel(r.Context()), audit.Entry{
			TenantID:     auth.TenantIDFromContext(r.Context()),
			Actor:        auth.UserIDFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "expenses.import",
			ResourceType: "expense_import",
			PropertyID:   propertyID,
			Metadata:     metadata,
			IP:           audit.ClientIP(r),
			UserAgent:    r.UserAgent(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func uploadReader(r *http.Request) (io.Reader, func(), error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil, errors.New("missing file upload")
		}
		return file, func() { _ = file.Close() }, nil
	}
	return r.Body, func() {}, nil
}
