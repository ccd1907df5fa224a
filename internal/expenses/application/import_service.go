package application

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	billingapp "propfolio-cloud/internal/billing/application"
	expenses "propfolio-cloud/internal/expenses/domain"
	"propfolio-cloud/internal/observability/metrics"
	reports "propfolio-cloud/internal/reports/domain"
)

// ErrEmptyImport is returned when the upload has no data rows.
var ErrEmptyImport = errors.New("import file has no rows")

// RowError describes one rejected import row. Row numbers are 1-based
// data rows, the header does not count.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult reports what a bulk import did.
type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// ImportService loads expense rows from CSV uploads. Bad rows are
// collected, good rows are written, one bad row never aborts the batch.
type ImportService struct {
	expenses expenses.Repository
	clock    billingapp.Clock
	logger   *log.Logger
}

// NewImportService constructs an import service.
func NewImportService(repo expenses.Repository, clock billingapp.Clock, logger *log.Logger) (*ImportService, error) {
	if repo == nil {
		return nil, errors.New("expense import service: nil repository")
	}
	if clock == nil {
		return nil, errors.New("expense import service: nil clock")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ImportService{expenses: repo, clock: clock, logger: logger}, nil
}

// dateLayouts are accepted per row, first match wins.
var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// ImportCSV reads rows of Date,Category,Description,Amount[,Vendor].
// A non-empty propertyID makes these property-level expenses with enum
// category validation, empty means company-level free-form categories.
func (s *ImportService) ImportCSV(ctx context.Context, tenantID, propertyID string, upload io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(upload)
	reader.FieldsPerRecord = -1

	// First record is the header row.
	if _, err := reader.Read(); err == io.EOF {
		return nil, ErrEmptyImport
	} else if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	result := &ImportResult{Errors: []RowError{}}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			s.reject(result, row, "malformed csv row")
			continue
		}
		expense, rowErr := s.parseRow(tenantID, propertyID, record)
		if rowErr != "" {
			s.reject(result, row, rowErr)
			continue
		}
		if err := s.expenses.Create(ctx, expense); err != nil {
			s.logger.Printf("expense import: row %d create failed: %v", row, err)
			s.reject(result, row, "create failed")
			continue
		}
		result.Imported++
		metrics.IncExpenseImportRow("imported")
	}
	if row == 0 {
		return nil, ErrEmptyImport
	}

	s.logger.Printf("expense import: tenant=%s property=%s imported=%d skipped=%d",
		tenantID, propertyID, result.Imported, result.Skipped)
	return result, nil
}

func (s *ImportService) reject(result *ImportResult, row int, message string) {
	result.Skipped++
	result.Errors = append(result.Errors, RowError{Row: row, Message: message})
	metrics.IncExpenseImportRow("skipped")
}

func (s *ImportService) parseRow(tenantID, propertyID string, record []string) (expenses.Expense, string) {
	if len(record) < 4 {
		return expenses.Expense{}, "expected at least 4 columns (date, category, description, amount)"
	}
	rawDate := strings.TrimSpace(record[0])
	category := strings.TrimSpace(record[1])
	description := strings.TrimSpace(record[2])
	rawAmount := strings.TrimSpace(record[3])
	vendor := ""
	if len(record) > 4 {
		vendor = strings.TrimSpace(record[4])
	}

	var date time.Time
	var parsed bool
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, rawDate); err == nil {
			date = t
			parsed = true
			break
		}
	}
	if !parsed {
		return expenses.Expense{}, fmt.Sprintf("unparseable date %q", rawDate)
	}

	if category == "" {
		return expenses.Expense{}, "missing category"
	}
	if propertyID != "" && !reports.ValidPropertyCategory(category) {
		return expenses.Expense{}, fmt.Sprintf("invalid category %q", category)
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimPrefix(rawAmount, "$"), ",", ""), 64)
	if err != nil {
		return expenses.Expense{}, fmt.Sprintf("non-numeric amount %q", rawAmount)
	}
	if amount <= 0 {
		return expenses.Expense{}, fmt.Sprintf("amount must be positive, got %q", rawAmount)
	}

	normalizedCategory := category
	if propertyID != "" {
		normalizedCategory = reports.PropertyCategory(category)
	}
	return expenses.Expense{
		ID:          "exp-" + uuid.NewString(),
		TenantID:    tenantID,
		PropertyID:  propertyID,
		Category:    normalizedCategory,
		Description: description,
		Vendor:      vendor,
		Amount:      amount,
		Date:        date,
		CreatedAt:   s.clock.Now().UTC(),
	}, ""
}
