package auth

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrOwnerMismatch indicates the property belongs to a different owner.
	ErrOwnerMismatch = errors.New("owner mismatch")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
)

// PropertyOwnerChecker validates property ownership for owner-scoped routes.
type PropertyOwnerChecker interface {
	EnsurePropertyOwner(ctx context.Context, ownerUserID, propertyID string) error
}

// OwnerChecker checks property ownership against the properties table.
type OwnerChecker struct {
	db *sql.DB
}

// NewOwnerChecker constructs an OwnerChecker.
func NewOwnerChecker(db *sql.DB) *OwnerChecker {
	if db == nil {
		return nil
	}
	return &OwnerChecker{db: db}
}

// EnsurePropertyOwner verifies the property exists and belongs to the owner.
// Admin callers pass an empty ownerUserID and skip the ownership check.
func (c *OwnerChecker) EnsurePropertyOwner(ctx context.Context, ownerUserID, propertyID string) error {
	if c == nil || c.db == nil {
		return nil
	}
	if propertyID == "" {
		return nil
	}
	var storedOwner string
	err := c.db.QueryRowContext(ctx, "SELECT owner_id FROM properties WHERE id = $1", propertyID).Scan(&storedOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerUserID != "" && storedOwner != ownerUserID {
		return ErrOwnerMismatch
	}
	return nil
}
