package postgres

import (
	"context"
	"database/sql"
	"errors"

	portfolio "propfolio-cloud/internal/portfolio/domain"
)

// PropertyRepository is a Postgres implementation for properties.
type PropertyRepository struct {
	db *sql.DB
}

// NewPropertyRepository constructs a repository.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// GetByID returns the property or nil when absent.
func (r *PropertyRepository) GetByID(ctx context.Context, propertyID string) (*portfolio.Property, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("property repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, owner_id, name, address, city, state, zip
FROM properties
WHERE id = $1`, propertyID)

	var p portfolio.Property
	if err := row.Scan(&p.ID, &p.TenantID, &p.OwnerID, &p.Name, &p.Address, &p.City, &p.State, &p.Zip); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns properties in the tenant filtered by optional owner/property.
func (r *PropertyRepository) List(ctx context.Context, tenantID, ownerID, propertyID string) ([]portfolio.Property, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("property repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, tenant_id, owner_id, name, address, city, state, zip
FROM properties
WHERE tenant_id = $1
	AND ($2 = '' OR owner_id = $2)
	AND ($3 = '' OR id = $3)
ORDER BY name ASC`, tenantID, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portfolio.Property
	for rows.Next() {
		var p portfolio.Property
		if err := rows.Scan(&p.ID, &p.TenantID, &p.OwnerID, &p.Name, &p.Address, &p.City, &p.State, &p.Zip); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UnitRepository is a Postgres implementation for units.
type UnitRepository struct {
	db *sql.DB
}

// NewUnitRepository constructs a repository.
func NewUnitRepository(db *sql.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// ListByProperty returns all units of a property ordered by unit number.
func (r *UnitRepository) ListByProperty(ctx context.Context, propertyID string) ([]portfolio.Unit, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("unit repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, property_id, unit_number, bedrooms, bathrooms, square_feet, market_rent
FROM units
WHERE property_id = $1
ORDER BY unit_number ASC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portfolio.Unit
	for rows.Next() {
		var u portfolio.Unit
		if err := rows.Scan(&u.ID, &u.PropertyID, &u.Number, &u.Bedrooms, &u.Bathrooms, &u.SquareFeet, &u.MarketRent); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// InviteRepository is a Postgres implementation for tenant invites.
type InviteRepository struct {
	db *sql.DB
}

// NewInviteRepository constructs a repository.
func NewInviteRepository(db *sql.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// PendingByUnit returns the pending invite for a unit, or nil.
func (r *InviteRepository) PendingByUnit(ctx context.Context, unitID string) (*portfolio.TenantInvite, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invite repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, unit_id, email, status
FROM tenant_invites
WHERE unit_id = $1 AND status = $2
ORDER BY created_at DESC
LIMIT 1`, unitID, portfolio.InviteStatusPending)

	var invite portfolio.TenantInvite
	if err := row.Scan(&invite.ID, &invite.UnitID, &invite.Email, &invite.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &invite, nil
}
