package portfolio

import "context"

// PropertyRepository loads properties.
type PropertyRepository interface {
	// GetByID returns the property or nil when absent.
	GetByID(ctx context.Context, propertyID string) (*Property, error)
	// List returns properties in the tenant, optionally filtered to one
	// owner and/or one property id. Empty filters mean no restriction.
	List(ctx context.Context, tenantID, ownerID, propertyID string) ([]Property, error)
}

// UnitRepository loads units.
type UnitRepository interface {
	// ListByProperty returns all units of a property ordered by unit number.
	ListByProperty(ctx context.Context, propertyID string) ([]Unit, error)
}

// InviteRepository loads tenant invites.
type InviteRepository interface {
	// PendingByUnit returns the pending invite for a unit, or nil.
	PendingByUnit(ctx context.Context, unitID string) (*TenantInvite, error)
}
