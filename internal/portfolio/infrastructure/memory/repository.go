package memory

import (
	"context"
	"sort"
	"sync"

	portfolio "propfolio-cloud/internal/portfolio/domain"
)

// PropertyRepository is an in-memory property store for tests.
type PropertyRepository struct {
	mu         sync.RWMutex
	properties map[string]portfolio.Property
}

// NewPropertyRepository constructs an empty repository.
func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{properties: map[string]portfolio.Property{}}
}

// Put seeds a property.
func (r *PropertyRepository) Put(property portfolio.Property) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.properties[property.ID] = property
}

// GetByID returns the property or nil when absent.
func (r *PropertyRepository) GetByID(_ context.Context, propertyID string) (*portfolio.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	property, ok := r.properties[propertyID]
	if !ok {
		return nil, nil
	}
	return &property, nil
}

// List returns tenant properties matching the optional filters, ordered
// by id.
func (r *PropertyRepository) List(_ context.Context, tenantID, ownerID, propertyID string) ([]portfolio.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []portfolio.Property
	for _, property := range r.properties {
		if property.TenantID != tenantID {
			continue
		}
		if ownerID != "" && property.OwnerID != ownerID {
			continue
		}
		if propertyID != "" && property.ID != propertyID {
			continue
		}
		result = append(result, property)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UnitRepository is an in-memory unit store for tests.
type UnitRepository struct {
	mu    sync.RWMutex
	units []portfolio.Unit
}

// NewUnitRepository constructs an empty repository.
func NewUnitRepository() *UnitRepository {
	return &UnitRepository{}
}

// Put seeds a unit.
func (r *UnitRepository) Put(unit portfolio.Unit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = append(r.units, unit)
}

// ListByProperty returns the property's units ordered by unit number.
func (r *UnitRepository) ListByProperty(_ context.Context, propertyID string) ([]portfolio.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []portfolio.Unit
	for _, unit := range r.units {
		if unit.PropertyID == propertyID {
			result = append(result, unit)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// InviteRepository is an in-memory invite store for tests.
type InviteRepository struct {
	mu      sync.RWMutex
	invites []portfolio.TenantInvite
}

// NewInviteRepository constructs an empty repository.
func NewInviteRepository() *InviteRepository {
	return &InviteRepository{}
}

// Put seeds an invite.
func (r *InviteRepository) Put(invite portfolio.TenantInvite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites = append(r.invites, invite)
}

// PendingByUnit returns the pending invite for a unit, or nil.
func (r *InviteRepository) PendingByUnit(_ context.Context, unitID string) (*portfolio.TenantInvite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, invite := range r.invites {
		if invite.UnitID == unitID && invite.Status == portfolio.InviteStatusPending {
			found := invite
			return &found, nil
		}
	}
	return nil, nil
}
