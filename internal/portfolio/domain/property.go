package portfolio

// Property is a building or complex managed for an owner.
type Property struct {
	ID       string
	TenantID string
	OwnerID  string
	Name     string
	Address  string
	City     string
	State    string
	Zip      string
}

// FullAddress renders the street address with city, state and zip.
func (p Property) FullAddress() string {
	address := p.Address
	if p.City != "" {
		address += ", " + p.City
	}
	if p.State != "" {
		address += ", " + p.State
	}
	if p.Zip != "" {
		address += " " + p.Zip
	}
	return address
}

// Unit is a rentable space within a property. MarketRent is the asking rent
// used to compare against the signed lease rent.
type Unit struct {
	ID         string
	PropertyID string
	Number     string
	Bedrooms   int
	Bathrooms  float64
	SquareFeet int
	MarketRent float64
}

const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusExpired  = "EXPIRED"
)

// TenantInvite is an outstanding invitation for a renter to claim a vacant
// unit. Pending invites surface on vacancy rows of the rent roll.
type TenantInvite struct {
	ID     string
	UnitID string
	Email  string
	Status string
}
