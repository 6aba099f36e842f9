// Package domain contains the core data types for the trip store: entities,
// partial-update patches, validated value types and the error taxonomy.
// It imports nothing from the rest of the module.
package domain

// Trip is the root aggregate; every other entity except Settings belongs to one.
// ShareID is a short code unique across all trips, meant for URLs and QR codes.
type Trip struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDate Date    `json:"startDate"`
	EndDate   Date    `json:"endDate"`
	Location  *string `json:"location,omitempty"`
	ShareID   string  `json:"shareId"`
	CreatedAt int64   `json:"createdAt"` // unix milliseconds
	UpdatedAt int64   `json:"updatedAt"`
}

// NewTrip is the caller-supplied data for creating a trip.
type NewTrip struct {
	Name      string  `json:"name"`
	StartDate Date    `json:"startDate"`
	EndDate   Date    `json:"endDate"`
	Location  *string `json:"location,omitempty"`
}

// TripPatch carries the fields to change; nil / unset fields are left alone.
type TripPatch struct {
	Name      *string          `json:"name,omitempty"`
	StartDate *Date            `json:"startDate,omitempty"`
	EndDate   *Date            `json:"endDate,omitempty"`
	Location  Nullable[string] `json:"location"`
}

// Apply returns t with the patch merged in. It does not validate.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	t.Location = p.Location.Merge(t.Location)
	return t
}
