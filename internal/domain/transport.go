package domain

import "fmt"

// TransportType distinguishes arrivals from departures.
type TransportType string

const (
	Arrival   TransportType = "arrival"
	Departure TransportType = "departure"
)

// ParseTransportType accepts "arrival" or "departure".
func ParseTransportType(s string) (TransportType, error) {
	switch t := TransportType(s); t {
	case Arrival, Departure:
		return t, nil
	}
	return "", Validationf("type", "%q is not arrival or departure", s)
}

func (t *TransportType) UnmarshalText(b []byte) error {
	parsed, err := ParseTransportType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Transport is an arrival or departure of a person. DriverID is a soft
// reference: deleting the driver clears it instead of deleting the row.
type Transport struct {
	ID              string        `json:"id"`
	TripID          string        `json:"tripId"`
	PersonID        string        `json:"personId"`
	Type            TransportType `json:"type"`
	Datetime        DateTime      `json:"datetime"`
	Location        string        `json:"location"`
	TransportMode   *string       `json:"transportMode,omitempty"`
	TransportNumber *string       `json:"transportNumber,omitempty"`
	NeedsPickup     bool          `json:"needsPickup"`
	DriverID        *string       `json:"driverId,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
}

type NewTransport struct {
	PersonID        string        `json:"personId"`
	Type            TransportType `json:"type"`
	Datetime        DateTime      `json:"datetime"`
	Location        string        `json:"location"`
	TransportMode   *string       `json:"transportMode,omitempty"`
	TransportNumber *string       `json:"transportNumber,omitempty"`
	NeedsPickup     bool          `json:"needsPickup"`
	DriverID        *string       `json:"driverId,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
}

type TransportPatch struct {
	PersonID        *string          `json:"personId,omitempty"`
	Type            *TransportType   `json:"type,omitempty"`
	Datetime        *DateTime        `json:"datetime,omitempty"`
	Location        *string          `json:"location,omitempty"`
	TransportMode   Nullable[string] `json:"transportMode"`
	TransportNumber Nullable[string] `json:"transportNumber"`
	NeedsPickup     *bool            `json:"needsPickup,omitempty"`
	DriverID        Nullable[string] `json:"driverId"`
	Notes           Nullable[string] `json:"notes"`
}

func (p TransportPatch) Apply(t Transport) Transport {
	if p.PersonID != nil {
		t.PersonID = *p.PersonID
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Datetime != nil {
		t.Datetime = *p.Datetime
	}
	if p.Location != nil {
		t.Location = *p.Location
	}
	if p.NeedsPickup != nil {
		t.NeedsPickup = *p.NeedsPickup
	}
	t.TransportMode = p.TransportMode.Merge(t.TransportMode)
	t.TransportNumber = p.TransportNumber.Merge(t.TransportNumber)
	t.DriverID = p.DriverID.Merge(t.DriverID)
	t.Notes = p.Notes.Merge(t.Notes)
	return t
}

func (t Transport) String() string {
	return fmt.Sprintf("%s %s at %s", t.Type, t.PersonID, t.Datetime)
}
