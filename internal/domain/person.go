package domain

// Person is a trip participant. Color carries no uniqueness constraint.
type Person struct {
	ID            string   `json:"id"`
	TripID        string   `json:"tripId"`
	Name          string   `json:"name"`
	Color         HexColor `json:"color"`
	StayStartDate *Date    `json:"stayStartDate,omitempty"`
	StayEndDate   *Date    `json:"stayEndDate,omitempty"`
}

type NewPerson struct {
	Name          string   `json:"name"`
	Color         HexColor `json:"color"`
	StayStartDate *Date    `json:"stayStartDate,omitempty"`
	StayEndDate   *Date    `json:"stayEndDate,omitempty"`
}

type PersonPatch struct {
	Name          *string        `json:"name,omitempty"`
	Color         *HexColor      `json:"color,omitempty"`
	StayStartDate Nullable[Date] `json:"stayStartDate"`
	StayEndDate   Nullable[Date] `json:"stayEndDate"`
}

func (p PersonPatch) Apply(pr Person) Person {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Color != nil {
		pr.Color = *p.Color
	}
	pr.StayStartDate = p.StayStartDate.Merge(pr.StayStartDate)
	pr.StayEndDate = p.StayEndDate.Merge(pr.StayEndDate)
	return pr
}
