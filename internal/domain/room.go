package domain

// Room is a lodging unit within a trip. Order is the display position; it is
// dense after a reorder but gaps are tolerated.
type Room struct {
	ID          string  `json:"id"`
	TripID      string  `json:"tripId"`
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	Description *string `json:"description,omitempty"`
	Order       int     `json:"order"`
	Icon        *string `json:"icon,omitempty"`
}

type NewRoom struct {
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

type RoomPatch struct {
	Name        *string          `json:"name,omitempty"`
	Capacity    *int             `json:"capacity,omitempty"`
	Description Nullable[string] `json:"description"`
	Icon        Nullable[string] `json:"icon"`
}

func (p RoomPatch) Apply(r Room) Room {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Capacity != nil {
		r.Capacity = *p.Capacity
	}
	r.Description = p.Description.Merge(r.Description)
	r.Icon = p.Icon.Merge(r.Icon)
	return r
}
