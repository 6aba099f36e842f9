package domain

// RoomAssignment records that a person occupies a room for an inclusive range
// of days. TripID is denormalised from the room for per-trip queries.
type RoomAssignment struct {
	ID        string `json:"id"`
	TripID    string `json:"tripId"`
	RoomID    string `json:"roomId"`
	PersonID  string `json:"personId"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
}

// Range returns the assignment's inclusive day span.
func (a RoomAssignment) Range() DateRange {
	return DateRange{Start: a.StartDate, End: a.EndDate}
}

type NewRoomAssignment struct {
	RoomID    string `json:"roomId"`
	PersonID  string `json:"personId"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
}

type RoomAssignmentPatch struct {
	RoomID    *string `json:"roomId,omitempty"`
	StartDate *Date   `json:"startDate,omitempty"`
	EndDate   *Date   `json:"endDate,omitempty"`
}

func (p RoomAssignmentPatch) Apply(a RoomAssignment) RoomAssignment {
	if p.RoomID != nil {
		a.RoomID = *p.RoomID
	}
	if p.StartDate != nil {
		a.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		a.EndDate = *p.EndDate
	}
	return a
}

// HasConflict reports whether proposed overlaps any assignment in existing,
// skipping the one whose ID equals excludeID (pass "" to skip none).
// Closed intervals: a shared boundary day is a conflict.
func HasConflict(existing []RoomAssignment, proposed DateRange, excludeID string) bool {
	for _, a := range existing {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if proposed.Overlaps(a.Range()) {
			return true
		}
	}
	return false
}
