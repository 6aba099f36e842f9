package domain

// TripExport is a consistent snapshot of one trip and every record that
// belongs to it, read inside a single transaction.
// Collections use the same ordering as their list operations.
type TripExport struct {
	Trip        Trip             `json:"trip"`
	Rooms       []Room           `json:"rooms"`
	People      []Person         `json:"people"`
	Assignments []RoomAssignment `json:"assignments"`
	Transports  []Transport      `json:"transports"`
}

// Occupancy returns, per room ID, how many assignments cover day.
func (e TripExport) Occupancy(day Date) map[string]int {
	out := make(map[string]int, len(e.Rooms))
	for _, r := range e.Rooms {
		out[r.ID] = 0
	}
	span := DateRange{Start: day, End: day}
	for _, a := range e.Assignments {
		if a.Range().Overlaps(span) {
			out[a.RoomID]++
		}
	}
	return out
}
