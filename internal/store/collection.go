package store

import "slices"

// Collection names a table and the columns the store reads and writes for it.
// The first column is always the primary key "id".
type Collection struct {
	Name    string
	Columns []string
}

func (c *Collection) has(field string) bool {
	return slices.Contains(c.Columns, field)
}

// The collections created by the embedded migrations.
var (
	Trips = &Collection{Name: "trips", Columns: []string{
		"id", "name", "start_date", "end_date", "location", "share_id", "created_at", "updated_at",
	}}
	Rooms = &Collection{Name: "rooms", Columns: []string{
		"id", "trip_id", "name", "capacity", "description", "sort_order", "icon",
	}}
	Persons = &Collection{Name: "persons", Columns: []string{
		"id", "trip_id", "name", "color", "stay_start_date", "stay_end_date",
	}}
	RoomAssignments = &Collection{Name: "room_assignments", Columns: []string{
		"id", "trip_id", "room_id", "person_id", "start_date", "end_date",
	}}
	Transports = &Collection{Name: "transports", Columns: []string{
		"id", "trip_id", "person_id", "type", "datetime", "location",
		"transport_mode", "transport_number", "needs_pickup", "driver_id", "notes",
	}}
	Settings = &Collection{Name: "settings", Columns: []string{
		"id", "language", "current_trip_id",
	}}
)

// All lists every collection; handy for scopes that span the whole store.
var All = []*Collection{Trips, Rooms, Persons, RoomAssignments, Transports, Settings}
