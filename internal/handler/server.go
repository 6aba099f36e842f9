// Package handler implements the HTTP JSON API over the service layer.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, room.go, etc.) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tripstore/internal/domain"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interfaces here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in domain.NewTrip) (domain.Trip, error)
	Get(ctx context.Context, id string) (domain.Trip, error)
	GetByShareID(ctx context.Context, shareID string) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, id string, p domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, id string) error
}

type RoomServicer interface {
	Create(ctx context.Context, tripID string, in domain.NewRoom) (domain.Room, error)
	Get(ctx context.Context, id string) (domain.Room, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.Room, error)
	UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.RoomPatch) (domain.Room, error)
	DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error
	Reorder(ctx context.Context, tripID string, orderedIDs []string) error
}

type PersonServicer interface {
	Create(ctx context.Context, tripID string, in domain.NewPerson) (domain.Person, error)
	Get(ctx context.Context, id string) (domain.Person, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.Person, error)
	UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.PersonPatch) (domain.Person, error)
	DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error
}

type AssignmentServicer interface {
	AssignRoom(ctx context.Context, tripID string, in domain.NewRoomAssignment) (domain.RoomAssignment, error)
	CheckConflict(ctx context.Context, tripID, personID string, start, end domain.Date, excludeID string) (bool, error)
	Get(ctx context.Context, id string) (domain.RoomAssignment, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.RoomAssignment, error)
	UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.RoomAssignmentPatch) (domain.RoomAssignment, error)
	DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error
}

type TransportServicer interface {
	Create(ctx context.Context, tripID string, in domain.NewTransport) (domain.Transport, error)
	Get(ctx context.Context, id string) (domain.Transport, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.Transport, error)
	UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.TransportPatch) (domain.Transport, error)
	DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error
}

type SettingsServicer interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, p domain.SettingsPatch) (domain.Settings, error)
}

type Exporter interface {
	ExportTrip(ctx context.Context, tripID string) (domain.TripExport, error)
}

// Deps bundles the services a Server needs. A nil field leaves the matching
// routes unregistered, which keeps narrow handler tests short.
type Deps struct {
	Trips       TripServicer
	Rooms       RoomServicer
	People      PersonServicer
	Assignments AssignmentServicer
	Transports  TransportServicer
	Settings    SettingsServicer
	Export      Exporter
}

// Server holds the API dependencies. Wire it in main.go via Routes.
type Server struct {
	deps Deps
	log  *slog.Logger
}

// NewServer constructs the Server. A nil logger discards output.
func NewServer(deps Deps, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{deps: deps, log: log}
}

// Routes builds the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)

	if s.deps.Trips != nil {
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Patch("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				s.tripScoped(r)
			})
		})
		r.Get("/shares/{shareID}", s.GetTripByShareID)
	}
	if s.deps.Settings != nil {
		r.Get("/settings", s.GetSettings)
		r.Patch("/settings", s.UpdateSettings)
	}
	return r
}

// tripScoped registers the child collections under /trips/{tripID}.
func (s *Server) tripScoped(r chi.Router) {
	if s.deps.Export != nil {
		r.Get("/export", s.ExportTrip)
	}
	if s.deps.Rooms != nil {
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.ListRooms)
			r.Post("/", s.CreateRoom)
			r.Put("/order", s.ReorderRooms)
			r.Get("/{id}", s.GetRoom)
			r.Patch("/{id}", s.UpdateRoom)
			r.Delete("/{id}", s.DeleteRoom)
		})
	}
	if s.deps.People != nil {
		r.Route("/people", func(r chi.Router) {
			r.Get("/", s.ListPeople)
			r.Post("/", s.CreatePerson)
			r.Get("/{id}", s.GetPerson)
			r.Patch("/{id}", s.UpdatePerson)
			r.Delete("/{id}", s.DeletePerson)
		})
	}
	if s.deps.Assignments != nil {
		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", s.ListAssignments)
			r.Post("/", s.CreateAssignment)
			r.Get("/conflicts", s.CheckConflict)
			r.Get("/{id}", s.GetAssignment)
			r.Patch("/{id}", s.UpdateAssignment)
			r.Delete("/{id}", s.DeleteAssignment)
		})
	}
	if s.deps.Transports != nil {
		r.Route("/transports", func(r chi.Router) {
			r.Get("/", s.ListTransports)
			r.Post("/", s.CreateTransport)
			r.Get("/{id}", s.GetTransport)
			r.Patch("/{id}", s.UpdateTransport)
			r.Delete("/{id}", s.DeleteTransport)
		})
	}
}

// ---- request plumbing ------------------------------------------------------

func tripID(r *http.Request) string { return chi.URLParam(r, "tripID") }

func entityID(r *http.Request) string { return chi.URLParam(r, "id") }
