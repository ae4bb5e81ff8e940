package controller

import (
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

// Phase is the authentication lifecycle of a controller
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// State is everything the controller knows about one client
type State struct {
	Phase            Phase
	Session          *models.Session
	SelectedFlightID int
	Airports         []models.AirportRef
	Results          []models.FlightSummary
	Catalog          []models.FlightSummary
	Bookings         []models.Booking
	Tab              models.Tab
	// Epoch changes with every session change. Completions started in an older epoch are dropped.
	Epoch uint64
}

// Affordances lists which mutating controls the view may offer
type Affordances struct {
	Book           bool
	ManageBookings bool
	Admin          bool
}

// AffordancesFor computes the affordances of a session. Everything is disabled for guests and anonymous clients.
func AffordancesFor(s *models.Session) Affordances {
	if s.IsGuest() {
		return Affordances{}
	}
	return Affordances{Book: true, ManageBookings: true, Admin: true}
}

// TabVisible reports whether tab may be shown
func (a Affordances) TabVisible(tab models.Tab) bool {
	switch tab {
	case models.TabBooking:
		return a.Book
	case models.TabTickets:
		return a.ManageBookings
	case models.TabAdmin:
		return a.Admin
	default:
		return tab.ReadOnly()
	}
}

func findFlight(flights []models.FlightSummary, id int) (models.FlightSummary, bool) {
	for _, f := range flights {
		if f.ID == id {
			return f, true
		}
	}
	return models.FlightSummary{}, false
}

func findBooking(bookings []models.Booking, id int) (models.Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}
