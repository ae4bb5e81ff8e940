package controller

import (
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// View is the presentation layer driven by the controller. All calls happen on the event loop.
type View interface {
	Notify(level NoticeLevel, message string)
	ShowAuth()
	ShowApp(session models.Session)
	SetAffordances(a Affordances)
	SetTab(tab models.Tab)
	ShowAirports(airports []models.AirportRef)
	// ShowFlights renders search results. An empty slice renders the empty state.
	ShowFlights(flights []models.FlightSummary)
	ShowCatalog(flights []models.FlightSummary)
	ShowBookings(bookings []models.Booking)
	PrefillBooking(flight models.FlightSummary)
	ResetBookingForm()
	ResetFlightForm()
	ResetAirportForm()
}
