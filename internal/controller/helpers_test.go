package controller

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient/mocks"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/dispatch"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notice struct {
	level   NoticeLevel
	message string
}

// recordingView captures everything the controller pushes to the presentation layer
type recordingView struct {
	notices       []notice
	authShown     int
	app           *models.Session
	affordances   []Affordances
	tabs          []models.Tab
	airports      []models.AirportRef
	flights       []models.FlightSummary
	flightsShown  int
	catalog       []models.FlightSummary
	bookings      []models.Booking
	prefilled     []models.FlightSummary
	bookingResets int
	flightResets  int
	airportResets int
}

func (v *recordingView) Notify(level NoticeLevel, message string) {
	v.notices = append(v.notices, notice{level: level, message: message})
}

func (v *recordingView) ShowAuth() {
	v.authShown++
	v.app = nil
}

func (v *recordingView) ShowApp(session models.Session) {
	v.app = &session
}

func (v *recordingView) SetAffordances(a Affordances) {
	v.affordances = append(v.affordances, a)
}

func (v *recordingView) SetTab(tab models.Tab) {
	v.tabs = append(v.tabs, tab)
}

func (v *recordingView) ShowAirports(airports []models.AirportRef) {
	v.airports = airports
}

func (v *recordingView) ShowFlights(flights []models.FlightSummary) {
	v.flightsShown++
	v.flights = flights
}

func (v *recordingView) ShowCatalog(flights []models.FlightSummary) {
	v.catalog = flights
}

func (v *recordingView) ShowBookings(bookings []models.Booking) {
	v.bookings = bookings
}

func (v *recordingView) PrefillBooking(flight models.FlightSummary) {
	v.prefilled = append(v.prefilled, flight)
}

func (v *recordingView) ResetBookingForm() { v.bookingResets++ }
func (v *recordingView) ResetFlightForm()  { v.flightResets++ }
func (v *recordingView) ResetAirportForm() { v.airportResets++ }

func (v *recordingView) lastNotice() notice {
	if len(v.notices) == 0 {
		return notice{}
	}
	return v.notices[len(v.notices)-1]
}

func (v *recordingView) lastAffordances() Affordances {
	if len(v.affordances) == 0 {
		return Affordances{}
	}
	return v.affordances[len(v.affordances)-1]
}

func (v *recordingView) lastTab() models.Tab {
	if len(v.tabs) == 0 {
		return ""
	}
	return v.tabs[len(v.tabs)-1]
}

// manualScheduler holds requests until RunAll is called
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) Go(work func(ctx context.Context), done func()) {
	s.pending = append(s.pending, func() {
		work(context.Background())
		if done != nil {
			done()
		}
	})
}

func (s *manualScheduler) RunAll() {
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		next()
	}
}

type testEnv struct {
	ctrl  *Controller
	api   *mocks.MockAPI
	view  *recordingView
	kv    *storage.MemoryKV
	store *storage.SessionStore
}

func newTestEnv(t *testing.T, sched Scheduler) *testEnv {
	t.Helper()
	if sched == nil {
		sched = dispatch.Inline{}
	}
	env := &testEnv{
		api:  new(mocks.MockAPI),
		view: &recordingView{},
		kv:   storage.NewMemoryKV(),
	}
	env.store = storage.NewSessionStore(env.kv, "")
	env.ctrl = New(env.api, env.store, env.view, sched)
	return env
}

var (
	testMOW = models.AirportRef{ID: 1, Code: "MOW", Name: "Sheremetyevo", City: "Moscow", Country: "Russia"}
	testSPB = models.AirportRef{ID: 2, Code: "SPB", Name: "Pulkovo", City: "Saint Petersburg", Country: "Russia"}
)

func testFlight(id, available int) models.FlightSummary {
	departure := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	return models.FlightSummary{
		ID:               id,
		FlightNumber:     fmt.Sprintf("SU%d", 100+id),
		Airline:          "Aeroflot",
		DepartureAirport: testMOW,
		ArrivalAirport:   testSPB,
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(90 * time.Minute),
		TotalSeats:       100,
		AvailableSeats:   available,
		Price:            5500,
	}
}

// expectReload registers the list requests issued after every session start
func (e *testEnv) expectReload(bookings []models.Booking) {
	e.api.On("ListAirports", mock.Anything).Return([]models.AirportRef{testMOW, testSPB}, nil)
	e.api.On("ListFlights", mock.Anything).Return([]models.FlightSummary{testFlight(1, 10)}, nil)
	if bookings != nil {
		e.api.On("MyBookings", mock.Anything).Return(bookings, nil).Once()
	}
}

// login signs in with a server response carrying role
func (e *testEnv) login(t *testing.T, role models.Role, bookings []models.Booking) {
	t.Helper()
	e.api.On("Login", mock.Anything, models.LoginRequest{Email: "user@example.com", Password: "secret1"}).
		Return(&models.AuthResponse{
			AccessToken: "tok-" + string(role),
			TokenType:   "bearer",
			User:        models.Session{UserID: 7, Email: "user@example.com", DisplayName: "Test User", Role: role},
		}, nil).Once()
	if role == models.RoleGuest {
		e.expectReload(nil)
	} else {
		if bookings == nil {
			bookings = []models.Booking{}
		}
		e.expectReload(bookings)
	}
	require.NoError(t, e.ctrl.Login("user@example.com", "secret1"))
	require.Equal(t, PhaseAuthenticated, e.ctrl.State().Phase)
}

// search runs a search for MOW to SPB answered by results
func (e *testEnv) search(t *testing.T, results []models.FlightSummary) {
	t.Helper()
	e.api.On("SearchFlights", mock.Anything, models.SearchQuery{
		DepartureAirportID: testMOW.ID,
		ArrivalAirportID:   testSPB.ID,
		DepartureDate:      "2024-06-01",
	}).Return(results, nil).Once()
	require.NoError(t, e.ctrl.SearchFlights("mow", "spb", "2024-06-01"))
}
