// Package apitest provides an in-memory fake of the flight booking API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type user struct {
	session  models.Session
	password string
}

type ownedBooking struct {
	booking models.Booking
	userID  int
}

// Server is a fake API backed by in-memory maps
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*user // by email
	tokens   map[string]int   // token -> user id
	airports map[int]models.AirportRef
	flights  map[int]models.FlightSummary
	bookings map[int]*ownedBooking
	nextID   int
	requests map[string]int
	failures map[string]failure
	headers  []http.Header
}

type failure struct {
	status int
	detail string
}

// NewServer starts a fake API server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		users:    make(map[string]*user),
		tokens:   make(map[string]int),
		airports: make(map[int]models.AirportRef),
		flights:  make(map[int]models.FlightSummary),
		bookings: make(map[int]*ownedBooking),
		requests: make(map[string]int),
		failures: make(map[string]failure),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recordMiddleware)

	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)

	r.HandleFunc("/flights/airports", s.listAirports).Methods(http.MethodGet)
	r.HandleFunc("/flights/airports", s.createAirport).Methods(http.MethodPost)
	r.HandleFunc("/flights/", s.listFlights).Methods(http.MethodGet)
	r.HandleFunc("/flights/", s.createFlight).Methods(http.MethodPost)
	r.HandleFunc("/flights/{id:[0-9]+}", s.getFlight).Methods(http.MethodGet)
	r.HandleFunc("/flights/{id:[0-9]+}", s.deleteFlight).Methods(http.MethodDelete)

	r.HandleFunc("/bookings/", s.createBooking).Methods(http.MethodPost)
	r.HandleFunc("/bookings/me", s.myBookings).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id:[0-9]+}/confirm", s.confirmBooking).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{id:[0-9]+}", s.cancelBooking).Methods(http.MethodDelete)

	return r
}

// recordMiddleware counts requests per route and injects configured failures
func (s *Server) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r)

		s.mu.Lock()
		s.requests[key]++
		s.headers = append(s.headers, r.Header.Clone())
		f, fail := s.failures[key]
		if fail {
			delete(s.failures, key)
		}
		s.mu.Unlock()

		if fail {
			respondError(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(r *http.Request) string {
	path := r.URL.Path
	if tmpl, err := mux.CurrentRoute(r).GetPathTemplate(); err == nil {
		path = strings.Replace(tmpl, "{id:[0-9]+}", "{id}", 1)
	}
	return r.Method + " " + path
}

// Requests returns how many requests hit the route, e.g. "POST /bookings/" or "GET /flights/{id}"
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// LastHeaders returns the headers of the most recent request
func (s *Server) LastHeaders() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.headers) == 0 {
		return nil
	}
	return s.headers[len(s.headers)-1]
}

// FailNext makes the next request to route answer with status and detail
func (s *Server) FailNext(route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, detail: detail}
}

// AddUser registers an account that can log in
func (s *Server) AddUser(email, password, name string, role models.Role) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, name, role)
}

func (s *Server) addUserLocked(email, password, name string, role models.Role) models.Session {
	s.nextID++
	sess := models.Session{UserID: s.nextID, Email: email, DisplayName: name, Role: role}
	s.users[email] = &user{session: sess, password: password}
	return sess
}

// AddAirport stores an airport and returns it with its id
func (s *Server) AddAirport(code, name, city, country string) models.AirportRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a := models.AirportRef{ID: s.nextID, Code: code, Name: name, City: city, Country: country}
	s.airports[a.ID] = a
	return a
}

// AddFlight stores a flight between two known airports
func (s *Server) AddFlight(number string, from, to models.AirportRef, departure time.Time, seats int, price float64) models.FlightSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f := models.FlightSummary{
		ID:               s.nextID,
		FlightNumber:     number,
		Airline:          "Demo Air",
		DepartureAirport: from,
		ArrivalAirport:   to,
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(90 * time.Minute),
		TotalSeats:       seats,
		AvailableSeats:   seats,
		Price:            price,
	}
	s.flights[f.ID] = f
	return f
}

// Flight returns the stored state of a flight
func (s *Server) Flight(id int) (models.FlightSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[id]
	return f, ok
}

// Booking returns the stored state of a booking
func (s *Server) Booking(id int) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, false
	}
	return b.booking, true
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		w.WriteHeader(status)
		return
	}
	respondJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// authUser resolves the bearer token. Must be called with s.mu held.
func (s *Server) authUser(r *http.Request) (int, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return 0, false
	}
	id, ok := s.tokens[token]
	return id, ok
}

func (s *Server) issueToken(sess models.Session) models.AuthResponse {
	token := "token-" + uuid.NewString()
	s.tokens[token] = sess.UserID
	return models.AuthResponse{AccessToken: token, TokenType: "bearer", User: sess}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok || u.password != req.Password {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	respondJSON(w, http.StatusOK, s.issueToken(u.session))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[req.Email]; exists {
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	sess := s.addUserLocked(req.Email, req.Password, req.Name, models.RoleUser)
	respondJSON(w, http.StatusCreated, s.issueToken(sess))
}

func (s *Server) listAirports(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	airports := make([]models.AirportRef, 0, len(s.airports))
	for id := 1; id <= s.nextID; id++ {
		if a, ok := s.airports[id]; ok {
			airports = append(airports, a)
		}
	}
	respondJSON(w, http.StatusOK, airports)
}

func (s *Server) createAirport(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAirportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Code) != 3 {
		respondError(w, http.StatusUnprocessableEntity, "Airport code must be 3 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.airports {
		if strings.EqualFold(a.Code, req.Code) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Airport with code %s already exists", req.Code))
			return
		}
	}
	s.nextID++
	a := models.AirportRef{ID: s.nextID, Code: req.Code, Name: req.Name, City: req.City, Country: req.Country}
	s.airports[a.ID] = a
	respondJSON(w, http.StatusCreated, a)
}

func (s *Server) listFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, _ := strconv.Atoi(q.Get("departure_airport_id"))
	to, _ := strconv.Atoi(q.Get("arrival_airport_id"))
	date := q.Get("departure_date")

	s.mu.Lock()
	defer s.mu.Unlock()

	flights := make([]models.FlightSummary, 0)
	for id := 1; id <= s.nextID; id++ {
		f, ok := s.flights[id]
		if !ok {
			continue
		}
		if from != 0 && f.DepartureAirport.ID != from {
			continue
		}
		if to != 0 && f.ArrivalAirport.ID != to {
			continue
		}
		if date != "" && f.DepartureTime.Format("2006-01-02") != date {
			continue
		}
		flights = append(flights, f)
	}
	respondJSON(w, http.StatusOK, flights)
}

func (s *Server) getFlight(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[pathID(r)]
	if !ok {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, f)
}

func (s *Server) createFlight(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, okFrom := s.airports[req.DepartureAirportID]
	to, okTo := s.airports[req.ArrivalAirportID]
	if !okFrom || !okTo {
		respondError(w, http.StatusBadRequest, "Airport not found")
		return
	}
	s.nextID++
	f := models.FlightSummary{
		ID:               s.nextID,
		FlightNumber:     req.FlightNumber,
		Airline:          req.Airline,
		DepartureAirport: from,
		ArrivalAirport:   to,
		DepartureTime:    req.DepartureTime,
		ArrivalTime:      req.ArrivalTime,
		TotalSeats:       req.TotalSeats,
		AvailableSeats:   req.AvailableSeats,
		Price:            req.Price,
	}
	s.flights[f.ID] = f
	respondJSON(w, http.StatusCreated, f)
}

func (s *Server) deleteFlight(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := pathID(r)
	if _, ok := s.flights[id]; !ok {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	delete(s.flights, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.authUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	f, ok := s.flights[req.FlightID]
	if !ok {
		respondError(w, http.StatusBadRequest, "Flight not found")
		return
	}
	if req.SeatsCount <= 0 || f.AvailableSeats < req.SeatsCount {
		respondError(w, http.StatusBadRequest, "Not enough available seats")
		return
	}

	s.nextID++
	b := models.Booking{
		ID:             s.nextID,
		BookingNumber:  fmt.Sprintf("BK%08d", s.nextID),
		FlightID:       f.ID,
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		PassengerPhone: req.PassengerPhone,
		SeatsCount:     req.SeatsCount,
		TotalPrice:     f.Price * float64(req.SeatsCount),
		Status:         models.BookingStatusPending,
	}
	s.bookings[b.ID] = &ownedBooking{booking: b, userID: userID}
	f.AvailableSeats -= req.SeatsCount
	s.flights[f.ID] = f

	respondJSON(w, http.StatusCreated, b)
}

func (s *Server) myBookings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.authUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	bookings := make([]models.Booking, 0)
	for id := 1; id <= s.nextID; id++ {
		if b, ok := s.bookings[id]; ok && b.userID == userID {
			bookings = append(bookings, b.booking)
		}
	}
	respondJSON(w, http.StatusOK, bookings)
}

// ownBooking resolves a booking owned by the caller. Must be called with s.mu held.
func (s *Server) ownBooking(w http.ResponseWriter, r *http.Request) (*ownedBooking, bool) {
	userID, ok := s.authUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	b, ok := s.bookings[pathID(r)]
	if !ok || b.userID != userID {
		respondError(w, http.StatusNotFound, "Booking not found")
		return nil, false
	}
	return b, true
}

func (s *Server) confirmBooking(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.ownBooking(w, r)
	if !ok {
		return
	}
	if b.booking.Status != models.BookingStatusPending {
		respondError(w, http.StatusBadRequest, "Only pending bookings can be confirmed")
		return
	}
	b.booking.Status = models.BookingStatusConfirmed
	respondJSON(w, http.StatusOK, b.booking)
}

func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.ownBooking(w, r)
	if !ok {
		return
	}
	if b.booking.Status == models.BookingStatusCancelled {
		respondError(w, http.StatusBadRequest, "Booking is already cancelled")
		return
	}
	b.booking.Status = models.BookingStatusCancelled
	if f, ok := s.flights[b.booking.FlightID]; ok {
		f.AvailableSeats += b.booking.SeatsCount
		s.flights[f.ID] = f
	}
	w.WriteHeader(http.StatusNoContent)
}
