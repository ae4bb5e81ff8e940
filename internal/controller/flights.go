package controller

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// FlightForm is the admin panel input for a new flight. Airports are given by code.
type FlightForm struct {
	FlightNumber  string
	Airline       string
	From          string
	To            string
	DepartureTime string
	ArrivalTime   string
	TotalSeats    int
	Price         float64
}

// AirportForm is the admin panel input for a new airport
type AirportForm struct {
	Code    string
	Name    string
	City    string
	Country string
}

// LoadAirports replaces the cached airport list
func (c *Controller) LoadAirports() {
	if c.state.Session == nil {
		return
	}
	var airports []models.AirportRef
	c.request("load airports", func(ctx context.Context) error {
		var err error
		airports, err = c.api.ListAirports(ctx)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("load airports", err, "Failed to load airports")
			return
		}
		c.state.Airports = airports
		c.view.ShowAirports(airports)
	})
}

// LoadCatalog replaces the cached list of all flights
func (c *Controller) LoadCatalog() {
	if c.state.Session == nil {
		return
	}
	var flights []models.FlightSummary
	c.request("load catalog", func(ctx context.Context) error {
		var err error
		flights, err = c.api.ListFlights(ctx)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("load catalog", err, "Failed to load flights")
			return
		}
		flights = c.validFlights("load catalog", flights)
		c.state.Catalog = flights
		c.view.ShowCatalog(flights)
	})
}

// validFlights drops flights with impossible seat counts or prices
func (c *Controller) validFlights(action string, flights []models.FlightSummary) []models.FlightSummary {
	var valid []models.FlightSummary
	for _, f := range flights {
		if err := f.Validate(); err != nil {
			log.Printf("controller: %s: dropping flight %d: %v", action, f.ID, err)
			continue
		}
		valid = append(valid, f)
	}
	if dropped := len(flights) - len(valid); dropped > 0 {
		c.view.Notify(NoticeError, fmt.Sprintf("%d flights with invalid data were hidden", dropped))
		return valid
	}
	return flights
}

func (c *Controller) airportByCode(code string) (models.AirportRef, bool) {
	for _, a := range c.state.Airports {
		if strings.EqualFold(a.Code, code) {
			return a, true
		}
	}
	return models.AirportRef{}, false
}

func (c *Controller) resolveRoute(from, to string) (models.AirportRef, models.AirportRef, error) {
	dep, ok := c.airportByCode(from)
	if !ok {
		return dep, dep, ValidationError(fmt.Sprintf("Unknown airport: %s", from))
	}
	arr, ok := c.airportByCode(to)
	if !ok {
		return dep, arr, ValidationError(fmt.Sprintf("Unknown airport: %s", to))
	}
	if dep.ID == arr.ID {
		return dep, arr, ValidationError("Departure and arrival airports must differ")
	}
	return dep, arr, nil
}

// SearchFlights looks up flights by airport codes and departure date
func (c *Controller) SearchFlights(from, to, date string) error {
	if err := c.requireSession(); err != nil {
		return c.reject(err)
	}
	from, to, date = strings.TrimSpace(from), strings.TrimSpace(to), strings.TrimSpace(date)
	if from == "" || to == "" || date == "" {
		return c.reject(ValidationError("Departure, arrival and date are required"))
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return c.reject(ValidationError("Date must be in YYYY-MM-DD format"))
	}
	dep, arr, err := c.resolveRoute(from, to)
	if err != nil {
		return c.reject(err)
	}

	q := models.SearchQuery{DepartureAirportID: dep.ID, ArrivalAirportID: arr.ID, DepartureDate: date}
	var flights []models.FlightSummary
	c.request("search flights", func(ctx context.Context) error {
		var err error
		flights, err = c.api.SearchFlights(ctx, q)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("search flights", err, "Failed to search flights")
			return
		}
		flights = c.validFlights("search flights", flights)
		c.state.Results = flights
		c.view.ShowFlights(flights)
	})
	return nil
}

// SelectFlight picks a flight from the last search results for booking
func (c *Controller) SelectFlight(id int) error {
	if err := c.requireSession(); err != nil {
		return c.reject(err)
	}
	if c.state.Session.IsGuest() {
		return c.reject(ValidationError("Guest mode is read-only. Log in to book flights"))
	}
	flight, ok := findFlight(c.state.Results, id)
	if !ok {
		return c.reject(ValidationError("Flight not found"))
	}

	c.state.SelectedFlightID = id
	c.state.Tab = models.TabBooking
	c.view.SetTab(models.TabBooking)
	c.view.PrefillBooking(flight)

	var fresh *models.FlightSummary
	c.request("refresh flight", func(ctx context.Context) error {
		var err error
		fresh, err = c.api.GetFlight(ctx, id)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("refresh flight", err, "Failed to refresh flight")
			return
		}
		if c.state.SelectedFlightID != id {
			return
		}
		if err := fresh.Validate(); err != nil {
			c.fail("refresh flight", fmt.Errorf("flight %d: %w", id, err), "Flight data from the server is invalid")
			return
		}
		c.replaceResult(*fresh)
		c.view.PrefillBooking(*fresh)
	})
	return nil
}

func (c *Controller) replaceResult(f models.FlightSummary) {
	for i := range c.state.Results {
		if c.state.Results[i].ID == f.ID {
			c.state.Results[i] = f
		}
	}
}

// SelectedFlight resolves the selection against the last search results
func (c *Controller) SelectedFlight() (models.FlightSummary, bool) {
	if c.state.SelectedFlightID == 0 {
		return models.FlightSummary{}, false
	}
	return findFlight(c.state.Results, c.state.SelectedFlightID)
}

// AddAirport creates an airport and reloads the airport list
func (c *Controller) AddAirport(form AirportForm) error {
	if err := c.requireAccount(); err != nil {
		return c.reject(err)
	}
	code := strings.ToUpper(strings.TrimSpace(form.Code))
	if len(code) != 3 || strings.Trim(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return c.reject(ValidationError("Airport code must be 3 letters"))
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.City) == "" {
		return c.reject(ValidationError("Airport name and city are required"))
	}

	req := models.CreateAirportRequest{
		Code:    code,
		Name:    strings.TrimSpace(form.Name),
		City:    strings.TrimSpace(form.City),
		Country: strings.TrimSpace(form.Country),
	}
	c.request("add airport", func(ctx context.Context) error {
		_, err := c.api.CreateAirport(ctx, req)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("add airport", err, "Failed to add airport")
			return
		}
		c.view.Notify(NoticeSuccess, fmt.Sprintf("Airport %s added", code))
		c.view.ResetAirportForm()
		c.LoadAirports()
	})
	return nil
}

// AddFlight creates a flight and reloads the catalog
func (c *Controller) AddFlight(form FlightForm) error {
	if err := c.requireAccount(); err != nil {
		return c.reject(err)
	}
	number := strings.TrimSpace(form.FlightNumber)
	airline := strings.TrimSpace(form.Airline)
	if number == "" || airline == "" {
		return c.reject(ValidationError("Flight number and airline are required"))
	}
	dep, arr, err := c.resolveRoute(strings.TrimSpace(form.From), strings.TrimSpace(form.To))
	if err != nil {
		return c.reject(err)
	}
	departure, err := time.Parse(DateTimeLayout, strings.TrimSpace(form.DepartureTime))
	if err != nil {
		return c.reject(ValidationError("Departure time must be in YYYY-MM-DD HH:MM format"))
	}
	arrival, err := time.Parse(DateTimeLayout, strings.TrimSpace(form.ArrivalTime))
	if err != nil {
		return c.reject(ValidationError("Arrival time must be in YYYY-MM-DD HH:MM format"))
	}
	if !arrival.After(departure) {
		return c.reject(ValidationError("Arrival must be after departure"))
	}
	if form.TotalSeats < 1 {
		return c.reject(ValidationError("A flight needs at least one seat"))
	}
	if form.Price < 0 {
		return c.reject(ValidationError("Price must not be negative"))
	}

	req := models.CreateFlightRequest{
		FlightNumber:       number,
		Airline:            airline,
		DepartureAirportID: dep.ID,
		ArrivalAirportID:   arr.ID,
		DepartureTime:      departure,
		ArrivalTime:        arrival,
		TotalSeats:         form.TotalSeats,
		AvailableSeats:     form.TotalSeats,
		Price:              form.Price,
	}
	c.request("add flight", func(ctx context.Context) error {
		_, err := c.api.CreateFlight(ctx, req)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("add flight", err, "Failed to add flight")
			return
		}
		c.view.Notify(NoticeSuccess, fmt.Sprintf("Flight %s added", number))
		c.view.ResetFlightForm()
		c.LoadCatalog()
	})
	return nil
}

// DeleteFlight removes a catalog flight and reloads the catalog
func (c *Controller) DeleteFlight(id int) error {
	if err := c.requireAccount(); err != nil {
		return c.reject(err)
	}
	flight, ok := findFlight(c.state.Catalog, id)
	if !ok {
		return c.reject(ValidationError("Flight not found"))
	}

	c.request("delete flight", func(ctx context.Context) error {
		return c.api.DeleteFlight(ctx, id)
	}, func(err error) {
		if err != nil {
			c.fail("delete flight", err, "Failed to delete flight")
			return
		}
		if c.state.SelectedFlightID == id {
			c.state.SelectedFlightID = 0
			c.view.ResetBookingForm()
		}
		c.view.Notify(NoticeSuccess, fmt.Sprintf("Flight %s deleted", flight.FlightNumber))
		c.LoadCatalog()
	})
	return nil
}
