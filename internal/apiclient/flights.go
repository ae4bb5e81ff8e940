package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

// ListAirports calls GET /flights/airports
func (c *Client) ListAirports(ctx context.Context) ([]models.AirportRef, error) {
	var airports []models.AirportRef
	if err := c.do(ctx, http.MethodGet, "/flights/airports", nil, nil, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

// CreateAirport calls POST /flights/airports
func (c *Client) CreateAirport(ctx context.Context, req models.CreateAirportRequest) (*models.AirportRef, error) {
	var airport models.AirportRef
	if err := c.do(ctx, http.MethodPost, "/flights/airports", nil, req, &airport); err != nil {
		return nil, err
	}
	return &airport, nil
}

// ListFlights calls GET /flights/ without filters
func (c *Client) ListFlights(ctx context.Context) ([]models.FlightSummary, error) {
	return c.listFlights(ctx, nil)
}

// SearchFlights calls GET /flights/ with the search filters
func (c *Client) SearchFlights(ctx context.Context, q models.SearchQuery) ([]models.FlightSummary, error) {
	query := url.Values{}
	if q.DepartureAirportID != 0 {
		query.Set("departure_airport_id", strconv.Itoa(q.DepartureAirportID))
	}
	if q.ArrivalAirportID != 0 {
		query.Set("arrival_airport_id", strconv.Itoa(q.ArrivalAirportID))
	}
	if q.DepartureDate != "" {
		query.Set("departure_date", q.DepartureDate)
	}
	return c.listFlights(ctx, query)
}

func (c *Client) listFlights(ctx context.Context, query url.Values) ([]models.FlightSummary, error) {
	var flights []models.FlightSummary
	if err := c.do(ctx, http.MethodGet, "/flights/", query, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// GetFlight calls GET /flights/{id}
func (c *Client) GetFlight(ctx context.Context, flightID int) (*models.FlightSummary, error) {
	var flight models.FlightSummary
	if err := c.do(ctx, http.MethodGet, "/flights/"+strconv.Itoa(flightID), nil, nil, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

// CreateFlight calls POST /flights/
func (c *Client) CreateFlight(ctx context.Context, req models.CreateFlightRequest) (*models.FlightSummary, error) {
	var flight models.FlightSummary
	if err := c.do(ctx, http.MethodPost, "/flights/", nil, req, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

// DeleteFlight calls DELETE /flights/{id}
func (c *Client) DeleteFlight(ctx context.Context, flightID int) error {
	return c.do(ctx, http.MethodDelete, "/flights/"+strconv.Itoa(flightID), nil, nil, nil)
}
