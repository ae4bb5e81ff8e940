package models

import (
	"errors"
	"time"
)

// AirportRef represents an airport as returned by the API
type AirportRef struct {
	ID      int    `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// FlightSummary represents a flight in list and detail responses
type FlightSummary struct {
	ID               int        `json:"id"`
	FlightNumber     string     `json:"flight_number"`
	Airline          string     `json:"airline"`
	DepartureAirport AirportRef `json:"departure_airport"`
	ArrivalAirport   AirportRef `json:"arrival_airport"`
	DepartureTime    time.Time  `json:"departure_time"`
	ArrivalTime      time.Time  `json:"arrival_time"`
	TotalSeats       int        `json:"total_seats"`
	AvailableSeats   int        `json:"available_seats"`
	Price            float64    `json:"price"`
}

var (
	ErrSeatsOutOfRange = errors.New("available seats out of range")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// Validate checks the seat and price constraints of a flight received from the server
func (f FlightSummary) Validate() error {
	if f.AvailableSeats < 0 || f.AvailableSeats > f.TotalSeats {
		return ErrSeatsOutOfRange
	}
	if f.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// SearchQuery represents the query of GET /flights/
type SearchQuery struct {
	DepartureAirportID int
	ArrivalAirportID   int
	DepartureDate      string // YYYY-MM-DD
}

// CreateAirportRequest represents a request to add an airport
type CreateAirportRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// CreateFlightRequest represents a request to add a flight
type CreateFlightRequest struct {
	FlightNumber       string    `json:"flight_number"`
	Airline            string    `json:"airline"`
	DepartureAirportID int       `json:"departure_airport_id"`
	ArrivalAirportID   int       `json:"arrival_airport_id"`
	DepartureTime      time.Time `json:"departure_time"`
	ArrivalTime        time.Time `json:"arrival_time"`
	TotalSeats         int       `json:"total_seats"`
	AvailableSeats     int       `json:"available_seats"`
	Price              float64   `json:"price"`
}
