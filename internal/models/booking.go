package models

// Booking represents a booking owned by the authenticated user
type Booking struct {
	ID             int           `json:"id"`
	BookingNumber  string        `json:"booking_number"`
	FlightID       int           `json:"flight_id"`
	PassengerName  string        `json:"passenger_name"`
	PassengerEmail string        `json:"passenger_email"`
	PassengerPhone string        `json:"passenger_phone"`
	SeatsCount     int           `json:"seats_count"`
	TotalPrice     float64       `json:"total_price"`
	Status         BookingStatus `json:"status"`
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// CanConfirm reports whether the booking may move to confirmed
func (b Booking) CanConfirm() bool {
	return b.Status == BookingStatusPending
}

// CanCancel reports whether the booking may move to cancelled
func (b Booking) CanCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CreateBookingRequest represents a request to book seats on a flight
type CreateBookingRequest struct {
	FlightID       int    `json:"flight_id"`
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
	PassengerPhone string `json:"passenger_phone"`
	SeatsCount     int    `json:"seats_count"`
}
