package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

// CreateBooking calls POST /bookings/
func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/", nil, req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// MyBookings calls GET /bookings/me
func (c *Client) MyBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/me", nil, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ConfirmBooking calls POST /bookings/{id}/confirm
func (c *Client) ConfirmBooking(ctx context.Context, bookingID int) (*models.Booking, error) {
	var booking models.Booking
	path := "/bookings/" + strconv.Itoa(bookingID) + "/confirm"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking calls DELETE /bookings/{id}
func (c *Client) CancelBooking(ctx context.Context, bookingID int) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+strconv.Itoa(bookingID), nil, nil, nil)
}
