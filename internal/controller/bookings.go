package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

// BookingForm is the passenger input for a booking of the selected flight
type BookingForm struct {
	PassengerName  string
	PassengerEmail string
	PassengerPhone string
	Seats          int
}

// LoadMyBookings replaces the cached bookings of the session. Guests have none.
func (c *Controller) LoadMyBookings() {
	if c.state.Session.IsGuest() {
		return
	}
	var bookings []models.Booking
	c.request("load bookings", func(ctx context.Context) error {
		var err error
		bookings, err = c.api.MyBookings(ctx)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("load bookings", err, "Failed to load bookings")
			return
		}
		c.state.Bookings = bookings
		c.view.ShowBookings(bookings)
	})
}

// CreateBooking books the selected flight
func (c *Controller) CreateBooking(form BookingForm) error {
	if err := c.requireAccount(); err != nil {
		return c.reject(err)
	}
	flight, ok := c.SelectedFlight()
	if !ok {
		return c.reject(ValidationError("Select a flight first"))
	}

	req := models.CreateBookingRequest{
		FlightID:       flight.ID,
		PassengerName:  strings.TrimSpace(form.PassengerName),
		PassengerEmail: strings.TrimSpace(form.PassengerEmail),
		PassengerPhone: strings.TrimSpace(form.PassengerPhone),
		SeatsCount:     form.Seats,
	}
	if req.PassengerName == "" || req.PassengerEmail == "" || req.PassengerPhone == "" {
		return c.reject(ValidationError("Passenger name, email and phone are required"))
	}
	if req.SeatsCount < 1 {
		return c.reject(ValidationError("At least one seat is required"))
	}
	if req.SeatsCount > flight.AvailableSeats {
		return c.reject(ValidationError(fmt.Sprintf("Only %d seats available", flight.AvailableSeats)))
	}

	var booking *models.Booking
	c.request("create booking", func(ctx context.Context) error {
		var err error
		booking, err = c.api.CreateBooking(ctx, req)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("create booking", err, "Failed to create booking")
			return
		}
		c.view.Notify(NoticeSuccess, fmt.Sprintf("Booking %s created", booking.BookingNumber))
		c.view.ResetBookingForm()
		c.state.SelectedFlightID = 0
		c.LoadMyBookings()
	})
	return nil
}

func (c *Controller) ownBooking(id int) (models.Booking, error) {
	if err := c.requireAccount(); err != nil {
		return models.Booking{}, err
	}
	b, ok := findBooking(c.state.Bookings, id)
	if !ok {
		return b, ValidationError("Booking not found")
	}
	return b, nil
}

// ConfirmBooking moves a pending booking to confirmed
func (c *Controller) ConfirmBooking(id int) error {
	b, err := c.ownBooking(id)
	if err != nil {
		return c.reject(err)
	}
	if !b.CanConfirm() {
		return c.reject(ValidationError("Only pending bookings can be confirmed"))
	}

	c.request("confirm booking", func(ctx context.Context) error {
		_, err := c.api.ConfirmBooking(ctx, id)
		return err
	}, func(err error) {
		if err != nil {
			c.fail("confirm booking", err, "Failed to confirm booking")
			return
		}
		c.view.Notify(NoticeSuccess, fmt.Sprintf("Booking %s confirmed", b.BookingNumber))
		c.LoadMyBookings()
	})
	return nil
}

// CancelBooking cancels a pending or confirmed booking
func (c *Controller) CancelBooking(id int) error {
	b, err := c.ownBooking(id)
	if err != nil {
		return c.reject(err)
	}
	if !b.CanCancel() {
		return c.reject(ValidationError("This booking can no longer be cancelled"))
	}

	c.request("cancel booking", func(ctx context.Context) error {
		return c.api.CancelBooking(ctx, id)
	}, func(err error) {
		if err != nil {
			c.fail("cancel booking", err, "Failed to cancel booking")
			return
		}
		c.view.Notify(NoticeSuccess, fmt.Sprintf("Booking %s cancelled", b.BookingNumber))
		c.LoadMyBookings()
		c.LoadCatalog()
	})
	return nil
}
