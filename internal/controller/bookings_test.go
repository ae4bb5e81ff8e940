package controller

import (
	"net/http"
	"testing"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validBookingForm(seats int) BookingForm {
	return BookingForm{
		PassengerName:  "Ivan Petrov",
		PassengerEmail: "ivan@example.com",
		PassengerPhone: "+79990001122",
		Seats:          seats,
	}
}

// selectFirstFlight logs in, searches and selects a flight with the given availability
func selectFirstFlight(t *testing.T, env *testEnv, available int) {
	t.Helper()
	env.login(t, models.RoleUser, nil)
	flight := testFlight(1, available)
	env.search(t, []models.FlightSummary{flight})
	env.api.On("GetFlight", mock.Anything, 1).Return(&flight, nil)
	require.NoError(t, env.ctrl.SelectFlight(1))
}

func TestController_CreateBooking(t *testing.T) {
	env := newTestEnv(t, nil)
	selectFirstFlight(t, env, 5)

	created := &models.Booking{ID: 11, BookingNumber: "BK00000011", FlightID: 1, SeatsCount: 2, Status: models.BookingStatusPending}
	env.api.On("CreateBooking", mock.Anything, models.CreateBookingRequest{
		FlightID:       1,
		PassengerName:  "Ivan Petrov",
		PassengerEmail: "ivan@example.com",
		PassengerPhone: "+79990001122",
		SeatsCount:     2,
	}).Return(created, nil)
	env.api.On("MyBookings", mock.Anything).Return([]models.Booking{*created}, nil).Once()

	require.NoError(t, env.ctrl.CreateBooking(validBookingForm(2)))

	state := env.ctrl.State()
	assert.Zero(t, state.SelectedFlightID)
	require.Len(t, state.Bookings, 1)
	assert.Equal(t, 1, env.view.bookingResets)
	assert.Equal(t, notice{level: NoticeSuccess, message: "Booking BK00000011 created"}, env.view.lastNotice())
}

func TestController_CreateBookingValidation(t *testing.T) {
	tests := []struct {
		name     string
		form     BookingForm
		expected string
	}{
		{
			name:     "seats above availability",
			form:     validBookingForm(6),
			expected: "Only 5 seats available",
		},
		{
			name:     "zero seats",
			form:     validBookingForm(0),
			expected: "At least one seat is required",
		},
		{
			name:     "missing phone",
			form:     BookingForm{PassengerName: "Ivan", PassengerEmail: "ivan@example.com", Seats: 1},
			expected: "Passenger name, email and phone are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			selectFirstFlight(t, env, 5)

			err := env.ctrl.CreateBooking(tt.form)

			assert.Equal(t, ValidationError(tt.expected), err)
			assert.Equal(t, 1, env.ctrl.State().SelectedFlightID)
			env.api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestController_CreateBookingWithoutSelection(t *testing.T) {
	env := newTestEnv(t, nil)
	env.login(t, models.RoleUser, nil)

	err := env.ctrl.CreateBooking(validBookingForm(1))

	assert.Equal(t, ValidationError("Select a flight first"), err)
	env.api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestController_CreateBookingAsGuest(t *testing.T) {
	env := newTestEnv(t, nil)
	env.login(t, models.RoleGuest, nil)

	assert.Error(t, env.ctrl.CreateBooking(validBookingForm(1)))
	env.api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestController_CreateBookingFailureKeepsState(t *testing.T) {
	env := newTestEnv(t, nil)
	selectFirstFlight(t, env, 5)
	before := env.ctrl.State()

	env.api.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, &apiclient.APIError{StatusCode: http.StatusBadRequest, Detail: "Not enough available seats"})

	require.NoError(t, env.ctrl.CreateBooking(validBookingForm(3)))

	after := env.ctrl.State()
	assert.Equal(t, before.Session, after.Session)
	assert.Equal(t, 1, after.SelectedFlightID)
	assert.Zero(t, env.view.bookingResets)
	assert.Equal(t, notice{level: NoticeError, message: "Not enough available seats"}, env.view.lastNotice())
	env.api.AssertNumberOfCalls(t, "MyBookings", 1)
}

func TestController_ConfirmBooking(t *testing.T) {
	pending := models.Booking{ID: 1, BookingNumber: "BK00000001", Status: models.BookingStatusPending}
	confirmed := models.Booking{ID: 2, BookingNumber: "BK00000002", Status: models.BookingStatusConfirmed}

	env := newTestEnv(t, nil)
	env.login(t, models.RoleUser, []models.Booking{pending, confirmed})

	assert.Equal(t, ValidationError("Only pending bookings can be confirmed"), env.ctrl.ConfirmBooking(2))
	assert.Equal(t, ValidationError("Booking not found"), env.ctrl.ConfirmBooking(3))
	env.api.AssertNotCalled(t, "ConfirmBooking", mock.Anything, mock.Anything)

	after := pending
	after.Status = models.BookingStatusConfirmed
	env.api.On("ConfirmBooking", mock.Anything, 1).Return(&after, nil)
	env.api.On("MyBookings", mock.Anything).Return([]models.Booking{after, confirmed}, nil).Once()

	require.NoError(t, env.ctrl.ConfirmBooking(1))

	assert.Equal(t, models.BookingStatusConfirmed, env.ctrl.State().Bookings[0].Status)
	assert.Equal(t, "Booking BK00000001 confirmed", env.view.lastNotice().message)
}

func TestController_CancelBooking(t *testing.T) {
	confirmed := models.Booking{ID: 2, BookingNumber: "BK00000002", Status: models.BookingStatusConfirmed}
	cancelled := models.Booking{ID: 3, BookingNumber: "BK00000003", Status: models.BookingStatusCancelled}

	env := newTestEnv(t, nil)
	env.login(t, models.RoleUser, []models.Booking{confirmed, cancelled})

	assert.Error(t, env.ctrl.CancelBooking(3))
	env.api.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything)

	env.api.On("CancelBooking", mock.Anything, 2).Return(nil)
	env.api.On("MyBookings", mock.Anything).Return([]models.Booking{}, nil).Once()

	require.NoError(t, env.ctrl.CancelBooking(2))

	assert.Empty(t, env.ctrl.State().Bookings)
	env.api.AssertNumberOfCalls(t, "ListFlights", 2)
}

func TestController_CancelBookingFailure(t *testing.T) {
	pending := models.Booking{ID: 1, BookingNumber: "BK00000001", Status: models.BookingStatusPending}

	env := newTestEnv(t, nil)
	env.login(t, models.RoleUser, []models.Booking{pending})
	env.api.On("CancelBooking", mock.Anything, 1).
		Return(&apiclient.NetworkError{Op: "DELETE /bookings/1", Err: assert.AnError})

	require.NoError(t, env.ctrl.CancelBooking(1))

	assert.Equal(t, notice{level: NoticeError, message: "Connection error"}, env.view.lastNotice())
	assert.Equal(t, models.BookingStatusPending, env.ctrl.State().Bookings[0].Status)
}
