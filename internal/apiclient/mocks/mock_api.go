package mocks

import (
	"context"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock implementation of apiclient.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAPI) ListAirports(ctx context.Context) ([]models.AirportRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AirportRef), args.Error(1)
}

func (m *MockAPI) CreateAirport(ctx context.Context, req models.CreateAirportRequest) (*models.AirportRef, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AirportRef), args.Error(1)
}

func (m *MockAPI) ListFlights(ctx context.Context) ([]models.FlightSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightSummary), args.Error(1)
}

func (m *MockAPI) SearchFlights(ctx context.Context, q models.SearchQuery) ([]models.FlightSummary, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightSummary), args.Error(1)
}

func (m *MockAPI) GetFlight(ctx context.Context, flightID int) (*models.FlightSummary, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightSummary), args.Error(1)
}

func (m *MockAPI) CreateFlight(ctx context.Context, req models.CreateFlightRequest) (*models.FlightSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightSummary), args.Error(1)
}

func (m *MockAPI) DeleteFlight(ctx context.Context, flightID int) error {
	args := m.Called(ctx, flightID)
	return args.Error(0)
}

func (m *MockAPI) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockAPI) MyBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockAPI) ConfirmBooking(ctx context.Context, bookingID int) (*models.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockAPI) CancelBooking(ctx context.Context, bookingID int) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}
