package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
	}{
		{"admin", RoleAdmin},
		{"guest", RoleGuest},
		{"user", RoleUser},
		{"", RoleUser},
		{"superuser", RoleUser},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseRole(tt.input), tt.input)
	}
}

func TestAuthResponse_Session(t *testing.T) {
	var resp AuthResponse
	body := `{"access_token":"abc","token_type":"bearer","user":{"id":7,"email":"a@b.c","name":"Anna","role":"root"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	s := resp.Session()

	assert.Equal(t, Session{UserID: 7, Email: "a@b.c", DisplayName: "Anna", Token: "abc", Role: RoleUser}, s)
	assert.False(t, s.IsGuest())
}

func TestSession_IsGuest(t *testing.T) {
	var nilSession *Session
	assert.True(t, nilSession.IsGuest())
	assert.True(t, (&Session{Role: RoleGuest}).IsGuest())
	assert.False(t, (&Session{Role: RoleAdmin}).IsGuest())
}

func TestSession_TokenNotSerialized(t *testing.T) {
	data, err := json.Marshal(Session{Email: "a@b.c", Token: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestFlightSummary_Validate(t *testing.T) {
	tests := []struct {
		name     string
		flight   FlightSummary
		expected error
	}{
		{"valid", FlightSummary{TotalSeats: 10, AvailableSeats: 10, Price: 100}, nil},
		{"sold out", FlightSummary{TotalSeats: 10, AvailableSeats: 0}, nil},
		{"negative seats", FlightSummary{TotalSeats: 10, AvailableSeats: -1}, ErrSeatsOutOfRange},
		{"overbooked", FlightSummary{TotalSeats: 10, AvailableSeats: 11}, ErrSeatsOutOfRange},
		{"negative price", FlightSummary{TotalSeats: 10, AvailableSeats: 5, Price: -1}, ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.flight.Validate())
		})
	}
}

func TestBooking_Transitions(t *testing.T) {
	tests := []struct {
		status     BookingStatus
		canConfirm bool
		canCancel  bool
	}{
		{BookingStatusPending, true, true},
		{BookingStatusConfirmed, false, true},
		{BookingStatusCancelled, false, false},
		{BookingStatusCompleted, false, false},
	}

	for _, tt := range tests {
		b := Booking{Status: tt.status}
		assert.Equal(t, tt.canConfirm, b.CanConfirm(), string(tt.status))
		assert.Equal(t, tt.canCancel, b.CanCancel(), string(tt.status))
	}
}

func TestParseTab(t *testing.T) {
	for _, tab := range Tabs {
		parsed, err := ParseTab(string(tab))
		require.NoError(t, err)
		assert.Equal(t, tab, parsed)
	}

	_, err := ParseTab("settings")
	assert.EqualError(t, err, "unknown tab: settings")

	assert.True(t, TabSearch.ReadOnly())
	assert.False(t, TabAdmin.ReadOnly())
}
