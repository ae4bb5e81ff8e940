package controller

import (
	"errors"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
)

// ValidationError is a client side rejection. No request is sent.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// AuthError is returned when login or registration is refused
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

const connectionError = "Connection error"

// Message turns err into the text shown to the user
func Message(err error, fallback string) string {
	var validation ValidationError
	if errors.As(err, &validation) {
		return string(validation)
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	if apiclient.IsNetworkError(err) {
		return connectionError
	}
	if detail, ok := apiclient.DetailOf(err); ok {
		return detail
	}
	return fallback
}
