package cli

import (
	"errors"

	"github.com/dmitrijs2005/passvault/internal/client/rest"
	"github.com/dmitrijs2005/passvault/internal/generator"
)

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errSessionExpired   = errors.New("session expired, please log in again")
	errProductRequired  = errors.New("product and login are required")
	errPasswordRequired = errors.New("password is required")
)

// userMessage turns err into a line fit for the terminal.
func userMessage(err error) string {
	var apiErr *rest.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, rest.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, rest.ErrNoToken):
		return "please log in first"
	case errors.Is(err, generator.ErrInvalidLength):
		return generator.ErrInvalidLength.Error()
	default:
		return err.Error()
	}
}
