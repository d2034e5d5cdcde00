package commands

import (
	"context"
	"errors"
	"fmt"

	"aura/internal/domain"
)

// userMessage turns err into the line shown to the user.
func userMessage(err error) string {
	var (
		redirect   *redirectError
		validation *domain.ValidationError
		permission *domain.PermissionError
		transport  *domain.TransportError
		server     *domain.ServerError
	)
	switch {
	case errors.As(err, &redirect):
		if redirect.role != "" {
			return fmt.Sprintf("This is not available to a signed-in %s. Go to %s.", redirect.role, routeTitle(redirect.to))
		}
		return "Please sign in first: aura login patient|doctor"
	case errors.As(err, &validation):
		return fmt.Sprintf("Please check %s: %s.", validation.Field, validation.Message)
	case errors.As(err, &permission):
		return "Permission needed: " + permission.Error()
	case errors.Is(err, domain.ErrInvalidJoinCode):
		return "Invalid code. Scan the doctor's QR code again."
	case errors.Is(err, domain.ErrSessionNotFound):
		return "That session does not exist or has ended."
	case errors.Is(err, domain.ErrAlreadyAuthenticated):
		return "You are already signed in. Run `aura logout` first."
	case errors.As(err, &transport):
		return fmt.Sprintf("Cannot reach the server at %s. Check your connection and --api.", appURL())
	case errors.As(err, &server):
		if server.Message != "" {
			return "The server reported an error: " + server.Message
		}
		return fmt.Sprintf("The server reported an error (status %d).", server.Status)
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	}
	return "Error: " + err.Error()
}

func appURL() string {
	if appCtx == nil {
		return "the configured address"
	}
	return appCtx.Config.APIURL
}
