package server

import (
	"log"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Internal server error"

// errorBody is the JSON shape of every failed API response.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// newErrorBody builds the response body for err. Details are only populated
// outside production.
func newErrorBody(err error, production bool) (int, errorBody) {
	e := siteerrors.As(err)
	if e == nil {
		body := errorBody{Error: internalErrorMessage}
		if !production {
			body.Details = err.Error()
		}
		return fiber.StatusInternalServerError, body
	}

	body := errorBody{Error: e.Message}
	if !production {
		body.Details = e.Diagnostic()
	}
	return e.HTTPStatus(), body
}

// writeError sends err as a JSON error response.
func writeError(c *fiber.Ctx, err error, production bool) error {
	status, body := newErrorBody(err, production)
	if status >= fiber.StatusInternalServerError {
		log.Printf("[server] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(body)
}
