package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StatusResponse is returned by the root and health endpoints.
type StatusResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Credential string `json:"credential,omitempty"`
}

// ErrorHandler renders errors that escape handlers (unknown routes, recovered
// panics) in the same shape as relay faults.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Detail: err.Error()})
}
