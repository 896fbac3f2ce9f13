package http

import "github.com/gofiber/fiber/v2"

// genericTrackError is the only detail returned for server-side track faults.
const genericTrackError = "Error reading or parsing GPX file"

// APIError is a structured error response.
type APIError struct {
	Status        int      `json:"status"`
	Code          string   `json:"code"`  // Error code: bad_request, not_found, internal_error, etc.
	Error         string   `json:"error"` // Human-readable message
	AvailableMaps []string `json:"availableMaps,omitempty"`
	RequestID     string   `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(apiError(c, status, code, message))
}

func apiError(c *fiber.Ctx, status int, code, message string) APIError {
	reqID, _ := c.Locals("requestid").(string)
	return APIError{
		Status:    status,
		Code:      code,
		Error:     message,
		RequestID: reqID,
	}
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errUnknownMap returns a 404 listing every valid map id.
func errUnknownMap(c *fiber.Ctx, id string, available []string) error {
	body := apiError(c, fiber.StatusNotFound, "not_found", "map not found: "+id)
	body.AvailableMaps = available
	return c.Status(fiber.StatusNotFound).JSON(body)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}
