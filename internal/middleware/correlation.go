package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const correlationLocalsKey = "correlation_id"

// CorrelationID tags every request with an identifier so one admin action
// can be followed through the request log and the audit trail. An incoming
// X-Correlation-ID or X-Request-ID header wins; otherwise a fresh UUID is
// minted. The identifier is always echoed back to the client.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if id == "" {
			id = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationLocalsKey, id)
		c.Set("X-Correlation-ID", id)

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if id, ok := c.Locals(correlationLocalsKey).(string); ok {
		return id
	}
	return ""
}
