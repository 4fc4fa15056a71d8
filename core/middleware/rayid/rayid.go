// Package rayid assigns every request a unique RayID for log correlation.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the request/response header carrying the RayID.
const Header = "X-Ray-ID"

// New returns middleware that reuses an incoming RayID or generates one,
// stores it in the request locals, and echoes it on the response.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("ray_id", id)
		c.Set(Header, id)
		return c.Next()
	}
}
