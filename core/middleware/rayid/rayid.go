// Package rayid provides the request tracing middleware.
//
// Every incoming request gets a unique ray ID, stored in the request locals
// and echoed in the X-Ray-ID response header so logs and responses can be
// correlated.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the ray ID.
const HeaderName = "X-Ray-ID"

// LocalsKey is the fiber locals key the ray ID is stored under.
const LocalsKey = "ray_id"

// New creates the ray ID middleware. An incoming X-Ray-ID header is reused
// so upstream proxies can propagate their own trace IDs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
