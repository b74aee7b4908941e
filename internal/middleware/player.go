package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// LocalClientAddr is the fiber local holding the resolved connection address.
const LocalClientAddr = "clientAddr"

// ResolveClientAddr picks the identity a connection plays under: the
// X-Player-ID header, then the playerId query parameter, then the peer
// ip:port. The result outlives the request, so it never aliases fasthttp's
// pooled buffers.
func ResolveClientAddr() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(LocalClientAddr) != nil {
			return c.Next()
		}

		addr := c.Get("X-Player-ID")
		if addr == "" {
			addr = c.Query("playerId")
		}
		if addr == "" {
			addr = c.Context().RemoteAddr().String()
		}

		c.Locals(LocalClientAddr, utils.CopyString(addr))
		return c.Next()
	}
}
