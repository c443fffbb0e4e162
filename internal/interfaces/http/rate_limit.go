package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/internal/infrastructure/cache"
)

// RateLimit limita a max peticiones por usuario (o IP si no hay token) por ventana.
// Si el contador falla se deja pasar la petición y se registra el error.
func RateLimit(counter cache.Counter, max int, window time.Duration, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who := GetUserID(c)
		if who == "" {
			who = "ip:" + c.IP()
		}
		n, err := counter.Incr(c.UserContext(), "ratelimit:"+who, window)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit no disponible")
			return c.Next()
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(max))
		if n > int64(max) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones"})
		}
		return c.Next()
	}
}
