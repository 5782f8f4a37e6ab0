package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared/response"
)

// Recovery converts panics into a 500 response instead of killing the worker.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("panic", err).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString("request_id")).
					Msg("panic recovered")

				response.InternalError(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}
