package handlers

import (
	"marketplace_back_end/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WriteError maps err to its status code and writes {"error": msg}.
// Unexpected errors are logged and answered with a generic message.
func WriteError(c *gin.Context, err error) {
	status := errs.GetErrorStatusCode(err)
	if errs.IsInternal(err) {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("component", "handler").Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": errs.PublicMessage(err)})
}

func BadRequest(c *gin.Context, msg string) {
	WriteError(c, errs.Validation(msg))
}
