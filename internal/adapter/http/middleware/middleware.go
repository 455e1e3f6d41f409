package middleware

import (
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

type Middleware struct {
	apiKey string
	log    logger.Logger
}

func NewMiddleware(apiKey string, log logger.Logger) *Middleware {
	return &Middleware{
		apiKey: apiKey,
		log:    log,
	}
}
