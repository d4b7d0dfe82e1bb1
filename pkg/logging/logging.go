// Package logging builds the zap loggers handed to the export services.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a configured *zap.Logger for the given environment.
// "prod"/"production" selects the JSON production encoder; anything else
// gets the human-readable development encoder. The caller owns Sync.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
