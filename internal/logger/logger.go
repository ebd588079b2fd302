package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// EnvVar selects the logger mode. "dev" gives human-readable console output,
// anything else gives production JSON.
const EnvVar = "APP_ENV"

// New builds a sugared zap logger for the current environment.
func New() *zap.SugaredLogger {
	env := os.Getenv(EnvVar)

	var (
		logger *zap.Logger
		err    error
	)
	if strings.ToLower(env) == "dev" {
		logger, err = zap.NewDevelopment(zap.AddStacktrace(zap.ErrorLevel))
	} else {
		logger, err = zap.NewProduction(
			zap.AddStacktrace(zap.DPanicLevel),
			zap.Fields(zap.String(EnvVar, env)),
		)
	}
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}
