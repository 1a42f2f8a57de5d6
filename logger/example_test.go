package logger_test

import (
	"errors"

	"github.com/aalemi-dev/lims-events/logger"
)

func ExampleNewLoggerClient() {
	log := logger.NewLoggerClient(logger.Config{
		Level:       logger.Info,
		ServiceName: "lims-events",
	})

	log.Info("publisher ready", nil)
}

func ExampleLoggerClient_Error() {
	log := logger.NewLoggerClient(logger.Config{
		Level:       logger.Info,
		ServiceName: "lims-events",
	})

	log.Error("Failed to publish message to EMQ: connection refused", errors.New("connection refused"), map[string]interface{}{
		"schema_key": "volume_tracking",
	})
}
