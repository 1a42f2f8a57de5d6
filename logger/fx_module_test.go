package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestFXModule_ProvidesClientAndInterface(t *testing.T) {
	var client *LoggerClient
	var log Logger

	app := fxtest.New(t,
		fx.Supply(Config{Level: Debug, ServiceName: "traction-events"}),
		FXModule,
		fx.Populate(&client, &log),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Same(t, client, log)
	assert.True(t, client.Zap.Core().Enabled(parseLevel(Debug)))
}

func TestFXModule_WithoutConfig(t *testing.T) {
	var client *LoggerClient

	app := fxtest.New(t, FXModule, fx.Populate(&client))
	app.RequireStart()
	defer app.RequireStop()

	assert.False(t, client.Zap.Core().Enabled(parseLevel(Debug)))
	assert.True(t, client.Zap.Core().Enabled(parseLevel(Info)))
}
