package volumetracking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/lims-events/publisher"
	"github.com/aalemi-dev/lims-events/volumetracking"
)

func TestFXModule_ContributesBuilder(t *testing.T) {
	var builders *publisher.Builders

	app := fxtest.New(t,
		volumetracking.FXModule,
		fx.Provide(publisher.NewBuildersWithDI),
		fx.Populate(&builders),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, []string{publisher.DefaultBuilder, volumetracking.BuilderName}, builders.Names())
}
