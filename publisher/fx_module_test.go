package publisher_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/lims-events/kafka"
	"github.com/aalemi-dev/lims-events/logger"
	"github.com/aalemi-dev/lims-events/publisher"
	"github.com/aalemi-dev/lims-events/rabbitmq"
)

const fxYAML = `
emq:
  registry_url: http://registry:8081/subjects/
  transport: %s
  rabbitmq: {host: localhost, exchange: lims.events}
  kafka: {brokers: ["localhost:9092"], topic: lims.events}
  schema_store: {endpoint: "localhost:9000", bucket: lims-events, create_bucket: true}
  subjects:
    volume_tracking: {subject: create-aliquot-in-mlwh, version: 1}
pipelines:
  pacbio:
    lims: Traction
    volume_tracking:
      avro_schema_version_1:
        builder: Contributed
        fields:
          barcode: {type: model, value: barcode}
`

func newFXApp(t *testing.T, transport string, targets ...interface{}) *fxtest.App {
	t.Helper()

	cfg, err := publisher.ParseConfig([]byte(fmt.Sprintf(fxYAML, transport)))
	require.NoError(t, err)
	cfg.EMQ.Registry.CacheDir = t.TempDir()

	return fxtest.New(t,
		fx.Provide(func() logger.Config { return logger.Config{Level: logger.Info} }),
		logger.FXModule,
		publisher.LoggerBindings,
		publisher.FXModule,
		fx.Provide(func() *publisher.Config { return cfg }),
		fx.Provide(fx.Annotate(
			func() publisher.NamedBuilder {
				return publisher.NamedBuilder{Name: "Contributed", Factory: publisher.NewMessage}
			},
			fx.ResultTags(`group:"message_builders"`),
		)),
		fx.Populate(targets...),
	)
}

func TestFXModule_RabbitMQTransport(t *testing.T) {
	var (
		job      *publisher.Job
		sender   publisher.Sender
		builders *publisher.Builders
	)

	app := newFXApp(t, "rabbitmq", &job, &sender, &builders)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, job)
	assert.IsType(t, &rabbitmq.Sender{}, sender)
	assert.Equal(t, []string{"Contributed", publisher.DefaultBuilder}, builders.Names())
}

func TestFXModule_KafkaTransport(t *testing.T) {
	var sender publisher.Sender

	app := newFXApp(t, "kafka", &sender)
	app.RequireStart()
	defer app.RequireStop()

	assert.IsType(t, &kafka.Sender{}, sender)
}

func TestSchemaStoreConfig(t *testing.T) {
	cfg, err := publisher.ParseConfig([]byte(fmt.Sprintf(fxYAML, publisher.TransportRabbitMQ)))
	require.NoError(t, err)

	store := publisher.SchemaStoreConfig(cfg)
	assert.Equal(t, "localhost:9000", store.Endpoint)
	assert.Equal(t, "lims-events", store.Bucket)
	assert.True(t, store.CreateBucket)
}
