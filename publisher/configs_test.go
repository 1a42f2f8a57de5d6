package publisher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/lims-events/fieldmapper"
	"github.com/aalemi-dev/lims-events/publisher"
)

const pipelineYAML = `
emq:
  registry_url: http://registry:8081/subjects/
  cache_dir: /tmp/avro
  transport: rabbitmq
  rabbitmq:
    host: rabbit
    port: 5671
    vhost: tol
    exchange: lims.events
    tls:
      enabled: true
  subjects:
    volume_tracking: {subject: create-aliquot-in-mlwh, version: 1}
    not_yet: {subject: "", version: 0}
pipelines:
  pacbio:
    lims: Traction
    volume_tracking:
      avro_schema_version_1:
        builder: VolumeTrackingMessage
        fields:
          source_type: {type: model, value: source_type}
          recorded_at: {type: constant, value: Time.current}
          barcode: {type: model, value: source&.barcode}
          used_by_barcode: {type: self, value: used_by_barcode}
          version: {type: string, value: v1}
          wells:
            type: array
            value: wells
            children:
              position: {type: model, value: position}
              run_name: {type: parent_model, value: name}
      avro_schema_version_2:
        key: aliquot
        fields:
          uuid: {type: model, value: uuid}
`

func TestParseConfig(t *testing.T) {
	cfg, err := publisher.ParseConfig([]byte(pipelineYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://registry:8081/subjects/", cfg.EMQ.Registry.URL)
	assert.Equal(t, "/tmp/avro", cfg.EMQ.Registry.CacheDir)
	assert.Equal(t, publisher.TransportRabbitMQ, cfg.EMQ.Transport)
	assert.Equal(t, "rabbit", cfg.EMQ.RabbitMQ.Host)
	assert.Equal(t, 5671, cfg.EMQ.RabbitMQ.Port)
	assert.Equal(t, "lims.events", cfg.EMQ.RabbitMQ.Exchange)
	assert.True(t, cfg.EMQ.RabbitMQ.TLS.Enabled)
	assert.Equal(t, publisher.SubjectConfig{Subject: "create-aliquot-in-mlwh", Version: 1}, cfg.EMQ.Subjects["volume_tracking"])

	p := cfg.Pipelines["pacbio"]
	assert.Equal(t, "Traction", p.Lims)

	v1, ok := p.Builder("volume_tracking", 1)
	require.True(t, ok)
	assert.Equal(t, "VolumeTrackingMessage", v1.Builder)
	assert.Equal(t, "volume_tracking", v1.Key)
	assert.Equal(t, "volume_tracking", v1.Spec.RootKey)
	assert.Equal(t, "Traction", v1.Spec.LimsName)

	var names []string
	for _, e := range v1.Spec.Fields {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"source_type", "recorded_at", "barcode", "used_by_barcode", "version", "wells"}, names)

	assert.Equal(t, fieldmapper.FieldPath{Path: fieldmapper.MustParsePath("source_type")}, v1.Spec.Fields[0].Spec)
	assert.Equal(t, fieldmapper.ConstantRef{Name: "Time", Chain: []string{"current"}}, v1.Spec.Fields[1].Spec)

	barcode := v1.Spec.Fields[2].Spec.(fieldmapper.FieldPath)
	assert.True(t, barcode.Path.Safe)
	assert.Equal(t, []string{"source", "barcode"}, barcode.Path.Segments)

	assert.Equal(t, fieldmapper.BuilderSelf, v1.Spec.Fields[3].Spec.(fieldmapper.FieldPath).Scope)
	assert.Equal(t, fieldmapper.Literal{Value: "v1"}, v1.Spec.Fields[4].Spec)

	wells := v1.Spec.Fields[5].Spec.(fieldmapper.ArrayField)
	assert.Equal(t, "wells", wells.Path.String())
	require.Equal(t, 2, wells.Children.Len())
	assert.Equal(t, fieldmapper.ParentObject, wells.Children.Fields[1].Spec.(fieldmapper.FieldPath).Scope)

	v2, ok := p.Builder("volume_tracking", 2)
	require.True(t, ok)
	assert.Equal(t, publisher.DefaultBuilder, v2.Builder)
	assert.Equal(t, "aliquot", v2.Spec.RootKey)

	_, ok = p.Builder("volume_tracking", 3)
	assert.False(t, ok)
	_, ok = p.Builder("other", 1)
	assert.False(t, ok)
}

func TestParseConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown field type",
			yaml:    "pipelines:\n  p:\n    k:\n      avro_schema_version_1:\n        fields:\n          a: {type: method, value: x}\n",
			wantErr: publisher.ErrUnknownFieldType,
		},
		{
			name:    "unknown field setting",
			yaml:    "pipelines:\n  p:\n    k:\n      avro_schema_version_1:\n        fields:\n          a: {type: model, value: x, populate: true}\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "field without value",
			yaml:    "pipelines:\n  p:\n    k:\n      avro_schema_version_1:\n        fields:\n          a: {type: model}\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "malformed path",
			yaml:    "pipelines:\n  p:\n    k:\n      avro_schema_version_1:\n        fields:\n          a: {type: model, value: 'a..b'}\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "array without children",
			yaml:    "pipelines:\n  p:\n    k:\n      avro_schema_version_1:\n        fields:\n          a: {type: array, value: wells}\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "bad version key",
			yaml:    "pipelines:\n  p:\n    k:\n      version_1:\n        fields: {}\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "builder without fields",
			yaml:    "pipelines:\n  p:\n    k:\n      avro_schema_version_1:\n        builder: Message\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "unknown builder setting",
			yaml:    "pipelines:\n  p:\n    k:\n      avro_schema_version_1:\n        fields: {}\n        extra: 1\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "unknown top level key",
			yaml:    "emq: {}\nqueues: {}\n",
			wantErr: publisher.ErrInvalidConfig,
		},
		{
			name:    "not yaml",
			yaml:    "emq: [",
			wantErr: publisher.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := publisher.ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, publisher.IsConfigError(err))
		})
	}
}

func TestValidate(t *testing.T) {
	cfg, err := publisher.ParseConfig([]byte(pipelineYAML))
	require.NoError(t, err)

	err = cfg.Validate(publisher.NewBuilders())
	assert.ErrorIs(t, err, publisher.ErrUnknownBuilder)

	builders := publisher.NewBuilders(publisher.NamedBuilder{Name: "VolumeTrackingMessage", Factory: publisher.NewMessage})
	assert.NoError(t, cfg.Validate(builders))

	cfg.EMQ.Transport = "sqs"
	assert.ErrorIs(t, cfg.Validate(builders), publisher.ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LIMS_EVENTS_SCHEMA_REGISTRY_URL", "http://other:8081/subjects/")
	t.Setenv("LIMS_EVENTS_SCHEMA_REGISTRY_PASSWORD", "registry-secret")
	t.Setenv("LIMS_EVENTS_RABBITMQ_PASSWORD", "rabbit-secret")
	t.Setenv("LIMS_EVENTS_RABBITMQ_TLS_CA_CERT_PATH", "/etc/ssl/ca.pem")
	t.Setenv("LIMS_EVENTS_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LIMS_EVENTS_KAFKA_SASL_PASSWORD", "kafka-secret")
	t.Setenv("LIMS_EVENTS_TRANSPORT", "kafka")
	t.Setenv("LIMS_EVENTS_MINIO_ENDPOINT", "minio:9000")
	t.Setenv("LIMS_EVENTS_MINIO_BUCKET", "lims-events")

	cfg, err := publisher.ParseConfig([]byte(pipelineYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "http://other:8081/subjects/", cfg.EMQ.Registry.URL)
	assert.Equal(t, "registry-secret", cfg.EMQ.Registry.Password)
	assert.Equal(t, "/tmp/avro", cfg.EMQ.Registry.CacheDir)
	assert.Equal(t, "rabbit-secret", cfg.EMQ.RabbitMQ.Password)
	assert.Equal(t, "/etc/ssl/ca.pem", cfg.EMQ.RabbitMQ.TLS.CACertPath)
	assert.True(t, cfg.EMQ.RabbitMQ.TLS.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.EMQ.Kafka.Brokers)
	assert.Equal(t, "kafka-secret", cfg.EMQ.Kafka.SASL.Password)
	assert.Equal(t, publisher.TransportKafka, cfg.EMQ.Transport)
	assert.Equal(t, "minio:9000", cfg.EMQ.SchemaStore.Endpoint)
	assert.Equal(t, "lims-events", cfg.EMQ.SchemaStore.Bucket)
	assert.Equal(t, "rabbit", cfg.EMQ.RabbitMQ.Host)
	assert.Equal(t, 5671, cfg.EMQ.RabbitMQ.Port)
}

func TestApplyEnv_SectionVariables(t *testing.T) {
	t.Setenv("LIMS_EVENTS_RABBITMQ_HOST", "rabbit.internal")
	t.Setenv("LIMS_EVENTS_RABBITMQ_PORT", "5673")
	t.Setenv("LIMS_EVENTS_RABBITMQ_V_HOST", "ignored")
	t.Setenv("LIMS_EVENTS_RABBITMQ_VHOST", "uat")
	t.Setenv("LIMS_EVENTS_RABBITMQ_TLS_ENABLED", "false")
	t.Setenv("LIMS_EVENTS_SCHEMA_REGISTRY_CACHE_DIR", "/var/cache/avro")
	t.Setenv("LIMS_EVENTS_SCHEMA_REGISTRY_MAX_REDIRECTS", "3")
	t.Setenv("LIMS_EVENTS_KAFKA_TLS_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("LIMS_EVENTS_KAFKA_REQUIRED_ACKS", "1")
	t.Setenv("LIMS_EVENTS_MINIO_ACCESS_KEY_ID", "access")
	t.Setenv("LIMS_EVENTS_MINIO_USE_SSL", "true")

	cfg, err := publisher.ParseConfig([]byte(pipelineYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "rabbit.internal", cfg.EMQ.RabbitMQ.Host)
	assert.Equal(t, 5673, cfg.EMQ.RabbitMQ.Port)
	assert.Equal(t, "uat", cfg.EMQ.RabbitMQ.VHost)
	assert.False(t, cfg.EMQ.RabbitMQ.TLS.Enabled)
	assert.Equal(t, "/var/cache/avro", cfg.EMQ.Registry.CacheDir)
	assert.Equal(t, 3, cfg.EMQ.Registry.MaxRedirects)
	assert.True(t, cfg.EMQ.Kafka.TLS.InsecureSkipVerify)
	assert.Equal(t, 1, cfg.EMQ.Kafka.RequiredAcks)
	assert.Equal(t, "access", cfg.EMQ.SchemaStore.AccessKeyID)
	assert.True(t, cfg.EMQ.SchemaStore.UseSSL)
}

func TestApplyEnv_IgnoresUnprefixedVariables(t *testing.T) {
	for name, value := range map[string]string{
		"HOST":                "localhost",
		"PORT":                "8080",
		"VHOST":               "/",
		"USERNAME":            "nobody",
		"PASSWORD":            "hunter2",
		"ENABLED":             "false",
		"EXCHANGE":            "other",
		"TRANSPORT":           "kafka",
		"URL":                 "http://elsewhere/",
		"CACHE_DIR":           "/tmp/elsewhere",
		"CA_CERT_PATH":        "/tmp/ca.pem",
		"BROKERS":             "k9:9092",
		"MECHANISM":           "PLAIN",
		"ENDPOINT":            "s3.example.com",
		"BUCKET":              "other",
		"KAFKA_BROKERS":       "k9:9092",
		"RABBITMQ_PORT":       "8080",
		"SCHEMA_REGISTRY_URL": "http://elsewhere/",
		"MINIO_BUCKET":        "other",
	} {
		t.Setenv(name, value)
	}

	cfg, err := publisher.ParseConfig([]byte(pipelineYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "rabbit", cfg.EMQ.RabbitMQ.Host)
	assert.Equal(t, 5671, cfg.EMQ.RabbitMQ.Port)
	assert.Equal(t, "tol", cfg.EMQ.RabbitMQ.VHost)
	assert.Empty(t, cfg.EMQ.RabbitMQ.Username)
	assert.Empty(t, cfg.EMQ.RabbitMQ.Password)
	assert.Equal(t, "lims.events", cfg.EMQ.RabbitMQ.Exchange)
	assert.True(t, cfg.EMQ.RabbitMQ.TLS.Enabled)
	assert.Empty(t, cfg.EMQ.RabbitMQ.TLS.CACertPath)
	assert.Equal(t, publisher.TransportRabbitMQ, cfg.EMQ.Transport)
	assert.Equal(t, "http://registry:8081/subjects/", cfg.EMQ.Registry.URL)
	assert.Equal(t, "/tmp/avro", cfg.EMQ.Registry.CacheDir)
	assert.Empty(t, cfg.EMQ.Registry.Password)
	assert.Empty(t, cfg.EMQ.Kafka.Brokers)
	assert.Empty(t, cfg.EMQ.Kafka.SASL.Username)
	assert.Empty(t, cfg.EMQ.Kafka.SASL.Mechanism)
	assert.Empty(t, cfg.EMQ.SchemaStore.Endpoint)
	assert.Empty(t, cfg.EMQ.SchemaStore.Bucket)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emq.yml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o600))

	cfg, err := publisher.LoadConfig(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Pipelines, "pacbio")

	_, err = publisher.LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, publisher.ErrInvalidConfig)
}

func TestVersionKey(t *testing.T) {
	assert.Equal(t, "avro_schema_version_3", publisher.VersionKey(3))
}
