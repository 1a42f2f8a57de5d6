package publisher

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/aalemi-dev/lims-events/fieldmapper"
	"github.com/aalemi-dev/lims-events/kafka"
	"github.com/aalemi-dev/lims-events/minio"
	"github.com/aalemi-dev/lims-events/rabbitmq"
	"github.com/aalemi-dev/lims-events/schema_registry"
)

// Transports selectable with EMQConfig.Transport.
const (
	TransportRabbitMQ = "rabbitmq"
	TransportKafka    = "kafka"
)

const (
	// EnvPrefix prefixes every environment override, e.g.
	// LIMS_EVENTS_RABBITMQ_PASSWORD or LIMS_EVENTS_SCHEMA_REGISTRY_URL.
	EnvPrefix = "LIMS_EVENTS"

	// DefaultBuilder is used when a message builder configuration names none.
	DefaultBuilder = "Message"

	versionKeyPrefix = "avro_schema_version_"
)

var versionKeyPattern = regexp.MustCompile(`^avro_schema_version_([1-9][0-9]*)$`)

// Field types accepted in a builder's fields section.
const (
	FieldTypeString      = "string"
	FieldTypeModel       = "model"
	FieldTypeParentModel = "parent_model"
	FieldTypeSelf        = "self"
	FieldTypeConstant    = "constant"
	FieldTypeArray       = "array"
)

// Config is the root of the publishing configuration file.
type Config struct {
	EMQ       EMQConfig           `yaml:"emq"`
	Pipelines map[string]Pipeline `yaml:"pipelines"`
}

// EMQConfig describes where messages go: the schema registry, the subject and
// version wired to each schema key, and the broker transport.
type EMQConfig struct {
	Registry schema_registry.Config `yaml:",inline"`

	// Subjects maps a schema key such as "volume_tracking" to the registry
	// subject and version its messages are encoded with. A schema key that is
	// absent here is not published.
	Subjects map[string]SubjectConfig `yaml:"subjects"`

	// Transport is "rabbitmq" (default) or "kafka".
	Transport string                `yaml:"transport"`
	RabbitMQ  rabbitmq.SenderConfig `yaml:"rabbitmq"`
	Kafka     kafka.Config          `yaml:"kafka"`

	// SchemaStore is the bucket shared by replicas as a second-level schema
	// cache. Used only when SchemaStoreModule is part of the application.
	SchemaStore minio.Config `yaml:"schema_store"`
}

// SubjectConfig is the registry subject and schema version for one schema key.
type SubjectConfig struct {
	Subject string `yaml:"subject"`
	Version int    `yaml:"version"`
}

// Pipeline holds the message builder configurations of one LIMS pipeline,
// keyed by schema key and then by schema version.
type Pipeline struct {
	// Lims is the origin name written to the "lims" key of every message.
	Lims string

	Schemas map[string]map[int]*BuilderConfig
}

// BuilderConfig selects a message builder and the fields it maps.
type BuilderConfig struct {
	// Builder names a registered BuilderFactory. Defaults to DefaultBuilder.
	Builder string

	// Key is the root key of the message. Defaults to the schema key.
	Key string

	// Spec is the parsed field list, with RootKey and LimsName filled in.
	Spec *fieldmapper.DocumentSpec
}

// Builder returns the configuration for schemaKey at version.
func (p Pipeline) Builder(schemaKey string, version int) (*BuilderConfig, bool) {
	versions, ok := p.Schemas[schemaKey]
	if !ok {
		return nil, false
	}
	bc, ok := versions[version]
	return bc, ok
}

// VersionKey returns the configuration key for a schema version,
// "avro_schema_version_{version}".
func VersionKey(version int) string {
	return versionKeyPrefix + strconv.Itoa(version)
}

// LoadConfig reads the configuration file at path and applies environment
// overrides.
//
// Parameters:
//   - path: a YAML file with the emq and pipelines sections
//
// Returns:
//   - *Config: the parsed configuration with ApplyEnv already applied
//   - error: ErrInvalidConfig when the file cannot be read or parsed, or when
//     an environment variable has the wrong type
//
// The result is not validated against a builder registry; NewJob does that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes a YAML configuration. Unknown keys, unknown field types
// and malformed paths are rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if IsConfigError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides connection settings from the environment. Secrets are
// expected to arrive this way rather than in the file.
//
// Every variable is namespaced by EnvPrefix and the section it configures,
// for example:
//
//	LIMS_EVENTS_TRANSPORT
//	LIMS_EVENTS_SCHEMA_REGISTRY_URL, LIMS_EVENTS_SCHEMA_REGISTRY_PASSWORD
//	LIMS_EVENTS_RABBITMQ_HOST, LIMS_EVENTS_RABBITMQ_TLS_ENABLED
//	LIMS_EVENTS_KAFKA_BROKERS, LIMS_EVENTS_KAFKA_SASL_PASSWORD
//	LIMS_EVENTS_MINIO_ENDPOINT, LIMS_EVENTS_MINIO_SECRET_ACCESS_KEY
//
// Unprefixed names such as PORT or PASSWORD are never read. Unset variables
// leave the file value in place.
func (c *Config) ApplyEnv() error {
	targets := []struct {
		prefix string
		spec   interface{}
	}{
		{EnvPrefix + "_SCHEMA_REGISTRY", &c.EMQ.Registry},
		{EnvPrefix + "_RABBITMQ", &c.EMQ.RabbitMQ},
		{EnvPrefix + "_KAFKA", &c.EMQ.Kafka},
		{EnvPrefix + "_MINIO", &c.EMQ.SchemaStore},
		{EnvPrefix, &transportEnv{Transport: &c.EMQ.Transport}},
	}
	for _, t := range targets {
		if err := envconfig.Process(t.prefix, t.spec); err != nil {
			return fmt.Errorf("%w: environment: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

type transportEnv struct {
	Transport *string
}

// Validate checks the configuration against the registered builders.
func (c *Config) Validate(builders *Builders) error {
	switch c.EMQ.Transport {
	case "", TransportRabbitMQ, TransportKafka:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.EMQ.Transport)
	}

	for key, s := range c.EMQ.Subjects {
		if s.Version < 0 {
			return fmt.Errorf("%w: subject for %q has negative version %d", ErrInvalidConfig, key, s.Version)
		}
	}

	for name, p := range c.Pipelines {
		for schemaKey, versions := range p.Schemas {
			for version, bc := range versions {
				if _, ok := builders.Lookup(bc.Builder); !ok {
					return fmt.Errorf("%w: %q in pipeline %q, schema key %q, %s",
						ErrUnknownBuilder, bc.Builder, name, schemaKey, VersionKey(version))
				}
			}
		}
	}
	return nil
}

// UnmarshalYAML decodes a pipeline: "lims" plus one entry per schema key.
func (p *Pipeline) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return nodeError(node, "pipeline must be a mapping")
	}

	p.Schemas = make(map[string]map[int]*BuilderConfig)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]

		if key == fieldmapper.LimsKey {
			if err := value.Decode(&p.Lims); err != nil {
				return nodeError(value, "lims must be a string")
			}
			continue
		}

		versions, err := decodeVersions(key, value)
		if err != nil {
			return err
		}
		p.Schemas[key] = versions
	}

	for _, versions := range p.Schemas {
		for _, bc := range versions {
			bc.Spec.LimsName = p.Lims
		}
	}
	return nil
}

func decodeVersions(schemaKey string, node *yaml.Node) (map[int]*BuilderConfig, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "schema key %q must map versions to builders", schemaKey)
	}

	versions := make(map[int]*BuilderConfig)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, value := node.Content[i], node.Content[i+1]

		m := versionKeyPattern.FindStringSubmatch(keyNode.Value)
		if m == nil {
			return nil, nodeError(keyNode, "expected %sN under %q, got %q", versionKeyPrefix, schemaKey, keyNode.Value)
		}
		version, _ := strconv.Atoi(m[1])

		bc, err := decodeBuilder(schemaKey, value)
		if err != nil {
			return nil, err
		}
		versions[version] = bc
	}
	return versions, nil
}

func decodeBuilder(schemaKey string, node *yaml.Node) (*BuilderConfig, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "builder configuration must be a mapping")
	}

	bc := &BuilderConfig{Builder: DefaultBuilder, Key: schemaKey}
	var fields *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "builder":
			bc.Builder = value.Value
		case "key":
			bc.Key = value.Value
		case "fields":
			fields = value
		default:
			return nil, nodeError(key, "unknown builder setting %q", key.Value)
		}
	}
	if fields == nil {
		return nil, nodeError(node, "builder for %q has no fields", schemaKey)
	}

	spec, err := decodeFields(fields)
	if err != nil {
		return nil, err
	}
	spec.RootKey = bc.Key
	bc.Spec = spec
	return bc, nil
}

// decodeFields turns a fields mapping into a DocumentSpec, keeping the order
// the fields are written in.
func decodeFields(node *yaml.Node) (*fieldmapper.DocumentSpec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "fields must be a mapping")
	}

	spec := fieldmapper.NewDocumentSpec()
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]

		field, err := decodeField(name, value)
		if err != nil {
			return nil, err
		}
		spec.Add(name, field)
	}
	return spec, nil
}

func decodeField(name string, node *yaml.Node) (fieldmapper.FieldSpec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nodeError(node, "field %q must be a mapping with type and value", name)
	}

	var fieldType string
	var value, children *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, v := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "type":
			fieldType = v.Value
		case "value":
			value = v
		case "children":
			children = v
		default:
			return nil, nodeError(key, "field %q has unknown setting %q", name, key.Value)
		}
	}
	if value == nil {
		return nil, nodeError(node, "field %q has no value", name)
	}

	switch fieldType {
	case FieldTypeString:
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, nodeError(value, "field %q: %v", name, err)
		}
		return fieldmapper.Literal{Value: v}, nil
	case FieldTypeModel, FieldTypeParentModel, FieldTypeSelf, FieldTypeConstant, FieldTypeArray:
	default:
		return nil, fmt.Errorf("%w: line %d: field %q has type %q", ErrUnknownFieldType, node.Line, name, fieldType)
	}

	path, err := fieldmapper.ParsePath(value.Value)
	if err != nil {
		return nil, nodeError(value, "field %q: %v", name, err)
	}

	switch fieldType {
	case FieldTypeModel:
		return fieldmapper.FieldPath{Path: path, Scope: fieldmapper.CurrentObject}, nil
	case FieldTypeParentModel:
		return fieldmapper.FieldPath{Path: path, Scope: fieldmapper.ParentObject}, nil
	case FieldTypeSelf:
		return fieldmapper.FieldPath{Path: path, Scope: fieldmapper.BuilderSelf}, nil
	case FieldTypeConstant:
		return fieldmapper.ConstantRef{Name: path.Segments[0], Chain: path.Segments[1:]}, nil
	}

	if children == nil {
		return nil, nodeError(node, "array field %q has no children", name)
	}
	childSpec, err := decodeFields(children)
	if err != nil {
		return nil, err
	}
	return fieldmapper.ArrayField{Path: path, Children: childSpec}, nil
}

func nodeError(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidConfig, node.Line, fmt.Sprintf(format, args...))
}
