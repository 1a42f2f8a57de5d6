package publisher

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/aalemi-dev/lims-events/fieldmapper"
	"github.com/aalemi-dev/lims-events/observability"
	"github.com/aalemi-dev/lims-events/schema_registry"
	"github.com/aalemi-dev/lims-events/tracer"
)

// Log lines written by Publish. Operators alert on them, so they are stable.
const (
	MsgPublished       = "Published volume tracking message to EMQ"
	msgPublishFailed   = "Failed to publish message to EMQ: %s"
	msgBuilderNotFound = "Message builder configuration not found for schema key: %s and version: %d"
)

// SchemaResolver returns the parsed schema for a subject and version.
type SchemaResolver interface {
	Resolve(ctx context.Context, subject string, version int) (*schema_registry.ResolvedSchema, error)
}

// Encoder frames a document as a single-object binary message.
type Encoder interface {
	Encode(ctx context.Context, schema *schema_registry.ResolvedSchema, document any) ([]byte, error)
}

// Sender delivers an encoded message with its subject and version headers.
type Sender interface {
	Send(ctx context.Context, subject string, version int, payload []byte) error
}

type builderKey struct {
	pipeline  string
	schemaKey string
	version   int
}

// Job builds, encodes and sends messages for batches of domain objects.
//
// A Job is created once per process. Publish may be called from several
// goroutines; each call processes its own batch sequentially.
type Job struct {
	cfg      *Config
	builders map[builderKey]configuredBuilder
	resolver SchemaResolver
	encoder  Encoder
	sender   Sender

	logger   Logger
	observer observability.Observer
	tracer   tracer.Tracer
}

type configuredBuilder struct {
	builder MessageBuilder
	rootKey string
}

// NewJob validates cfg against the registry and instantiates a MessageBuilder
// for every configured pipeline, schema key and version. Configuration
// mistakes surface here rather than on the first publish.
//
// Parameters:
//   - cfg: the loaded configuration
//   - registry: message builders by name
//   - deps: constants and helpers handed to every builder
//   - resolver, encoder, sender: the collaborators used by Publish; none may be nil
//
// Returns:
//   - *Job: a job ready to Publish
//   - error: ErrInvalidConfig for a nil argument or an invalid cfg,
//     ErrUnknownBuilder when a pipeline names an unregistered builder
//
// Example:
//
//	cfg, err := publisher.LoadConfig("config/emq.yml")
//	if err != nil {
//	    return err
//	}
//	resolver, err := schema_registry.NewResolver(cfg.EMQ.Registry)
//	if err != nil {
//	    return err
//	}
//	sender, err := rabbitmq.NewSender(cfg.EMQ.RabbitMQ)
//	if err != nil {
//	    return err
//	}
//	builders := publisher.NewBuilders(volumetracking.Builder())
//	job, err := publisher.NewJob(cfg, builders, publisher.DefaultDeps(),
//	    resolver, schema_registry.NewEncoder(), sender)
func NewJob(cfg *Config, registry *Builders, deps BuilderDeps, resolver SchemaResolver, encoder Encoder, sender Sender) (*Job, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrInvalidConfig)
	}
	switch {
	case resolver == nil:
		return nil, fmt.Errorf("%w: schema resolver is required", ErrInvalidConfig)
	case encoder == nil:
		return nil, fmt.Errorf("%w: encoder is required", ErrInvalidConfig)
	case sender == nil:
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidConfig)
	}
	if registry == nil {
		registry = NewBuilders()
	}
	if err := cfg.Validate(registry); err != nil {
		return nil, err
	}
	deps = deps.WithDefaults()

	j := &Job{
		cfg:      cfg,
		builders: make(map[builderKey]configuredBuilder),
		resolver: resolver,
		encoder:  encoder,
		sender:   sender,
	}
	for name, p := range cfg.Pipelines {
		for schemaKey, versions := range p.Schemas {
			for version, bc := range versions {
				factory, _ := registry.Lookup(bc.Builder)
				j.builders[builderKey{name, schemaKey, version}] = configuredBuilder{
					builder: factory(bc.Spec, deps),
					rootKey: bc.Spec.RootKey,
				}
			}
		}
	}
	return j, nil
}

// Publish sends one message per object for schemaKey using the pipeline's
// builder configuration. objects may be a single object or a slice.
//
// Publish never returns an error and never panics. A schema key without a
// configured subject is ignored. A missing builder configuration is logged.
// Any failure while building, encoding or sending is logged and stops the
// rest of the batch. Objects are sent in input order with no retry.
func (j *Job) Publish(ctx context.Context, objects any, pipeline, schemaKey string) {
	subject, ok := j.cfg.EMQ.Subjects[schemaKey]
	if !ok || subject.Subject == "" || subject.Version == 0 {
		return
	}

	cb, ok := j.builders[builderKey{pipeline, schemaKey, subject.Version}]
	if !ok {
		logError(j.logger, ctx, fmt.Sprintf(msgBuilderNotFound, schemaKey, subject.Version), nil, map[string]interface{}{
			"pipeline":    pipeline,
			"version_key": VersionKey(subject.Version),
		})
		return
	}

	start := time.Now()
	var span tracer.Span
	if j.tracer != nil {
		ctx, span = j.tracer.StartSpan(ctx, "publisher.publish")
	}

	items := batch(objects)
	sent, err := j.publishBatch(ctx, items, cb, subject)

	fields := map[string]interface{}{
		"pipeline":   pipeline,
		"schema_key": schemaKey,
		"subject":    subject.Subject,
		"version":    subject.Version,
		"objects":    len(items),
		"sent":       sent,
	}
	if span != nil {
		span.SetAttributes(fields)
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}

	if err != nil {
		logError(j.logger, ctx, fmt.Sprintf(msgPublishFailed, err.Error()), err, fields)
	} else {
		logInfo(j.logger, ctx, MsgPublished, fields)
	}

	j.observeOperation("publish_batch", subject.Subject, schemaKey, start, err, int64(len(items)), map[string]interface{}{
		"pipeline": pipeline,
		"version":  subject.Version,
		"sent":     sent,
	})
}

func (j *Job) publishBatch(ctx context.Context, items []any, cb configuredBuilder, subject SubjectConfig) (sent int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBuilderPanic, r)
		}
	}()

	var schema *schema_registry.ResolvedSchema
	for _, obj := range items {
		doc, err := cb.builder.Build(obj)
		if err != nil {
			return sent, err
		}
		if !applies(doc, cb.rootKey) {
			continue
		}

		if schema == nil {
			if schema, err = j.resolver.Resolve(ctx, subject.Subject, subject.Version); err != nil {
				return sent, err
			}
		}

		payload, err := j.encoder.Encode(ctx, schema, doc)
		if err != nil {
			return sent, err
		}
		if err := j.sender.Send(ctx, subject.Subject, subject.Version, payload); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func applies(doc *fieldmapper.Document, rootKey string) bool {
	if doc == nil {
		return false
	}
	v, ok := doc.Get(rootKey)
	return ok && v != nil
}

// batch normalizes Publish input: a slice or Enumerable is a batch in its own
// order, nil is empty, anything else is a batch of one.
func batch(objects any) []any {
	switch v := objects.(type) {
	case nil:
		return nil
	case []any:
		return v
	case fieldmapper.Enumerable:
		return v.Items()
	}

	rv := reflect.ValueOf(objects)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items
	}
	return []any{objects}
}

// WithObserver attaches an observer notified once per batch.
func (j *Job) WithObserver(observer observability.Observer) *Job {
	j.observer = observer
	return j
}

// WithLogger attaches the logger that receives the publish log lines.
func (j *Job) WithLogger(logger Logger) *Job {
	j.logger = logger
	return j
}

// WithTracer wraps every batch in a "publisher.publish" span.
func (j *Job) WithTracer(t tracer.Tracer) *Job {
	j.tracer = t
	return j
}

func (j *Job) transport() string {
	if j.cfg.EMQ.Transport == "" {
		return TransportRabbitMQ
	}
	return j.cfg.EMQ.Transport
}
