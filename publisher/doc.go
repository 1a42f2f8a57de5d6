// Package publisher turns domain objects into schema-encoded messages and
// hands them to the event message queue (EMQ).
//
// # Architecture
//
// Job ties four collaborators together, each behind a small interface so the
// job can be tested without a registry or a broker:
//   - SchemaResolver: resolves a subject and version to a schema
//     (schema_registry.Resolver)
//   - Encoder: encodes a document against that schema
//     (schema_registry.Encoder)
//   - Sender: delivers the payload (rabbitmq.Sender or kafka.Sender)
//   - Builders: a registry of named message builders, each turning one domain
//     object into a fieldmapper.Document
//
// # Configuration
//
// A Config describes, per pipeline and schema key, which message builder to
// use and which fields it maps, keyed by schema version:
//
//	emq:
//	  registry_url: http://registry:8081/subjects/
//	  transport: rabbitmq
//	  rabbitmq:
//	    host: rabbit.internal
//	    exchange: lims.events
//	  subjects:
//	    volume_tracking: {subject: create-aliquot-in-mlwh, version: 1}
//	pipelines:
//	  pacbio:
//	    lims: Traction
//	    volume_tracking:
//	      avro_schema_version_1:
//	        builder: VolumeTrackingMessage
//	        fields:
//	          source_type: {type: model, value: source_type}
//	          used_by_barcode: {type: self, value: used_by_barcode}
//	          recorded_at: {type: constant, value: Time.current}
//
// Field types are string, model, parent_model, self, constant and array; an
// array field lists its children under "children". LoadConfig reads the file
// and applies environment overrides prefixed with EnvPrefix, so secrets such
// as LIMS_EVENTS_RABBITMQ_PASSWORD stay out of the file. See ApplyEnv for the
// full list of variables.
//
// # Publishing
//
//	job.Publish(ctx, aliquots, "pacbio", "volume_tracking")
//
// Job.Publish looks up the subject and version for the schema key, builds one
// document per object, resolves the schema once per batch, encodes and sends.
// A schema key with no subject is skipped silently. Objects whose document
// lacks the message's root key are skipped too, which is how builders opt an
// object out.
//
// Publish reports through logs and never returns an error: callers publish as
// a side effect of domain actions and must not fail because of it. A failed
// batch produces exactly one error entry, "Failed to publish message to EMQ:
// <cause>"; the components underneath log the same failure at warn level only.
// A success produces one info entry, MsgPublished.
//
// # Message Builders
//
// Message builders are registered by name in a Builders registry. "Message"
// maps the configured fields as they are; other packages contribute builders
// that add "self" fields, either with Builders.Register or through the
// "message_builders" fx value group:
//
//	fx.Provide(fx.Annotate(
//	    volumetracking.Builder,
//	    fx.ResultTags(`group:"message_builders"`),
//	))
//
// NewJob instantiates every configured builder up front, so an unknown
// builder name or a malformed field list fails at startup.
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    metrics.FXModule,
//	    publisher.LoggerBindings,
//	    publisher.FXModule,
//	    publisher.SchemaStoreModule, // optional shared schema cache
//	    volumetracking.FXModule,
//	    fx.Provide(func() (*publisher.Config, error) {
//	        return publisher.LoadConfig("config/emq.yml")
//	    }),
//	)
//
// FXModule includes schema_registry.FXModule and selects the Sender from
// EMQConfig.Transport. LoggerBindings exposes *logger.LoggerClient under every
// package's Logger interface.
package publisher
