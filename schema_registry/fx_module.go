package schema_registry

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/lims-events/observability"
)

// FXModule provides the schema Resolver, its Registry client and an Encoder.
//
// Usage:
//
//	app := fx.New(
//	    schema_registry.FXModule,
//	    fx.Provide(func() schema_registry.Config {
//	        return schema_registry.Config{URL: "http://registry:8081/subjects/"}
//	    }),
//	)
var FXModule = fx.Module("schema_registry",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(c *Client) Registry { return c },
			fx.As(new(Registry)),
		),
		NewResolverWithDI,
		NewEncoderWithDI,
	),
	fx.Invoke(RegisterSchemaRegistryLifecycle),
)

// SchemaRegistryParams groups the dependencies needed to create a Client.
type SchemaRegistryParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a Client from injected dependencies.
func NewClientWithDI(params SchemaRegistryParams) (*Client, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.logger = params.Logger
	}
	if params.Observer != nil {
		client.observer = params.Observer
	}
	return client, nil
}

// ResolverParams groups the dependencies needed to create a Resolver.
type ResolverParams struct {
	fx.In

	Config   Config
	Registry Registry
	Shared   SharedCache            `optional:"true"`
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewResolverWithDI creates a Resolver over the injected Registry.
func NewResolverWithDI(params ResolverParams) *Resolver {
	r := NewResolverWithRegistry(params.Registry, params.Config.CacheDir)
	r.shared = params.Shared
	r.logger = params.Logger
	r.observer = params.Observer
	return r
}

// EncoderParams groups the optional dependencies of an Encoder.
type EncoderParams struct {
	fx.In

	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewEncoderWithDI creates an Encoder from injected dependencies.
func NewEncoderWithDI(params EncoderParams) *Encoder {
	return &Encoder{logger: params.Logger, observer: params.Observer}
}

// SchemaRegistryLifecycleParams groups the dependencies for lifecycle management.
type SchemaRegistryLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Resolver  *Resolver
	Logger    Logger `optional:"true"`
}

// RegisterSchemaRegistryLifecycle logs the cache location on start. The HTTP
// client needs no cleanup on stop.
func RegisterSchemaRegistryLifecycle(params SchemaRegistryLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logInfo(params.Logger, ctx, "schema resolver initialized", map[string]interface{}{
				"cache_dir": params.Resolver.cacheDir,
			})
			return nil
		},
	})
}
