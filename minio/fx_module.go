package minio

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/lims-events/observability"
	"github.com/aalemi-dev/lims-events/schema_registry"
)

// FXModule provides a *SchemaStore from an injected Config and offers it to
// schema_registry.FXModule as the resolver's shared cache. The bucket is
// checked on start.
var FXModule = fx.Module("minio",
	fx.Provide(
		NewSchemaStoreWithDI,
		func(s *SchemaStore) schema_registry.SharedCache { return s },
	),
	fx.Invoke(RegisterMinioLifecycle),
)

// SchemaStoreParams groups the dependencies needed to create a SchemaStore.
type SchemaStoreParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewSchemaStoreWithDI creates a SchemaStore from injected dependencies.
func NewSchemaStoreWithDI(params SchemaStoreParams) (*SchemaStore, error) {
	store, err := NewSchemaStore(params.Config)
	if err != nil {
		return nil, err
	}
	store.logger = params.Logger
	store.observer = params.Observer
	return store, nil
}

// RegisterMinioLifecycle checks the bucket when the application starts.
func RegisterMinioLifecycle(lc fx.Lifecycle, store *SchemaStore) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.Ensure(ctx)
		},
	})
}
