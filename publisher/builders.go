package publisher

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aalemi-dev/lims-events/fieldmapper"
)

// BuilderSelf fields every builder exposes to "self" fields.
const (
	SelfMessageUUID = "message_uuid"
	SelfCreatedAt   = "created_at"
)

// MessageBuilder turns one domain object into a message document.
//
// A document without the configured root key tells the job that the object
// does not apply to the schema; it is skipped rather than sent.
type MessageBuilder interface {
	Build(obj any) (*fieldmapper.Document, error)
}

// BuilderDeps are the shared collaborators handed to every BuilderFactory.
type BuilderDeps struct {
	Mapper *fieldmapper.Mapper
	Clock  func() time.Time
	NewID  func() string
}

// BuilderFactory creates a MessageBuilder for one configured field list.
type BuilderFactory func(spec *fieldmapper.DocumentSpec, deps BuilderDeps) MessageBuilder

// NamedBuilder pairs a factory with the name configurations refer to it by.
type NamedBuilder struct {
	Name    string
	Factory BuilderFactory
}

// Builders is the registry of message builder factories. "Message" is always
// registered.
type Builders struct {
	mu        sync.RWMutex
	factories map[string]BuilderFactory
}

// NewBuilders returns a registry holding DefaultBuilder and the given extras.
func NewBuilders(extra ...NamedBuilder) *Builders {
	b := &Builders{factories: map[string]BuilderFactory{DefaultBuilder: NewMessage}}
	for _, nb := range extra {
		b.Register(nb.Name, nb.Factory)
	}
	return b
}

// Register adds or replaces a factory.
func (b *Builders) Register(name string, factory BuilderFactory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.factories[name] = factory
}

// Lookup returns the factory registered under name.
func (b *Builders) Lookup(name string) (BuilderFactory, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.factories[name]
	return f, ok
}

// Names lists the registered builder names in sorted order.
func (b *Builders) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.factories))
	for name := range b.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultDeps returns deps using the real clock and random UUIDs.
func DefaultDeps() BuilderDeps {
	clock := time.Now
	return BuilderDeps{
		Mapper: fieldmapper.New(fieldmapper.NewConstants(clock)),
		Clock:  clock,
		NewID:  uuid.NewString,
	}
}

// WithDefaults fills unset collaborators from DefaultDeps. A Mapper is built
// over the given Clock so constants and self fields agree on the time.
func (d BuilderDeps) WithDefaults() BuilderDeps {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Mapper == nil {
		d.Mapper = fieldmapper.New(fieldmapper.NewConstants(d.Clock))
	}
	return d
}

// BaseSelf returns the BuilderSelf fields shared by all builders for one
// message. Values are fixed when called, so a message reads the same UUID
// however many fields refer to it.
func BaseSelf(deps BuilderDeps) fieldmapper.Accessors {
	id := deps.NewID()
	created := deps.Clock()
	return fieldmapper.Accessors{
		SelfMessageUUID: func() any { return id },
		SelfCreatedAt:   func() any { return created },
	}
}

// Message is the generic builder: the configured fields applied to the object,
// wrapped as {"lims": ..., key: fields}.
type Message struct {
	spec *fieldmapper.DocumentSpec
	deps BuilderDeps
}

// NewMessage is the BuilderFactory registered as "Message".
func NewMessage(spec *fieldmapper.DocumentSpec, deps BuilderDeps) MessageBuilder {
	return &Message{spec: spec, deps: deps.WithDefaults()}
}

// Build implements MessageBuilder.
func (m *Message) Build(obj any) (*fieldmapper.Document, error) {
	return m.deps.Mapper.BuildMessage(obj, m.spec, BaseSelf(m.deps))
}
