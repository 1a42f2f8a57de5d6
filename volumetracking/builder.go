package volumetracking

import (
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/aalemi-dev/lims-events/fieldmapper"
	"github.com/aalemi-dev/lims-events/publisher"
)

const (
	// BuilderName is the name pipeline configurations use for this builder.
	BuilderName = "VolumeTrackingMessage"

	// SchemaKey is the schema key volume tracking messages are published under.
	SchemaKey = "volume_tracking"

	// SelfUsedByBarcode is the self field the builder adds.
	SelfUsedByBarcode = "used_by_barcode"
)

// ErrNotAliquot is returned when the builder is given anything but an *Aliquot.
var ErrNotAliquot = errors.New("volume tracking messages are built from aliquots")

// Message builds volume tracking messages for aliquots.
type Message struct {
	spec *fieldmapper.DocumentSpec
	deps publisher.BuilderDeps
}

// NewMessage is the publisher.BuilderFactory registered as BuilderName.
func NewMessage(spec *fieldmapper.DocumentSpec, deps publisher.BuilderDeps) publisher.MessageBuilder {
	return &Message{spec: spec, deps: deps.WithDefaults()}
}

// Build implements publisher.MessageBuilder. Primary aliquots yield a message
// with only the lims key.
func (m *Message) Build(obj any) (*fieldmapper.Document, error) {
	aliquot, ok := obj.(*Aliquot)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotAliquot, obj)
	}

	if !aliquot.Derived() {
		doc := fieldmapper.NewDocument()
		doc.Set(fieldmapper.LimsKey, m.spec.LimsName)
		return doc, nil
	}

	self := publisher.BaseSelf(m.deps)
	self[SelfUsedByBarcode] = func() any { return UsedByBarcode(aliquot) }
	return m.deps.Mapper.BuildMessage(aliquot, m.spec, self)
}

// UsedByBarcode identifies what consumed the aliquot. A well is identified as
// "{sequencing_kit_box_barcode}:{plate_number}:{position}"; a library or pool
// by its tube barcode. It returns nil when the chain is incomplete.
func UsedByBarcode(a *Aliquot) any {
	if a == nil || a.UsedBy == nil {
		return nil
	}

	if a.UsedByType == TypeWell {
		well, ok := a.UsedBy.(*Well)
		if !ok || well == nil || well.Plate == nil || well.Plate.Run == nil {
			return nil
		}
		return fmt.Sprintf("%s:%d:%s", well.Plate.Run.SequencingKitBoxBarcode, well.Plate.PlateNumber, well.Position)
	}

	barcode, _ := a.UsedBy.Field("barcode")
	return barcode
}

// Builder returns the registration entry for the publisher's builder registry.
func Builder() publisher.NamedBuilder {
	return publisher.NamedBuilder{Name: BuilderName, Factory: NewMessage}
}

// Register adds the volume tracking builder to builders.
func Register(builders *publisher.Builders) {
	builders.Register(BuilderName, NewMessage)
}

// FXModule contributes the volume tracking builder to publisher.FXModule.
var FXModule = fx.Module("volumetracking",
	fx.Provide(
		fx.Annotate(
			Builder,
			fx.ResultTags(`group:"`+publisher.BuilderGroup+`"`),
		),
	),
)
