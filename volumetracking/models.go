package volumetracking

import (
	"time"

	"github.com/aalemi-dev/lims-events/fieldmapper"
)

// Aliquot types.
const (
	AliquotPrimary = "primary"
	AliquotDerived = "derived"
)

// Source and used-by types.
const (
	TypeLibrary = "library"
	TypePool    = "pool"
	TypeWell    = "well"
	TypeSample  = "sample"
)

// Aliquot is a portion of material taken from Source and used by UsedBy.
type Aliquot struct {
	UUID                      string
	AliquotType               string
	SourceType                string
	Source                    fieldmapper.Navigable
	UsedByType                string
	UsedBy                    fieldmapper.Navigable
	Volume                    float64
	Concentration             *float64
	InsertSize                *int
	TemplatePrepKitBoxBarcode string
	Tag                       *Tag
	UpdatedAt                 time.Time
}

// Field implements fieldmapper.Navigable.
func (a *Aliquot) Field(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	switch name {
	case "uuid":
		return a.UUID, true
	case "aliquot_type":
		return a.AliquotType, true
	case "source_type":
		return a.SourceType, true
	case "source":
		return a.Source, true
	case "used_by_type":
		return a.UsedByType, true
	case "used_by":
		return a.UsedBy, true
	case "volume":
		return a.Volume, true
	case "concentration":
		if a.Concentration == nil {
			return nil, true
		}
		return *a.Concentration, true
	case "insert_size":
		if a.InsertSize == nil {
			return nil, true
		}
		return *a.InsertSize, true
	case "template_prep_kit_box_barcode":
		return a.TemplatePrepKitBoxBarcode, true
	case "tag":
		return a.Tag, true
	case "updated_at":
		return a.UpdatedAt, true
	}
	return nil, false
}

// Derived reports whether the aliquot was taken from another aliquot's
// material, which is the only kind whose volume is tracked.
func (a *Aliquot) Derived() bool {
	return a != nil && a.AliquotType == AliquotDerived
}

// Tag is the index tag attached to an aliquot.
type Tag struct {
	GroupID string
	Oligo   string
}

// Field implements fieldmapper.Navigable.
func (t *Tag) Field(name string) (any, bool) {
	if t == nil {
		return nil, false
	}
	switch name {
	case "group_id":
		return t.GroupID, true
	case "oligo":
		return t.Oligo, true
	}
	return nil, false
}

// Tube holds a library or pool.
type Tube struct {
	Barcode string
}

// Field implements fieldmapper.Navigable.
func (t *Tube) Field(name string) (any, bool) {
	if t == nil || name != "barcode" {
		return nil, false
	}
	return t.Barcode, true
}

// Library is a prepared library in a tube.
type Library struct {
	Name string
	Tube *Tube
}

// Field implements fieldmapper.Navigable. barcode is the tube's barcode.
func (l *Library) Field(name string) (any, bool) {
	if l == nil {
		return nil, false
	}
	switch name {
	case "name":
		return l.Name, true
	case "tube":
		return l.Tube, true
	case "barcode":
		return tubeBarcode(l.Tube), true
	}
	return nil, false
}

// Pool is a set of libraries combined in one tube.
type Pool struct {
	Tube      *Tube
	Libraries []*Library
}

// Field implements fieldmapper.Navigable. barcode is the tube's barcode.
func (p *Pool) Field(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	switch name {
	case "tube":
		return p.Tube, true
	case "barcode":
		return tubeBarcode(p.Tube), true
	case "libraries":
		return fieldmapper.Items(p.Libraries), true
	}
	return nil, false
}

func tubeBarcode(t *Tube) any {
	if t == nil {
		return nil
	}
	return t.Barcode
}

// Run is a sequencing run.
type Run struct {
	Name                    string
	SequencingKitBoxBarcode string
	Plates                  []*Plate
}

// Field implements fieldmapper.Navigable.
func (r *Run) Field(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	switch name {
	case "name":
		return r.Name, true
	case "sequencing_kit_box_barcode":
		return r.SequencingKitBoxBarcode, true
	case "plates":
		return fieldmapper.Items(r.Plates), true
	}
	return nil, false
}

// Plate is one plate of a run.
type Plate struct {
	PlateNumber int
	Run         *Run
	Wells       []*Well
}

// Field implements fieldmapper.Navigable.
func (p *Plate) Field(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	switch name {
	case "plate_number":
		return p.PlateNumber, true
	case "run":
		return p.Run, true
	case "wells":
		return fieldmapper.Items(p.Wells), true
	}
	return nil, false
}

// Well is a position on a plate, such as "A1".
type Well struct {
	Position string
	Plate    *Plate
}

// Field implements fieldmapper.Navigable.
func (w *Well) Field(name string) (any, bool) {
	if w == nil {
		return nil, false
	}
	switch name {
	case "position":
		return w.Position, true
	case "plate":
		return w.Plate, true
	}
	return nil, false
}
