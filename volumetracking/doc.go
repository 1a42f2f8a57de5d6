// Package volumetracking publishes aliquot volume changes.
//
// The domain types are plain structs exposing their attributes through
// fieldmapper.Navigable, so pipeline configurations can refer to them by the
// names operators know: source_type, used_by, plate_number and so on.
//
// The VolumeTrackingMessage builder adds the "used_by_barcode" self field. For
// an aliquot used by a well it reads "{sequencing kit box barcode}:{plate
// number}:{well position}"; otherwise it is the barcode of the library or pool
// that used the aliquot. Primary aliquots are not published: their message
// has no volume_tracking key and the job skips it.
//
// Wiring without fx:
//
//	builders := publisher.NewBuilders()
//	volumetracking.Register(builders)
//	job, err := publisher.NewJob(cfg, builders, publisher.DefaultDeps(), resolver, encoder, sender)
//	if err != nil {
//	    return err
//	}
//	job.Publish(ctx, aliquot, "pacbio", "volume_tracking")
//
// Under fx, FXModule contributes the builder to the "message_builders" group.
package volumetracking
