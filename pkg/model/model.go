package model

import (
	"time"
)

// State is the full reconstructed device state: a nested mapping of
// arbitrary depth, built up by overlaying history deltas.
type State map[string]any

// DeltaRecord is one entry of a device's state history. Changes is a
// sparse overlay relative to the previous record; Diagnostics, when
// present, is a full replacement of the diagnostics sub-tree (the
// processor reports it as an atomic block per event, never as a delta).
type DeltaRecord struct {
	Changes     State `json:"changes"`
	Diagnostics State `json:"diagnostics,omitempty"`
}

// HasDiagnostics reports whether the record carries a diagnostics block.
// A present-but-empty block still counts: it wipes the sub-tree.
func (r *DeltaRecord) HasDiagnostics() bool {
	return r.Diagnostics != nil
}

// Device is a descriptor returned by the processor's device listing.
type Device struct {
	DeviceID string            `json:"device_id"`
	Name     string            `json:"name,omitempty"`
	Links    map[string]string `json:"links"`
}

// HistoryURL returns the entry point for paginating this device's
// history, or "" if the processor did not advertise one.
func (d *Device) HistoryURL() string {
	return d.Links["history"]
}

// TrackPoint is one spatial-temporal sample of a device. Immutable once
// created; State is a deep-copied snapshot and is never mutated after
// the point is built.
type TrackPoint struct {
	Lon       float64
	Lat       float64
	Timestamp time.Time
	State     State
}

// Segment is a spatially contiguous run of track points: no jump between
// neighbors exceeds the configured threshold.
type Segment []TrackPoint
