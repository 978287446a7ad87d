package state

import (
	"hoardmap/pkg/model"
)

// Reconstructor folds a device's delta records back into full state
// snapshots. Records must be applied oldest first; the history source
// returns pages newest first, so callers reverse before applying.
//
// Each device gets its own Reconstructor, so per-device pipelines stay
// independent and can run in parallel without shared state.
type Reconstructor struct {
	current model.State
}

// NewReconstructor starts from an empty full state.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{current: model.State{}}
}

// Apply merges one delta record onto the accumulated state and returns a
// detached snapshot of the full state as of that record. The diagnostics
// sub-tree is replaced wholesale when the record supplies one: the source
// reports diagnostics as an atomic block per event, never incrementally.
func (r *Reconstructor) Apply(rec model.DeltaRecord) model.State {
	DeepMerge(rec.Changes, r.current)
	if rec.HasDiagnostics() {
		r.current["diagnostics"] = map[string]any(DeepCopy(rec.Diagnostics))
	}
	return DeepCopy(r.current)
}
