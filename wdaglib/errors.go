package wdaglib

import "fmt"

// NoPath is returned by FindBestPath when every start-to-end path
// through the trellis has weight LogZero: the current parameters
// forbid every trajectory consistent with the observations.
type NoPath struct {
	NNodes int
}

func (e *NoPath) Error() string {
	return fmt.Sprintf("wdaglib: no path from start to end through %d-node graph", e.NNodes)
}

// NumericError reports a NaN produced while accumulating log-space
// sums or maxima. Validated inputs should make this impossible; if it
// is observed, the call that triggered it is aborted rather than
// silently continuing with corrupted state.
type NumericError struct {
	Where string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("wdaglib: NaN encountered in %s", e.Where)
}
