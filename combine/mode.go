package combine

import "fmt"

// Mode is a highlevel description of a cross-run reduction method. The set is
// closed: unknown mode strings are rejected when the Spec is constructed, not
// when it is used.
type Mode int

const (
	ModeNone Mode = iota
	// ModeMean reduces each run to the arithmetic mean of the series within
	// the cutoff window.
	ModeMean
	// ModeMeta reads a precomputed run-level metadata scalar instead of
	// recomputing anything from samples.
	ModeMeta
	// ModeSpan reduces each run to the value delta between the two cutoff
	// boundaries, for cumulative measurements such as packet counters.
	ModeSpan
	// ModeMeanSpan is the span delta used directly as a scalar aggregate,
	// for dual-axis combination against another series' meta statistic.
	ModeMeanSpan
)

// String provides the declarative-configuration names.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeMean:
		return "mean"
	case ModeMeta:
		return "meta"
	case ModeSpan:
		return "span"
	case ModeMeanSpan:
		return "mean_span"
	}
	panic(fmt.Sprintf("Mode.String(): unknown mode %d", m))
}
