package combine

import (
	"fmt"
	"strings"

	"github.com/raintank/dur"
)

// Window is a cutoff time range in run-relative seconds, excluding ramp-up
// and ramp-down from aggregate statistics. Boundaries are inclusive.
type Window struct {
	Start float64
	End   float64
}

// Spec is the declarative description of one reduction, as resolved by the
// configuration layer. Immutable once constructed.
type Spec struct {
	Mode    Mode
	MetaKey string // for ModeMeta: the run metadata key to read
	CDF     bool   // resample the across-run scalars into a CDF curve
	Series  string
	Cutoff  *Window
	GroupBy string // Settings key to group runs by; "" uses the stored group keys
	Axis    int
}

// NewSpec parses a combine-mode string ("mean", "span", "mean_span",
// "meta:<KEY>", each optionally prefixed with "cdf_") for the given series.
// Unknown modes fail here, at construction time.
func NewSpec(mode, seriesName string) (Spec, error) {
	s := Spec{Series: seriesName}
	rest := mode
	if strings.HasPrefix(rest, "cdf_") {
		s.CDF = true
		rest = strings.TrimPrefix(rest, "cdf_")
	}
	switch {
	case rest == "mean":
		s.Mode = ModeMean
	case rest == "span":
		s.Mode = ModeSpan
	case rest == "mean_span":
		s.Mode = ModeMeanSpan
	case strings.HasPrefix(rest, "meta:") && len(rest) > len("meta:"):
		s.Mode = ModeMeta
		s.MetaKey = strings.TrimPrefix(rest, "meta:")
	default:
		return Spec{}, UnknownModeError(fmt.Sprintf("unknown combine mode %q", mode))
	}
	return s, nil
}

// ColumnName is the output column header for the reduction, e.g.
// "tcp_download:mean" or "meta:TOTAL_BYTES".
func (s Spec) ColumnName() string {
	if s.Mode == ModeMeta {
		return "meta:" + s.MetaKey
	}
	return s.Series + ":" + s.Mode.String()
}

// ParseWindow parses a cutoff window from two duration strings like "5s" and
// "1m10s".
func ParseWindow(start, end string) (*Window, error) {
	s, err := dur.ParseDuration(start)
	if err != nil {
		return nil, fmt.Errorf("cutoff start %q: %s", start, err)
	}
	e, err := dur.ParseDuration(end)
	if err != nil {
		return nil, fmt.Errorf("cutoff end %q: %s", end, err)
	}
	if e <= s {
		return nil, fmt.Errorf("cutoff end %q does not come after start %q", end, start)
	}
	return &Window{Start: float64(s), End: float64(e)}, nil
}
