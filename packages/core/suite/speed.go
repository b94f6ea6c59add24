package suite

import (
	"fmt"
	"strings"
	"time"
)

// Speed classifies how long a spec took relative to its slow threshold.
type Speed int

const (
	Fast Speed = iota
	OnTime
	Slow
)

func (s Speed) String() string {
	switch s {
	case OnTime:
		return "on-time"
	case Slow:
		return "slow"
	default:
		return "fast"
	}
}

func (s Speed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Speed) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fast", "":
		*s = Fast
	case "on-time", "ontime":
		*s = OnTime
	case "slow":
		*s = Slow
	default:
		return fmt.Errorf("unknown speed %q", text)
	}
	return nil
}

// classify applies the slow threshold. A duration above the threshold is
// Slow, one at or below half of it is Fast, anything between is OnTime.
// Without a threshold every spec is Fast.
func classify(d, threshold time.Duration, ok bool) Speed {
	if !ok {
		return Fast
	}
	switch {
	case d > threshold:
		return Slow
	case d <= threshold/2:
		return Fast
	default:
		return OnTime
	}
}

// Precision is the unit durations are measured and reported in.
type Precision int

const (
	Nano Precision = iota
	Micro
	Milli
	Sec
)

// ParsePrecision accepts the long names (nano, micro, millis, sec) and the
// unit suffixes (ns, us, μs, ms, s).
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nano", "nanos", "ns":
		return Nano, nil
	case "micro", "micros", "us", "μs":
		return Micro, nil
	case "milli", "millis", "ms":
		return Milli, nil
	case "sec", "secs", "s":
		return Sec, nil
	default:
		return Nano, fmt.Errorf("unknown precision %q", s)
	}
}

func (p Precision) String() string {
	switch p {
	case Micro:
		return "micro"
	case Milli:
		return "millis"
	case Sec:
		return "sec"
	default:
		return "nano"
	}
}

// Unit returns the duration of one tick at this precision.
func (p Precision) Unit() time.Duration {
	switch p {
	case Micro:
		return time.Microsecond
	case Milli:
		return time.Millisecond
	case Sec:
		return time.Second
	default:
		return time.Nanosecond
	}
}

// Suffix is the unit label used when printing durations.
func (p Precision) Suffix() string {
	switch p {
	case Micro:
		return "μs"
	case Milli:
		return "ms"
	case Sec:
		return "sec"
	default:
		return "ns"
	}
}

// Truncate drops everything below the precision's unit.
func (p Precision) Truncate(d time.Duration) time.Duration {
	return d.Truncate(p.Unit())
}

// Units returns d as a whole number of units.
func (p Precision) Units(d time.Duration) int64 {
	return int64(d / p.Unit())
}

// Format renders d the way reporters print it, e.g. "(12ms)".
func (p Precision) Format(d time.Duration) string {
	return fmt.Sprintf("(%d%s)", p.Units(d), p.Suffix())
}

func (p Precision) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Precision) UnmarshalText(text []byte) error {
	v, err := ParsePrecision(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
