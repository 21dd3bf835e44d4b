package frame

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides when ticks happen and when they draw.
type Policy int

const (
	// OnDemand ticks once per display refresh and draws only on change.
	OnDemand Policy = iota
	// FixedInterval ticks on a timer and draws every tick.
	FixedInterval
)

// DefaultRefreshInterval paces OnDemand when no display provides vsync.
const DefaultRefreshInterval = time.Second / 60

// DefaultFixedInterval is the tick period of the FixedInterval policy.
const DefaultFixedInterval = 50 * time.Millisecond

func (p Policy) String() string {
	switch p {
	case OnDemand:
		return "on-demand"
	case FixedInterval:
		return "fixed-interval"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts "on-demand"/"ondemand" and "fixed-interval"/"fixed".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on-demand", "ondemand", "on_demand":
		return OnDemand, nil
	case "fixed-interval", "fixedinterval", "fixed_interval", "fixed":
		return FixedInterval, nil
	}
	return OnDemand, fmt.Errorf("unknown frame policy %q", s)
}
