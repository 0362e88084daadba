package calendar

import "time"

// State is the visual state of one presenter cell.
type State int

const (
	StateHeader State = iota
	StateNormal
	StateSelected
	StateDisabled
	StateAdjacentMonthDimmed
	StateBlank
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateHeader:
		return "header"
	case StateNormal:
		return "normal"
	case StateSelected:
		return "selected"
	case StateDisabled:
		return "disabled"
	case StateAdjacentMonthDimmed:
		return "adjacentMonthDimmed"
	case StateBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Policy holds the presentation flags shared by every month. It is a plain
// value: hosts build a new one and hand it to Model.SetPolicy.
type Policy struct {
	ShowAdjacentMonthDates bool
	AllDatesClickable      bool
	FutureOnly             bool
	ClickableDates         []string // canonical D/M/YYYY strings
}

// DefaultPolicy returns the widget defaults: every date clickable,
// neighbouring months hidden.
func DefaultPolicy() Policy {
	return Policy{AllDatesClickable: true}
}

func (p Policy) clone() Policy {
	if p.ClickableDates != nil {
		dates := make([]string, len(p.ClickableDates))
		copy(dates, p.ClickableDates)
		p.ClickableDates = dates
	}
	return p
}

// Resolution is the outcome of resolving the policy for a date.
type Resolution struct {
	State     State
	Clickable bool
	Faded     bool // before today under FutureOnly
}

// resolver evaluates a Policy with its clickable set prebuilt.
type resolver struct {
	policy    Policy
	clickable map[string]struct{}
}

func newResolver(p Policy) resolver {
	set := make(map[string]struct{}, len(p.ClickableDates))
	for _, d := range p.ClickableDates {
		set[d] = struct{}{}
	}
	return resolver{policy: p, clickable: set}
}

// resolve applies the precedence rules in order. The order is observable:
// a selected date stays selected even where every later rule disables it.
func (r resolver) resolve(d Date, selected *Date, now time.Time) Resolution {
	switch {
	case selected != nil && d.Equal(*selected):
		return Resolution{State: StateSelected, Clickable: true}
	case len(r.clickable) == 0 && !r.policy.AllDatesClickable:
		return Resolution{State: StateDisabled}
	case r.policy.AllDatesClickable:
		if r.policy.FutureOnly && !d.IsCurrentOrFuture(now) {
			return Resolution{State: StateDisabled, Faded: true}
		}
		return Resolution{State: StateNormal, Clickable: true}
	default:
		if _, ok := r.clickable[d.Canonical()]; ok {
			return Resolution{State: StateNormal, Clickable: true}
		}
		return Resolution{State: StateDisabled}
	}
}
