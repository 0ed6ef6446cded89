package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spec carries the five raw schedule field strings the way they are stored
// on an activity. Each field is a wildcard ("*" or empty), a single value
// ("15"), a list ("1,15") or a range ("1-5"). Minute and hour are accepted
// for schema completeness but scheduling happens at day resolution.
type Spec struct {
	Minute     string `json:"minute"`
	Hour       string `json:"hour"`
	DayOfMonth string `json:"day_of_month"`
	DayOfWeek  string `json:"day_of_week"`
	Month      string `json:"month"`
}

// IsEmpty reports whether no field was supplied at all.
func (s Spec) IsEmpty() bool {
	return s.Minute == "" && s.Hour == "" && s.DayOfMonth == "" &&
		s.DayOfWeek == "" && s.Month == ""
}

type bounds struct {
	min, max int
}

var (
	minuteBounds = bounds{0, 59}
	hourBounds   = bounds{0, 23}
	domBounds    = bounds{1, 31}
	dowBounds    = bounds{0, 6} // 0 = Sunday
	monthBounds  = bounds{1, 12}
)

// Field is one parsed schedule field: either a wildcard or an explicit
// set of allowed values.
type Field struct {
	Wildcard bool
	values   map[int]struct{}
}

// Contains reports whether the field allows v. Wildcards allow everything.
func (f Field) Contains(v int) bool {
	if f.Wildcard {
		return true
	}
	_, ok := f.values[v]
	return ok
}

// Rule is a fully parsed five-field schedule.
type Rule struct {
	Minute     Field
	Hour       Field
	DayOfMonth Field
	DayOfWeek  Field
	Month      Field
}

// Parse validates and parses a schedule spec. A spec with every field
// empty is rejected; individual empty fields are treated as wildcards.
func Parse(spec Spec) (*Rule, error) {
	if spec.IsEmpty() {
		return nil, fmt.Errorf("empty schedule")
	}

	var (
		rule Rule
		err  error
	)
	if rule.Minute, err = parseField(spec.Minute, minuteBounds); err != nil {
		return nil, fmt.Errorf("minute field: %w", err)
	}
	if rule.Hour, err = parseField(spec.Hour, hourBounds); err != nil {
		return nil, fmt.Errorf("hour field: %w", err)
	}
	if rule.DayOfMonth, err = parseField(spec.DayOfMonth, domBounds); err != nil {
		return nil, fmt.Errorf("day-of-month field: %w", err)
	}
	if rule.DayOfWeek, err = parseField(spec.DayOfWeek, dowBounds); err != nil {
		return nil, fmt.Errorf("day-of-week field: %w", err)
	}
	if rule.Month, err = parseField(spec.Month, monthBounds); err != nil {
		return nil, fmt.Errorf("month field: %w", err)
	}
	return &rule, nil
}

func parseField(expr string, b bounds) (Field, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "*" {
		return Field{Wildcard: true}, nil
	}

	values := make(map[int]struct{})
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Field{}, fmt.Errorf("empty list element in %q", expr)
		}
		lo, hi, err := parsePart(part)
		if err != nil {
			return Field{}, err
		}
		if lo < b.min || hi > b.max {
			return Field{}, fmt.Errorf("value %q out of range %d-%d", part, b.min, b.max)
		}
		for v := lo; v <= hi; v++ {
			values[v] = struct{}{}
		}
	}
	return Field{values: values}, nil
}

func parsePart(part string) (lo, hi int, err error) {
	if from, to, ok := strings.Cut(part, "-"); ok {
		lo, err = strconv.Atoi(from)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range start %q", from)
		}
		hi, err = strconv.Atoi(to)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range end %q", to)
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("inverted range %q", part)
		}
		return lo, hi, nil
	}
	v, err := strconv.Atoi(part)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value %q", part)
	}
	return v, v, nil
}

// Fires reports whether the rule selects the given calendar date.
//
// Month is an AND gate: a restricted month field that does not contain
// the date's month is always a non-match. The two day fields follow cron
// conventions: with both wildcards every day matches; with exactly one
// restricted field that field must match; with both restricted the day
// matches when EITHER field does (OR, not AND).
func (r *Rule) Fires(date time.Time) bool {
	if !r.Month.Contains(int(date.Month())) {
		return false
	}

	domHit := r.DayOfMonth.Contains(date.Day())
	dowHit := r.DayOfWeek.Contains(int(date.Weekday()))

	switch {
	case r.DayOfMonth.Wildcard && r.DayOfWeek.Wildcard:
		return true
	case r.DayOfMonth.Wildcard:
		return dowHit
	case r.DayOfWeek.Wildcard:
		return domHit
	default:
		return domHit || dowHit
	}
}
