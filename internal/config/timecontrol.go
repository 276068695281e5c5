package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/fastbench/internal/clock"
	"github.com/herohde/fastbench/internal/xerrors"
)

// ParseTimeControl parses spec.md §6's time-control mini-grammar:
//
//	[moves/]time[+inc]
//
// time is either "seconds" or "minutes:seconds"; either field may carry a trailing "s"
// (ignored). "hg" (hourglass) is rejected outright. "inf"/"infinite" (with no moves/
// prefix) yields an empty Limits (unlimited). A "moves/" prefix paired with "inf" means
// "no move limit", i.e. MovesPerPeriod is left at 0 (sudden death) while the parsed time
// budget still applies — this is the one place the grammar's "inf" means something other
// than "unlimited time": it always modifies whatever follows it positionally.
//
// Examples: "40/60", "0:30+0.1", "10+0.1", "2+0.02s".
func ParseTimeControl(s string) (clock.Limits, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return clock.Limits{}, fmt.Errorf("%w: empty time control", xerrors.ErrBadConfig)
	}
	if strings.EqualFold(s, "inf") || strings.EqualFold(s, "infinite") {
		return clock.Limits{}, nil
	}
	if strings.Contains(strings.ToLower(s), "hg") {
		return clock.Limits{}, fmt.Errorf("%w: hourglass time controls are not supported", xerrors.ErrBadConfig)
	}

	var movesPerPeriod int
	rest := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		movesPart, r := s[:i], s[i+1:]
		rest = r
		if !strings.EqualFold(movesPart, "inf") {
			n, err := strconv.Atoi(movesPart)
			if err != nil {
				return clock.Limits{}, fmt.Errorf("%w: bad moves-per-period %q", xerrors.ErrBadConfig, movesPart)
			}
			movesPerPeriod = n
		}
	}

	timePart, incPart := rest, ""
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		timePart, incPart = rest[:i], rest[i+1:]
	}

	main, err := parseDurationField(timePart)
	if err != nil {
		return clock.Limits{}, err
	}

	var inc time.Duration
	if incPart != "" {
		inc, err = parseDurationField(incPart)
		if err != nil {
			return clock.Limits{}, err
		}
	}

	return clock.Limits{Main: main, Increment: inc, MovesPerPeriod: movesPerPeriod}, nil
}

// parseDurationField parses either "seconds" (decimal allowed) or "minutes:seconds", with
// an optional trailing "s" suffix ignored on either half.
func parseDurationField(s string) (time.Duration, error) {
	s = strings.TrimSuffix(s, "s")
	s = strings.TrimSuffix(s, "S")

	if i := strings.IndexByte(s, ':'); i >= 0 {
		minPart := strings.TrimSuffix(s[:i], "s")
		secPart := strings.TrimSuffix(s[i+1:], "s")

		mins, err := strconv.ParseFloat(minPart, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad minutes field %q", xerrors.ErrBadConfig, minPart)
		}
		secs, err := strconv.ParseFloat(secPart, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad seconds field %q", xerrors.ErrBadConfig, secPart)
		}
		return time.Duration(mins*60*float64(time.Second)) + time.Duration(secs*float64(time.Second)), nil
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time field %q", xerrors.ErrBadConfig, s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// ParseFixedTime parses the "-engine st=seconds" fixed-time-per-move sub-key: a plain
// decimal number of seconds, mutually exclusive with a full time control.
func ParseFixedTime(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad st=%q", xerrors.ErrBadConfig, s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
