package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/fastbench/internal/xerrors"
)

// ParseCPUList parses spec.md §6's CPU-list grammar: a comma-separated list of
// integers, where a hyphen between two numbers denotes an inclusive range whose end must
// exceed its start, and an element with a leading "-" is a single negative integer (the
// `-concurrency`-style "hw_threads - N" shorthand, not a range); "0,2-4,-1" yields
// [0 2 3 4 -1].
func ParseCPUList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "-") && !strings.Contains(s[1:], ",") && !strings.Contains(s[1:], "-") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: bad cpu list %q", xerrors.ErrBadConfig, s)
		}
		return []int{n}, nil
	}

	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i := strings.IndexByte(part, '-'); i > 0 {
			start, err := strconv.Atoi(part[:i])
			if err != nil {
				return nil, fmt.Errorf("%w: bad cpu range %q", xerrors.ErrBadConfig, part)
			}
			end, err := strconv.Atoi(part[i+1:])
			if err != nil {
				return nil, fmt.Errorf("%w: bad cpu range %q", xerrors.ErrBadConfig, part)
			}
			if end <= start {
				return nil, fmt.Errorf("%w: cpu range %q must have end > start", xerrors.ErrBadConfig, part)
			}
			for c := start; c <= end; c++ {
				out = append(out, c)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: bad cpu %q", xerrors.ErrBadConfig, part)
		}
		out = append(out, n)
	}
	return out, nil
}
