package cache

import (
	"fmt"
	"strings"
)

// Policy names a replacement strategy.
type Policy int

// The supported replacement policies.
const (
	Random Policy = iota
	FIFO
	LRU
)

// ParsePolicy converts a command-line code into a Policy. Only the first
// character counts: R, F or L, in any case.
func ParsePolicy(code string) (Policy, error) {
	if code == "" {
		return 0, fmt.Errorf("%w: empty code", ErrUnknownPolicy)
	}

	switch strings.ToUpper(code[:1]) {
	case "R":
		return Random, nil
	case "F":
		return FIFO, nil
	case "L":
		return LRU, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, code)
}

// Code returns the single-letter code of the policy.
func (p Policy) Code() string {
	switch p {
	case Random:
		return "R"
	case FIFO:
		return "F"
	case LRU:
		return "L"
	}

	return "?"
}

func (p Policy) String() string {
	switch p {
	case Random:
		return "random"
	case FIFO:
		return "fifo"
	case LRU:
		return "lru"
	}

	return fmt.Sprintf("Policy(%d)", int(p))
}
