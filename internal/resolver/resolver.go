// Package resolver maps a user supplied device selector onto one port of a listing.
package resolver

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leandrodaf/midiutil/sdk/contracts"
)

// TryParseIndex reports whether selector is a port index, i.e. a non-empty run of
// ASCII digits. Values that do not fit an int come back as -1 with ok set, so that
// they are still treated as (out of range) indices.
func TryParseIndex(selector string) (index int, ok bool) {
	if selector == "" {
		return 0, false
	}
	for i := 0; i < len(selector); i++ {
		if selector[i] < '0' || selector[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(selector, 10, 64)
	if err != nil || n > math.MaxInt {
		return -1, true
	}
	return int(n), true
}

// Resolve selects exactly one port for selector:
//
//  1. a numeric selector is an index into ports and never falls back to name matching;
//  2. otherwise the first port whose name starts with selector (case-insensitive);
//  3. otherwise the first port whose name contains selector (case-insensitive).
func Resolve(selector string, ports []contracts.Port) (contracts.Port, error) {
	if selector == "" {
		return contracts.Port{}, contracts.ErrNoDeviceSpecified
	}

	if i, ok := TryParseIndex(selector); ok {
		if i < 0 || i >= len(ports) {
			return contracts.Port{}, fmt.Errorf("%w: %s (%d ports available)", contracts.ErrOutOfRange, selector, len(ports))
		}
		return ports[i], nil
	}

	want := strings.ToLower(selector)
	for _, p := range ports {
		if strings.HasPrefix(strings.ToLower(p.Name), want) {
			return p, nil
		}
	}
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.Name), want) {
			return p, nil
		}
	}
	return contracts.Port{}, fmt.Errorf("%w: %q", contracts.ErrDeviceNotFound, selector)
}
