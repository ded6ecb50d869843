// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// rangeTerm is one '|'-separated term of a range spec: either a
// single value or a min..max pair. Signed and unsigned forms are kept
// distinct so "-0..18446744073709551615" round-trips: the unsigned max
// int64 cannot represent that upper bound, so unsigned terms carry
// their own uint64 bounds plus a sign flag per end.
type rangeTerm struct {
	loSigned bool
	lo       int64
	loU      uint64
	hiSigned bool
	hi       int64
	hiU      uint64
	single   bool
}

// ParseRange parses a range spec of the form "min..max|min..max|value"
//.
func ParseRange(spec string) ([]rangeTerm, error) {
	var terms []rangeTerm
	for _, part := range strings.Split(spec, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty range term")
		}
		if idx := strings.Index(part, ".."); idx >= 0 {
			loStr, hiStr := part[:idx], part[idx+2:]
			lo, loU, loSigned, err := parseRangeBound(loStr)
			if err != nil {
				return nil, err
			}
			hi, hiU, hiSigned, err := parseRangeBound(hiStr)
			if err != nil {
				return nil, err
			}
			terms = append(terms, rangeTerm{
				loSigned: loSigned, lo: lo, loU: loU,
				hiSigned: hiSigned, hi: hi, hiU: hiU,
			})
		} else {
			v, vU, signed, err := parseRangeBound(part)
			if err != nil {
				return nil, err
			}
			terms = append(terms, rangeTerm{
				loSigned: signed, lo: v, loU: vU,
				hiSigned: signed, hi: v, hiU: vU,
				single: true,
			})
		}
	}
	return terms, nil
}

// parseRangeBound parses one bound, tracking explicit sign so that a
// value like 18446744073709551615 (max uint64) is representable even
// though it overflows int64.
func parseRangeBound(s string) (signedVal int64, unsignedVal uint64, signed bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false, fmt.Errorf("empty range bound")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		signed = true
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid range bound %q: %w", s, err)
		}
		return v, 0, true, nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid range bound %q: %w", s, err)
	}
	return 0, u, false, nil
}

// ValidateRange reports whether value lies within any term of spec
//. Values are parsed as signed int64 when negative, else
// uint64, so "-0..18446744073709551615" accepts both negative values
// down to zero and values up to the full unsigned 64-bit range.
func ValidateRange(spec, value string) (bool, error) {
	terms, err := ParseRange(spec)
	if err != nil {
		return false, err
	}
	neg := strings.HasPrefix(strings.TrimSpace(value), "-")
	var sv int64
	var uv uint64
	if neg {
		sv, err = strconv.ParseInt(value, 10, 64)
	} else {
		uv, err = strconv.ParseUint(value, 10, 64)
	}
	if err != nil {
		return false, fmt.Errorf("invalid integer value %q: %w", value, err)
	}
	for _, t := range terms {
		if rangeTermMatches(t, neg, sv, uv) {
			return true, nil
		}
	}
	return false, nil
}

func rangeTermMatches(t rangeTerm, neg bool, sv int64, uv uint64) bool {
	// Compare on a common scale: treat every bound and the candidate
	// as a big.Int-free comparison by routing through signed space
	// when either side is negative, unsigned otherwise.
	loNeg := t.loSigned && t.lo < 0
	hiNeg := t.hiSigned && t.hi < 0

	if neg {
		if !loNeg {
			// lo is >= 0, candidate is negative: only matches if lo
			// itself is the signed zero boundary ("-0").
			return t.loSigned && t.lo == 0 && sv == 0
		}
		if sv < t.lo {
			return false
		}
		if hiNeg {
			return sv <= t.hi
		}
		return true // hi is >= 0, and sv is negative <= lo-side already checked
	}

	// candidate uv >= 0.
	if hiNeg {
		return false // whole term is negative, positive candidate can't match
	}
	var loU uint64
	if loNeg {
		loU = 0
	} else if t.loSigned {
		loU = uint64(t.lo)
	} else {
		loU = t.loU
	}
	var hiU uint64
	if t.hiSigned {
		hiU = uint64(t.hi)
	} else {
		hiU = t.hiU
	}
	return uv >= loU && uv <= hiU
}
