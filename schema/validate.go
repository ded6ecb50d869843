// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// Copyright (c) 2014-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import "regexp"

// CompilePattern compiles a schema `pattern` attribute as a fully
// anchored regex. Patterns are written against an extended-POSIX
// engine; RE2 accepts the same syntax for the constructs schemas use.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")$")
}

// Validate checks a candidate value against the node: pattern, else
// range, else enumeration, else accept.
func (inst *Instance) Validate(n *Node, value string) error {
	if n.pattern != "" {
		re, ok := inst.compiledPattern(n)
		if !ok {
			// Every pattern is compiled eagerly in newInstance;
			// this path only runs for a node built outside the
			// loader.
			var err error
			re, err = CompilePattern(n.pattern)
			if err != nil {
				return NewPatternRegexError(nil, n.pattern, err)
			}
		}
		if !re.MatchString(value) {
			return NewPatternRegexError(nil, n.pattern, errNoMatch)
		}
		return nil
	}
	if n.rangeSpec != "" {
		ok, err := ValidateRange(n.rangeSpec, value)
		if err != nil {
			return NewOutOfRangeError(nil, value, n.rangeSpec)
		}
		if !ok {
			return NewOutOfRangeError(nil, value, n.rangeSpec)
		}
		return nil
	}
	if len(n.enums) > 0 {
		for _, e := range n.enums {
			if e.Name == value || e.Value == value {
				return nil
			}
		}
		return NewEnumInvalidError(nil, value)
	}
	return nil
}

var errNoMatch = patternMismatchError{}

type patternMismatchError struct{}

func (patternMismatchError) Error() string { return "value does not match pattern" }

// TranslateTo maps a canonical store value to its display (enum name)
// form. A missing value is replaced by the node's default
// before lookup.
func (inst *Instance) TranslateTo(n *Node, value string) string {
	if value == "" {
		if def, ok := n.Default(); ok {
			value = def
		}
	}
	for _, e := range n.enums {
		if e.Value == value {
			return e.Name
		}
	}
	return value
}

// TranslateFrom is the inverse of TranslateTo: maps a display (enum
// name) value back to its canonical store value.
func (inst *Instance) TranslateFrom(n *Node, value string) string {
	for _, e := range n.enums {
		if e.Name == value {
			return e.Value
		}
	}
	return value
}
