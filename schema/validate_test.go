// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import "testing"

// buildValidatorInstance assembles one leaf per restriction kind: a
// patterned leaf, a ranged leaf with two disjoint terms, and an
// enumerated leaf with a default.
func buildValidatorInstance(t *testing.T) (*Instance, map[string]*Node) {
	t.Helper()
	native := NewNamespace("urn:test", "t", true)
	b := NewBuilder(native)

	top := b.NewNode("top", native)
	b.AddChild(b.Root(), top)

	patterned := b.NewNode("hostname", native)
	b.SetMode(patterned, "rwc")
	b.SetPattern(patterned, "[a-z][a-z0-9-]*")
	b.AddChild(top, patterned)

	ranged := b.NewNode("priority", native)
	b.SetMode(ranged, "rwc")
	b.SetRange(ranged, "1..100|200..300")
	b.AddChild(top, ranged)

	enumerated := b.NewNode("state", native)
	b.SetMode(enumerated, "rwc")
	b.SetDefault(enumerated, "0")
	b.AddEnum(enumerated, &ValueEnum{Name: "disable", Value: "0"})
	b.AddEnum(enumerated, &ValueEnum{Name: "enable", Value: "1"})
	b.AddChild(top, enumerated)

	inst, err := b.Finish(NewNamespaceMap(), nil, native, nil)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return inst, map[string]*Node{
		"hostname": top.ChildByName("hostname"),
		"priority": top.ChildByName("priority"),
		"state":    top.ChildByName("state"),
	}
}

func TestValidatePattern(t *testing.T) {
	inst, nodes := buildValidatorInstance(t)

	if err := inst.Validate(nodes["hostname"], "router-1"); err != nil {
		t.Fatalf("valid hostname rejected: %v", err)
	}
	err := inst.Validate(nodes["hostname"], "1bad")
	if err == nil {
		t.Fatal("invalid hostname accepted")
	}
	if kind, _ := KindOf(err); kind != ErrPatternRegex {
		t.Fatalf("got kind %v, want %v", kind, ErrPatternRegex)
	}
}

func TestValidatePatternIsAnchored(t *testing.T) {
	inst, nodes := buildValidatorInstance(t)
	// The pattern matches a substring of this value but not the whole.
	if err := inst.Validate(nodes["hostname"], "x y"); err == nil {
		t.Fatal("partially matching value accepted")
	}
}

func TestValidateRangeTerms(t *testing.T) {
	inst, nodes := buildValidatorInstance(t)

	if err := inst.Validate(nodes["priority"], "250"); err != nil {
		t.Fatalf("in-range value rejected: %v", err)
	}
	err := inst.Validate(nodes["priority"], "150")
	if err == nil {
		t.Fatal("value in the gap between terms accepted")
	}
	if kind, _ := KindOf(err); kind != ErrOutOfRange {
		t.Fatalf("got kind %v, want %v", kind, ErrOutOfRange)
	}
}

func TestValidateEnum(t *testing.T) {
	inst, nodes := buildValidatorInstance(t)

	for _, v := range []string{"enable", "1", "disable", "0"} {
		if err := inst.Validate(nodes["state"], v); err != nil {
			t.Fatalf("enum value %q rejected: %v", v, err)
		}
	}
	err := inst.Validate(nodes["state"], "on")
	if err == nil {
		t.Fatal("unknown enum value accepted")
	}
	if kind, _ := KindOf(err); kind != ErrEnumInvalid {
		t.Fatalf("got kind %v, want %v", kind, ErrEnumInvalid)
	}
}

func TestTranslateToAndFrom(t *testing.T) {
	inst, nodes := buildValidatorInstance(t)
	state := nodes["state"]

	if got := inst.TranslateTo(state, "1"); got != "enable" {
		t.Fatalf("TranslateTo(1) = %q, want enable", got)
	}
	if got := inst.TranslateFrom(state, "enable"); got != "1" {
		t.Fatalf("TranslateFrom(enable) = %q, want 1", got)
	}
	// A missing value picks up the default before lookup.
	if got := inst.TranslateTo(state, ""); got != "disable" {
		t.Fatalf("TranslateTo(\"\") = %q, want disable", got)
	}
	// Values with no enum mapping pass through unchanged.
	if got := inst.TranslateFrom(state, "7"); got != "7" {
		t.Fatalf("TranslateFrom(7) = %q, want 7", got)
	}
}

func TestValidateRangeFullUnsignedSpan(t *testing.T) {
	spec := "-0..18446744073709551615"

	for _, v := range []string{"0", "-0", "1", "18446744073709551615"} {
		ok, err := ValidateRange(spec, v)
		if err != nil {
			t.Fatalf("ValidateRange(%q): %v", v, err)
		}
		if !ok {
			t.Fatalf("value %q rejected by %q", v, spec)
		}
	}
	ok, err := ValidateRange(spec, "-1")
	if err != nil {
		t.Fatalf("ValidateRange(-1): %v", err)
	}
	if ok {
		t.Fatal("-1 accepted by a range bounded below at -0")
	}
}

func TestValidateRangeNegativeTerms(t *testing.T) {
	spec := "-100..-10|42"

	cases := []struct {
		value string
		want  bool
	}{
		{"-50", true},
		{"-10", true},
		{"-100", true},
		{"-9", false},
		{"-101", false},
		{"42", true},
		{"41", false},
	}
	for _, c := range cases {
		ok, err := ValidateRange(spec, c.value)
		if err != nil {
			t.Fatalf("ValidateRange(%q): %v", c.value, err)
		}
		if ok != c.want {
			t.Errorf("ValidateRange(%q) = %v, want %v", c.value, ok, c.want)
		}
	}
}

func TestValidateRangeRejectsNonInteger(t *testing.T) {
	if _, err := ValidateRange("1..10", "abc"); err == nil {
		t.Fatal("non-integer value did not error")
	}
}

func TestParseRangeRejectsMalformedSpecs(t *testing.T) {
	for _, spec := range []string{"", "1..", "..5", "a..b", "1..2|"} {
		if _, err := ParseRange(spec); err == nil {
			t.Errorf("ParseRange(%q) succeeded, want error", spec)
		}
	}
}

func TestNamesEqualFoldsDashUnderscore(t *testing.T) {
	if !NamesEqual("if-feature", "if_feature") {
		t.Fatal("dash and underscore should compare equal")
	}
	if NamesEqual("Name", "name") {
		t.Fatal("comparison should stay case-sensitive")
	}
}
