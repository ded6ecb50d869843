// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package datanode

import "testing"

func TestHasValueRequiresSingleGrandchildlessChild(t *testing.T) {
	leaf := NewLeaf("name", "alice")
	if !HasValue(leaf) {
		t.Fatal("leaf with one value child should have a value")
	}
	v, ok := Value(leaf)
	if !ok || v != "alice" {
		t.Fatalf("Value = %q, %v; want alice, true", v, ok)
	}

	interior := New("top", NewLeaf("name", "alice"))
	if HasValue(interior) {
		t.Fatal("node whose child has children should not have a value")
	}

	empty := New("top")
	if HasValue(empty) {
		t.Fatal("childless node should not have a value")
	}
}

func TestEmptyValueLeafStillHasValue(t *testing.T) {
	leaf := NewLeaf("name", "")
	v, ok := Value(leaf)
	if !ok || v != "" {
		t.Fatalf("Value = %q, %v; want empty string, true", v, ok)
	}
}

func TestEscapeKeySegmentRoundTrip(t *testing.T) {
	in := "a/b/c"
	escaped := EscapeKeySegment(in)
	if escaped != "a%2Fb%2Fc" {
		t.Fatalf("EscapeKeySegment = %q", escaped)
	}
	if got := UnescapeKeySegment(escaped); got != in {
		t.Fatalf("UnescapeKeySegment = %q, want %q", got, in)
	}
	if EscapeKeySegment("plain") != "plain" {
		t.Fatal("value without '/' should pass through unchanged")
	}
}
