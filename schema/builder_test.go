// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kylelemons/godebug/pretty"
)

// treeShape flattens a *Node subtree into a comparable plain value so
// mismatches diff cleanly instead of comparing pointers.
type treeShape struct {
	Name     string
	Kind     string
	Mode     string
	Children []treeShape
}

func shapeOf(n *Node) treeShape {
	s := treeShape{Name: n.Name(), Kind: n.Kind().String(), Mode: n.Mode()}
	for _, c := range n.Children() {
		s.Children = append(s.Children, shapeOf(c))
	}
	return s
}

func TestBuilderProducesExpectedTreeShape(t *testing.T) {
	native := NewNamespace("urn:test", "t", true)
	b := NewBuilder(native)

	top := b.NewNode("top", native)
	b.AddChild(b.Root(), top)

	name := b.NewNode("name", native)
	b.SetMode(name, "rwc")
	b.AddChild(top, name)

	got := shapeOf(b.Root())
	want := treeShape{
		Name: "MODULE",
		Kind: got.Kind,
		Children: []treeShape{
			{
				Name: "top",
				Kind: got.Children[0].Kind,
				Children: []treeShape{
					{Name: "name", Kind: "leaf", Mode: "rwc"},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected tree shape (-want +got):\n%s\nfull tree:\n%s",
			diff, pretty.Sprint(got))
	}
}
