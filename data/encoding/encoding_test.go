// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package encoding_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcio/apteryx-schema/data/datanode"
	"github.com/sdcio/apteryx-schema/data/encoding"
	"github.com/sdcio/apteryx-schema/schema"
)

// dnShape flattens a datanode.DataNode into a comparable plain value
// so mismatches diff cleanly instead of comparing pointers.
type dnShape struct {
	Name     string
	Children []dnShape
}

func shapeOfNode(dn datanode.DataNode) dnShape {
	if dn == nil {
		return dnShape{}
	}
	s := dnShape{Name: dn.Name()}
	for _, c := range dn.Children() {
		s.Children = append(s.Children, shapeOfNode(c))
	}
	return s
}

// buildLeafInstance builds a minimal instance directly through
// schema.Builder: a container "top" holding a writable leaf "name"
// with a default, and a leaf-list "tags".
func buildLeafInstance(t *testing.T) (*schema.Instance, *schema.Node) {
	t.Helper()
	native := schema.NewNamespace("urn:test", "t", true)
	b := schema.NewBuilder(native)

	top := b.NewNode("top", native)
	b.AddChild(b.Root(), top)

	name := b.NewNode("name", native)
	b.SetMode(name, "rwc")
	b.SetDefault(name, "anonymous")
	b.AddChild(top, name)

	tags := b.NewNode("tags", native)
	b.AddChild(top, tags)
	tagEntry := b.NewNode(schema.WildcardName, native)
	b.SetMode(tagEntry, "rwc")
	b.AddChild(tags, tagEntry)

	nsMap := schema.NewNamespaceMap()
	inst, err := b.Finish(nsMap, nil, native, nil)
	require.NoError(t, err)
	return inst, top
}

func TestJSONRoundTrip(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, schema.JSON_ARRAYS, nil)

	dn := datanode.New("top",
		datanode.NewLeaf("name", "alice"),
		datanode.New("tags", datanode.New("blue"), datanode.New("green")),
	)

	out, err := tr.ToJSON(top, dn)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"alice"`)
	assert.Contains(t, string(out), `"tags":["blue","green"]`)

	back, err := tr.FromJSON(top, out)
	require.NoError(t, err)
	nameChild := datanode.ChildByName(back, "name")
	require.NotNil(t, nameChild)
	val, ok := datanode.Value(nameChild)
	require.True(t, ok)
	assert.Equal(t, "alice", val)

	want := shapeOfNode(dn)
	got := shapeOfNode(back)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round-tripped tree shape mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONOmitsEmptyContainerUnlessPresence(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, 0, nil)

	dn := datanode.New("top", datanode.NewLeaf("name", "bob"))
	out, err := tr.ToJSON(top, dn)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "tags")

	// A non-presence container with no children is left out entirely.
	out, err = tr.ToJSON(inst.Root(), datanode.New("root", datanode.New("top")))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "top")
}

func TestToXMLEmitsLeafValue(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, 0, nil)

	dn := datanode.New("top", datanode.NewLeaf("name", "carol"))
	out, err := tr.ToXML(top, dn)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<name>carol</name>")
}

func TestTraverseAddsDefaultForMissingLeaf(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, schema.ADD_DEFAULTS, nil)

	dn := datanode.New("top")
	out, err := tr.Traverse(top, dn, 0)
	require.NoError(t, err)

	nameChild := datanode.ChildByName(out, "name")
	require.NotNil(t, nameChild)
	val, _ := datanode.Value(nameChild)
	assert.Equal(t, "anonymous", val)
}

func TestTraverseTrimsExplicitDefault(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, schema.TRIM_DEFAULTS, nil)

	dn := datanode.New("top", datanode.NewLeaf("name", "anonymous"))
	out, err := tr.Traverse(top, dn, 0)
	require.NoError(t, err)
	assert.Nil(t, datanode.ChildByName(out, "name"))
}

// buildAnimalsInstance adds a keyed list with typed leaves: animals
// holding animal entries keyed by name, each with a ranged "legs"
// leaf and a two-value "tame" enumeration.
func buildAnimalsInstance(t *testing.T) (*schema.Instance, *schema.Node) {
	t.Helper()
	native := schema.NewNamespace("urn:test", "t", true)
	b := schema.NewBuilder(native)

	top := b.NewNode("animals", native)
	b.AddChild(b.Root(), top)

	animal := b.NewNode("animal", native)
	b.AddChild(top, animal)
	entry := b.NewNode(schema.WildcardName, native)
	b.AddChild(animal, entry)

	name := b.NewNode("name", native)
	b.SetMode(name, "rwc")
	b.AddChild(entry, name)

	legs := b.NewNode("legs", native)
	b.SetMode(legs, "rwc")
	b.SetRange(legs, "0..8")
	b.AddChild(entry, legs)

	tame := b.NewNode("tame", native)
	b.SetMode(tame, "rwc")
	b.AddEnum(tame, &schema.ValueEnum{Name: "true", Value: "true"})
	b.AddEnum(tame, &schema.ValueEnum{Name: "false", Value: "false"})
	b.AddChild(entry, tame)

	inst, err := b.Finish(schema.NewNamespaceMap(), nil, native, nil)
	require.NoError(t, err)
	return inst, top
}

func animalTree() datanode.DataNode {
	return datanode.New("animals",
		datanode.New("animal",
			datanode.New("cat",
				datanode.NewLeaf("name", "cat"),
				datanode.NewLeaf("legs", "4"),
				datanode.NewLeaf("tame", "true"),
			),
		),
	)
}

func TestJSONTypedListEncoding(t *testing.T) {
	inst, top := buildAnimalsInstance(t)
	tr := encoding.New(inst, schema.JSON_ARRAYS|schema.JSON_TYPES, nil)

	out, err := tr.ToJSON(top, animalTree())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"legs":4`)
	assert.Contains(t, string(out), `"tame":true`)
	assert.Contains(t, string(out), `"name":"cat"`)
}

func TestJSONListRoundTrip(t *testing.T) {
	inst, top := buildAnimalsInstance(t)
	tr := encoding.New(inst, schema.JSON_ARRAYS|schema.JSON_TYPES, nil)

	dn := animalTree()
	out, err := tr.ToJSON(top, dn)
	require.NoError(t, err)

	back, err := tr.FromJSON(top, out)
	require.NoError(t, err)
	if diff := cmp.Diff(shapeOfNode(dn), shapeOfNode(back)); diff != "" {
		t.Fatalf("round-tripped tree shape mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONListObjectEncodingWithoutArraysFlag(t *testing.T) {
	inst, top := buildAnimalsInstance(t)
	tr := encoding.New(inst, 0, nil)

	out, err := tr.ToJSON(top, animalTree())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"animal":{"cat":{`)

	back, err := tr.FromJSON(top, out)
	require.NoError(t, err)
	entry := datanode.ChildByName(datanode.ChildByName(back, "animal"), "cat")
	require.NotNil(t, entry)
}

func TestJSONListKeyMissingRejected(t *testing.T) {
	inst, top := buildAnimalsInstance(t)
	tr := encoding.New(inst, schema.JSON_ARRAYS, nil)

	_, err := tr.FromJSON(top, []byte(`{"animal":[{"legs":"4"}]}`))
	require.Error(t, err)
	kind, ok := schema.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, schema.ErrKeyMissing, kind)
}

func TestJSONListKeyWithSlashIsEscaped(t *testing.T) {
	inst, top := buildAnimalsInstance(t)
	tr := encoding.New(inst, schema.JSON_ARRAYS, nil)

	back, err := tr.FromJSON(top, []byte(`{"animal":[{"name":"a/b"}]}`))
	require.NoError(t, err)
	animal := datanode.ChildByName(back, "animal")
	require.NotNil(t, animal)
	require.Len(t, animal.Children(), 1)
	assert.Equal(t, "a%2Fb", animal.Children()[0].Name())
}

func TestXMLListRoundTrip(t *testing.T) {
	inst, top := buildAnimalsInstance(t)
	tr := encoding.New(inst, 0, nil)

	dn := animalTree()
	out, err := tr.ToXML(top, dn)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<animal>")
	assert.Contains(t, string(out), "<name>cat</name>")

	back, _, err := tr.FromXML(top, out, false)
	require.NoError(t, err)
	if diff := cmp.Diff(shapeOfNode(dn), shapeOfNode(back)); diff != "" {
		t.Fatalf("round-tripped tree shape mismatch (-want +got):\n%s", diff)
	}
}

func TestFromXMLRejectsInvalidValueInEditMode(t *testing.T) {
	inst, top := buildAnimalsInstance(t)
	tr := encoding.New(inst, 0, nil)

	input := `<animals><animal><name>cat</name><legs>12</legs></animal></animals>`
	_, _, err := tr.FromXML(top, []byte(input), true)
	require.Error(t, err)
	kind, ok := schema.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, schema.ErrInvalidValue, kind)
}

func TestFromXMLCollectsEditOperationBuckets(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, 0, nil)

	input := `<top><name operation="delete">x</name></top>`
	_, buckets, err := tr.FromXML(top, []byte(input), true)
	require.NoError(t, err)
	require.Len(t, buckets.Deletes, 1)
	assert.Empty(t, buckets.Creates)
}

func TestFromXMLRejectsOperationOutsideEditMode(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, 0, nil)

	input := `<top><name operation="delete">x</name></top>`
	_, _, err := tr.FromXML(top, []byte(input), false)
	require.Error(t, err)
	kind, ok := schema.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, schema.ErrOperationNotSupported, kind)
}

func TestFromXMLAppendsWildcardWhereInputEnds(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, 0, nil)

	back, _, err := tr.FromXML(top, []byte(`<top></top>`), false)
	require.NoError(t, err)
	require.Len(t, back.Children(), 1)
	assert.Equal(t, schema.WildcardName, back.Children()[0].Name())
}

func TestToXMLStripsDataWhenRequested(t *testing.T) {
	inst, top := buildLeafInstance(t)
	tr := encoding.New(inst, schema.STRIP_DATA, nil)

	dn := datanode.New("top", datanode.NewLeaf("name", "carol"))
	out, err := tr.ToXML(top, dn)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "carol")
}

func TestTrimByDepthPrunesBelowLimit(t *testing.T) {
	_, top := buildLeafInstance(t)
	dn := datanode.New("top",
		datanode.NewLeaf("name", "dave"),
		datanode.New("tags", datanode.New("x")),
	)
	out := encoding.TrimByDepth(top, dn, 1)
	assert.Empty(t, out.Children())
}
