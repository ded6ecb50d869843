// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcio/apteryx-schema/data/datanode"
	"github.com/sdcio/apteryx-schema/query"
	"github.com/sdcio/apteryx-schema/schema"
)

// buildTestInstance constructs a small instance directly through
// schema.Builder: a container
// "top" with a leaf "name" and a list "items" keyed by "id".
func buildTestInstance(t *testing.T) *schema.Instance {
	t.Helper()
	native := schema.NewNamespace("urn:test", "t", true)
	b := schema.NewBuilder(native)

	top := b.NewNode("top", native)
	b.AddChild(b.Root(), top)

	name := b.NewNode("name", native)
	b.SetMode(name, "rwc")
	b.AddChild(top, name)

	items := b.NewNode("items", native)
	b.AddChild(top, items)
	entry := b.NewNode(schema.WildcardName, native)
	b.AddChild(items, entry)
	id := b.NewNode("id", native)
	b.SetMode(id, "rwc")
	b.AddChild(entry, id)
	value := b.NewNode("value", native)
	b.SetMode(value, "rwc")
	b.AddChild(entry, value)

	nsMap := schema.NewNamespaceMap()
	inst, err := b.Finish(nsMap, nil, native, nil)
	require.NoError(t, err)
	return inst
}

func TestParseQueryStringOptions(t *testing.T) {
	q, err := query.ParseQueryString("content=config&depth=2&with-defaults=trim")
	require.NoError(t, err)
	assert.Equal(t, query.ContentConfig, q.Content)
	assert.Equal(t, 2, q.Depth)
	assert.Equal(t, query.DefaultsTrim, q.WithDefaults)
}

func TestParseQueryStringDepthOne(t *testing.T) {
	q, err := query.ParseQueryString("depth=1")
	require.NoError(t, err)
	assert.True(t, q.DepthOne)
}

func TestParseQueryStringRepeatedOptionFails(t *testing.T) {
	_, err := query.ParseQueryString("depth=1&depth=2")
	require.Error(t, err)
}

func TestParseQueryStringUnknownOptionFails(t *testing.T) {
	_, err := query.ParseQueryString("bogus=1")
	require.Error(t, err)
}

func TestParseQueryStringBadDepthFails(t *testing.T) {
	_, err := query.ParseQueryString("depth=0")
	require.Error(t, err)

	_, err = query.ParseQueryString("depth=70000")
	require.Error(t, err)
}

func TestParseBuildsWildcardSkeletonWithoutFields(t *testing.T) {
	inst := buildTestInstance(t)
	tree, _, err := query.Parse(inst, "/top", "", 0)
	require.NoError(t, err)
	require.Len(t, tree.Children(), 1)
	assert.Equal(t, schema.WildcardName, tree.Children()[0].Name())
}

func TestParseFieldsRestrictsToNamedChild(t *testing.T) {
	inst := buildTestInstance(t)
	tree, _, err := query.Parse(inst, "/top", "fields=name", 0)
	require.NoError(t, err)
	child := datanode.ChildByName(tree, "name")
	require.NotNil(t, child)
	assert.Nil(t, datanode.ChildByName(tree, "items"))
}

func TestParseListPathBuildsEntrySkeleton(t *testing.T) {
	inst := buildTestInstance(t)
	tree, _, err := query.Parse(inst, "/top/items", "fields=id&depth=3", 0)
	require.NoError(t, err)
	assert.Equal(t, "items", tree.Name())
	require.Len(t, tree.Children(), 1)
	entry := tree.Children()[0]
	assert.Equal(t, schema.WildcardName, entry.Name())
	require.NotNil(t, datanode.ChildByName(entry, "id"))
	assert.Nil(t, datanode.ChildByName(entry, "value"))
}

func TestQueryFlagsMapOntoTranslatorBits(t *testing.T) {
	q, err := query.ParseQueryString("depth=1&with-defaults=report-all&content=config")
	require.NoError(t, err)
	f := q.Flags()
	assert.True(t, f.Has(schema.DEPTH_ONE))
	assert.True(t, f.Has(schema.DEPTH))
	assert.True(t, f.Has(schema.ADD_DEFAULTS))
	assert.True(t, f.Has(schema.CONFIG))
	assert.False(t, f.Has(schema.TRIM_DEFAULTS))
}

func TestParseFieldsMergesRepeatedEntries(t *testing.T) {
	inst := buildTestInstance(t)
	tree, _, err := query.Parse(inst, "/top", "fields=items(id);items(value)", 0)
	require.NoError(t, err)
	items := datanode.ChildByName(tree, "items")
	require.NotNil(t, items)
	require.Len(t, items.Children(), 1)
	entry := items.Children()[0]
	assert.NotNil(t, datanode.ChildByName(entry, "id"))
	assert.NotNil(t, datanode.ChildByName(entry, "value"))
}
