// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package query parses an absolute path plus an optional
// '?'-delimited query string into a skeleton data tree that an
// external store uses to know what to retrieve.
package query

import (
	"strconv"
	"strings"

	"github.com/sdcio/apteryx-schema/data/datanode"
	"github.com/sdcio/apteryx-schema/schema"
)

// ContentFilter is the `content` query option.
type ContentFilter int

const (
	ContentAll ContentFilter = iota
	ContentConfig
	ContentNonConfig
)

// WithDefaults is the `with-defaults` query option.
type WithDefaults int

const (
	DefaultsUnspecified WithDefaults = iota
	DefaultsReportAll
	DefaultsTrim
	DefaultsExplicit
)

const unboundedDepth = 0

// Query is the parsed form of the query string.
type Query struct {
	Fields       string // raw fields expression, expanded by Parse
	Content      ContentFilter
	Depth        int // 0 means unbounded
	DepthOne     bool
	WithDefaults WithDefaults
}

// Parse parses path (XPath-dialect when the XPATH flag is set) and an
// optional query string, producing a skeleton data tree.
func Parse(inst *schema.Instance, path, rawQuery string, flags schema.Flags) (datanode.DataNode, *Query, error) {
	sn, err := inst.LookupFlags(nil, path, flags)
	if err != nil {
		return nil, nil, err
	}

	q, err := ParseQueryString(rawQuery)
	if err != nil {
		return nil, nil, err
	}
	if flags.Has(schema.DEPTH_ONE) {
		q.DepthOne = true
	}

	var fieldsRoot *fieldsNode
	if q.Fields != "" {
		fieldsRoot, err = parseFields(q.Fields)
		if err != nil {
			return nil, nil, err
		}
	}

	tree := buildSkeleton(sn, fieldsRoot, q, 1)
	return tree, q, nil
}

// Flags maps the parsed query options onto the translator flag bits
// that realize them: depth=1 sets DEPTH_ONE, a bounded depth selects
// the depth-trimming pass, and the with-defaults policies select the
// corresponding defaulting traversal.
func (q *Query) Flags() schema.Flags {
	var f schema.Flags
	if q.DepthOne {
		f |= schema.DEPTH_ONE
	}
	if q.Depth > 0 {
		f |= schema.DEPTH
	}
	switch q.WithDefaults {
	case DefaultsReportAll:
		f |= schema.ADD_DEFAULTS
	case DefaultsTrim:
		f |= schema.TRIM_DEFAULTS
	}
	switch q.Content {
	case ContentConfig:
		f |= schema.CONFIG
	}
	return f
}

// ParseQueryString parses the '&'-delimited key=value query options.
// Each option may appear at most once; violations raise
// *invalid-query (schema.ErrInvalidQuery).
func ParseQueryString(raw string) (*Query, error) {
	q := &Query{}
	if raw == "" {
		return q, nil
	}
	raw = strings.TrimPrefix(raw, "?")
	seen := make(map[string]bool)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		key := kv[0]
		val := ""
		if len(kv) == 2 {
			val = kv[1]
		}
		if seen[key] {
			return nil, schema.NewInvalidQueryError(raw, "option "+key+" repeated")
		}
		seen[key] = true

		switch key {
		case "fields":
			q.Fields = val
		case "content":
			switch val {
			case "config":
				q.Content = ContentConfig
			case "nonconfig":
				q.Content = ContentNonConfig
			case "all":
				q.Content = ContentAll
			default:
				return nil, schema.NewInvalidQueryError(raw, "unsupported content value "+val)
			}
		case "depth":
			if val == "unbounded" {
				q.Depth = unboundedDepth
				continue
			}
			d, err := strconv.Atoi(val)
			if err != nil || d < 1 || d > 65535 {
				return nil, schema.NewInvalidQueryError(raw, "invalid depth value "+val)
			}
			q.Depth = d
			if d == 1 {
				q.DepthOne = true
			}
		case "with-defaults":
			switch val {
			case "report-all":
				q.WithDefaults = DefaultsReportAll
			case "trim":
				q.WithDefaults = DefaultsTrim
			case "explicit":
				q.WithDefaults = DefaultsExplicit
			default:
				return nil, schema.NewInvalidQueryError(raw, "unsupported with-defaults value "+val)
			}
		default:
			return nil, schema.NewInvalidQueryError(raw, "unrecognized option "+key)
		}
	}
	return q, nil
}

// buildSkeleton produces a data tree whose leaves correspond to
// retrievable nodes. If no query is given, or the query does not
// restrict below the schema, an explicit wildcard child is appended
// so downstream retrieval obtains the entire subtree.
func buildSkeleton(sn *schema.Node, fields *fieldsNode, q *Query, depth int) datanode.DataNode {
	if !contentAllows(sn, q.Content) {
		return nil
	}

	if q.Depth != unboundedDepth && depth > q.Depth {
		return nil
	}
	if q.DepthOne && depth > 1 {
		return nil
	}

	if sn.IsLeaf() || sn.IsLeafList() {
		return datanode.New(sn.Name())
	}

	if sn.IsList() {
		entry := buildSkeleton(sn.ListKeyNode(), fields, q, depth+1)
		if entry == nil {
			entry = datanode.NewWildcard()
		}
		return datanode.New(sn.Name(), entry)
	}

	if fields == nil {
		// No field restriction at this level: request the whole
		// subtree via an explicit wildcard child.
		return datanode.New(sn.Name(), datanode.NewWildcard())
	}

	var children []datanode.DataNode
	for _, fc := range fields.merged() {
		child := sn.ChildByName(fc.name)
		if child == nil {
			continue
		}
		built := buildSkeleton(child, fc.sub, q, depth+1)
		if built != nil {
			children = append(children, built)
		}
	}
	if len(children) == 0 {
		children = []datanode.DataNode{datanode.NewWildcard()}
	}
	return datanode.New(sn.Name(), children...)
}

func contentAllows(sn *schema.Node, f ContentFilter) bool {
	switch f {
	case ContentConfig:
		return sn.IsConfig() || sn.IsContainer()
	case ContentNonConfig:
		return !sn.IsConfig() || sn.IsContainer()
	default:
		return true
	}
}
