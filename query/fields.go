// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package query

import (
	"strings"

	"github.com/sdcio/apteryx-schema/schema"
)

// fieldsNode is one level of the parsed `fields` expression:
//
//	fields       = entry *( ";" entry )
//	entry        = name [ "(" fields ")" ]
//
// Two entries naming the same child at the same level are merged by
// union (their sub-expressions combined), which is why fieldsNode
// keeps child entries in a map rather than a slice.
type fieldsNode struct {
	name     string
	children map[string]*fieldsNode
	order    []string
}

type fieldsChild struct {
	name string
	sub  *fieldsNode
}

// merged returns this node's children in first-seen order, with
// same-named siblings already unioned at parse time.
func (f *fieldsNode) merged() []fieldsChild {
	out := make([]fieldsChild, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, fieldsChild{name: name, sub: f.children[name]})
	}
	return out
}

func newFieldsNode() *fieldsNode {
	return &fieldsNode{children: make(map[string]*fieldsNode)}
}

func (f *fieldsNode) addChild(name string) *fieldsNode {
	if existing, ok := f.children[name]; ok {
		return existing
	}
	child := newFieldsNode()
	child.name = name
	f.children[name] = child
	f.order = append(f.order, name)
	return child
}

// parseFields parses the raw `fields` value into a tree of field
// selections, recursively merging entries that name the same child:
// repeated names at the same level are unioned, not an error.
func parseFields(raw string) (*fieldsNode, error) {
	p := &fieldsParser{src: raw}
	root := newFieldsNode()
	if err := p.parseEntries(root); err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, schema.NewInvalidQueryError(raw, "trailing characters in fields expression")
	}
	return root, nil
}

type fieldsParser struct {
	src string
	pos int
}

func (p *fieldsParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *fieldsParser) parseEntries(into *fieldsNode) error {
	for {
		name, err := p.parseName()
		if err != nil {
			return err
		}
		child := into.addChild(name)
		if p.peek() == '(' {
			p.pos++
			if err := p.parseEntries(child); err != nil {
				return err
			}
			if p.peek() != ')' {
				return schema.NewInvalidQueryError(p.src, "unbalanced parentheses in fields expression")
			}
			p.pos++
		}
		switch p.peek() {
		case ';':
			p.pos++
			continue
		default:
			return nil
		}
	}
}

func (p *fieldsParser) parseName() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(";()", rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", schema.NewInvalidQueryError(p.src, "empty field name")
	}
	return p.src[start:p.pos], nil
}
