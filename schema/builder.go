// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import log "github.com/sirupsen/logrus"

// Builder is the narrow, exported surface the loader package uses to
// assemble a merged schema tree without reaching into Node's private
// fields. The parse DOM is discarded once the tree is built.
//
// A Builder owns exactly one tree under construction; Finish converts
// it into an immutable *Instance.
type Builder struct {
	root *Node
}

// NewBuilder starts a tree rooted at a synthetic MODULE node in the
// given native namespace.
func NewBuilder(native *Namespace) *Builder {
	return &Builder{root: newNode("MODULE", native)}
}

func (b *Builder) Root() *Node { return b.root }

// NewNode allocates a detached node in the given namespace; callers
// attach it with AddChild.
func (b *Builder) NewNode(name string, ns *Namespace) *Node {
	return newNode(name, ns)
}

func (b *Builder) AddChild(parent, child *Node) {
	child.parent = parent
	parent.children = append(parent.children, child)
}

// InsertChildAt inserts child into parent's children at index idx,
// used by the merge procedure to keep per-model nodes ordered before
// augmentations.
func (b *Builder) InsertChildAt(parent, child *Node, idx int) {
	child.parent = parent
	if idx >= len(parent.children) {
		parent.children = append(parent.children, child)
		return
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[idx+1:], parent.children[idx:])
	parent.children[idx] = child
}

func (b *Builder) SetMode(n *Node, mode string)          { n.mode = mode }
func (b *Builder) SetDefault(n *Node, value string)      { n.defaultValue, n.hasDefault = value, true }
func (b *Builder) SetPattern(n *Node, pattern string)     { n.pattern = pattern }
func (b *Builder) SetRange(n *Node, spec string)          { n.rangeSpec = spec }
func (b *Builder) SetIdrefModule(n *Node, module string)  { n.idrefModule = module }
func (b *Builder) SetWhen(n *Node, expr string)           { n.when = expr }
func (b *Builder) SetMust(n *Node, expr string)           { n.must = expr }
func (b *Builder) SetIfFeature(n *Node, expr string)      { n.ifFeature = expr }
func (b *Builder) SetNamespace(n *Node, ns *Namespace)    { n.namespace = ns }
func (b *Builder) AddEnum(n *Node, e *ValueEnum)          { n.enums = append(n.enums, e) }

func (b *Builder) SetModelInfo(n *Node, model, org, version string, features, deviations []string) {
	n.model = model
	n.organization = org
	n.version = version
	n.features = features
	n.deviations = deviations
}

// HasAttr-equivalent helpers used by the merge procedure
// to decide whether to copy an attribute from the new node.
func (b *Builder) HasModel(n *Node) bool { return n.model != "" }

// CopyMissingAttrs copies any attribute present on src but absent on
// dst, logging a conflict if both carry a differing
// `model` attribute.
func (b *Builder) CopyMissingAttrs(dst, src *Node, logger *log.Logger) {
	if dst.mode == "" {
		dst.mode = src.mode
	}
	if !dst.hasDefault && src.hasDefault {
		dst.defaultValue, dst.hasDefault = src.defaultValue, true
	}
	if dst.pattern == "" {
		dst.pattern = src.pattern
	}
	if dst.rangeSpec == "" {
		dst.rangeSpec = src.rangeSpec
	}
	if dst.idrefModule == "" {
		dst.idrefModule = src.idrefModule
	}
	if dst.when == "" {
		dst.when = src.when
	}
	if dst.must == "" {
		dst.must = src.must
	}
	if dst.ifFeature == "" {
		dst.ifFeature = src.ifFeature
	}
	if dst.model == "" {
		dst.model = src.model
		dst.organization = src.organization
		dst.version = src.version
		dst.features = src.features
		dst.deviations = src.deviations
	} else if src.model != "" && src.model != dst.model {
		if logger != nil {
			logger.WithField("node", dst.name).
				WithField("kept", dst.model).
				WithField("discarded", src.model).
				Error("conflicting model attribute on merged node")
		}
	}
}

// DeepCopy clones n and its subtree, detached from any parent, for
// insertion under a different tree during merge.
func (b *Builder) DeepCopy(n *Node) *Node {
	cp := *n
	cp.parent = nil
	cp.children = nil
	cp.enums = append([]*ValueEnum(nil), n.enums...)
	for _, c := range n.children {
		cc := b.DeepCopy(c)
		b.AddChild(&cp, cc)
	}
	return &cp
}

// Finish produces an immutable *Instance from the built tree, indexing
// its namespaces and compiling its patterns. It does not re-point
// descendant namespace pointers; the tree is used as it stands.
func (b *Builder) Finish(nsMap *NamespaceMap, models []Model, native *Namespace, logger *log.Logger) (*Instance, error) {
	return newInstance(b.root, nsMap, models, native, logger)
}
