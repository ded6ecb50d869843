// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"fmt"
	"regexp"

	log "github.com/sirupsen/logrus"
)

// Model is the loaded-model record for one successfully loaded schema
// file.
type Model struct {
	NSHref       string
	NSPrefix     string
	ModelName    string
	Organization string
	Version      string
	Features     []string
	Deviations   []string
}

// Instance is an immutable, concurrency-safe schema instance: the
// merged tree plus its auxiliary tables. All patterns are compiled
// eagerly at construction time, so nothing mutates the tree after
// Finish and concurrent readers need no lock.
type Instance struct {
	root       *Node
	nsMap      *NamespaceMap
	models     []Model
	nativeNS   *Namespace
	nsByPrefix map[string]*Namespace
	nsByModel  map[string]*Namespace
	patterns   map[*Node]*regexp.Regexp
}

// newInstance wraps a merged root produced by the loader. It is not
// exported: callers obtain an *Instance via loader.Load.
func newInstance(root *Node, nsMap *NamespaceMap, models []Model, native *Namespace, log *log.Logger) (*Instance, error) {
	inst := &Instance{
		root:       root,
		nsMap:      nsMap,
		models:     models,
		nativeNS:   native,
		nsByPrefix: make(map[string]*Namespace),
		nsByModel:  make(map[string]*Namespace),
		patterns:   make(map[*Node]*regexp.Regexp),
	}
	inst.indexNamespaces(root)
	if err := inst.compileAll(root); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) indexNamespaces(n *Node) {
	if n.namespace != nil {
		if n.namespace.Prefix != "" {
			inst.nsByPrefix[n.namespace.Prefix] = n.namespace
		}
		if n.model != "" {
			inst.nsByModel[n.model] = n.namespace
		}
	}
	for _, c := range n.children {
		inst.indexNamespaces(c)
	}
}

func (inst *Instance) compileAll(n *Node) error {
	if n.pattern != "" {
		re, err := CompilePattern(n.pattern)
		if err != nil {
			return NewPatternRegexError(nil, n.pattern, err)
		}
		inst.patterns[n] = re
	}
	for _, c := range n.children {
		if err := inst.compileAll(c); err != nil {
			return err
		}
	}
	return nil
}

func (inst *Instance) compiledPattern(n *Node) (*regexp.Regexp, bool) {
	re, ok := inst.patterns[n]
	return re, ok
}

func (inst *Instance) Root() *Node { return inst.root }

func (inst *Instance) NativeNamespace() *Namespace { return inst.nativeNS }

func (inst *Instance) NamespaceMap() *NamespaceMap { return inst.nsMap }

// Models returns the loaded-model inventory, the authoritative
// list of successfully merged modules.
func (inst *Instance) Models() []Model {
	out := make([]Model, len(inst.models))
	copy(out, inst.models)
	return out
}

// NamespaceByPrefix looks a prefix up in the instance-wide prefix
// table; it does not consult any node-local scope.
func (inst *Instance) NamespaceByPrefix(prefix string) (*Namespace, bool) {
	ns, ok := inst.nsByPrefix[prefix]
	return ns, ok
}

func (inst *Instance) NamespaceByModel(model string) (*Namespace, bool) {
	ns, ok := inst.nsByModel[model]
	return ns, ok
}

func (inst *Instance) String() string {
	return fmt.Sprintf("schema instance: %d modules loaded", len(inst.models))
}
