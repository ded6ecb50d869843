// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package condition evaluates `when`/`must`/`if-feature` attributes
// attached to schema nodes against a data tree during translation.
//
// Parsing a condition is package xpath's job; evaluation is delegated
// to a host-provided Evaluator, passed in explicitly rather than
// registered through a process-wide global, so there is no
// package-level mutable state.
package condition

import (
	"fmt"

	"github.com/sdcio/apteryx-schema/data/datanode"
)

// Evaluator is the host-provided collaborator: given the data tree's
// root, the current context path, and a condition string, it reports
// whether the condition holds.
type Evaluator interface {
	Evaluate(root datanode.DataNode, contextPath []string, condition string) (bool, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(root datanode.DataNode, contextPath []string, condition string) (bool, error)

func (f EvaluatorFunc) Evaluate(root datanode.DataNode, contextPath []string, condition string) (bool, error) {
	return f(root, contextPath, condition)
}

// Kind identifies which schema-node attribute produced a condition
// check, purely for diagnostics.
type Kind int

const (
	When Kind = iota
	Must
	IfFeature
)

func (k Kind) String() string {
	switch k {
	case When:
		return "when"
	case Must:
		return "must"
	case IfFeature:
		return "if-feature"
	default:
		return "unknown"
	}
}

// Engine evaluates conditions attached to schema nodes during
// translation (C6 invokes it whenever CONDITIONS is set and the node
// carries when/must/if-feature).
type Engine struct {
	eval Evaluator
}

// NewEngine constructs an Engine around a registered Evaluator. A nil
// Evaluator makes every condition evaluate to true, which is useful
// for translator tests that don't exercise C7.
func NewEngine(eval Evaluator) *Engine {
	return &Engine{eval: eval}
}

// rewriteIfFeature turns the raw if-feature attribute value into the
// function-call form the evaluator expects.
func rewriteIfFeature(raw string) string {
	return fmt.Sprintf("if-feature(%q)", raw)
}

// Check evaluates the condition attached to a schema node (one of
// when/must/if-feature) at the given context path within root. If no
// Evaluator was registered, Check always succeeds.
func (e *Engine) Check(kind Kind, root datanode.DataNode, contextPath []string, raw string) (bool, error) {
	if raw == "" {
		return true, nil
	}
	if e.eval == nil {
		return true, nil
	}
	expr := raw
	if kind == IfFeature {
		expr = rewriteIfFeature(raw)
	}
	return e.eval.Evaluate(root, contextPath, expr)
}
