// Copyright (c) 2018-2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xpath

// Op identifies an operator-tree node kind.
type Op int

const (
	OpOr Op = iota
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpUnionPath // '|' between two path expressions
	OpNegate    // unary minus

	OpNumber
	OpLiteral
	OpVariable
	OpFuncCall
	OpPath     // a located path: Steps holds the step chain
	OpStep     // one step: Axis + NodeTest, optional Predicates
	OpPredicate
)

// Expr is one node of the XPath operator tree. Binary/unary operators
// populate Left/Right (Right unused for unary); leaves populate the
// scalar fields relevant to their Op.
type Expr struct {
	Op    Op
	Left  *Expr
	Right *Expr

	// Leaf payloads.
	NumberValue  float64
	LiteralValue string
	VarName      string
	FuncName     string
	Args         []*Expr

	// Path/step payloads: axes, node-type tests, path separators.
	Steps      []*Expr // OpPath: ordered list of OpStep
	Absolute   bool    // OpPath: path starts with '/'
	Axis       string  // OpStep
	NodeTest   string  // OpStep: NCName, '*', or a node-type like "text"
	Prefix     string  // OpStep: QName prefix, if any
	Predicates []*Expr // OpStep: bracketed predicate expressions
}

// Builders lets evaluation strategy be pluggable: construction of
// leaf expression nodes is delegated to a set of builder callbacks.
// A Parser is constructed with a Builders value explicitly; there is
// no package-level registry.
type Builders struct {
	Number   func(text string) *Expr
	Literal  func(text string) *Expr
	Variable func(name string) *Expr
	FuncCall func(name string, args []*Expr) *Expr
}

// DefaultBuilders returns the builder set the parser uses when none
// is supplied: it just fills in the corresponding Expr leaf verbatim.
func DefaultBuilders() Builders {
	return Builders{
		Number: func(text string) *Expr {
			return &Expr{Op: OpNumber, NumberValue: parseFloat(text)}
		},
		Literal: func(text string) *Expr {
			return &Expr{Op: OpLiteral, LiteralValue: text}
		},
		Variable: func(name string) *Expr {
			return &Expr{Op: OpVariable, VarName: name}
		},
		FuncCall: func(name string, args []*Expr) *Expr {
			return &Expr{Op: OpFuncCall, FuncName: name, Args: args}
		},
	}
}

func parseFloat(s string) float64 {
	var v float64
	var frac float64 = 0.1
	seenDot := false
	for _, r := range s {
		switch {
		case r == '.':
			seenDot = true
		case r >= '0' && r <= '9':
			d := float64(r - '0')
			if !seenDot {
				v = v*10 + d
			} else {
				v += d * frac
				frac *= 0.1
			}
		}
	}
	return v
}
