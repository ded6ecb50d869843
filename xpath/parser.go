// Copyright (c) 2018-2019, AT&T Intellectual Property. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package xpath

import "fmt"

// Parser is a recursive-descent XPath 1.0 parser. It is
// re-entrant: NewParser builds a fresh instance per expression, and a
// Builders value is passed in explicitly rather than looked up from
// any package-level registry.
type Parser struct {
	lex      *Lexer
	tok      Token
	builders Builders
	err      error
}

// NewParser reads the first token only; call Parse to produce the tree.
func NewParser(expr string, builders Builders) *Parser {
	p := &Parser{lex: NewLexer(expr), builders: builders}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.tok = p.lex.Next()
}

func (p *Parser) expect(k TokenKind) (Token, error) {
	if p.tok.Kind != k {
		return Token{}, fmt.Errorf("xpath: expected %s, got %s %q at %d", k, p.tok.Kind, p.tok.Text, p.tok.Pos)
	}
	t := p.tok
	p.advance()
	return t, nil
}

// Parse parses the full expression given to NewParser and returns its
// operator tree.
func (p *Parser) Parse() (*Expr, error) {
	e := p.parseOr()
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.Kind != EOF {
		return nil, fmt.Errorf("xpath: unexpected trailing token %s %q at %d", p.tok.Kind, p.tok.Text, p.tok.Pos)
	}
	return e, nil
}

// Precedence level 1: or
func (p *Parser) parseOr() *Expr {
	left := p.parseAnd()
	for p.tok.Kind == Or {
		p.advance()
		right := p.parseAnd()
		left = &Expr{Op: OpOr, Left: left, Right: right}
	}
	return left
}

// Level 2: and
func (p *Parser) parseAnd() *Expr {
	left := p.parseEquality()
	for p.tok.Kind == And {
		p.advance()
		right := p.parseEquality()
		left = &Expr{Op: OpAnd, Left: left, Right: right}
	}
	return left
}

// Level 3: = !=
func (p *Parser) parseEquality() *Expr {
	left := p.parseRelational()
	for p.tok.Kind == Eq || p.tok.Kind == Ne {
		op := OpEq
		if p.tok.Kind == Ne {
			op = OpNe
		}
		p.advance()
		right := p.parseRelational()
		left = &Expr{Op: op, Left: left, Right: right}
	}
	return left
}

// Level 4: < <= > >=
func (p *Parser) parseRelational() *Expr {
	left := p.parseAdditive()
	for {
		var op Op
		switch p.tok.Kind {
		case Lt:
			op = OpLt
		case Le:
			op = OpLe
		case Gt:
			op = OpGt
		case Ge:
			op = OpGe
		default:
			return left
		}
		p.advance()
		right := p.parseAdditive()
		left = &Expr{Op: op, Left: left, Right: right}
	}
}

// Level 5: + -
func (p *Parser) parseAdditive() *Expr {
	left := p.parseMultiplicative()
	for {
		var op Op
		switch p.tok.Kind {
		case Plus:
			op = OpAdd
		case Minus:
			op = OpSub
		default:
			return left
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &Expr{Op: op, Left: left, Right: right}
	}
}

// Level 6: * div mod
func (p *Parser) parseMultiplicative() *Expr {
	left := p.parseUnary()
	for {
		var op Op
		switch p.tok.Kind {
		case Star:
			op = OpMul
		case Div:
			op = OpDiv
		case Mod:
			op = OpMod
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = &Expr{Op: op, Left: left, Right: right}
	}
}

// Level 7: unary minus
func (p *Parser) parseUnary() *Expr {
	if p.tok.Kind == Minus {
		p.advance()
		operand := p.parseUnary()
		return &Expr{Op: OpNegate, Left: operand}
	}
	return p.parseUnion()
}

// Level 8: | (union of path expressions)
func (p *Parser) parseUnion() *Expr {
	left := p.parsePath()
	for p.tok.Kind == Pipe {
		p.advance()
		right := p.parsePath()
		left = &Expr{Op: OpUnionPath, Left: left, Right: right}
	}
	return left
}

// parsePath parses a PathExpr: either a location path (absolute or
// relative, possibly starting with '//') or a primary expression. A
// location path following a primary expression is not parsed here; the
// '/' is left for the caller, which reports it as an unexpected token.
func (p *Parser) parsePath() *Expr {
	switch p.tok.Kind {
	case Slash:
		p.advance()
		path := &Expr{Op: OpPath, Absolute: true}
		if p.startsStep() {
			path.Steps = p.parseRelativeSteps()
		}
		return path
	case DblSlash:
		p.advance()
		path := &Expr{Op: OpPath, Absolute: true}
		path.Steps = append(path.Steps, descendantOrSelfStep())
		path.Steps = append(path.Steps, p.parseRelativeSteps()...)
		return path
	}

	if p.startsStep() {
		path := &Expr{Op: OpPath}
		path.Steps = p.parseRelativeSteps()
		return path
	}

	return p.parsePrimary()
}

func descendantOrSelfStep() *Expr {
	return &Expr{Op: OpStep, Axis: "descendant-or-self", NodeTest: "node"}
}

// startsStep reports whether the current token can begin a Step
// (NameTest, node-type test, '.', '..', '@', or an axis name).
func (p *Parser) startsStep() bool {
	switch p.tok.Kind {
	case Name, Star, Dot, DotDot, At, NodeType, AxisName:
		return true
	}
	return false
}

func (p *Parser) parseRelativeSteps() []*Expr {
	var steps []*Expr
	steps = append(steps, p.parseStep())
	for p.tok.Kind == Slash || p.tok.Kind == DblSlash {
		if p.tok.Kind == DblSlash {
			p.advance()
			steps = append(steps, descendantOrSelfStep())
			steps = append(steps, p.parseStep())
			continue
		}
		p.advance()
		steps = append(steps, p.parseStep())
	}
	return steps
}

func (p *Parser) parseStep() *Expr {
	step := &Expr{Op: OpStep, Axis: "child"}

	switch p.tok.Kind {
	case Dot:
		p.advance()
		step.Axis, step.NodeTest = "self", "node"
		return step
	case DotDot:
		p.advance()
		step.Axis, step.NodeTest = "parent", "node"
		return step
	case At:
		p.advance()
		step.Axis = "attribute"
	case AxisName:
		step.Axis = p.tok.Text
		p.advance()
		p.expectSilently(DblColon)
	}

	p.parseNodeTest(step)
	for p.tok.Kind == LBracket {
		step.Predicates = append(step.Predicates, p.parsePredicate())
	}
	return step
}

func (p *Parser) expectSilently(k TokenKind) {
	if p.tok.Kind == k {
		p.advance()
	}
}

func (p *Parser) parseNodeTest(step *Expr) {
	switch p.tok.Kind {
	case Star:
		step.NodeTest = "*"
		p.advance()
	case NodeType:
		step.NodeTest = p.tok.Text
		p.advance()
		p.expectSilently(LParen)
		p.expectSilently(RParen)
	case Name:
		name := p.tok.Text
		p.advance()
		if p.tok.Kind == Colon {
			p.advance()
			step.Prefix = name
			if p.tok.Kind == Star {
				step.NodeTest = "*"
				p.advance()
			} else {
				local, _ := p.expect(Name)
				step.NodeTest = local.Text
			}
		} else {
			step.NodeTest = name
		}
	default:
		p.err = fmt.Errorf("xpath: expected node test, got %s %q at %d", p.tok.Kind, p.tok.Text, p.tok.Pos)
	}
}

// parsePredicate parses a bracketed predicate. The single-key
// equality form used to address list entries (`[key='value']`) is a
// plain EqualityExpr and needs no special casing here; richer
// predicates parse too, and it is the consumer that restricts to the
// equality form when addressing lists.
func (p *Parser) parsePredicate() *Expr {
	p.advance() // consume '['
	inner := p.parseOr()
	if _, err := p.expect(RBracket); err != nil {
		p.err = err
	}
	return &Expr{Op: OpPredicate, Left: inner}
}

func (p *Parser) parsePrimary() *Expr {
	switch p.tok.Kind {
	case Number:
		t := p.tok
		p.advance()
		return p.builders.Number(t.Text)
	case Literal:
		t := p.tok
		p.advance()
		return p.builders.Literal(t.Text)
	case Variable:
		t := p.tok
		p.advance()
		return p.builders.Variable(t.Text)
	case LParen:
		p.advance()
		inner := p.parseOr()
		if _, err := p.expect(RParen); err != nil {
			p.err = err
		}
		return inner
	case FuncName:
		name := p.tok.Text
		p.advance()
		p.expectSilently(LParen)
		var args []*Expr
		for p.tok.Kind != RParen && p.tok.Kind != EOF {
			args = append(args, p.parseOr())
			if p.tok.Kind == Comma {
				p.advance()
			}
		}
		if _, err := p.expect(RParen); err != nil {
			p.err = err
		}
		return p.builders.FuncCall(name, args)
	default:
		p.err = fmt.Errorf("xpath: unexpected token %s %q at %d", p.tok.Kind, p.tok.Text, p.tok.Pos)
		return &Expr{}
	}
}

// Parse is a convenience wrapper building a Parser with
// DefaultBuilders and parsing expr in one call.
func Parse(expr string) (*Expr, error) {
	return NewParser(expr, DefaultBuilders()).Parse()
}
