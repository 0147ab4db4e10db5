// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"io"
	"io/ioutil"
	"strings"

	"github.com/grailbio/sigil/errors"
)

// Parser parses a Sigil expression from an input. A parse succeeds
// only when the whole input is consumed (trailing whitespace and
// comments included); otherwise Parse reports the deepest position
// any alternative reached. The parser performs no scope checking,
// constant folding, or import resolution.
type Parser struct {
	// File is prefixed to parser error locations.
	File string
	// Body is the io.Reader that is parsed.
	Body io.Reader

	// Expr contains the parsed expression.
	Expr *Expr
}

// Parse parses the parser's body and reports any parsing error. The
// parse result is deposited in x.Expr.
func (x *Parser) Parse() error {
	b, err := ioutil.ReadAll(x.Body)
	if err != nil {
		return err
	}
	p := &parser{src: string(b), path: x.File}
	p.init()
	e, err := p.completeExpression()
	if err != nil {
		return err
	}
	x.Expr = e
	return nil
}

// ParseString parses the expression in src, reporting error
// positions against path.
func ParseString(path, src string) (*Expr, error) {
	x := &Parser{File: path, Body: strings.NewReader(src)}
	if err := x.Parse(); err != nil {
		return nil, err
	}
	return x.Expr, nil
}

// MustParse parses src and panics on error. It is intended for
// tests and fixtures.
func MustParse(src string) *Expr {
	e, err := ParseString("", src)
	if err != nil {
		panic(err)
	}
	return e
}

// completeExpression parses whitespace, one expression, and
// whitespace, and requires the input to be exhausted.
func (p *parser) completeExpression() (*Expr, error) {
	p.ws()
	e, ok := p.expression()
	if ok {
		p.ws()
		if p.eof() {
			return e, nil
		}
		p.fail()
	}
	off := p.deepest
	if p.pos > off {
		off = p.pos
	}
	return nil, errors.E(errors.Parse, p.position(off), "unexpected input")
}

// opLevel describes one level of the binary operator ladder, loosest
// first. Tokens are tried in order, so a Unicode spelling precedes
// its ASCII form.
type opLevel struct {
	op     Op
	tokens []string
}

var opLevels = []opLevel{
	{OpImportAlt, []string{"?"}},
	{OpBoolOr, []string{"||"}},
	{OpNaturalPlus, []string{"+"}},
	{OpTextAppend, []string{"++"}},
	{OpListAppend, []string{"#"}},
	{OpCombineTypes, []string{"⩓", `//\\`}},
	{OpPrefer, []string{"⫽", "//"}},
	{OpCombine, []string{"∧", `/\`}},
	{OpBoolAnd, []string{"&&"}},
	{OpBoolNE, []string{"!="}},
	{OpBoolEQ, []string{"=="}},
	{OpNaturalTimes, []string{"*"}},
}

func (p *parser) arrow() bool {
	return p.lit("→") || p.lit("->")
}

// expression parses the loosest grammar level: lambdas,
// conditionals, lets, quantifiers, and operator expressions with an
// optional function arrow or type annotation.
func (p *parser) expression() (*Expr, bool) {
	start := p.pos
	switch {
	case p.lit("λ") || p.lit(`\`):
		p.ws()
		if !p.lit("(") {
			return nil, false
		}
		p.ws()
		name, ok := p.label()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.lit(":") {
			return nil, false
		}
		p.ws()
		typ, ok := p.expression()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.lit(")") {
			return nil, false
		}
		p.ws()
		if !p.arrow() {
			return nil, false
		}
		p.ws()
		body, ok := p.expression()
		if !ok {
			return nil, false
		}
		return &Expr{Position: p.position(start), Kind: ExprLam, Ident: name, Left: typ, Right: body}, true

	case p.kw1("if"):
		cond, ok := p.expression()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.kw1("then") {
			return nil, false
		}
		t, ok := p.expression()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.kw1("else") {
			return nil, false
		}
		f, ok := p.expression()
		if !ok {
			return nil, false
		}
		return &Expr{Position: p.position(start), Kind: ExprBoolIf, Cond: cond, Left: t, Right: f}, true

	case p.kw1("let"):
		name, ok := p.label()
		if !ok {
			return nil, false
		}
		p.ws()
		var annot *Expr
		if p.lit(":") {
			p.ws()
			if annot, ok = p.expression(); !ok {
				return nil, false
			}
			p.ws()
		}
		if !p.lit("=") {
			return nil, false
		}
		p.ws()
		val, ok := p.expression()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.kw1("in") {
			return nil, false
		}
		body, ok := p.expression()
		if !ok {
			return nil, false
		}
		return &Expr{Position: p.position(start), Kind: ExprLet, Ident: name, Annot: annot, Left: val, Right: body}, true

	case p.lit("∀") || p.kw("forall"):
		p.ws()
		if !p.lit("(") {
			return nil, false
		}
		p.ws()
		name, ok := p.label()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.lit(":") {
			return nil, false
		}
		p.ws()
		typ, ok := p.expression()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.lit(")") {
			return nil, false
		}
		p.ws()
		if !p.arrow() {
			return nil, false
		}
		p.ws()
		body, ok := p.expression()
		if !ok {
			return nil, false
		}
		return &Expr{Position: p.position(start), Kind: ExprPi, Ident: name, Left: typ, Right: body}, true
	}

	left, ok := p.operatorExpr(0)
	if !ok {
		return nil, false
	}
	save := p.pos
	p.ws()
	if p.arrow() {
		p.ws()
		if body, ok := p.expression(); ok {
			return &Expr{Position: p.position(start), Kind: ExprPi, Ident: "_", Left: left, Right: body}, true
		}
		p.pos = save
		return left, true
	}
	if p.lit(":") {
		p.ws()
		if typ, ok := p.expression(); ok {
			return p.annotate(start, left, typ), true
		}
	}
	p.pos = save
	return left, true
}

// annotate attaches a type annotation, recognizing the empty and
// singleton collection literal forms: "[] : List t" and
// "[...] : Optional t" build annotated literals rather than Annot
// nodes.
func (p *parser) annotate(start int, e, typ *Expr) *Expr {
	pos := p.position(start)
	if e.Kind == ExprListLit && e.Annot == nil {
		if s := Spine(typ); len(s) == 2 {
			switch {
			case isBuiltin(s[0], BuiltinList) && len(e.List) == 0:
				return &Expr{Position: pos, Kind: ExprListLit, Annot: s[1]}
			case isBuiltin(s[0], BuiltinOptional) && len(e.List) == 0:
				return &Expr{Position: pos, Kind: ExprOptionalLit, Annot: s[1]}
			case isBuiltin(s[0], BuiltinOptional) && len(e.List) == 1:
				return &Expr{Position: pos, Kind: ExprOptionalLit, Annot: s[1], Left: e.List[0]}
			}
		}
	}
	return &Expr{Position: pos, Kind: ExprAnnot, Left: e, Annot: typ}
}

// operatorExpr parses the binary operator ladder at the given level.
// Every operator is left-associative. The "+" operator additionally
// requires whitespace before its right operand, which keeps "1 +2"
// from parsing as an addition of the integer literal +2.
func (p *parser) operatorExpr(level int) (*Expr, bool) {
	if level == len(opLevels) {
		return p.applicationExpr()
	}
	lv := opLevels[level]
	start := p.pos
	left, ok := p.operatorExpr(level + 1)
	if !ok {
		return nil, false
	}
	for {
		save := p.pos
		p.ws()
		matched := false
		for _, tok := range lv.tokens {
			if p.lit(tok) {
				matched = true
				break
			}
		}
		if !matched {
			p.pos = save
			break
		}
		if lv.op == OpNaturalPlus {
			if !p.ws1() {
				p.pos = save
				break
			}
		} else {
			p.ws()
		}
		right, ok := p.operatorExpr(level + 1)
		if !ok {
			p.pos = save
			break
		}
		left = &Expr{Position: p.position(start), Kind: ExprBinop, Op: lv.op, Left: left, Right: right}
	}
	return left, true
}

// applicationExpr parses whitespace-separated application, with the
// merge, constructors, and Some forms.
func (p *parser) applicationExpr() (*Expr, bool) {
	start := p.pos
	if p.kw1("merge") {
		handlers, ok := p.importExpr()
		if !ok {
			return nil, false
		}
		if !p.ws1() {
			return nil, false
		}
		union, ok := p.importExpr()
		if !ok {
			return nil, false
		}
		m := &Expr{Position: p.position(start), Kind: ExprMerge, Left: handlers, Right: union}
		save := p.pos
		p.ws()
		if p.lit(":") {
			p.ws()
			if annot, ok := p.applicationExpr(); ok {
				m.Annot = annot
				return m, true
			}
		}
		p.pos = save
		return m, true
	}

	var head *Expr
	switch {
	case p.kw1("constructors"):
		arg, ok := p.importExpr()
		if !ok {
			return nil, false
		}
		head = &Expr{Position: p.position(start), Kind: ExprConstructors, Left: arg}
	case p.kw1("Some"):
		arg, ok := p.importExpr()
		if !ok {
			return nil, false
		}
		head = &Expr{Position: p.position(start), Kind: ExprSome, Left: arg}
	default:
		var ok bool
		head, ok = p.importExpr()
		if !ok {
			return nil, false
		}
	}
	for {
		save := p.pos
		if !p.ws1() {
			p.pos = save
			break
		}
		arg, ok := p.importExpr()
		if !ok {
			p.pos = save
			break
		}
		head = &Expr{Position: p.position(start), Kind: ExprApp, Left: head, Right: arg}
	}
	return head, true
}

// importExpr parses an import reference or a selector expression.
func (p *parser) importExpr() (*Expr, bool) {
	if e, ok := p.importRef(); ok {
		return e, true
	}
	return p.selectorExpr()
}

// selectorExpr parses a primitive expression followed by any number
// of field accesses and projections.
func (p *parser) selectorExpr() (*Expr, bool) {
	start := p.pos
	e, ok := p.primitiveExpr()
	if !ok {
		return nil, false
	}
	for {
		save := p.pos
		p.ws()
		if !p.lit(".") {
			p.pos = save
			break
		}
		p.ws()
		if p.lit("{") {
			p.ws()
			var labels []string
			if !p.lit("}") {
				for {
					l, ok := p.anyLabel()
					if !ok {
						p.pos = save
						return e, true
					}
					labels = append(labels, l)
					p.ws()
					if p.lit(",") {
						p.ws()
						continue
					}
					break
				}
				if !p.lit("}") {
					p.pos = save
					return e, true
				}
			}
			e = &Expr{Position: p.position(start), Kind: ExprProject, Left: e, Labels: labels}
			continue
		}
		l, ok := p.anyLabel()
		if !ok {
			p.pos = save
			break
		}
		e = &Expr{Position: p.position(start), Kind: ExprField, Left: e, Ident: l}
	}
	return e, true
}

// anyLabel scans a label for positions where reserved words are
// acceptable, such as record field selection.
func (p *parser) anyLabel() (string, bool) {
	if p.peek() == '`' {
		return p.label()
	}
	return p.simpleLabel()
}

// primitiveExpr parses literals, blocks, parenthesized expressions,
// builtin identifiers, and variables.
func (p *parser) primitiveExpr() (*Expr, bool) {
	start := p.pos
	if e, ok := p.doubleLiteral(); ok {
		e.Position = p.position(start)
		return e, true
	}
	if e, ok := p.naturalLiteral(); ok {
		e.Position = p.position(start)
		return e, true
	}
	if e, ok := p.integerLiteral(); ok {
		e.Position = p.position(start)
		return e, true
	}
	if e, ok := p.doubleQuoteLiteral(); ok {
		e.Position = p.position(start)
		return e, true
	}
	if e, ok := p.singleQuoteLiteral(); ok {
		e.Position = p.position(start)
		return e, true
	}
	switch p.peek() {
	case '{':
		return p.recordBlock()
	case '<':
		return p.unionBlock()
	case '[':
		return p.listLiteral()
	case '(':
		p.next()
		p.ws()
		e, ok := p.expression()
		if !ok {
			return nil, false
		}
		p.ws()
		if !p.lit(")") {
			p.pos = start
			return nil, false
		}
		return e, true
	case '`':
		name, ok := p.label()
		if !ok {
			return nil, false
		}
		return p.variable(start, name)
	}
	name, ok := p.simpleLabel()
	if !ok {
		return nil, false
	}
	if b, ok := builtinNames[name]; ok {
		return &Expr{Position: p.position(start), Kind: ExprBuiltin, Builtin: b}, true
	}
	switch name {
	case "True", "False":
		return &Expr{Position: p.position(start), Kind: ExprBoolLit, Bool: name == "True"}, true
	case "Type", "Kind", "Sort":
		u := map[string]Universe{"Type": UnivType, "Kind": UnivKind, "Sort": UnivSort}[name]
		return &Expr{Position: p.position(start), Kind: ExprUniverse, Univ: u}, true
	}
	if reserved[name] {
		p.pos = start
		return nil, p.fail()
	}
	return p.variable(start, name)
}

// variable builds a variable node, scanning an optional @index.
func (p *parser) variable(start int, name string) (*Expr, bool) {
	index := 0
	save := p.pos
	p.ws()
	if p.lit("@") {
		p.ws()
		if n, ok := p.naturalLiteral(); ok && n.Nat.IsInt64() {
			index = int(n.Nat.Int64())
		} else {
			p.pos = save
		}
	} else {
		p.pos = save
	}
	return &Expr{Position: p.position(start), Kind: ExprVar, Ident: name, Index: index}, true
}

// recordBlock parses "{}" (the empty record type), "{=}" (the empty
// record value), and non-empty record types and values. The first
// entry's separator decides between type and value; labels must be
// unique.
func (p *parser) recordBlock() (*Expr, bool) {
	start := p.pos
	if !p.lit("{") {
		return nil, false
	}
	p.ws()
	if p.lit("}") {
		return &Expr{Position: p.position(start), Kind: ExprRecord}, true
	}
	if p.lit("=") {
		p.ws()
		if !p.lit("}") {
			p.pos = start
			return nil, p.fail()
		}
		return &Expr{Position: p.position(start), Kind: ExprRecordLit}, true
	}
	name, ok := p.anyLabel()
	if !ok {
		p.pos = start
		return nil, false
	}
	p.ws()
	var kind ExprKind
	var sep string
	switch {
	case p.lit("="):
		kind, sep = ExprRecordLit, "="
	case p.lit(":"):
		kind, sep = ExprRecord, ":"
	default:
		p.pos = start
		return nil, p.fail()
	}
	p.ws()
	first, ok := p.expression()
	if !ok {
		p.pos = start
		return nil, false
	}
	fields := []*FieldExpr{{name, first}}
	for {
		p.ws()
		if !p.lit(",") {
			break
		}
		p.ws()
		name, ok := p.anyLabel()
		if !ok {
			p.pos = start
			return nil, false
		}
		if lookupField(fields, name) != nil {
			p.pos = start
			return nil, p.fail()
		}
		p.ws()
		if !p.lit(sep) {
			p.pos = start
			return nil, false
		}
		p.ws()
		e, ok := p.expression()
		if !ok {
			p.pos = start
			return nil, false
		}
		fields = append(fields, &FieldExpr{name, e})
	}
	p.ws()
	if !p.lit("}") {
		p.pos = start
		return nil, false
	}
	return &Expr{Position: p.position(start), Kind: kind, Fields: fields}, true
}

// unionBlock parses "<>" (the empty union type), union types, and
// union values. An entry bound with "=" is the active alternative
// and makes the whole block a union value; at most one entry may be
// active, and labels must be unique.
func (p *parser) unionBlock() (*Expr, bool) {
	start := p.pos
	if !p.lit("<") {
		return nil, false
	}
	p.ws()
	if p.lit(">") {
		return &Expr{Position: p.position(start), Kind: ExprUnion}, true
	}
	var (
		fields []*FieldExpr
		active string
		value  *Expr
	)
	for {
		name, ok := p.anyLabel()
		if !ok {
			p.pos = start
			return nil, false
		}
		if name == active || lookupField(fields, name) != nil {
			p.pos = start
			return nil, p.fail()
		}
		p.ws()
		switch {
		case p.lit("="):
			if active != "" {
				p.pos = start
				return nil, p.fail()
			}
			p.ws()
			e, ok := p.expression()
			if !ok {
				p.pos = start
				return nil, false
			}
			active, value = name, e
		case p.lit(":"):
			p.ws()
			e, ok := p.expression()
			if !ok {
				p.pos = start
				return nil, false
			}
			fields = append(fields, &FieldExpr{name, e})
		default:
			p.pos = start
			return nil, p.fail()
		}
		p.ws()
		if p.lit("|") {
			p.ws()
			continue
		}
		break
	}
	if !p.lit(">") {
		p.pos = start
		return nil, false
	}
	pos := p.position(start)
	if active != "" {
		return &Expr{Position: pos, Kind: ExprUnionLit, Ident: active, Left: value, Fields: fields}, true
	}
	return &Expr{Position: pos, Kind: ExprUnion, Fields: fields}, true
}

// listLiteral parses a (possibly empty) list literal. An empty
// literal acquires its element type from an enclosing annotation.
func (p *parser) listLiteral() (*Expr, bool) {
	start := p.pos
	if !p.lit("[") {
		return nil, false
	}
	p.ws()
	if p.lit("]") {
		return &Expr{Position: p.position(start), Kind: ExprListLit}, true
	}
	var elems []*Expr
	for {
		e, ok := p.expression()
		if !ok {
			p.pos = start
			return nil, false
		}
		elems = append(elems, e)
		p.ws()
		if p.lit(",") {
			p.ws()
			continue
		}
		break
	}
	if !p.lit("]") {
		p.pos = start
		return nil, false
	}
	return &Expr{Position: p.position(start), Kind: ExprListLit, List: elems}, true
}
