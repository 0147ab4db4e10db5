// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package syntax implements the frontend and evaluator for the Sigil
// configuration language: a small, total, purely functional language
// with dependent function types, records, unions, lists, optionals,
// and interpolated text.
//
// The package provides a parser from UTF-8 source to expression
// trees (Parser), capture-avoiding variable operations (Shift,
// Subst, AlphaNormalize, FreeIn), and a rule-directed normalizer
// (Normalize, NormalizeWith). Type checking and import resolution
// are performed by separate components that consume the trees
// produced here; the normalizer passes unresolved imports through
// untouched.
//
// Expression trees are values: every transformation returns a new
// tree, and unchanged subtrees are shared by pointer.
package syntax

import (
	"math"
	"math/big"
)

// ExprKind is the kind of an expression node.
type ExprKind int

const (
	// ExprError indicates an erroneous expression (e.g., through a parse error).
	ExprError ExprKind = iota
	// ExprVar is a variable occurrence.
	ExprVar
	// ExprUniverse is a type universe (Type, Kind, Sort).
	ExprUniverse
	// ExprBuiltin is a built-in identifier.
	ExprBuiltin
	// ExprLam is a lambda abstraction.
	ExprLam
	// ExprPi is a dependent function type.
	ExprPi
	// ExprApp is function application.
	ExprApp
	// ExprLet is a let binding.
	ExprLet
	// ExprAnnot is a type annotation.
	ExprAnnot
	// ExprBoolLit is a boolean literal.
	ExprBoolLit
	// ExprBoolIf is a conditional.
	ExprBoolIf
	// ExprNaturalLit is an unbounded natural number literal.
	ExprNaturalLit
	// ExprIntegerLit is an unbounded integer literal.
	ExprIntegerLit
	// ExprDoubleLit is an IEEE-754 binary64 literal.
	ExprDoubleLit
	// ExprTextLit is a text literal with interpolated expressions.
	ExprTextLit
	// ExprBinop is a binary operation.
	ExprBinop
	// ExprListLit is a list literal.
	ExprListLit
	// ExprOptionalLit is an optional literal ("[x] : Optional t").
	ExprOptionalLit
	// ExprSome is an optional value ("Some x").
	ExprSome
	// ExprRecord is a record type.
	ExprRecord
	// ExprRecordLit is a record value.
	ExprRecordLit
	// ExprUnion is a union type.
	ExprUnion
	// ExprUnionLit is a union value with one active alternative.
	ExprUnionLit
	// ExprField is record field access.
	ExprField
	// ExprProject is record projection onto a label set.
	ExprProject
	// ExprMerge eliminates a union value with a record of handlers.
	ExprMerge
	// ExprConstructors turns a union type into a record of constructors.
	ExprConstructors
	// ExprImport is an unresolved import reference.
	ExprImport

	maxExpr
)

// Var identifies a variable by name and De Bruijn index. Index n
// refers to the (n+1)th innermost binder named Ident.
type Var struct {
	Ident string
	Index int
}

// MkVar returns an expression node for v.
func MkVar(v Var) *Expr {
	return &Expr{Kind: ExprVar, Ident: v.Ident, Index: v.Index}
}

// FieldExpr stores one entry of a record or union block: a label and
// its expression (a type or a value, depending on the node kind).
type FieldExpr struct {
	Name string
	Expr *Expr
}

// Equal tests whether f is equivalent to g.
func (f *FieldExpr) Equal(g *FieldExpr) bool {
	return f.Name == g.Name && f.Expr.Equal(g.Expr)
}

// Chunk is one segment of an interpolated text literal: a literal
// prefix followed by an interpolated expression. The literal's
// trailing text is stored separately in Expr.Suffix, so a text
// literal with n interpolations has exactly n chunks.
type Chunk struct {
	Prefix string
	Expr   *Expr
}

// An Expr is a node in Sigil's expression AST. The Kind determines
// which of the remaining fields are meaningful. Exprs are immutable
// once constructed; transformations allocate new nodes and share
// unchanged children.
type Expr struct {
	// Position is the source position of the node, set by the parser.
	Position

	// Kind is the expression's kind; see above.
	Kind ExprKind

	// Ident is the variable name in ExprVar, the binder label in
	// ExprLam, ExprPi, and ExprLet, the accessed field in ExprField,
	// and the active alternative in ExprUnionLit.
	Ident string
	// Index is the De Bruijn index in ExprVar.
	Index int

	// Univ is the universe in ExprUniverse.
	Univ Universe
	// Builtin is the identifier in ExprBuiltin.
	Builtin Builtin
	// Op is the operator in ExprBinop.
	Op Op

	// Bool is the value of an ExprBoolLit.
	Bool bool
	// Nat is the value of an ExprNaturalLit; always non-negative.
	Nat *big.Int
	// Int is the value of an ExprIntegerLit.
	Int *big.Int
	// Double is the value of an ExprDoubleLit.
	Double float64

	// Chunks and Suffix store an ExprTextLit.
	Chunks []Chunk
	Suffix string

	// Cond is the condition in ExprBoolIf.
	Cond *Expr
	// Left is the "left" operand: the function in ExprApp, the
	// binder type in ExprLam and ExprPi, the bound value in ExprLet,
	// the annotated expression in ExprAnnot, the record in ExprField
	// and ExprProject, the handlers in ExprMerge, the payload in
	// ExprSome, ExprUnionLit, and ExprOptionalLit (nil when the
	// optional is empty), and the union type in ExprConstructors.
	Left *Expr
	// Right is the "right" operand: the argument in ExprApp, the
	// body in ExprLam, ExprPi, and ExprLet, and the union in
	// ExprMerge.
	Right *Expr
	// Annot is an auxiliary type position: the binder annotation in
	// ExprLet (nil when absent), the annotated type in ExprAnnot,
	// the element type in ExprListLit (nil unless the literal is
	// empty) and ExprOptionalLit, and the result type in ExprMerge
	// (nil when absent).
	Annot *Expr

	// List holds the elements of an ExprListLit.
	List []*Expr
	// Fields holds the entries of ExprRecord, ExprRecordLit, and
	// ExprUnion, and the inactive alternatives of ExprUnionLit, in
	// source order with unique labels.
	Fields []*FieldExpr
	// Labels holds the projected label set in ExprProject.
	Labels []string

	// Import describes an ExprImport.
	Import *Import
}

// ImportOrigin tells where a local import path is anchored.
type ImportOrigin int

const (
	// OriginHere anchors at the importing file's directory ("./x").
	OriginHere ImportOrigin = iota
	// OriginParent anchors at the parent directory ("../x").
	OriginParent
	// OriginHome anchors at the user's home directory ("~/x").
	OriginHome
	// OriginAbsolute anchors at the filesystem root ("/x").
	OriginAbsolute
)

// ImportKind enumerates the kinds of import references.
type ImportKind int

const (
	// ImportMissing is the always-failing import ("missing").
	ImportMissing ImportKind = iota
	// ImportLocal is a filesystem import.
	ImportLocal
	// ImportRemote is an HTTP(S) import.
	ImportRemote
	// ImportEnv is an environment variable import.
	ImportEnv
)

// ImportMode tells how an import's contents are interpreted.
type ImportMode int

const (
	// ImportCode parses the imported contents as an expression.
	ImportCode ImportMode = iota
	// ImportRawText imports the contents as a Text value ("as Text").
	ImportRawText
)

// An Import is an unresolved import reference. The parser records
// imports but does not fetch, hash-check, or otherwise resolve them;
// that is the import resolver's job. The normalizer passes Import
// nodes through untouched.
type Import struct {
	Kind ImportKind

	// Origin, Dir, and File describe an ImportLocal path. Dir holds
	// the directory components in order.
	Origin ImportOrigin
	Dir    []string
	File   string

	// Scheme, Authority, Query, and Fragment describe an
	// ImportRemote URL; Dir and File hold its path. Query and
	// Fragment are nil when absent.
	Scheme    string
	Authority string
	Query     *string
	Fragment  *string
	// Headers is the import supplying request headers for an
	// ImportRemote ("using ..."), if any.
	Headers *Import

	// Name is the variable name of an ImportEnv; Raw is true for
	// the quoted POSIX form.
	Name string
	Raw  bool

	// Hash is the lowercase hex SHA-256 content pin, or "" when the
	// import is unpinned.
	Hash string

	Mode ImportMode
}

// Equal tests whether imports i and j are equivalent.
func (i *Import) Equal(j *Import) bool {
	if i == nil || j == nil {
		return i == j
	}
	if i.Kind != j.Kind || i.Hash != j.Hash || i.Mode != j.Mode {
		return false
	}
	switch i.Kind {
	case ImportMissing:
		return true
	case ImportLocal:
		return i.Origin == j.Origin && i.File == j.File && stringsEqual(i.Dir, j.Dir)
	case ImportRemote:
		if i.Scheme != j.Scheme || i.Authority != j.Authority || i.File != j.File || !stringsEqual(i.Dir, j.Dir) {
			return false
		}
		if !optStringEqual(i.Query, j.Query) || !optStringEqual(i.Fragment, j.Fragment) {
			return false
		}
		return i.Headers.Equal(j.Headers)
	case ImportEnv:
		return i.Name == j.Name && i.Raw == j.Raw
	}
	return false
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func optStringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Equal tests whether e is structurally equal to f. Positions are
// ignored. Double literals compare bit-exactly, and text literals
// compare by identical chunk decomposition.
func (e *Expr) Equal(f *Expr) bool {
	if e == nil || f == nil {
		return e == f
	}
	if e == f {
		return true
	}
	if e.Kind != f.Kind {
		return false
	}
	switch e.Kind {
	case ExprVar:
		if e.Index != f.Index {
			return false
		}
	case ExprUniverse:
		if e.Univ != f.Univ {
			return false
		}
	case ExprBuiltin:
		if e.Builtin != f.Builtin {
			return false
		}
	case ExprBoolLit:
		if e.Bool != f.Bool {
			return false
		}
	case ExprNaturalLit:
		if e.Nat.Cmp(f.Nat) != 0 {
			return false
		}
	case ExprIntegerLit:
		if e.Int.Cmp(f.Int) != 0 {
			return false
		}
	case ExprDoubleLit:
		if math.Float64bits(e.Double) != math.Float64bits(f.Double) {
			return false
		}
	case ExprTextLit:
		if e.Suffix != f.Suffix || len(e.Chunks) != len(f.Chunks) {
			return false
		}
		for i := range e.Chunks {
			if e.Chunks[i].Prefix != f.Chunks[i].Prefix {
				return false
			}
			if !e.Chunks[i].Expr.Equal(f.Chunks[i].Expr) {
				return false
			}
		}
	case ExprBinop:
		if e.Op != f.Op {
			return false
		}
	case ExprImport:
		if !e.Import.Equal(f.Import) {
			return false
		}
	case ExprProject:
		if !stringsEqual(e.Labels, f.Labels) {
			return false
		}
	}
	switch e.Kind {
	case ExprVar, ExprLam, ExprPi, ExprLet, ExprField, ExprUnionLit:
		if e.Ident != f.Ident {
			return false
		}
	}
	if !e.Cond.Equal(f.Cond) || !e.Left.Equal(f.Left) || !e.Right.Equal(f.Right) || !e.Annot.Equal(f.Annot) {
		return false
	}
	if len(e.List) != len(f.List) || len(e.Fields) != len(f.Fields) {
		return false
	}
	for i := range e.List {
		if !e.List[i].Equal(f.List[i]) {
			return false
		}
	}
	for i := range e.Fields {
		if !e.Fields[i].Equal(f.Fields[i]) {
			return false
		}
	}
	return true
}

// Subexpr returns a slice of this expression's immediate children.
func (e *Expr) Subexpr() []*Expr {
	var x []*Expr
	if e.Cond != nil {
		x = append(x, e.Cond)
	}
	if e.Left != nil {
		x = append(x, e.Left)
	}
	if e.Right != nil {
		x = append(x, e.Right)
	}
	if e.Annot != nil {
		x = append(x, e.Annot)
	}
	for _, c := range e.Chunks {
		x = append(x, c.Expr)
	}
	x = append(x, e.List...)
	for _, f := range e.Fields {
		x = append(x, f.Expr)
	}
	return x
}

// Prism-style observers. Each reports the constructor's payload and
// whether e is of that constructor.

// BoolLit returns e's value if e is a boolean literal.
func (e *Expr) BoolLit() (bool, bool) {
	if e == nil || e.Kind != ExprBoolLit {
		return false, false
	}
	return e.Bool, true
}

// NaturalLit returns e's value if e is a natural literal.
func (e *Expr) NaturalLit() (*big.Int, bool) {
	if e == nil || e.Kind != ExprNaturalLit {
		return nil, false
	}
	return e.Nat, true
}

// IntegerLit returns e's value if e is an integer literal.
func (e *Expr) IntegerLit() (*big.Int, bool) {
	if e == nil || e.Kind != ExprIntegerLit {
		return nil, false
	}
	return e.Int, true
}

// DoubleLit returns e's value if e is a double literal.
func (e *Expr) DoubleLit() (float64, bool) {
	if e == nil || e.Kind != ExprDoubleLit {
		return 0, false
	}
	return e.Double, true
}

// TextString returns e's text if e is a text literal with no
// interpolations.
func (e *Expr) TextString() (string, bool) {
	if e == nil || e.Kind != ExprTextLit || len(e.Chunks) > 0 {
		return "", false
	}
	return e.Suffix, true
}

// RecordLit returns e's fields if e is a record literal.
func (e *Expr) RecordLit() ([]*FieldExpr, bool) {
	if e == nil || e.Kind != ExprRecordLit {
		return nil, false
	}
	return e.Fields, true
}

// ListElems returns e's elements if e is a list literal.
func (e *Expr) ListElems() ([]*Expr, bool) {
	if e == nil || e.Kind != ExprListLit {
		return nil, false
	}
	return e.List, true
}

// UnionType returns e's alternatives if e is a union type.
func (e *Expr) UnionType() ([]*FieldExpr, bool) {
	if e == nil || e.Kind != ExprUnion {
		return nil, false
	}
	return e.Fields, true
}

// lookupField returns the expression at the given label of a field
// list, or nil.
func lookupField(fields []*FieldExpr, name string) *Expr {
	for _, f := range fields {
		if f.Name == name {
			return f.Expr
		}
	}
	return nil
}

// Construction helpers used by the parser, the rewrite rules, and
// tests.

// NewBool returns a boolean literal.
func NewBool(b bool) *Expr { return &Expr{Kind: ExprBoolLit, Bool: b} }

// NewNat returns a natural literal.
func NewNat(n uint64) *Expr {
	return &Expr{Kind: ExprNaturalLit, Nat: new(big.Int).SetUint64(n)}
}

// NewNatBig returns a natural literal from a big integer.
func NewNatBig(n *big.Int) *Expr { return &Expr{Kind: ExprNaturalLit, Nat: n} }

// NewInteger returns an integer literal from a big integer.
func NewInteger(z *big.Int) *Expr { return &Expr{Kind: ExprIntegerLit, Int: z} }

// NewDouble returns a double literal.
func NewDouble(d float64) *Expr { return &Expr{Kind: ExprDoubleLit, Double: d} }

// NewText returns a text literal with no interpolations.
func NewText(s string) *Expr { return &Expr{Kind: ExprTextLit, Suffix: s} }

// NewBuiltin returns a builtin identifier node.
func NewBuiltin(b Builtin) *Expr { return &Expr{Kind: ExprBuiltin, Builtin: b} }

// NewApp returns the left-nested application of fn to args.
func NewApp(fn *Expr, args ...*Expr) *Expr {
	for _, arg := range args {
		fn = &Expr{Kind: ExprApp, Left: fn, Right: arg}
	}
	return fn
}

// NewLam returns a lambda abstraction.
func NewLam(label string, typ, body *Expr) *Expr {
	return &Expr{Kind: ExprLam, Ident: label, Left: typ, Right: body}
}

// NewPi returns a dependent function type.
func NewPi(label string, typ, body *Expr) *Expr {
	return &Expr{Kind: ExprPi, Ident: label, Left: typ, Right: body}
}
