// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"math/big"
	"strings"
)

var bigOne = big.NewInt(1)

// A Normalizer is a user-supplied rewrite rule over application
// spines. It is consulted at App nodes whose children are already
// normalized, before the built-in rules; returning nil declines the
// spine. A rule may observe unnormalized subterms for let- and
// lambda-bound variables: substitution happens before the
// substituted body is renormalized.
type Normalizer func(spine []*Expr) *Expr

// Normalize rewrites e to its normal form under the built-in rules
// alone. Normalization is total: ill-typed subterms that match no
// rule are left intact.
func Normalize(e *Expr) *Expr {
	return NormalizeWith(nil, e)
}

// NormalizeWith rewrites e to its normal form, consulting rule
// before the built-in rules at every application spine.
func NormalizeWith(rule Normalizer, e *Expr) *Expr {
	n, _ := normalize(rule, e)
	return n
}

// IsNormalized tells whether e is already in normal form under the
// built-in rules.
func IsNormalized(e *Expr) bool {
	return IsNormalizedWith(nil, e)
}

// IsNormalizedWith tells whether e is already in normal form under
// rule and the built-in rules: normalizing it would change nothing.
func IsNormalizedWith(rule Normalizer, e *Expr) bool {
	_, changed := normalize(rule, e)
	return !changed
}

// normalizeSubexpr normalizes e's immediate children and rebuilds e,
// reporting whether any child changed. Unchanged nodes are returned
// as-is.
func (e *Expr) normalizeSubexpr(rule Normalizer) (*Expr, bool) {
	changed := false
	n := e.mapSubexpr(func(c *Expr, _ string) *Expr {
		d, ch := normalize(rule, c)
		if ch {
			changed = true
		}
		return d
	})
	return n, changed
}

// equivalent tells whether two normalized expressions are
// alpha-equivalent. It compares alpha-invariant digests.
func equivalent(a, b *Expr) bool {
	return a.Digest() == b.Digest()
}

// normalize is the engine: a bottom-up rewrite returning the
// normalized expression and whether anything changed. Each case
// either returns a specific replacement (changed), or rebuilds by
// congruence (changed iff some child changed). Rules whose
// replacement may itself be reducible renormalize their result.
func normalize(rule Normalizer, e *Expr) (*Expr, bool) {
	switch e.Kind {
	case ExprAnnot:
		n, _ := normalize(rule, e.Left)
		return n, true

	case ExprLet:
		n, _ := normalize(rule, ShiftSubstShift(Var{e.Ident, 0}, e.Left, e.Right))
		return n, true

	case ExprLam:
		typ, tch := normalize(rule, e.Left)
		body, bch := normalize(rule, e.Right)
		// Eta: \(x : t) -> f x reduces to f when x is not free in f.
		if body.Kind == ExprApp && body.Right.Kind == ExprVar &&
			body.Right.Ident == e.Ident && body.Right.Index == 0 &&
			!FreeIn(Var{e.Ident, 0}, body.Left) {
			n, _ := normalize(rule, Shift(-1, Var{e.Ident, 0}, body.Left))
			return n, true
		}
		if !tch && !bch {
			return e, false
		}
		n := *e
		n.Left = typ
		n.Right = body
		return &n, true

	case ExprApp:
		fn, fch := normalize(rule, e.Left)
		if fn.Kind == ExprLam {
			// Beta: the argument is substituted unnormalized and the
			// result renormalized.
			n, _ := normalize(rule, ShiftSubstShift(Var{fn.Ident, 0}, e.Right, fn.Right))
			return n, true
		}
		arg, ach := normalize(rule, e.Right)
		app := e
		if fch || ach {
			app = &Expr{Position: e.Position, Kind: ExprApp, Left: fn, Right: arg}
		}
		if r := applySpineRules(rule, Spine(app)); r != nil {
			n, _ := normalize(rule, r)
			return n, true
		}
		return app, fch || ach

	case ExprBoolIf:
		cond, cch := normalize(rule, e.Cond)
		t, tch := normalize(rule, e.Left)
		f, fch := normalize(rule, e.Right)
		if b, ok := cond.BoolLit(); ok {
			if b {
				return t, true
			}
			return f, true
		}
		if tb, ok := t.BoolLit(); ok && tb {
			if fb, ok := f.BoolLit(); ok && !fb {
				return cond, true
			}
		}
		if equivalent(t, f) {
			return t, true
		}
		if !cch && !tch && !fch {
			return e, false
		}
		n := *e
		n.Cond, n.Left, n.Right = cond, t, f
		return &n, true

	case ExprBinop:
		return normalizeBinop(rule, e)

	case ExprTextLit:
		return normalizeTextLit(rule, e)

	case ExprListLit:
		changed := false
		var annot *Expr
		if e.Annot != nil {
			if len(e.List) > 0 {
				// A non-empty literal needs no element annotation.
				changed = true
			} else {
				annot, changed = normalize(rule, e.Annot)
			}
		}
		elems := make([]*Expr, len(e.List))
		for i, x := range e.List {
			var ch bool
			elems[i], ch = normalize(rule, x)
			changed = changed || ch
		}
		if !changed {
			return e, false
		}
		n := *e
		n.Annot = annot
		n.List = elems
		return &n, true

	case ExprOptionalLit:
		annot, _ := normalize(rule, e.Annot)
		if e.Left == nil {
			return NewApp(NewBuiltin(BuiltinNone), annot), true
		}
		x, _ := normalize(rule, e.Left)
		return &Expr{Position: e.Position, Kind: ExprSome, Left: x}, true

	case ExprField:
		rec, rch := normalize(rule, e.Left)
		if kvs, ok := rec.RecordLit(); ok {
			if v := lookupField(kvs, e.Ident); v != nil {
				n, _ := normalize(rule, v)
				return n, true
			}
		}
		if kts, ok := rec.UnionType(); ok {
			if typ := lookupField(kts, e.Ident); typ != nil {
				return unionConstructor(e.Ident, typ, kts), true
			}
		}
		if !rch {
			return e, false
		}
		n := *e
		n.Left = rec
		return &n, true

	case ExprProject:
		rec, rch := normalize(rule, e.Left)
		if kvs, ok := rec.RecordLit(); ok {
			var picked []*FieldExpr
			for _, f := range kvs {
				for _, l := range e.Labels {
					if f.Name == l {
						picked = append(picked, f)
						break
					}
				}
			}
			if len(picked) == len(e.Labels) {
				n, _ := normalize(rule, &Expr{Position: e.Position, Kind: ExprRecordLit, Fields: picked})
				return n, true
			}
		}
		if !rch {
			return e, false
		}
		n := *e
		n.Left = rec
		return &n, true

	case ExprMerge:
		handlers, hch := normalize(rule, e.Left)
		union, uch := normalize(rule, e.Right)
		var annot *Expr
		var ach bool
		if e.Annot != nil {
			annot, ach = normalize(rule, e.Annot)
		}
		if kvs, ok := handlers.RecordLit(); ok && union.Kind == ExprUnionLit {
			if h := lookupField(kvs, union.Ident); h != nil {
				n, _ := normalize(rule, NewApp(h, union.Left))
				return n, true
			}
		}
		if !hch && !uch && !ach {
			return e, false
		}
		n := *e
		n.Left, n.Right, n.Annot = handlers, union, annot
		return &n, true

	case ExprConstructors:
		u, uch := normalize(rule, e.Left)
		if kts, ok := u.UnionType(); ok {
			fields := make([]*FieldExpr, len(kts))
			for i, alt := range kts {
				fields[i] = &FieldExpr{alt.Name, unionConstructor(alt.Name, alt.Expr, kts)}
			}
			return &Expr{Position: e.Position, Kind: ExprRecordLit, Fields: fields}, true
		}
		if !uch {
			return e, false
		}
		n := *e
		n.Left = u
		return &n, true

	default:
		// Vars, universes, builtins, literals, records, unions, Pi,
		// Some, and unresolved imports reduce by congruence only.
		return e.normalizeSubexpr(rule)
	}
}

// unionConstructor builds the constructor function for alternative
// name of a union type: \(name : typ) -> < name = name | rest >.
func unionConstructor(name string, typ *Expr, alts []*FieldExpr) *Expr {
	var rest []*FieldExpr
	for _, alt := range alts {
		if alt.Name != name {
			rest = append(rest, alt)
		}
	}
	lit := &Expr{Kind: ExprUnionLit, Ident: name, Left: MkVar(Var{name, 0}), Fields: rest}
	return NewLam(name, typ, lit)
}

// normalizeTextLit normalizes a text literal's interpolated
// expressions, splices nested text literals into the chunk sequence,
// and collapses a literal consisting of exactly one interpolation.
func normalizeTextLit(rule Normalizer, e *Expr) (*Expr, bool) {
	var (
		changed bool
		out     []Chunk
		pre     strings.Builder
	)
	for _, c := range e.Chunks {
		pre.WriteString(c.Prefix)
		x, ch := normalize(rule, c.Expr)
		changed = changed || ch
		switch {
		case x.Kind == ExprTextLit:
			changed = true
			for _, ic := range x.Chunks {
				pre.WriteString(ic.Prefix)
				out = append(out, Chunk{pre.String(), ic.Expr})
				pre.Reset()
			}
			pre.WriteString(x.Suffix)
		default:
			out = append(out, Chunk{pre.String(), x})
			pre.Reset()
		}
	}
	pre.WriteString(e.Suffix)
	suffix := pre.String()
	if len(out) == 1 && out[0].Prefix == "" && suffix == "" {
		return out[0].Expr, true
	}
	if !changed {
		return e, false
	}
	return &Expr{Position: e.Position, Kind: ExprTextLit, Chunks: out, Suffix: suffix}, true
}

// normalizeBinop applies the operator rules of the language. The
// operands are normalized first; an operator with no applicable rule
// rebuilds by congruence.
func normalizeBinop(rule Normalizer, e *Expr) (*Expr, bool) {
	l, lch := normalize(rule, e.Left)
	r, rch := normalize(rule, e.Right)
	rebuild := func() (*Expr, bool) {
		if !lch && !rch {
			return e, false
		}
		n := *e
		n.Left, n.Right = l, r
		return &n, true
	}
	switch e.Op {
	case OpBoolAnd:
		if b, ok := l.BoolLit(); ok {
			if b {
				return r, true
			}
			return l, true
		}
		if b, ok := r.BoolLit(); ok {
			if b {
				return l, true
			}
			return r, true
		}
		if equivalent(l, r) {
			return l, true
		}
	case OpBoolOr:
		if b, ok := l.BoolLit(); ok {
			if b {
				return l, true
			}
			return r, true
		}
		if b, ok := r.BoolLit(); ok {
			if b {
				return r, true
			}
			return l, true
		}
		if equivalent(l, r) {
			return l, true
		}
	case OpBoolEQ:
		lb, lok := l.BoolLit()
		rb, rok := r.BoolLit()
		switch {
		case lok && rok:
			return NewBool(lb == rb), true
		case lok && lb:
			return r, true
		case rok && rb:
			return l, true
		case equivalent(l, r):
			return NewBool(true), true
		}
	case OpBoolNE:
		lb, lok := l.BoolLit()
		rb, rok := r.BoolLit()
		switch {
		case lok && rok:
			return NewBool(lb != rb), true
		case lok && !lb:
			return r, true
		case rok && !rb:
			return l, true
		case equivalent(l, r):
			return NewBool(false), true
		}
	case OpNaturalPlus:
		ln, lok := l.NaturalLit()
		rn, rok := r.NaturalLit()
		switch {
		case lok && rok:
			return NewNatBig(new(big.Int).Add(ln, rn)), true
		case lok && ln.Sign() == 0:
			return r, true
		case rok && rn.Sign() == 0:
			return l, true
		}
	case OpNaturalTimes:
		ln, lok := l.NaturalLit()
		rn, rok := r.NaturalLit()
		switch {
		case lok && rok:
			return NewNatBig(new(big.Int).Mul(ln, rn)), true
		case lok && ln.Sign() == 0:
			return l, true
		case rok && rn.Sign() == 0:
			return r, true
		case lok && ln.Cmp(bigOne) == 0:
			return r, true
		case rok && rn.Cmp(bigOne) == 0:
			return l, true
		}
	case OpTextAppend:
		if s, ok := l.TextString(); ok && s == "" {
			return r, true
		}
		if s, ok := r.TextString(); ok && s == "" {
			return l, true
		}
		if l.Kind == ExprTextLit && r.Kind == ExprTextLit {
			return appendTextLits(l, r), true
		}
	case OpListAppend:
		if xs, ok := l.ListElems(); ok && len(xs) == 0 {
			return r, true
		}
		if ys, ok := r.ListElems(); ok && len(ys) == 0 {
			return l, true
		}
		xs, lok := l.ListElems()
		ys, rok := r.ListElems()
		if lok && rok {
			elems := make([]*Expr, 0, len(xs)+len(ys))
			elems = append(elems, xs...)
			elems = append(elems, ys...)
			return &Expr{Position: e.Position, Kind: ExprListLit, List: elems}, true
		}
	case OpCombine:
		return normalizeRecordMerge(rule, e, l, r, lch || rch, ExprRecordLit, OpCombine)
	case OpCombineTypes:
		return normalizeRecordMerge(rule, e, l, r, lch || rch, ExprRecord, OpCombineTypes)
	case OpPrefer:
		lf, lok := l.RecordLit()
		rf, rok := r.RecordLit()
		switch {
		case lok && len(lf) == 0:
			return r, true
		case rok && len(rf) == 0:
			return l, true
		case lok && rok:
			var fields []*FieldExpr
			for _, f := range lf {
				if w := lookupField(rf, f.Name); w != nil {
					fields = append(fields, &FieldExpr{f.Name, w})
				} else {
					fields = append(fields, f)
				}
			}
			for _, f := range rf {
				if lookupField(lf, f.Name) == nil {
					fields = append(fields, f)
				}
			}
			return &Expr{Position: e.Position, Kind: ExprRecordLit, Fields: fields}, true
		}
	case OpImportAlt:
		// Import fallback is the resolver's business; congruence only.
	}
	return rebuild()
}

// normalizeRecordMerge implements the recursive, left-ordered record
// merges Combine (on record values) and CombineTypes (on record
// types). Overlapping keys merge recursively under the same
// operator.
func normalizeRecordMerge(rule Normalizer, e, l, r *Expr, childChanged bool, kind ExprKind, op Op) (*Expr, bool) {
	lok := l.Kind == kind
	rok := r.Kind == kind
	switch {
	case lok && len(l.Fields) == 0:
		return r, true
	case rok && len(r.Fields) == 0:
		return l, true
	case lok && rok:
		var fields []*FieldExpr
		for _, f := range l.Fields {
			if w := lookupField(r.Fields, f.Name); w != nil {
				merged, _ := normalize(rule, &Expr{Kind: ExprBinop, Op: op, Left: f.Expr, Right: w})
				fields = append(fields, &FieldExpr{f.Name, merged})
			} else {
				fields = append(fields, f)
			}
		}
		for _, f := range r.Fields {
			if lookupField(l.Fields, f.Name) == nil {
				fields = append(fields, f)
			}
		}
		return &Expr{Position: e.Position, Kind: kind, Fields: fields}, true
	}
	if !childChanged {
		return e, false
	}
	n := *e
	n.Left, n.Right = l, r
	return &n, true
}

// appendTextLits concatenates two text literals, merging the chunk
// boundary.
func appendTextLits(l, r *Expr) *Expr {
	if len(r.Chunks) == 0 {
		n := *l
		n.Suffix = l.Suffix + r.Suffix
		return &n
	}
	chunks := make([]Chunk, 0, len(l.Chunks)+len(r.Chunks))
	chunks = append(chunks, l.Chunks...)
	chunks = append(chunks, Chunk{l.Suffix + r.Chunks[0].Prefix, r.Chunks[0].Expr})
	chunks = append(chunks, r.Chunks[1:]...)
	return &Expr{Kind: ExprTextLit, Chunks: chunks, Suffix: r.Suffix}
}

// applySpineRules consults the user rule, then the built-in rules,
// on an application spine. The first non-nil replacement wins.
func applySpineRules(rule Normalizer, spine []*Expr) *Expr {
	if rule != nil {
		if r := rule(spine); r != nil {
			return r
		}
	}
	return applyBuiltin(spine)
}
