// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

// This file implements the variable operations underlying
// evaluation: index shifting, capture-avoiding substitution,
// alpha-normalization, and free-variable detection. All four share
// the binder-tracking traversal mapSubexpr/eachSubexpr: children of
// Lam, Pi, and Let bodies are visited with the introduced binder
// label, everything else with the empty label.

// mapSubexpr returns a copy of e with every immediate child c
// replaced by f(c, binder), where binder is the label that e binds
// over c ("" when c is not in binding scope). When f returns every
// child unchanged, e itself is returned, so unchanged branches are
// shared by pointer.
func (e *Expr) mapSubexpr(f func(child *Expr, binder string) *Expr) *Expr {
	changed := false
	m := func(c *Expr, binder string) *Expr {
		if c == nil {
			return nil
		}
		d := f(c, binder)
		if d != c {
			changed = true
		}
		return d
	}
	n := *e
	switch e.Kind {
	case ExprLam, ExprPi:
		n.Left = m(e.Left, "")
		n.Right = m(e.Right, e.Ident)
	case ExprLet:
		n.Annot = m(e.Annot, "")
		n.Left = m(e.Left, "")
		n.Right = m(e.Right, e.Ident)
	default:
		n.Cond = m(e.Cond, "")
		n.Left = m(e.Left, "")
		n.Right = m(e.Right, "")
		n.Annot = m(e.Annot, "")
		if len(e.Chunks) > 0 {
			n.Chunks = make([]Chunk, len(e.Chunks))
			for i, c := range e.Chunks {
				n.Chunks[i] = Chunk{c.Prefix, m(c.Expr, "")}
			}
		}
		if len(e.List) > 0 {
			n.List = make([]*Expr, len(e.List))
			for i, c := range e.List {
				n.List[i] = m(c, "")
			}
		}
		if len(e.Fields) > 0 {
			n.Fields = make([]*FieldExpr, len(e.Fields))
			for i, fld := range e.Fields {
				n.Fields[i] = &FieldExpr{fld.Name, m(fld.Expr, "")}
			}
		}
	}
	if !changed {
		return e
	}
	return &n
}

// eachSubexpr calls f for every immediate child of e together with
// the binder label e introduces over it ("" when none).
func (e *Expr) eachSubexpr(f func(child *Expr, binder string)) {
	each := func(c *Expr, binder string) {
		if c != nil {
			f(c, binder)
		}
	}
	switch e.Kind {
	case ExprLam, ExprPi:
		each(e.Left, "")
		each(e.Right, e.Ident)
	case ExprLet:
		each(e.Annot, "")
		each(e.Left, "")
		each(e.Right, e.Ident)
	default:
		each(e.Cond, "")
		each(e.Left, "")
		each(e.Right, "")
		each(e.Annot, "")
		for _, c := range e.Chunks {
			each(c.Expr, "")
		}
		for _, c := range e.List {
			each(c, "")
		}
		for _, fld := range e.Fields {
			each(fld.Expr, "")
		}
	}
}

// Shift adds d to the index of every free occurrence of a variable
// named v.Ident whose index is at least v.Index plus the number of
// same-named binders enclosing the occurrence within e. Binders of
// other names do not affect the cutoff.
func Shift(d int, v Var, e *Expr) *Expr {
	if e.Kind == ExprVar {
		if e.Ident == v.Ident && e.Index >= v.Index {
			n := *e
			n.Index += d
			return &n
		}
		return e
	}
	return e.mapSubexpr(func(c *Expr, binder string) *Expr {
		w := v
		if binder == v.Ident {
			w.Index++
		}
		return Shift(d, w, c)
	})
}

// Subst replaces every free occurrence of v in b by c. Descending
// under a binder shifts c to avoid capture and adjusts v's index the
// way Shift adjusts its cutoff.
func Subst(v Var, c *Expr, b *Expr) *Expr {
	if b.Kind == ExprVar {
		if b.Ident == v.Ident && b.Index == v.Index {
			return c
		}
		return b
	}
	return b.mapSubexpr(func(child *Expr, binder string) *Expr {
		v2, c2 := v, c
		if binder != "" {
			c2 = Shift(1, Var{binder, 0}, c)
			if binder == v.Ident {
				v2.Index++
			}
		}
		return Subst(v2, c2, child)
	})
}

// ShiftSubstShift substitutes a for v in b while eliminating v's
// binder: it shifts a up, substitutes, and then shifts the result
// back down. This is the substitution used by beta reduction and let
// inlining.
func ShiftSubstShift(v Var, a, b *Expr) *Expr {
	return Shift(-1, v, Subst(v, Shift(1, v, a), b))
}

// Rename replaces the variable v0 by v1 in e without capturing
// occurrences of v1. Rename is the identity when v0 == v1.
func Rename(v0, v1 Var, e *Expr) *Expr {
	if v0 == v1 {
		return e
	}
	return Shift(-1, v0, Subst(v0, MkVar(v1), Shift(1, v1, e)))
}

// AlphaNormalize renames every bound variable in e to "_", bottom
// up. Free variables keep their names and indices, so two
// expressions are alpha-equivalent exactly when their
// alpha-normalizations are structurally equal.
func AlphaNormalize(e *Expr) *Expr {
	switch e.Kind {
	case ExprLam, ExprPi:
		typ := AlphaNormalize(e.Left)
		body := e.Right
		if e.Ident != "_" {
			body = Rename(Var{e.Ident, 0}, Var{"_", 0}, body)
		}
		body = AlphaNormalize(body)
		if typ == e.Left && body == e.Right && e.Ident == "_" {
			return e
		}
		n := *e
		n.Ident = "_"
		n.Left = typ
		n.Right = body
		return &n
	case ExprLet:
		var annot *Expr
		if e.Annot != nil {
			annot = AlphaNormalize(e.Annot)
		}
		val := AlphaNormalize(e.Left)
		body := e.Right
		if e.Ident != "_" {
			body = Rename(Var{e.Ident, 0}, Var{"_", 0}, body)
		}
		body = AlphaNormalize(body)
		if annot == e.Annot && val == e.Left && body == e.Right && e.Ident == "_" {
			return e
		}
		n := *e
		n.Ident = "_"
		n.Annot = annot
		n.Left = val
		n.Right = body
		return &n
	default:
		return e.mapSubexpr(func(c *Expr, _ string) *Expr {
			return AlphaNormalize(c)
		})
	}
}

// FreeIn tells whether v occurs free in e.
func FreeIn(v Var, e *Expr) bool {
	if e.Kind == ExprVar {
		return e.Ident == v.Ident && e.Index == v.Index
	}
	free := false
	e.eachSubexpr(func(c *Expr, binder string) {
		if free {
			return
		}
		w := v
		if binder == v.Ident {
			w.Index++
		}
		if FreeIn(w, c) {
			free = true
		}
	})
	return free
}
