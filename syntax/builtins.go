// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"math/big"
	"strconv"
	"strings"
)

// This file implements the built-in rewrite rules. Rules match an
// application spine whose children are already normalized: the head
// must be the builtin and the argument count must equal the rule's
// arity (a shorter application was already given its chance to
// reduce while it was a child). A rule returns nil to decline, in
// which case the application is left as-is; results returned here
// are renormalized by the engine.

// applyBuiltin consults the built-in rules on an application spine
// and returns a replacement, or nil when no rule applies.
func applyBuiltin(spine []*Expr) *Expr {
	head := spine[0]
	if head.Kind != ExprBuiltin {
		return nil
	}
	args := spine[1:]
	switch head.Builtin {
	case BuiltinNaturalFold:
		if len(args) != 4 {
			return nil
		}
		n, ok := args[0].NaturalLit()
		if !ok || !n.IsUint64() {
			return nil
		}
		// boundedType is not consulted: the successor chain is built
		// lazily and normalized in one pass.
		succ, zero := args[2], args[3]
		acc := zero
		for i, k := uint64(0), n.Uint64(); i < k; i++ {
			acc = NewApp(succ, acc)
		}
		return acc

	case BuiltinNaturalBuild:
		if len(args) != 1 {
			return nil
		}
		// Fusion: Natural/build (Natural/fold e) reduces to e.
		if inner, ok := spineOf(args[0], BuiltinNaturalFold, 1); ok {
			return inner[0]
		}
		succ := NewLam("x", NewBuiltin(BuiltinNatural),
			&Expr{Kind: ExprBinop, Op: OpNaturalPlus, Left: MkVar(Var{"x", 0}), Right: NewNat(1)})
		return NewApp(args[0], NewBuiltin(BuiltinNatural), succ, NewNat(0))

	case BuiltinNaturalIsZero:
		if n, ok := naturalArg(args); ok {
			return NewBool(n.Sign() == 0)
		}
	case BuiltinNaturalEven:
		if n, ok := naturalArg(args); ok {
			return NewBool(n.Bit(0) == 0)
		}
	case BuiltinNaturalOdd:
		if n, ok := naturalArg(args); ok {
			return NewBool(n.Bit(0) == 1)
		}
	case BuiltinNaturalToInteger:
		if n, ok := naturalArg(args); ok {
			return NewInteger(n)
		}
	case BuiltinNaturalShow:
		if n, ok := naturalArg(args); ok {
			return NewText(n.String())
		}

	case BuiltinIntegerShow:
		if len(args) != 1 {
			return nil
		}
		if z, ok := args[0].IntegerLit(); ok {
			s := z.String()
			if z.Sign() >= 0 {
				s = "+" + s
			}
			return NewText(s)
		}
	case BuiltinIntegerToDouble:
		if len(args) != 1 {
			return nil
		}
		if z, ok := args[0].IntegerLit(); ok {
			d, _ := new(big.Float).SetInt(z).Float64()
			return NewDouble(d)
		}
	case BuiltinDoubleShow:
		if len(args) != 1 {
			return nil
		}
		if d, ok := args[0].DoubleLit(); ok {
			return NewText(formatDouble(d))
		}

	case BuiltinListBuild:
		if len(args) != 2 {
			return nil
		}
		// Fusion: List/build t (List/fold t e) reduces to e.
		if inner, ok := spineOf(args[1], BuiltinListFold, 2); ok {
			return inner[1]
		}
		return listBuildExpansion(args[0], args[1])

	case BuiltinListFold:
		if len(args) != 5 {
			return nil
		}
		xs, ok := args[1].ListElems()
		if !ok {
			return nil
		}
		cons, nil_ := args[3], args[4]
		acc := nil_
		for i := len(xs) - 1; i >= 0; i-- {
			acc = NewApp(cons, xs[i], acc)
		}
		return acc

	case BuiltinListLength:
		if len(args) != 2 {
			return nil
		}
		if xs, ok := args[1].ListElems(); ok {
			return NewNat(uint64(len(xs)))
		}
	case BuiltinListHead:
		if len(args) != 2 {
			return nil
		}
		if xs, ok := args[1].ListElems(); ok {
			if len(xs) == 0 {
				return NewApp(NewBuiltin(BuiltinNone), args[0])
			}
			return &Expr{Kind: ExprSome, Left: xs[0]}
		}
	case BuiltinListLast:
		if len(args) != 2 {
			return nil
		}
		if xs, ok := args[1].ListElems(); ok {
			if len(xs) == 0 {
				return NewApp(NewBuiltin(BuiltinNone), args[0])
			}
			return &Expr{Kind: ExprSome, Left: xs[len(xs)-1]}
		}
	case BuiltinListIndexed:
		if len(args) != 2 {
			return nil
		}
		if xs, ok := args[1].ListElems(); ok {
			return listIndexed(args[0], xs)
		}
	case BuiltinListReverse:
		if len(args) != 2 {
			return nil
		}
		if xs, ok := args[1].ListElems(); ok {
			rev := make([]*Expr, len(xs))
			for i, x := range xs {
				rev[len(xs)-1-i] = x
			}
			n := *args[1]
			n.List = rev
			return &n
		}

	case BuiltinOptionalBuild:
		if len(args) != 2 {
			return nil
		}
		// Fusion: Optional/build t (Optional/fold t e) reduces to e.
		if inner, ok := spineOf(args[1], BuiltinOptionalFold, 2); ok {
			return inner[1]
		}
		just := NewLam("a", args[0], &Expr{Kind: ExprSome, Left: MkVar(Var{"a", 0})})
		nothing := NewApp(NewBuiltin(BuiltinNone), args[0])
		return NewApp(args[1], NewApp(NewBuiltin(BuiltinOptional), args[0]), just, nothing)

	case BuiltinOptionalFold:
		if len(args) != 5 {
			return nil
		}
		opt, just, nothing := args[1], args[3], args[4]
		if opt.Kind == ExprSome {
			return NewApp(just, opt.Left)
		}
		if _, ok := spineOf(opt, BuiltinNone, 1); ok {
			return nothing
		}
	}
	return nil
}

// naturalArg matches a single natural literal argument.
func naturalArg(args []*Expr) (*big.Int, bool) {
	if len(args) != 1 {
		return nil, false
	}
	return args[0].NaturalLit()
}

// listBuildExpansion is the Church expansion of List/build t g:
//
//	g (List t) (\(a : t) -> \(as : List t') -> [a] # as) ([] : List t)
//
// where t' is t shifted over the binder a.
func listBuildExpansion(t, g *Expr) *Expr {
	a := Var{"a", 0}
	elemT := Shift(1, a, t)
	consBody := &Expr{
		Kind:  ExprBinop,
		Op:    OpListAppend,
		Left:  &Expr{Kind: ExprListLit, List: []*Expr{MkVar(a)}},
		Right: MkVar(Var{"as", 0}),
	}
	cons := NewLam("a", t, NewLam("as", NewApp(NewBuiltin(BuiltinList), elemT), consBody))
	empty := &Expr{Kind: ExprListLit, Annot: t}
	return NewApp(g, NewApp(NewBuiltin(BuiltinList), t), cons, empty)
}

// listIndexed pairs each element with its index. The empty result
// carries its record element type.
func listIndexed(t *Expr, xs []*Expr) *Expr {
	if len(xs) == 0 {
		annot := &Expr{Kind: ExprRecord, Fields: []*FieldExpr{
			{"index", NewBuiltin(BuiltinNatural)},
			{"value", t},
		}}
		return &Expr{Kind: ExprListLit, Annot: annot}
	}
	elems := make([]*Expr, len(xs))
	for i, x := range xs {
		elems[i] = &Expr{Kind: ExprRecordLit, Fields: []*FieldExpr{
			{"index", NewNat(uint64(i))},
			{"value", x},
		}}
	}
	return &Expr{Kind: ExprListLit, List: elems}
}

// formatDouble renders a double so that it reparses as a double
// literal: the result always has a fraction or an exponent.
func formatDouble(d float64) string {
	s := strconv.FormatFloat(d, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
