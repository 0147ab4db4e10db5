// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

// Spine views an expression as its application spine: a non-empty
// slice holding the non-App head followed by the arguments it is
// applied to, outermost last. Spine(App(App(f, x), y)) is [f, x, y],
// and Spine(e) is [e] for any non-App e.
func Spine(e *Expr) []*Expr {
	var n int
	for f := e; f.Kind == ExprApp; f = f.Left {
		n++
	}
	spine := make([]*Expr, n+1)
	for f := e; ; f = f.Left {
		if f.Kind != ExprApp {
			spine[0] = f
			return spine
		}
		spine[n] = f.Right
		n--
	}
}

// Unspine rebuilds the left-nested application denoted by a spine.
// It is the inverse of Spine.
func Unspine(spine []*Expr) *Expr {
	return NewApp(spine[0], spine[1:]...)
}

// isBuiltin tells whether e is the given builtin identifier with no
// arguments applied.
func isBuiltin(e *Expr, b Builtin) bool {
	return e != nil && e.Kind == ExprBuiltin && e.Builtin == b
}

// spineOf matches e against an application of builtin b to exactly
// arity arguments and returns the arguments.
func spineOf(e *Expr, b Builtin, arity int) ([]*Expr, bool) {
	spine := Spine(e)
	if len(spine) != arity+1 || !isBuiltin(spine[0], b) {
		return nil, false
	}
	return spine[1:], true
}
