// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"strings"
	"testing"
)

// TestRoundTrip checks that printing an expression and reparsing it
// yields an equal expression, across every constructor.
func TestRoundTrip(t *testing.T) {
	for _, src := range []string{
		`x`,
		`x@3`,
		"`in`",
		`Type`,
		`Kind`,
		`Sort`,
		`Bool`,
		`Natural/fold`,
		`True`,
		`42`,
		`+7`,
		`-7`,
		`3.25`,
		`-0.5`,
		`1e+100`,
		`"hello"`,
		`"esc \"quotes\" and \n newlines"`,
		`"interp ${x} mid ${y} end"`,
		`\(x : Natural) -> x + 1`,
		`forall (a : Type) -> a -> a`,
		`a -> b -> c`,
		`let x : Natural = 1 in x`,
		`let x = \(y : Bool) -> y in x True`,
		`if c then 1 else 2`,
		`1 + 2 * 3`,
		`(1 + 2) * 3`,
		`a && b || c == d`,
		`a ? b`,
		`x ++ "tail"`,
		`[1] # [2]`,
		`{ a = 1 } /\ { b = 2 }`,
		`{ a = 1 } // { b = 2 }`,
		`{ a : Natural } //\\ { b : Bool }`,
		`f x y z`,
		`Some (f x)`,
		`constructors < A : Natural >`,
		`merge { A = f } < A = 1 > : Natural`,
		`merge h u`,
		`[]  : List Natural`,
		`[1, 2, 3]`,
		`[] : Optional Natural`,
		`[x] : Optional Natural`,
		`{}`,
		`{=}`,
		`{ a = 1, b = { c = 2 } }`,
		`{ a : Natural, b : { c : Bool } }`,
		`<>`,
		`< A : Natural | B : Bool >`,
		`< A = 1 | B : Bool >`,
		`r.a.b`,
		`r.{ a, b }`,
		`r.{}`,
		`(f x).y`,
		`missing`,
		`./pkg/config`,
		`../lib/util`,
		`~/conf/main`,
		`/etc/sigil/default`,
		`env:HOME`,
		`env:"odd name"`,
		`https://example.com/a/b?q=1#frag`,
		`https://example.com/a/b using (~/headers)`,
		`./x/y sha256:` + mockHash,
		`./doc/readme as Text`,
		`env:FOO ? missing`,
		`x : Natural`,
		`(./a/b).c`,
		`"lit ${ "a" } $ {not} end"`,
	} {
		e := MustParse(src)
		printed := e.String()
		back, err := ParseString("", printed)
		if err != nil {
			t.Errorf("reparse of %q (printed %q): %v", src, printed, err)
			continue
		}
		if !back.Equal(e) {
			t.Errorf("round trip of %q: printed %q, reparsed %v", src, printed, back)
		}
	}
}

// TestRoundTripNormalForms prints normal forms and reparses them.
func TestRoundTripNormalForms(t *testing.T) {
	for _, src := range []string{
		`(λ(x : Natural) → x + 1) 2`,
		`constructors < A : Natural | B : Bool >`,
		`List/indexed Natural ([] : List Natural)`,
		`List/head Natural ([] : List Natural)`,
		`"hello ${"world"}${x}"`,
	} {
		n := Normalize(MustParse(src))
		back, err := ParseString("", n.String())
		if err != nil {
			t.Errorf("reparse normal form of %q (%q): %v", src, n.String(), err)
			continue
		}
		if !back.Equal(n) {
			t.Errorf("round trip of normal form of %q: %q", src, n.String())
		}
	}
}

func TestPrintEscapesInterpolation(t *testing.T) {
	// A literal "${" in text prints so that it does not reparse as
	// an interpolation.
	e := NewText("cost ${dollar}")
	printed := e.String()
	if strings.Contains(printed, "${d") {
		t.Fatalf("printed %q contains a bare interpolation", printed)
	}
	back := MustParse(printed)
	if !back.Equal(e) {
		t.Fatalf("got %v, want %v", back, e)
	}
}

func TestPrintReservedLabel(t *testing.T) {
	e := &Expr{Kind: ExprLet, Ident: "in", Left: NewNat(1), Right: MkVar(Var{"in", 0})}
	printed := e.String()
	back := MustParse(printed)
	if !back.Equal(e) {
		t.Fatalf("round trip of %q failed: %v", printed, back)
	}
}
