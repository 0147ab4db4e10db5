// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// cmpBig lets go-cmp compare the big integers inside literals.
var cmpBig = cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })

// TestNormalizeScenarios covers the end-to-end scenarios: each input
// parses and normalizes to the expected form.
func TestNormalizeScenarios(t *testing.T) {
	for _, c := range []struct {
		src  string
		want string
	}{
		// Beta reduction with arithmetic.
		{`(λ(x : Natural) → x + 1) 2`, `3`},
		// Let inlining.
		{`let x = 1 in x + x`, `2`},
		// Beta reduction under a binder.
		{`λ(x : Natural) → (λ(y : Natural) → y) x`, `\(x : Natural) -> x`},
		// A builtin over a literal list.
		{`List/length Natural [1, 2, 3]`, `3`},
		// Right-biased record merge.
		{`{ a = 1, b = 2 } ⫽ { b = 3, c = 4 }`, `{ a = 1, b = 3, c = 4 }`},
		// Text interpolation splicing.
		{`"hello ${"world"}"`, `"hello world"`},
	} {
		got := Normalize(MustParse(c.src))
		want := MustParse(c.want)
		if !got.Equal(want) {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeMergeNoReduction(t *testing.T) {
	// Empty handlers over an empty union type have no applicable
	// reduction; the expression is already normal.
	e := MustParse(`merge {=} <>:Natural`)
	if !IsNormalized(e) {
		t.Errorf("%v is not in normal form", e)
	}
	if got := Normalize(e); !got.Equal(e) {
		t.Errorf("got %v, want unchanged", got)
	}
}

func TestNormalizeBool(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`True && x`, `x`},
		{`x && True`, `x`},
		{`False && x`, `False`},
		{`x && False`, `False`},
		{`x && x`, `x`},
		{`True || x`, `True`},
		{`x || False`, `x`},
		{`x || x`, `x`},
		{`True == x`, `x`},
		{`x == True`, `x`},
		{`True == False`, `False`},
		{`x == x`, `True`},
		{`False != x`, `x`},
		{`True != False`, `True`},
		{`x != x`, `False`},
		{`if True then x else y`, `x`},
		{`if False then x else y`, `y`},
		{`if c then True else False`, `c`},
		{`if c then x else x`, `x`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeArith(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`2 + 3`, `5`},
		{`0 + x`, `x`},
		{`x + 0`, `x`},
		{`2 * 3`, `6`},
		{`0 * x`, `0`},
		{`x * 0`, `0`},
		{`1 * x`, `x`},
		{`x * 1`, `x`},
		{`123456789012345678901234567890 + 1`, `123456789012345678901234567891`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`"a" ++ "b"`, `"ab"`},
		{`"" ++ x`, `x`},
		{`x ++ ""`, `x`},
		{`"x ${"y"} z"`, `"x y z"`},
		{`"${x}"`, `x`},
		{`"a ${"b ${"c"}"} d"`, `"a b c d"`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
	// Interpolations around unreducible expressions are preserved.
	e := Normalize(MustParse(`"a ${x} b"`))
	if len(e.Chunks) != 1 || e.Chunks[0].Prefix != "a " || e.Suffix != " b" {
		t.Errorf("got %v", e)
	}
}

func TestNormalizeList(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`[1] # [2, 3]`, `[1, 2, 3]`},
		{`([] : List Natural) # xs`, `xs`},
		{`xs # ([] : List Natural)`, `xs`},
		{`List/length Natural ([] : List Natural)`, `0`},
		{`List/head Natural ([] : List Natural)`, `None Natural`},
		{`List/head Natural [1, 2]`, `Some 1`},
		{`List/last Natural [1, 2]`, `Some 2`},
		{`List/last Natural ([] : List Natural)`, `None Natural`},
		{`List/reverse Natural [1, 2, 3]`, `[3, 2, 1]`},
		{`List/reverse Natural ([] : List Natural)`, `[] : List Natural`},
		{`List/indexed Natural [7, 8]`, `[{ index = 0, value = 7 }, { index = 1, value = 8 }]`},
		{`List/indexed Natural ([] : List Natural)`, `[] : List { index : Natural, value : Natural }`},
		{`[1, 2] : List Natural`, `[1, 2]`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeListFold(t *testing.T) {
	src := `List/fold Natural [1, 2, 3] Natural (λ(x : Natural) → λ(acc : Natural) → x + acc) 0`
	if got, want := normStr(src), `6`; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	src = `List/build Natural (λ(list : Type) → λ(cons : Natural → list → list) → λ(nil : list) → cons 1 (cons 2 nil))`
	if got, want := normStr(src), `[1, 2]`; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalizeOptional(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`[] : Optional Natural`, `None Natural`},
		{`[2] : Optional Natural`, `Some 2`},
		{`Optional/fold Natural (Some 1) Natural (λ(x : Natural) → x + 10) 0`, `11`},
		{`Optional/fold Natural (None Natural) Natural (λ(x : Natural) → x + 10) 0`, `0`},
		{`Optional/build Natural (λ(optional : Type) → λ(just : Natural → optional) → λ(nothing : optional) → just 9)`, `Some 9`},
		{`Optional/build Natural (λ(optional : Type) → λ(just : Natural → optional) → λ(nothing : optional) → nothing)`, `None Natural`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeNaturalBuiltins(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`Natural/isZero 0`, `True`},
		{`Natural/isZero 3`, `False`},
		{`Natural/even 2`, `True`},
		{`Natural/even 3`, `False`},
		{`Natural/odd 3`, `True`},
		{`Natural/odd 0`, `False`},
		{`Natural/toInteger 7`, `+7`},
		{`Natural/show 42`, `"42"`},
		{`Natural/fold 3 Natural (λ(x : Natural) → x + 2) 0`, `6`},
		{`Natural/fold 0 Natural (λ(x : Natural) → x + 2) 9`, `9`},
		{`Natural/build (λ(natural : Type) → λ(succ : natural → natural) → λ(zero : natural) → succ (succ zero))`, `2`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeIntegerDouble(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`Integer/show +3`, `"+3"`},
		{`Integer/show -3`, `"-3"`},
		{`Integer/show +0`, `"+0"`},
		{`Integer/toDouble +3`, `3.0`},
		{`Integer/toDouble -2`, `-2.0`},
		{`Double/show 3.5`, `"3.5"`},
		{`Double/show -0.25`, `"-0.25"`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeFusion(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`List/build Natural (List/fold Natural e)`, `e`},
		{`Natural/build (Natural/fold e)`, `e`},
		{`Optional/build Natural (Optional/fold Natural e)`, `e`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeRecordOps(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`{ a = 1 } ∧ { b = 2 }`, `{ a = 1, b = 2 }`},
		{`{ a = { b = 1 } } ∧ { a = { c = 2 } }`, `{ a = { b = 1, c = 2 } }`},
		{`{=} ∧ x`, `x`},
		{`x ∧ {=}`, `x`},
		{`{ a = 1 } ⫽ { a = 2 }`, `{ a = 2 }`},
		{`{=} ⫽ x`, `x`},
		{`x ⫽ {=}`, `x`},
		{`{ a : Natural } ⩓ { b : Bool }`, `{ a : Natural, b : Bool }`},
		{`{ a : { b : Natural } } ⩓ { a : { c : Bool } }`, `{ a : { b : Natural, c : Bool } }`},
		{`{ a = 1, b = 2 }.a`, `1`},
		{`{ a = 1, b = 2, c = 3 }.{ a, c }`, `{ a = 1, c = 3 }`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
	// Non-literal operands rebuild by congruence.
	e := Normalize(MustParse(`x ∧ { a = 1 }`))
	if e.Kind != ExprBinop || e.Op != OpCombine {
		t.Errorf("got %v", e)
	}
}

func TestNormalizeUnionOps(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{
			`merge { A = λ(n : Natural) → n + 1 } < A = 2 >`,
			`3`,
		},
		{
			`merge { A = λ(n : Natural) → n, B = λ(b : Bool) → 0 } < B = True | A : Natural >`,
			`0`,
		},
		{
			`< A : Natural | B : Bool >.A 5`,
			`< A = 5 | B : Bool >`,
		},
		{
			`constructors < A : Natural | B : Bool >`,
			`{ A = λ(A : Natural) → < A = A | B : Bool >, B = λ(B : Bool) → < B = B | A : Natural >}`,
		},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeEta(t *testing.T) {
	// Eta: \(x : t) -> f x reduces to f when x is not free in f.
	for _, c := range []struct{ src, want string }{
		{`λ(x : Natural) → f x`, `f`},
		{`λ(x : Natural) → g y x`, `g y`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
	// No eta when the variable is free in the function.
	e := Normalize(MustParse(`λ(x : Natural) → x x`))
	if e.Kind != ExprLam {
		t.Errorf("got %v, want lambda", e)
	}
}

func TestNormalizeAnnot(t *testing.T) {
	if got, want := normStr(`1 : Natural`), `1`; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalizeShadowedLet(t *testing.T) {
	for _, c := range []struct{ src, want string }{
		{`let x = 1 in let x = 2 in x`, `2`},
		{`let x = 1 in let x = x + 1 in x`, `2`},
		{`let x = 1 in λ(x : Natural) → x`, `λ(x : Natural) → x`},
		{`(λ(x : Natural) → λ(y : Natural) → x) y`, `λ(y : Natural) → y@1`},
	} {
		if got, want := normStr(c.src), normStr(c.want); got != want {
			t.Errorf("normalize %q: got %v, want %v", c.src, got, want)
		}
	}
}

func TestNormalizeImportsUntouched(t *testing.T) {
	for _, src := range []string{
		`./config/base`,
		`env:FOO ? missing`,
		`https://example.com/a/b sha256:` + mockHash,
		`./a/b ? ./c/d`,
	} {
		e := MustParse(src)
		if got := Normalize(e); !got.Equal(e) {
			t.Errorf("normalize %q: got %v, want unchanged", src, got)
		}
		if !IsNormalized(e) {
			t.Errorf("%q not reported normalized", src)
		}
	}
	// Imports inside reducible expressions still reduce around the
	// import.
	e := Normalize(MustParse(`{ a = ./x/y, b = 1 + 1 }`))
	if e.Fields[0].Expr.Kind != ExprImport {
		t.Errorf("import was disturbed: %v", e)
	}
	if !e.Fields[1].Expr.Equal(NewNat(2)) {
		t.Errorf("congruence did not reduce: %v", e)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, src := range []string{
		`(λ(x : Natural) → x + 1) 2`,
		`let x = 1 in x + x`,
		`λ(x : Natural) → (λ(y : Natural) → y) x`,
		`List/fold Natural [1, 2, 3] Natural (λ(x : Natural) → λ(acc : Natural) → x + acc) 0`,
		`merge {=} <>:Natural`,
		`{ a = 1, b = 2 } ⫽ { b = 3, c = 4 }`,
		`"hello ${"world"}${x}"`,
		`constructors < A : Natural | B : Bool >`,
		`Natural/build (λ(natural : Type) → λ(succ : natural → natural) → λ(zero : natural) → succ zero)`,
		`x && (y || z)`,
		`f x y`,
	} {
		once := Normalize(MustParse(src))
		twice := Normalize(once)
		if diff := cmp.Diff(once, twice, cmpBig); diff != "" {
			t.Errorf("normalize %q not idempotent (-once +twice):\n%s", src, diff)
		}
		if !IsNormalized(once) {
			t.Errorf("normal form of %q not reported normalized", src)
		}
	}
}

func TestIsNormalized(t *testing.T) {
	for _, c := range []struct {
		src  string
		norm bool
	}{
		{`1`, true},
		{`1 + 1`, false},
		{`x + y`, true},
		{`λ(x : Natural) → x`, true},
		{`λ(x : Natural) → f x`, false},
		{`(λ(x : Natural) → x) 1`, false},
		{`let x = 1 in x`, false},
		{`Some 1`, true},
		{`None Natural`, true},
	} {
		if got := IsNormalized(MustParse(c.src)); got != c.norm {
			t.Errorf("isNormalized %q: got %v, want %v", c.src, got, c.norm)
		}
	}
}

func TestNormalizeWithUserRule(t *testing.T) {
	// A user rule rewriting the variable head "double" applied to a
	// natural literal.
	double := func(spine []*Expr) *Expr {
		if len(spine) != 2 || spine[0].Kind != ExprVar || spine[0].Ident != "double" {
			return nil
		}
		if n, ok := spine[1].NaturalLit(); ok {
			return NewNatBig(new(big.Int).Add(n, n))
		}
		return nil
	}
	e := MustParse(`double (1 + 2)`)
	got := NormalizeWith(double, e)
	if !got.Equal(NewNat(6)) {
		t.Errorf("got %v, want 6", got)
	}
	// The rule declines non-literal arguments; the builtin rules are
	// still consulted.
	e = MustParse(`double (Natural/isZero 0)`)
	got = NormalizeWith(double, e)
	want := MustParse(`double True`)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if IsNormalizedWith(double, MustParse(`double 2`)) {
		t.Error("reducible spine reported normalized")
	}
	if !IsNormalizedWith(double, MustParse(`double x`)) {
		t.Error("irreducible spine reported un-normalized")
	}
}

const mockHash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
