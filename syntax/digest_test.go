// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import "testing"

func TestDigestAlphaInvariant(t *testing.T) {
	for _, c := range []struct{ a, b string }{
		{`\(x : Natural) -> x`, `\(y : Natural) -> y`},
		{`forall (a : Type) -> a -> a`, `forall (b : Type) -> b -> b`},
		{`let x = 1 in x`, `let y = 1 in y`},
		{`\(x : Natural) -> \(y : Natural) -> x`, `\(a : Natural) -> \(b : Natural) -> a`},
	} {
		da := MustParse(c.a).Digest()
		db := MustParse(c.b).Digest()
		if da != db {
			t.Errorf("digests of alpha-equivalent %q and %q differ", c.a, c.b)
		}
	}
}

func TestDigestDistinct(t *testing.T) {
	exprs := []string{
		`1`,
		`+1`,
		`1.0`,
		`"1"`,
		`x`,
		`x@1`,
		`y`,
		`\(x : Natural) -> x`,
		`\(x : Natural) -> y`,
		`[1]`,
		`{ a = 1 }`,
		`{ a : Natural }`,
		`< a : Natural >`,
		`./a/b`,
		`../a/b`,
		`Natural`,
		`Type`,
	}
	seen := make(map[string]string)
	for _, src := range exprs {
		d := MustParse(src).Digest().String()
		if prev, ok := seen[d]; ok {
			t.Errorf("digest collision between %q and %q", prev, src)
		}
		seen[d] = src
	}
}

func TestJudgmentallyEqual(t *testing.T) {
	for _, c := range []struct {
		a, b  string
		equal bool
	}{
		{`(\(x : Natural) -> x + 1) 2`, `3`, true},
		{`\(x : Natural) -> x`, `\(y : Natural) -> y`, true},
		{`\(x : Natural) -> f x`, `f`, true},
		{`1 + 1`, `2`, true},
		{`1`, `2`, false},
		{`\(x : Natural) -> x`, `\(x : Bool) -> x`, false},
	} {
		if got := JudgmentallyEqual(MustParse(c.a), MustParse(c.b)); got != c.equal {
			t.Errorf("judgmentallyEqual(%q, %q): got %v, want %v", c.a, c.b, got, c.equal)
		}
	}
}

func TestDoubleDigestBitExact(t *testing.T) {
	// 0.0 and -0.0 are distinct doubles.
	a := NewDouble(0.0)
	b := NewDouble(negZero())
	if a.Equal(b) {
		t.Error("0.0 and -0.0 compare equal")
	}
	if a.Digest() == b.Digest() {
		t.Error("0.0 and -0.0 digest equal")
	}
}

func negZero() float64 {
	z := 0.0
	return -z
}
