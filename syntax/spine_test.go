// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import "testing"

func TestSpine(t *testing.T) {
	e := MustParse(`f a b c`)
	spine := Spine(e)
	if got, want := len(spine), 4; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, want := range []string{"f", "a", "b", "c"} {
		if spine[i].Ident != want {
			t.Errorf("spine[%d]: got %v, want %v", i, spine[i].Ident, want)
		}
	}
	if got := Unspine(spine); !got.Equal(e) {
		t.Errorf("unspine: got %v, want %v", got, e)
	}
}

func TestSpineNonApp(t *testing.T) {
	e := NewNat(1)
	spine := Spine(e)
	if len(spine) != 1 || spine[0] != e {
		t.Fatalf("got %v", spine)
	}
	if got := Unspine(spine); got != e {
		t.Errorf("unspine of singleton changed identity")
	}
}

func TestSpineOf(t *testing.T) {
	e := MustParse(`List/fold Natural xs`)
	args, ok := spineOf(e, BuiltinListFold, 2)
	if !ok || len(args) != 2 {
		t.Fatalf("got %v, %v", args, ok)
	}
	if _, ok := spineOf(e, BuiltinListFold, 3); ok {
		t.Error("arity mismatch unexpectedly matched")
	}
	if _, ok := spineOf(e, BuiltinListBuild, 2); ok {
		t.Error("head mismatch unexpectedly matched")
	}
	if !isBuiltin(MustParse(`Natural/build`), BuiltinNaturalBuild) {
		t.Error("bare builtin not recognized")
	}
	if isBuiltin(MustParse(`Natural/build x`), BuiltinNaturalBuild) {
		t.Error("applied builtin recognized as bare")
	}
}
