// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package errors

import (
	"strings"
	"testing"
)

type pos string

func (p pos) String() string { return string(p) }

func TestE(t *testing.T) {
	err := E(Parse, pos("x.sigil:3:7"), "unexpected input")
	e := Recover(err)
	if e.Kind != Parse {
		t.Errorf("got kind %v, want Parse", e.Kind)
	}
	if got, want := e.Error(), "x.sigil:3:7: unexpected input"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestChain(t *testing.T) {
	inner := E(NotExist, "no such file")
	outer := E("open config", inner)
	e := Recover(outer)
	if e.Kind != NotExist {
		t.Errorf("kind not lifted from chain: %v", e.Kind)
	}
	if !Is(NotExist, outer) {
		t.Error("Is(NotExist) is false")
	}
	if Is(Parse, outer) {
		t.Error("Is(Parse) is true")
	}
	if !strings.Contains(e.Error(), Separator) {
		t.Errorf("chained render missing separator: %q", e.Error())
	}
	if e.Unwrap() == nil {
		t.Error("unwrap lost the chain")
	}
}

func TestRecover(t *testing.T) {
	if Recover(nil) != nil {
		t.Error("recover of nil is non-nil")
	}
	e := Recover(New("plain"))
	if e.Kind != Other || e.Message != "plain" {
		t.Errorf("got %+v", e)
	}
}
