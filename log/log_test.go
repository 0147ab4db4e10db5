// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package log

import "testing"

type testOutputter struct {
	msgs []string
}

func (t *testOutputter) Output(calldepth int, s string) error {
	t.msgs = append(t.msgs, s)
	return nil
}

func TestLevels(t *testing.T) {
	var out testOutputter
	l := New(&out, InfoLevel)
	l.Debug("debug")
	l.Print("info")
	l.Error("error")
	if got, want := len(out.msgs), 2; got != want {
		t.Fatalf("got %v messages, want %v", got, want)
	}
	if got, want := out.msgs[0], "info"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := out.msgs[1], "error"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if l.At(DebugLevel) {
		t.Error("logger unexpectedly at debug level")
	}
	if !l.At(ErrorLevel) {
		t.Error("logger not at error level")
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Print("dropped")
	l.Errorf("dropped %d", 1)
	if l.At(ErrorLevel) {
		t.Error("nil logger is at error level")
	}
	if New(&testOutputter{}, OffLevel) != nil {
		t.Error("off-level logger should be nil")
	}
}
