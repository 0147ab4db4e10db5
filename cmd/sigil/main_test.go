// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/sigil/log"
	"github.com/grailbio/sigil/syntax"
)

func TestProcess(t *testing.T) {
	tl := &tool{sess: syntax.NewSession()}
	e, err := syntax.ParseString("", "let x = 2 in x * x")
	require.NoError(t, err)

	out, ok := tl.process(e)
	require.True(t, ok)
	assert.Equal(t, "4", out)

	tl.format = true
	out, ok = tl.process(e)
	require.True(t, ok)
	assert.Equal(t, "let x = 2 in x * x", out)

	tl.format = false
	tl.check = true
	_, ok = tl.process(e)
	assert.False(t, ok, "reducible expression passed -check")
	_, ok = tl.process(syntax.MustParse("4"))
	assert.True(t, ok)
}

func TestProcessAlpha(t *testing.T) {
	tl := &tool{alpha: true, sess: syntax.NewSession()}
	e := syntax.MustParse(`\(x : Natural) -> x + free`)
	out, ok := tl.process(e)
	require.True(t, ok)
	assert.Equal(t, `\(_ : Natural) -> _ + free`, out)
}

func TestRunFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "sigil")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	good := filepath.Join(dir, "good.sigil")
	require.NoError(t, ioutil.WriteFile(good, []byte("1 + 1"), 0666))
	bad := filepath.Join(dir, "bad.sigil")
	require.NoError(t, ioutil.WriteFile(bad, []byte("let !!"), 0666))

	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer devnull.Close()

	tl := &tool{log: log.New(nullOutputter{}, log.ErrorLevel), sess: syntax.NewSession()}
	assert.Equal(t, 0, tl.runFiles(devnull, []string{good}))
	assert.Equal(t, 1, tl.runFiles(devnull, []string{good, bad}))
}

type nullOutputter struct{}

func (nullOutputter) Output(calldepth int, s string) error { return nil }
