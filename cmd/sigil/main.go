// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Sigil is the command-line frontend for the Sigil configuration
// language. It parses and normalizes Sigil expressions.
//
// Usage:
//
//	sigil [-fmt | -check] [-alpha] [-log level] [-e expr] [path ...]
//
// With -e, the given expression is processed; otherwise each named
// file is processed. Files are parsed and normalized concurrently
// and their results printed in argument order. The -fmt flag prints
// the canonical form without normalizing; -check reports files whose
// contents are not already in normal form; -alpha additionally
// alpha-normalizes output.
package main

import (
	"flag"
	"fmt"
	golog "log"
	"os"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/sigil/log"
	"github.com/grailbio/sigil/syntax"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: sigil [-fmt | -check] [-alpha] [-log level] [-e expr] [path ...]`)
	flag.PrintDefaults()
	os.Exit(2)
}

type tool struct {
	format bool
	check  bool
	alpha  bool

	log  *log.Logger
	sess *syntax.Session
}

// process renders the result for a single parsed expression. The
// boolean result reports whether the expression passed -check.
func (t *tool) process(e *syntax.Expr) (string, bool) {
	switch {
	case t.format:
		return e.String(), true
	case t.check:
		return "", syntax.IsNormalized(e)
	}
	n := syntax.Normalize(e)
	if t.alpha {
		n = syntax.AlphaNormalize(n)
	}
	return n.String(), true
}

// runFiles opens, parses, and processes the named files
// concurrently, printing results in argument order. It returns the
// number of failed files.
func (t *tool) runFiles(w *os.File, paths []string) int {
	type result struct {
		out string
		ok  bool
		err error
	}
	results := make([]result, len(paths))
	_ = traverse.Limit(8).Each(len(paths), func(i int) error {
		e, err := t.sess.Open(paths[i])
		if err != nil {
			results[i] = result{err: err}
			return nil
		}
		out, ok := t.process(e)
		results[i] = result{out: out, ok: ok}
		return nil
	})
	var failed int
	for i, r := range results {
		switch {
		case r.err != nil:
			t.log.Error(r.err)
			failed++
		case !r.ok:
			t.log.Errorf("%s: not in normal form", paths[i])
			failed++
		case !t.check:
			fmt.Fprintln(w, r.out)
		}
	}
	return failed
}

func main() {
	var (
		expr     = flag.String("e", "", "process the given expression instead of files")
		format   = flag.Bool("fmt", false, "print the canonical form without normalizing")
		check    = flag.Bool("check", false, "report inputs that are not in normal form")
		alpha    = flag.Bool("alpha", false, "alpha-normalize output")
		logLevel = flag.String("log", "info", "log level: off, error, info, or debug")
	)
	flag.Usage = usage
	flag.Parse()

	var level log.Level
	switch *logLevel {
	case "off":
		level = log.OffLevel
	case "error":
		level = log.ErrorLevel
	case "info":
		level = log.InfoLevel
	case "debug":
		level = log.DebugLevel
	default:
		fmt.Fprintf(os.Stderr, "unrecognized log level %v\n", *logLevel)
		flag.Usage()
	}
	logger := log.New(golog.New(os.Stderr, "", 0), level)

	t := &tool{
		format: *format,
		check:  *check,
		alpha:  *alpha,
		log:    logger,
		sess:   syntax.NewSession(),
	}
	if *format && *check {
		fmt.Fprintln(os.Stderr, "-fmt and -check are mutually exclusive")
		flag.Usage()
	}

	if *expr != "" {
		if flag.NArg() > 0 {
			flag.Usage()
		}
		e, err := syntax.ParseString("<arg>", *expr)
		if err != nil {
			logger.Error(err)
			os.Exit(1)
		}
		out, ok := t.process(e)
		if !ok {
			logger.Error("expression is not in normal form")
			os.Exit(1)
		}
		if !t.check {
			fmt.Println(out)
		}
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
	}
	if failed := t.runFiles(os.Stdout, flag.Args()); failed > 0 {
		os.Exit(1)
	}
}
