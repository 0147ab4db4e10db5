// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/grailbio/base/sync/once"
	"github.com/grailbio/sigil/errors"
)

// A Session is a parsing session. It opens and parses source files,
// caching the result per absolute path so that tools sharing a
// session parse each file exactly once, even when files are opened
// concurrently. Sessions perform no import resolution: the returned
// expressions may contain unresolved import nodes.
type Session struct {
	mu    sync.Mutex
	exprs map[string]*Expr

	// parseOnce makes sure each file is read and parsed only once.
	parseOnce once.Map
}

// NewSession creates and initializes a session.
func NewSession() *Session {
	return &Session{exprs: map[string]*Expr{}}
}

// Open reads and parses the source file at the given path, returning
// its expression. Results, including failures, are cached.
func (s *Session) Open(path string) (*Expr, error) {
	abspath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	err = s.parseOnce.Do(abspath, func() error {
		b, err := ioutil.ReadFile(abspath)
		if err != nil {
			return errors.E(errors.NotExist, "open "+path, err)
		}
		e, err := ParseString(path, string(b))
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.exprs[abspath] = e
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exprs[abspath], nil
}
