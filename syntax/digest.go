// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"crypto"
	_ "crypto/sha256" // required for Digester
	"encoding/binary"
	"io"
	"math"

	"github.com/grailbio/base/digest"
)

// Digester is the digester used to compute expression digests.
var Digester = digest.Digester(crypto.SHA256)

// Digest computes a digest of e that is invariant under renaming of
// bound variables: alpha-equivalent expressions digest equally, and
// structurally distinct alpha-normal forms digest differently (up to
// hash collision). The digest of a normalized expression therefore
// identifies its judgmental equality class and may serve as a cache
// key.
func (e *Expr) Digest() digest.Digest {
	w := Digester.NewWriter()
	AlphaNormalize(e).digest(w)
	return w.Digest()
}

// JudgmentallyEqual tells whether a and b normalize to
// alpha-equivalent expressions.
func JudgmentallyEqual(a, b *Expr) bool {
	return AlphaNormalize(Normalize(a)).Equal(AlphaNormalize(Normalize(b)))
}

func writeN(w io.Writer, n int) {
	var buf [binary.MaxVarintLen64]byte
	k := binary.PutVarint(buf[:], int64(n))
	w.Write(buf[:k])
}

func writeString(w io.Writer, s string) {
	writeN(w, len(s))
	io.WriteString(w, s)
}

func writeSub(w io.Writer, e *Expr) {
	if e == nil {
		writeN(w, 0)
		return
	}
	writeN(w, 1)
	e.digest(w)
}

// digest writes e's structure to w. The encoding is unambiguous:
// every node writes its kind tag, variable-length sizes prefix every
// sequence, and optional children write a presence marker.
func (e *Expr) digest(w io.Writer) {
	writeN(w, int(e.Kind))
	switch e.Kind {
	case ExprVar:
		writeString(w, e.Ident)
		writeN(w, e.Index)
	case ExprUniverse:
		writeN(w, int(e.Univ))
	case ExprBuiltin:
		writeN(w, int(e.Builtin))
	case ExprBoolLit:
		if e.Bool {
			writeN(w, 1)
		} else {
			writeN(w, 0)
		}
	case ExprNaturalLit:
		writeString(w, string(e.Nat.Bytes()))
	case ExprIntegerLit:
		writeN(w, e.Int.Sign())
		writeString(w, string(e.Int.Bytes()))
	case ExprDoubleLit:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e.Double))
		w.Write(buf[:])
	case ExprTextLit:
		writeN(w, len(e.Chunks))
		for _, c := range e.Chunks {
			writeString(w, c.Prefix)
			c.Expr.digest(w)
		}
		writeString(w, e.Suffix)
	case ExprBinop:
		writeN(w, int(e.Op))
	case ExprLam, ExprPi, ExprLet, ExprField, ExprUnionLit:
		writeString(w, e.Ident)
	case ExprProject:
		writeN(w, len(e.Labels))
		for _, l := range e.Labels {
			writeString(w, l)
		}
	case ExprImport:
		e.Import.digest(w)
	}
	writeSub(w, e.Cond)
	writeSub(w, e.Left)
	writeSub(w, e.Right)
	writeSub(w, e.Annot)
	writeN(w, len(e.List))
	for _, x := range e.List {
		x.digest(w)
	}
	writeN(w, len(e.Fields))
	for _, f := range e.Fields {
		writeString(w, f.Name)
		f.Expr.digest(w)
	}
}

func (i *Import) digest(w io.Writer) {
	writeN(w, int(i.Kind))
	writeN(w, int(i.Mode))
	writeString(w, i.Hash)
	switch i.Kind {
	case ImportLocal:
		writeN(w, int(i.Origin))
		writeN(w, len(i.Dir))
		for _, d := range i.Dir {
			writeString(w, d)
		}
		writeString(w, i.File)
	case ImportRemote:
		writeString(w, i.Scheme)
		writeString(w, i.Authority)
		writeN(w, len(i.Dir))
		for _, d := range i.Dir {
			writeString(w, d)
		}
		writeString(w, i.File)
		for _, opt := range []*string{i.Query, i.Fragment} {
			if opt == nil {
				writeN(w, 0)
			} else {
				writeN(w, 1)
				writeString(w, *opt)
			}
		}
		if i.Headers == nil {
			writeN(w, 0)
		} else {
			writeN(w, 1)
			i.Headers.digest(w)
		}
	case ImportEnv:
		writeString(w, i.Name)
		if i.Raw {
			writeN(w, 1)
		} else {
			writeN(w, 0)
		}
	}
}
