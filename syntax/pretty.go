// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"strings"
)

// This file implements the canonical printer: every expression
// renders to source text that reparses to an equal expression. The
// printer uses ASCII operator spellings and parenthesizes by the
// operator ladder.

// Printer precedence contexts, tightest last. Binary operators
// occupy one level each, in ladder order.
const (
	precExpr   = 0
	precOpBase = 1
)

var (
	precApp    = precOpBase + len(opLevels)
	precImport = precApp + 1
	precPrim   = precImport + 1
)

var opPrec = func() map[Op]int {
	m := make(map[Op]int)
	for i, lv := range opLevels {
		m[lv.op] = precOpBase + i
	}
	return m
}()

// level returns the loosest context in which e prints without
// parentheses.
func (e *Expr) level() int {
	switch e.Kind {
	case ExprLam, ExprPi, ExprLet, ExprBoolIf, ExprAnnot:
		return precExpr
	case ExprOptionalLit:
		return precExpr
	case ExprListLit:
		if len(e.List) == 0 && e.Annot != nil {
			return precExpr
		}
		return precPrim
	case ExprBinop:
		return opPrec[e.Op]
	case ExprApp, ExprMerge, ExprConstructors, ExprSome:
		return precApp
	case ExprField, ExprProject, ExprImport:
		return precImport
	default:
		return precPrim
	}
}

// String returns the canonical source rendering of e.
func (e *Expr) String() string {
	var b bytes.Buffer
	e.pretty(&b, precExpr)
	return b.String()
}

func (e *Expr) pretty(b *bytes.Buffer, prec int) {
	if e.level() < prec {
		b.WriteString("(")
		e.pretty(b, precExpr)
		b.WriteString(")")
		return
	}
	switch e.Kind {
	case ExprError:
		b.WriteString("<error>")
	case ExprVar:
		writeLabel(b, e.Ident)
		if e.Index > 0 {
			fmt.Fprintf(b, "@%d", e.Index)
		}
	case ExprUniverse:
		b.WriteString(e.Univ.String())
	case ExprBuiltin:
		b.WriteString(e.Builtin.String())
	case ExprBoolLit:
		if e.Bool {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case ExprNaturalLit:
		b.WriteString(e.Nat.String())
	case ExprIntegerLit:
		if e.Int.Sign() >= 0 {
			b.WriteString("+")
		}
		b.WriteString(e.Int.String())
	case ExprDoubleLit:
		b.WriteString(formatDouble(e.Double))
	case ExprTextLit:
		writeText(b, e)
	case ExprLam:
		b.WriteString(`\(`)
		writeLabel(b, e.Ident)
		b.WriteString(" : ")
		e.Left.pretty(b, precExpr)
		b.WriteString(") -> ")
		e.Right.pretty(b, precExpr)
	case ExprPi:
		if e.Ident == "_" {
			e.Left.pretty(b, precOpBase)
			b.WriteString(" -> ")
			e.Right.pretty(b, precExpr)
			break
		}
		b.WriteString("forall (")
		writeLabel(b, e.Ident)
		b.WriteString(" : ")
		e.Left.pretty(b, precExpr)
		b.WriteString(") -> ")
		e.Right.pretty(b, precExpr)
	case ExprLet:
		b.WriteString("let ")
		writeLabel(b, e.Ident)
		if e.Annot != nil {
			b.WriteString(" : ")
			e.Annot.pretty(b, precExpr)
		}
		b.WriteString(" = ")
		e.Left.pretty(b, precExpr)
		b.WriteString(" in ")
		e.Right.pretty(b, precExpr)
	case ExprAnnot:
		e.Left.pretty(b, precOpBase)
		b.WriteString(" : ")
		e.Annot.pretty(b, precExpr)
	case ExprBoolIf:
		b.WriteString("if ")
		e.Cond.pretty(b, precExpr)
		b.WriteString(" then ")
		e.Left.pretty(b, precExpr)
		b.WriteString(" else ")
		e.Right.pretty(b, precExpr)
	case ExprBinop:
		p := opPrec[e.Op]
		e.Left.pretty(b, p)
		b.WriteString(" ")
		b.WriteString(e.Op.String())
		b.WriteString(" ")
		e.Right.pretty(b, p+1)
	case ExprApp:
		e.Left.pretty(b, precApp)
		b.WriteString(" ")
		e.Right.pretty(b, precImport)
	case ExprSome:
		b.WriteString("Some ")
		e.Left.pretty(b, precImport)
	case ExprConstructors:
		b.WriteString("constructors ")
		e.Left.pretty(b, precImport)
	case ExprMerge:
		b.WriteString("merge ")
		e.Left.pretty(b, precImport)
		b.WriteString(" ")
		e.Right.pretty(b, precImport)
		if e.Annot != nil {
			b.WriteString(" : ")
			e.Annot.pretty(b, precApp)
		}
	case ExprListLit:
		if len(e.List) == 0 {
			b.WriteString("[]")
			if e.Annot != nil {
				b.WriteString(" : List ")
				e.Annot.pretty(b, precImport)
			}
			break
		}
		b.WriteString("[")
		for i, x := range e.List {
			if i > 0 {
				b.WriteString(", ")
			}
			x.pretty(b, precExpr)
		}
		b.WriteString("]")
	case ExprOptionalLit:
		if e.Left == nil {
			b.WriteString("[] : Optional ")
		} else {
			b.WriteString("[")
			e.Left.pretty(b, precExpr)
			b.WriteString("] : Optional ")
		}
		e.Annot.pretty(b, precImport)
	case ExprRecord:
		if len(e.Fields) == 0 {
			b.WriteString("{}")
			break
		}
		writeFields(b, e.Fields, ":", "{", "}")
	case ExprRecordLit:
		if len(e.Fields) == 0 {
			b.WriteString("{=}")
			break
		}
		writeFields(b, e.Fields, "=", "{", "}")
	case ExprUnion:
		if len(e.Fields) == 0 {
			b.WriteString("<>")
			break
		}
		b.WriteString("< ")
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteString(" | ")
			}
			writeLabel(b, f.Name)
			b.WriteString(" : ")
			f.Expr.pretty(b, precExpr)
		}
		b.WriteString(" >")
	case ExprUnionLit:
		b.WriteString("< ")
		writeLabel(b, e.Ident)
		b.WriteString(" = ")
		e.Left.pretty(b, precExpr)
		for _, f := range e.Fields {
			b.WriteString(" | ")
			writeLabel(b, f.Name)
			b.WriteString(" : ")
			f.Expr.pretty(b, precExpr)
		}
		b.WriteString(" >")
	case ExprField:
		e.writeSelectorLeft(b)
		b.WriteString(".")
		writeLabel(b, e.Ident)
	case ExprProject:
		e.writeSelectorLeft(b)
		b.WriteString(".{")
		for i, l := range e.Labels {
			if i > 0 {
				b.WriteString(", ")
			}
			writeLabel(b, l)
		}
		b.WriteString("}")
	case ExprImport:
		writeImport(b, e.Import)
	}
}

// writeSelectorLeft prints the record operand of a field access or
// projection. Imports are parenthesized so the ".label" suffix is
// not read back as part of the import's path.
func (e *Expr) writeSelectorLeft(b *bytes.Buffer) {
	if e.Left.Kind == ExprImport {
		b.WriteString("(")
		e.Left.pretty(b, precExpr)
		b.WriteString(")")
		return
	}
	e.Left.pretty(b, precImport)
}

func writeFields(b *bytes.Buffer, fields []*FieldExpr, sep, open, close string) {
	b.WriteString(open)
	b.WriteString(" ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		writeLabel(b, f.Name)
		b.WriteString(" ")
		b.WriteString(sep)
		b.WriteString(" ")
		f.Expr.pretty(b, precExpr)
	}
	b.WriteString(" ")
	b.WriteString(close)
}

// writeLabel prints a label, backtick-quoting it when it is reserved
// or not a simple label.
func writeLabel(b *bytes.Buffer, name string) {
	simple := name != "" && (isAlpha(rune(name[0])) || name[0] == '_')
	if simple {
		for _, r := range name {
			if !isLabelChar(r) {
				simple = false
				break
			}
		}
	}
	if simple && !reserved[name] {
		b.WriteString(name)
		return
	}
	b.WriteString("`")
	b.WriteString(name)
	b.WriteString("`")
}

// writeText prints a double-quoted text literal with escapes and
// interpolations.
func writeText(b *bytes.Buffer, e *Expr) {
	b.WriteString(`"`)
	for _, c := range e.Chunks {
		writeEscaped(b, c.Prefix)
		b.WriteString("${")
		c.Expr.pretty(b, precExpr)
		b.WriteString("}")
	}
	writeEscaped(b, e.Suffix)
	b.WriteString(`"`)
}

func writeEscaped(b *bytes.Buffer, s string) {
	for i, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '$':
			// A literal "${" must not read back as interpolation.
			if strings.HasPrefix(s[i:], "${") {
				b.WriteString(`\u0024`)
			} else {
				b.WriteString("$")
			}
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
}

func writeImport(b *bytes.Buffer, imp *Import) {
	switch imp.Kind {
	case ImportMissing:
		b.WriteString("missing")
	case ImportLocal:
		switch imp.Origin {
		case OriginHere:
			b.WriteString(".")
		case OriginParent:
			b.WriteString("..")
		case OriginHome:
			b.WriteString("~")
		}
		for _, d := range imp.Dir {
			b.WriteString("/")
			b.WriteString(d)
		}
		b.WriteString("/")
		b.WriteString(imp.File)
	case ImportRemote:
		b.WriteString(imp.Scheme)
		b.WriteString("://")
		b.WriteString(imp.Authority)
		for _, d := range imp.Dir {
			b.WriteString("/")
			b.WriteString(d)
		}
		b.WriteString("/")
		b.WriteString(imp.File)
		if imp.Query != nil {
			b.WriteString("?")
			b.WriteString(*imp.Query)
		}
		if imp.Fragment != nil {
			b.WriteString("#")
			b.WriteString(*imp.Fragment)
		}
		if imp.Headers != nil {
			b.WriteString(" using (")
			writeImport(b, imp.Headers)
			b.WriteString(")")
		}
	case ImportEnv:
		b.WriteString("env:")
		if imp.Raw {
			b.WriteString(`"`)
			for _, r := range imp.Name {
				switch r {
				case '"', '\\':
					b.WriteString(`\`)
					b.WriteRune(r)
				case '\a':
					b.WriteString(`\a`)
				case '\b':
					b.WriteString(`\b`)
				case '\f':
					b.WriteString(`\f`)
				case '\n':
					b.WriteString(`\n`)
				case '\r':
					b.WriteString(`\r`)
				case '\t':
					b.WriteString(`\t`)
				case '\v':
					b.WriteString(`\v`)
				default:
					b.WriteRune(r)
				}
			}
			b.WriteString(`"`)
		} else {
			b.WriteString(imp.Name)
		}
	}
	if imp.Hash != "" {
		b.WriteString(" sha256:")
		b.WriteString(imp.Hash)
	}
	if imp.Mode == ImportRawText {
		b.WriteString(" as Text")
	}
}
