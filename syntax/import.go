// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import "strings"

// Import reference grammar. The parser records references only;
// fetching, hash verification, and header evaluation belong to the
// import resolver.

// importRef parses an import reference with its optional "as Text"
// marker.
func (p *parser) importRef() (*Expr, bool) {
	start := p.pos
	imp, ok := p.importHashed()
	if !ok {
		return nil, false
	}
	save := p.pos
	if p.ws1() && p.kw1("as") && p.kw("Text") {
		imp.Mode = ImportRawText
	} else {
		p.pos = save
	}
	return &Expr{Position: p.position(start), Kind: ExprImport, Import: imp}, true
}

// importHashed parses an import type with an optional sha256
// content pin.
func (p *parser) importHashed() (*Import, bool) {
	imp, ok := p.importType()
	if !ok {
		return nil, false
	}
	save := p.pos
	if p.ws1() && p.lit("sha256:") {
		start := p.pos
		for !p.eof() && isHexDigit(p.peek()) {
			p.next()
		}
		if p.pos-start == 64 {
			imp.Hash = p.src[start:p.pos]
			return imp, true
		}
	}
	p.pos = save
	return imp, true
}

func (p *parser) importType() (*Import, bool) {
	if p.kw("missing") {
		return &Import{Kind: ImportMissing}, true
	}
	if imp, ok := p.envImport(); ok {
		return imp, true
	}
	if imp, ok := p.remoteImport(); ok {
		return imp, true
	}
	return p.localImport()
}

// envImport parses env:NAME (bash form) or env:"..." (quoted POSIX
// form with backslash escapes).
func (p *parser) envImport() (*Import, bool) {
	save := p.pos
	if !p.lit("env:") {
		return nil, false
	}
	if p.peek() == '"' {
		p.next()
		var b strings.Builder
		for {
			if p.eof() {
				p.pos = save
				return nil, p.fail()
			}
			r := p.next()
			switch r {
			case '"':
				return &Import{Kind: ImportEnv, Name: b.String(), Raw: true}, true
			case '\\':
				if p.eof() {
					p.pos = save
					return nil, p.fail()
				}
				switch esc := p.next(); esc {
				case '"', '\\':
					b.WriteRune(esc)
				case 'a':
					b.WriteByte('\a')
				case 'b':
					b.WriteByte('\b')
				case 'f':
					b.WriteByte('\f')
				case 'n':
					b.WriteByte('\n')
				case 'r':
					b.WriteByte('\r')
				case 't':
					b.WriteByte('\t')
				case 'v':
					b.WriteByte('\v')
				default:
					p.pos = save
					return nil, p.fail()
				}
			default:
				b.WriteRune(r)
			}
		}
	}
	start := p.pos
	if r := p.peek(); !isAlpha(r) && r != '_' {
		p.pos = save
		return nil, p.fail()
	}
	p.next()
	for !p.eof() {
		if r := p.peek(); isAlpha(r) || isDigit(r) || r == '_' {
			p.next()
			continue
		}
		break
	}
	return &Import{Kind: ImportEnv, Name: p.src[start:p.pos]}, true
}

func isAuthorityChar(r rune) bool {
	return isAlpha(r) || isDigit(r) || strings.ContainsRune(":@.-_~%!$&'*+,;=", r)
}

func isQueryChar(r rune) bool {
	return isAlpha(r) || isDigit(r) || strings.ContainsRune("-._~!$&'*+,;=:@/?%", r)
}

// remoteImport parses http(s)://authority/path[?query][#fragment],
// optionally followed by a "using" headers import.
func (p *parser) remoteImport() (*Import, bool) {
	save := p.pos
	var scheme string
	switch {
	case p.lit("https://"):
		scheme = "https"
	case p.lit("http://"):
		scheme = "http"
	default:
		return nil, false
	}
	start := p.pos
	for !p.eof() && isAuthorityChar(p.peek()) {
		p.next()
	}
	authority := p.src[start:p.pos]
	if authority == "" {
		p.pos = save
		return nil, p.fail()
	}
	comps, ok := p.pathComponents()
	if !ok {
		p.pos = save
		return nil, false
	}
	imp := &Import{
		Kind:      ImportRemote,
		Scheme:    scheme,
		Authority: authority,
		Dir:       comps[:len(comps)-1],
		File:      comps[len(comps)-1],
	}
	if p.lit("?") {
		qstart := p.pos
		for !p.eof() && isQueryChar(p.peek()) {
			p.next()
		}
		q := p.src[qstart:p.pos]
		imp.Query = &q
	}
	if p.lit("#") {
		fstart := p.pos
		for !p.eof() && isQueryChar(p.peek()) {
			p.next()
		}
		f := p.src[fstart:p.pos]
		imp.Fragment = &f
	}
	hsave := p.pos
	if p.ws1() && p.kw1("using") {
		if p.lit("(") {
			p.ws()
			h, ok := p.importHashed()
			if !ok {
				p.pos = save
				return nil, false
			}
			p.ws()
			if !p.lit(")") {
				p.pos = save
				return nil, false
			}
			imp.Headers = h
			return imp, true
		}
		h, ok := p.importHashed()
		if !ok {
			p.pos = save
			return nil, false
		}
		imp.Headers = h
		return imp, true
	}
	p.pos = hsave
	return imp, true
}

// isPathChar tells whether r may appear in a path component. The
// set excludes whitespace and every delimiter that may follow an
// import in expression position.
func isPathChar(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '/', '\\', '(', ')', '[', ']', '{', '}',
		'<', '>', ',', ':', ';', '=', '"', '\'', '`', '|', '?', '#':
		return false
	}
	return r > ' '
}

// pathComponents parses one or more /component segments.
func (p *parser) pathComponents() ([]string, bool) {
	var comps []string
	for {
		save := p.pos
		if !p.lit("/") {
			break
		}
		start := p.pos
		for !p.eof() && isPathChar(p.peek()) {
			p.next()
		}
		if p.pos == start {
			p.pos = save
			break
		}
		comps = append(comps, p.src[start:p.pos])
	}
	if len(comps) == 0 {
		return nil, p.fail()
	}
	return comps, true
}

// localImport parses ./, ../, ~/, and absolute filesystem imports.
func (p *parser) localImport() (*Import, bool) {
	save := p.pos
	var origin ImportOrigin
	switch {
	case strings.HasPrefix(p.src[p.pos:], ".."):
		p.pos += 2
		origin = OriginParent
	case p.peek() == '.':
		p.next()
		origin = OriginHere
	case p.peek() == '~':
		p.next()
		origin = OriginHome
	case p.peek() == '/':
		origin = OriginAbsolute
	default:
		return nil, p.fail()
	}
	comps, ok := p.pathComponents()
	if !ok {
		p.pos = save
		return nil, false
	}
	return &Import{
		Kind:   ImportLocal,
		Origin: origin,
		Dir:    comps[:len(comps)-1],
		File:   comps[len(comps)-1],
	}, true
}
