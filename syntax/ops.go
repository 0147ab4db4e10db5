// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

// Op enumerates Sigil's binary operators. Operators are stored in
// ExprBinop nodes and print in ASCII. Combine, prefer, and
// combine-types also parse from a Unicode spelling; the other
// operators have only their ASCII spelling.
type Op int

const (
	// OpUnknown is an invalid operator.
	OpUnknown Op = iota
	// OpBoolOr is boolean disjunction ("||").
	OpBoolOr
	// OpNaturalPlus is natural addition ("+").
	OpNaturalPlus
	// OpTextAppend is text concatenation ("++").
	OpTextAppend
	// OpListAppend is list concatenation ("#").
	OpListAppend
	// OpBoolAnd is boolean conjunction ("&&").
	OpBoolAnd
	// OpCombine is recursive record merge ("/\", "∧").
	OpCombine
	// OpPrefer is right-biased record merge ("//", "⫽").
	OpPrefer
	// OpCombineTypes is recursive record type merge ("//\\", "⩓").
	OpCombineTypes
	// OpNaturalTimes is natural multiplication ("*").
	OpNaturalTimes
	// OpBoolEQ is boolean equality ("==").
	OpBoolEQ
	// OpBoolNE is boolean inequality ("!=").
	OpBoolNE
	// OpImportAlt is import fallback ("?").
	OpImportAlt

	maxOp
)

var opStrings = [maxOp]string{
	OpUnknown:      "<invalid op>",
	OpBoolOr:       "||",
	OpNaturalPlus:  "+",
	OpTextAppend:   "++",
	OpListAppend:   "#",
	OpBoolAnd:      "&&",
	OpCombine:      `/\`,
	OpPrefer:       "//",
	OpCombineTypes: `//\\`,
	OpNaturalTimes: "*",
	OpBoolEQ:       "==",
	OpBoolNE:       "!=",
	OpImportAlt:    "?",
}

// String returns the operator's ASCII spelling.
func (o Op) String() string {
	if o < 0 || o >= maxOp {
		return opStrings[OpUnknown]
	}
	return opStrings[o]
}

// Universe enumerates the type universes.
type Universe int

const (
	// UnivType is the universe of terms' types.
	UnivType Universe = iota
	// UnivKind is the universe of types' types.
	UnivKind
	// UnivSort is the universe of kinds' types.
	UnivSort
)

// String returns the universe's keyword.
func (u Universe) String() string {
	switch u {
	case UnivType:
		return "Type"
	case UnivKind:
		return "Kind"
	case UnivSort:
		return "Sort"
	}
	return "<invalid universe>"
}

// Builtin enumerates Sigil's built-in identifiers: primitive types,
// the None constant, and the built-in functions subject to the
// rewrite rules in builtins.go.
type Builtin int

const (
	// BuiltinInvalid is an invalid builtin.
	BuiltinInvalid Builtin = iota

	// BuiltinBool is the Bool type.
	BuiltinBool
	// BuiltinNatural is the Natural type.
	BuiltinNatural
	// BuiltinInteger is the Integer type.
	BuiltinInteger
	// BuiltinDouble is the Double type.
	BuiltinDouble
	// BuiltinText is the Text type.
	BuiltinText
	// BuiltinList is the List type constructor.
	BuiltinList
	// BuiltinOptional is the Optional type constructor.
	BuiltinOptional
	// BuiltinNone is the empty Optional constructor.
	BuiltinNone

	// BuiltinNaturalFold is Natural/fold.
	BuiltinNaturalFold
	// BuiltinNaturalBuild is Natural/build.
	BuiltinNaturalBuild
	// BuiltinNaturalIsZero is Natural/isZero.
	BuiltinNaturalIsZero
	// BuiltinNaturalEven is Natural/even.
	BuiltinNaturalEven
	// BuiltinNaturalOdd is Natural/odd.
	BuiltinNaturalOdd
	// BuiltinNaturalToInteger is Natural/toInteger.
	BuiltinNaturalToInteger
	// BuiltinNaturalShow is Natural/show.
	BuiltinNaturalShow

	// BuiltinIntegerShow is Integer/show.
	BuiltinIntegerShow
	// BuiltinIntegerToDouble is Integer/toDouble.
	BuiltinIntegerToDouble
	// BuiltinDoubleShow is Double/show.
	BuiltinDoubleShow

	// BuiltinListBuild is List/build.
	BuiltinListBuild
	// BuiltinListFold is List/fold.
	BuiltinListFold
	// BuiltinListLength is List/length.
	BuiltinListLength
	// BuiltinListHead is List/head.
	BuiltinListHead
	// BuiltinListLast is List/last.
	BuiltinListLast
	// BuiltinListIndexed is List/indexed.
	BuiltinListIndexed
	// BuiltinListReverse is List/reverse.
	BuiltinListReverse

	// BuiltinOptionalBuild is Optional/build.
	BuiltinOptionalBuild
	// BuiltinOptionalFold is Optional/fold.
	BuiltinOptionalFold

	maxBuiltin
)

var builtinStrings = [maxBuiltin]string{
	BuiltinInvalid:          "<invalid builtin>",
	BuiltinBool:             "Bool",
	BuiltinNatural:          "Natural",
	BuiltinInteger:          "Integer",
	BuiltinDouble:           "Double",
	BuiltinText:             "Text",
	BuiltinList:             "List",
	BuiltinOptional:         "Optional",
	BuiltinNone:             "None",
	BuiltinNaturalFold:      "Natural/fold",
	BuiltinNaturalBuild:     "Natural/build",
	BuiltinNaturalIsZero:    "Natural/isZero",
	BuiltinNaturalEven:      "Natural/even",
	BuiltinNaturalOdd:       "Natural/odd",
	BuiltinNaturalToInteger: "Natural/toInteger",
	BuiltinNaturalShow:      "Natural/show",
	BuiltinIntegerShow:      "Integer/show",
	BuiltinIntegerToDouble:  "Integer/toDouble",
	BuiltinDoubleShow:       "Double/show",
	BuiltinListBuild:        "List/build",
	BuiltinListFold:         "List/fold",
	BuiltinListLength:       "List/length",
	BuiltinListHead:         "List/head",
	BuiltinListLast:         "List/last",
	BuiltinListIndexed:      "List/indexed",
	BuiltinListReverse:      "List/reverse",
	BuiltinOptionalBuild:    "Optional/build",
	BuiltinOptionalFold:     "Optional/fold",
}

// String returns the builtin's source spelling.
func (b Builtin) String() string {
	if b < 0 || b >= maxBuiltin {
		return builtinStrings[BuiltinInvalid]
	}
	return builtinStrings[b]
}

// builtinNames maps source spellings to builtins. The parser
// consults it after scanning a label.
var builtinNames = map[string]Builtin{}

func init() {
	for b := BuiltinBool; b < maxBuiltin; b++ {
		builtinNames[builtinStrings[b]] = b
	}
}

// reserved is the set of words that may not be used as bare variable
// names: the statement keywords, the literal keywords, and every
// builtin. A reserved word may still name a variable when
// backtick-quoted.
var reserved = map[string]bool{
	"let":          true,
	"in":           true,
	"if":           true,
	"then":         true,
	"else":         true,
	"as":           true,
	"using":        true,
	"merge":        true,
	"constructors": true,
	"missing":      true,
	"env":          true,
	"forall":       true,
	"Type":         true,
	"Kind":         true,
	"Sort":         true,
	"True":         true,
	"False":        true,
	"Some":         true,
}

func init() {
	for name := range builtinNames {
		reserved[name] = true
	}
}
