// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/text/unicode/norm"

	"github.com/bureau-foundation/detpipe/lib/fault"
)

// Kind identifies a member of the transform family.
type Kind uint8

const (
	KindNoop Kind = iota + 1
	KindUpper
	KindLower
	KindReplace
	KindNormalize
	KindShuffleLines
	KindMarkdown
	KindHighlight
)

// String returns the identifier used in config files and provenance.
func (k Kind) String() string {
	switch k {
	case KindNoop:
		return "noop"
	case KindUpper:
		return "upper"
	case KindLower:
		return "lower"
	case KindReplace:
		return "replace"
	case KindNormalize:
		return "normalize"
	case KindShuffleLines:
		return "shuffle_lines"
	case KindMarkdown:
		return "markdown"
	case KindHighlight:
		return "highlight"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Parameters returns the names of the parameters the kind requires, in
// sorted order. All parameters of all kinds are required.
func (k Kind) Parameters() []string {
	switch k {
	case KindReplace:
		return []string{"new", "old"}
	case KindNormalize:
		return []string{"form"}
	case KindHighlight:
		return []string{"lexer"}
	default:
		return nil
	}
}

// Kinds returns every member of the family in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindNoop, KindUpper, KindLower, KindReplace, KindNormalize, KindShuffleLines,
		KindMarkdown, KindHighlight,
	}
}

// ParseKind maps an identifier to its Kind. Unknown identifiers fail
// with fault.UnknownTransform.
func ParseKind(id string) (Kind, error) {
	switch id {
	case "noop":
		return KindNoop, nil
	case "upper":
		return KindUpper, nil
	case "lower":
		return KindLower, nil
	case "replace":
		return KindReplace, nil
	case "normalize":
		return KindNormalize, nil
	case "shuffle_lines":
		return KindShuffleLines, nil
	case "markdown":
		return KindMarkdown, nil
	case "highlight":
		return KindHighlight, nil
	default:
		return 0, fault.ForKey(fault.UnknownTransform, "transform", fmt.Errorf("%q is not one of %v", id, Kinds()))
	}
}

// Spec is a validated transform selection. The set of implementations
// is closed: only types in this package satisfy it.
type Spec interface {
	// Kind returns the family member.
	Kind() Kind

	// Params returns the parameters in their canonical string form, or
	// nil for kinds without parameters.
	Params() map[string]string

	isSpec()
}

// Noop copies its input.
type Noop struct{}

// Upper applies Unicode full upper-case mapping.
type Upper struct{}

// Lower applies Unicode full lower-case mapping.
type Lower struct{}

// Replace substitutes every non-overlapping occurrence of Old with New.
type Replace struct {
	Old string
	New string
}

// Normalize converts its input to a Unicode normalization form.
type Normalize struct {
	Form NormalForm
}

// ShuffleLines permutes lines using a generator seeded from
// Settings.Seed.
type ShuffleLines struct{}

// Markdown renders CommonMark with GitHub extensions to an HTML
// fragment. Raw HTML in the source is omitted, not passed through.
type Markdown struct{}

// Highlight renders source code as a class-annotated HTML fragment
// using the named lexer.
type Highlight struct {
	Lexer string
}

func (Noop) Kind() Kind         { return KindNoop }
func (Upper) Kind() Kind        { return KindUpper }
func (Lower) Kind() Kind        { return KindLower }
func (Replace) Kind() Kind      { return KindReplace }
func (Normalize) Kind() Kind    { return KindNormalize }
func (ShuffleLines) Kind() Kind { return KindShuffleLines }
func (Markdown) Kind() Kind     { return KindMarkdown }
func (Highlight) Kind() Kind    { return KindHighlight }

func (Noop) Params() map[string]string         { return nil }
func (Upper) Params() map[string]string        { return nil }
func (Lower) Params() map[string]string        { return nil }
func (ShuffleLines) Params() map[string]string { return nil }
func (Markdown) Params() map[string]string     { return nil }

func (r Replace) Params() map[string]string {
	return map[string]string{"old": r.Old, "new": r.New}
}

func (n Normalize) Params() map[string]string {
	return map[string]string{"form": string(n.Form)}
}

func (h Highlight) Params() map[string]string {
	return map[string]string{"lexer": h.Lexer}
}

func (Noop) isSpec()         {}
func (Upper) isSpec()        {}
func (Lower) isSpec()        {}
func (Replace) isSpec()      {}
func (Normalize) isSpec()    {}
func (ShuffleLines) isSpec() {}
func (Markdown) isSpec()     {}
func (Highlight) isSpec()    {}

// NormalForm names a Unicode normalization form.
type NormalForm string

const (
	NFC  NormalForm = "NFC"
	NFD  NormalForm = "NFD"
	NFKC NormalForm = "NFKC"
	NFKD NormalForm = "NFKD"
)

func (f NormalForm) form() (norm.Form, bool) {
	switch f {
	case NFC:
		return norm.NFC, true
	case NFD:
		return norm.NFD, true
	case NFKC:
		return norm.NFKC, true
	case NFKD:
		return norm.NFKD, true
	default:
		return 0, false
	}
}

// Settings is everything a transform may depend on: the selected Spec
// and the config seed.
type Settings struct {
	Spec Spec
	Seed int64
}

// Parse validates id and params and returns the selected Spec. params
// is the decoded "params" object of the config, or nil when the config
// has none. Errors are *fault.Error values whose Key names the
// offending config key; multiple problems are reported in sorted key
// order so the diagnostic is stable.
func Parse(id string, params map[string]any) (Spec, error) {
	kind, err := ParseKind(id)
	if err != nil {
		return nil, err
	}

	values, err := parameterValues(kind, params)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindNoop:
		return Noop{}, nil
	case KindUpper:
		return Upper{}, nil
	case KindLower:
		return Lower{}, nil
	case KindShuffleLines:
		return ShuffleLines{}, nil
	case KindMarkdown:
		return Markdown{}, nil
	case KindReplace:
		if values["old"] == "" {
			return nil, invalidParameter("old", "must be a non-empty string")
		}
		return Replace{Old: values["old"], New: values["new"]}, nil
	case KindNormalize:
		form := NormalForm(values["form"])
		if _, ok := form.form(); !ok {
			return nil, invalidParameter("form", fmt.Sprintf("%q is not one of NFC, NFD, NFKC, NFKD", values["form"]))
		}
		return Normalize{Form: form}, nil
	case KindHighlight:
		if lexers.Get(values["lexer"]) == nil {
			return nil, invalidParameter("lexer", fmt.Sprintf("%q is not a known lexer name or alias", values["lexer"]))
		}
		return Highlight{Lexer: values["lexer"]}, nil
	default:
		panic(fmt.Sprintf("transform: ParseKind returned unhandled kind %d", kind))
	}
}

// parameterValues checks params against the kind's declared parameter
// names and returns them as strings.
func parameterValues(kind Kind, params map[string]any) (map[string]string, error) {
	declared := kind.Parameters()
	if len(declared) > 0 && params == nil {
		return nil, fault.ForKey(fault.ConfigMissingKey, "params", fmt.Errorf("transform %q requires parameters %v", kind, declared))
	}

	allowed := make(map[string]bool, len(declared))
	for _, name := range declared {
		allowed[name] = true
	}
	present := make([]string, 0, len(params))
	for name := range params {
		present = append(present, name)
	}
	sort.Strings(present)
	for _, name := range present {
		if !allowed[name] {
			return nil, fault.ForKey(fault.ConfigUnknownKey, "params."+name, fmt.Errorf("transform %q does not take parameter %q", kind, name))
		}
	}

	values := make(map[string]string, len(declared))
	for _, name := range declared {
		raw, exists := params[name]
		if !exists {
			return nil, fault.ForKey(fault.ConfigMissingKey, "params."+name, fmt.Errorf("transform %q requires parameter %q", kind, name))
		}
		text, ok := raw.(string)
		if !ok {
			return nil, invalidParameter(name, fmt.Sprintf("must be a string, got %T", raw))
		}
		values[name] = text
	}
	return values, nil
}

func invalidParameter(name, reason string) error {
	return fault.ForKey(fault.ConfigInvalidValue, "params."+name, errors.New(reason))
}
