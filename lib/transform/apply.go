// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bureau-foundation/detpipe/lib/fault"
)

// Apply runs the transform selected by settings over data and returns
// newly allocated output bytes. data is never modified.
func Apply(data []byte, settings Settings) ([]byte, error) {
	switch spec := settings.Spec.(type) {
	case Noop:
		return bytes.Clone(data), nil

	case Upper:
		if err := requireUTF8(data); err != nil {
			return nil, err
		}
		// A Caser carries per-call state; build one per invocation.
		return cases.Upper(language.Und).Bytes(data), nil

	case Lower:
		if err := requireUTF8(data); err != nil {
			return nil, err
		}
		return cases.Lower(language.Und).Bytes(data), nil

	case Replace:
		return bytes.ReplaceAll(data, []byte(spec.Old), []byte(spec.New)), nil

	case Normalize:
		if err := requireUTF8(data); err != nil {
			return nil, err
		}
		form, ok := spec.Form.form()
		if !ok {
			return nil, fault.New(fault.UnknownTransform, "normalize: unsupported form %q", spec.Form)
		}
		return form.Append(nil, data...), nil

	case ShuffleLines:
		return shuffleLines(data, settings.Seed), nil

	case Markdown:
		if err := requireUTF8(data); err != nil {
			return nil, err
		}
		return renderMarkdown(data)

	case Highlight:
		if err := requireUTF8(data); err != nil {
			return nil, err
		}
		return highlight(data, spec.Lexer)

	case nil:
		return nil, fault.New(fault.UnknownTransform, "no transform selected")

	default:
		return nil, fault.New(fault.UnknownTransform, "unsupported transform spec %T", spec)
	}
}

// Identifier returns the identifier of the transform in settings, as
// recorded in provenance.
func (s Settings) Identifier() string {
	if s.Spec == nil {
		return ""
	}
	return s.Spec.Kind().String()
}

func requireUTF8(data []byte) error {
	if utf8.Valid(data) {
		return nil
	}
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		offset += size
	}
	return fault.New(fault.TransformFailed, "input is not valid UTF-8 at byte %d", offset)
}

// shuffleStream is the fixed PCG stream selector. The seed picks the
// state; changing this constant changes every shuffle_lines output.
const shuffleStream = 0x6465747069706531

// shuffleLines splits data on '\n', permutes the lines with a
// Fisher-Yates shuffle driven by a PCG generator seeded from seed, and
// rejoins them. A trailing newline stays trailing. The index reduction
// is done here rather than with rand.IntN so the output depends only
// on the PCG stream, whose algorithm is fixed.
func shuffleLines(data []byte, seed int64) []byte {
	if len(data) == 0 {
		return []byte{}
	}
	body := data
	trailingNewline := body[len(body)-1] == '\n'
	if trailingNewline {
		body = body[:len(body)-1]
	}

	lines := bytes.Split(body, []byte{'\n'})
	generator := rand.NewPCG(uint64(seed), shuffleStream)
	for i := len(lines) - 1; i > 0; i-- {
		j := int(generator.Uint64() % uint64(i+1))
		lines[i], lines[j] = lines[j], lines[i]
	}

	output := bytes.Join(lines, []byte{'\n'})
	if trailingNewline {
		output = append(output, '\n')
	}
	return output
}

// String implements fmt.Stringer for diagnostics.
func (s Settings) String() string {
	if s.Spec == nil {
		return "<none>"
	}
	params := s.Spec.Params()
	if len(params) == 0 {
		return fmt.Sprintf("%s(seed=%d)", s.Spec.Kind(), s.Seed)
	}
	return fmt.Sprintf("%s%v(seed=%d)", s.Spec.Kind(), params, s.Seed)
}
