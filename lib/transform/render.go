// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bureau-foundation/detpipe/lib/fault"
)

// highlightStyle selects which token types get a CSS class. Changing it
// changes every highlight output.
const highlightStyle = "github"

var (
	markdownOnce     sync.Once
	markdownRenderer goldmark.Markdown

	highlightOnce      sync.Once
	highlightFormatter *html.Formatter
)

// markdown returns the shared goldmark instance, built on first use.
// The instance is safe for concurrent Convert calls.
func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownRenderer = goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.DefinitionList),
		)
	})
	return markdownRenderer
}

func renderMarkdown(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	if err := markdown().Convert(data, &buffer); err != nil {
		return nil, fault.New(fault.TransformFailed, "rendering markdown: %v", err)
	}
	return buffer.Bytes(), nil
}

// highlight tokenises data with the named lexer and formats it as HTML
// with class attributes, so no colors are baked into the output.
func highlight(data []byte, lexerName string) ([]byte, error) {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return nil, fault.New(fault.UnknownTransform, "highlight: no lexer named %q", lexerName)
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, string(data))
	if err != nil {
		return nil, fault.New(fault.TransformFailed, "tokenising as %s: %v", lexerName, err)
	}

	highlightOnce.Do(func() {
		highlightFormatter = html.New(html.WithClasses(true))
	})
	var buffer bytes.Buffer
	if err := highlightFormatter.Format(&buffer, styles.Get(highlightStyle), iterator); err != nil {
		return nil, fault.New(fault.TransformFailed, "formatting %s: %v", lexerName, err)
	}
	return buffer.Bytes(), nil
}
