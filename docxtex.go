// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package docxtex converts Word (.docx) documents to HTML and Markdown with
// equations rendered as LaTeX and citations marked up for downstream tools.
package docxtex

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nicholasgasior/docxtex/internal/bibliography"
	"github.com/nicholasgasior/docxtex/internal/docxmath"
	"github.com/nicholasgasior/docxtex/internal/ooxml"
	"github.com/nicholasgasior/docxtex/internal/xmltree"
)

// MIMETypeDocx is the media type of a Word document package.
const MIMETypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Converter is the DOCX conversion engine. It is safe for concurrent use.
type Converter struct {
	logger       *slog.Logger
	translator   *docxmath.Translator
	mathMaxDepth int
	markdown     bool
	bibliography bool
}

// New creates a new Converter with the given options.
func New(opts ...Option) *Converter {
	c := &Converter{
		markdown:     true,
		bibliography: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.translator = docxmath.New(
		docxmath.WithMaxDepth(c.mathMaxDepth),
		docxmath.WithLogger(c.logger),
	)
	return c
}

// Accepts returns true if the input looks like a DOCX package.
func (c *Converter) Accepts(info StreamInfo) bool {
	if strings.EqualFold(info.Extension, ".docx") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), MIMETypeDocx)
}

// ConvertFile converts a local file.
func (c *Converter) ConvertFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info := StreamInfo{
		Extension: strings.ToLower(filepath.Ext(path)),
		Filename:  filepath.Base(path),
		LocalPath: path,
	}
	return c.ConvertReader(f, info)
}

// ConvertReader converts a stream. When info does not identify the input
// as DOCX its content is sniffed.
func (c *Converter) ConvertReader(r io.ReadSeeker, info StreamInfo) (*Result, error) {
	if !c.Accepts(info) {
		info.MIMEType = detectMIMEType(r)
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
		if !c.Accepts(info) {
			return nil, &UnsupportedFormatError{Extension: info.Extension, MIMEType: info.MIMEType}
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConversionError{Stage: "read input", Err: err}
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ConversionError{Stage: "open DOCX ZIP", Err: err}
	}
	return c.convert(zr)
}

func (c *Converter) convert(zr *zip.Reader) (*Result, error) {
	docData, err := ooxml.ReadFileFromZip(zr, ooxml.PartDocument)
	if err != nil {
		return nil, &ConversionError{Stage: "read document.xml", Err: err}
	}
	doc, err := xmltree.ParsePart(ooxml.PartDocument, docData)
	if err != nil {
		return nil, &ConversionError{Stage: "parse document.xml", Err: err}
	}

	rels, err := ooxml.ParseRelationships(zr, ooxml.RelsPathFor(ooxml.PartDocument))
	if err != nil {
		c.logger.Warn("ignoring document relationships", "error", err)
		rels = nil
	}

	var sources bibliography.Sources
	if c.bibliography {
		sources = bibliography.Read(zr, c.logger)
	}

	r := newRenderer(c, zr, rels, sources)
	body := r.document(doc)

	result := r.result
	result.HTML, err = renderHTML(body)
	if err != nil {
		return nil, &ConversionError{Stage: "render HTML", Err: err}
	}
	if len(sources) > 0 {
		result.Bibliography = sources.Sorted()
	}
	if c.markdown {
		result.Markdown, err = r.markdown(body)
		if err != nil {
			return nil, &ConversionError{Stage: "convert HTML to markdown", Err: err}
		}
	}
	c.logger.Debug("converted document",
		"equations", len(result.Equations),
		"mathMaxDepth", c.translator.MaxDepth(),
		"citations", len(result.Citations),
		"sources", len(sources))
	return result, nil
}

// detectMIMEType sniffs the MIME type from content.
func detectMIMEType(r io.Reader) string {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return ""
	}
	return mtype.String()
}
