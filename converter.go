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

package docxtex

import (
	"github.com/nicholasgasior/docxtex/internal/bibliography"
	"github.com/nicholasgasior/docxtex/internal/citation"
)

// StreamInfo holds metadata about the input being converted.
type StreamInfo struct {
	MIMEType  string
	Extension string
	Filename  string
	LocalPath string
}

// Equation is one translated math zone, in document order.
type Equation struct {
	LaTeX string `json:"latex"`
	// Block is set for display math (m:oMathPara).
	Block bool `json:"block,omitempty"`
	// Fallback is set when translation failed and LaTeX holds the raw
	// equation text instead.
	Fallback bool `json:"fallback,omitempty"`
}

// Citation is one in-text citation, in document order.
type Citation struct {
	Kind      citation.Kind `json:"type"`
	Tag       string        `json:"tag,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Text      string        `json:"text"`
	Arguments string        `json:"arguments,omitempty"`
	// BibliographyData is the source Tag resolves to, when the document
	// carries a source list.
	BibliographyData *bibliography.Source `json:"bibliographyData,omitempty"`
	SdtID            string               `json:"sdtId,omitempty"`
}

// Result holds the output of a conversion.
type Result struct {
	HTML         string                `json:"html"`
	Markdown     string                `json:"markdown,omitempty"`
	Equations    []Equation            `json:"equations,omitempty"`
	Citations    []Citation            `json:"citations,omitempty"`
	Bibliography []bibliography.Source `json:"bibliography,omitempty"`
}
