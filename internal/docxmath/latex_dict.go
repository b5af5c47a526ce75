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

package docxmath

// The tables below are read-only after package initialisation. Entries must
// not contain characters from latexSpecialChars: substituted text is escaped
// afterwards.

// LaTeX special characters that need escaping.
var latexSpecialChars = map[rune]bool{
	'{': true, '}': true, '_': true, '^': true,
	'#': true, '&': true, '$': true, '%': true, '~': true,
}

// unicodeToLatex maps code points found in run text to LaTeX. Word-form
// commands carry a trailing space so they do not swallow the next letter.
var unicodeToLatex = map[rune]string{
	// Greek, lowercase
	'α': `\alpha `,
	'β': `\beta `,
	'γ': `\gamma `,
	'δ': `\delta `,
	'ε': `\epsilon `,
	'ζ': `\zeta `,
	'η': `\eta `,
	'θ': `\theta `,
	'ι': `\iota `,
	'κ': `\kappa `,
	'λ': `\lambda `,
	'μ': `\mu `,
	'ν': `\nu `,
	'ξ': `\xi `,
	'ο': `o`,
	'π': `\pi `,
	'ρ': `\rho `,
	'ς': `\varsigma `,
	'σ': `\sigma `,
	'τ': `\tau `,
	'υ': `\upsilon `,
	'φ': `\phi `,
	'χ': `\chi `,
	'ψ': `\psi `,
	'ω': `\omega `,
	'ϑ': `\vartheta `,
	'ϕ': `\varphi `,
	'ϖ': `\varpi `,
	'ϰ': `\varkappa `,
	'ϱ': `\varrho `,
	'ϵ': `\varepsilon `,
	// Greek, uppercase (letters identical to Latin ones map to Latin)
	'Α': `A`,
	'Β': `B`,
	'Γ': `\Gamma `,
	'Δ': `\Delta `,
	'Ε': `E`,
	'Ζ': `Z`,
	'Η': `H`,
	'Θ': `\Theta `,
	'Ι': `I`,
	'Κ': `K`,
	'Λ': `\Lambda `,
	'Μ': `M`,
	'Ν': `N`,
	'Ξ': `\Xi `,
	'Ο': `O`,
	'Π': `\Pi `,
	'Ρ': `P`,
	'Σ': `\Sigma `,
	'Τ': `T`,
	'Υ': `\Upsilon `,
	'Φ': `\Phi `,
	'Χ': `X`,
	'Ψ': `\Psi `,
	'Ω': `\Omega `,
	// Mathematical italic Greek, as emitted by Word's equation editor
	'\U0001d6e4': `\Gamma `,
	'\U0001d6e5': `\Delta `,
	'\U0001d6e9': `\Theta `,
	'\U0001d6ec': `\Lambda `,
	'\U0001d6ef': `\Xi `,
	'\U0001d6f1': `\Pi `,
	'\U0001d6f4': `\Sigma `,
	'\U0001d6f6': `\Upsilon `,
	'\U0001d6f7': `\Phi `,
	'\U0001d6f9': `\Psi `,
	'\U0001d6fa': `\Omega `,
	'\U0001d6fc': `\alpha `,
	'\U0001d6fd': `\beta `,
	'\U0001d6fe': `\gamma `,
	'\U0001d6ff': `\delta `,
	'\U0001d700': `\epsilon `,
	'\U0001d701': `\zeta `,
	'\U0001d702': `\eta `,
	'\U0001d703': `\theta `,
	'\U0001d704': `\iota `,
	'\U0001d705': `\kappa `,
	'\U0001d706': `\lambda `,
	'\U0001d707': `\mu `,
	'\U0001d708': `\nu `,
	'\U0001d709': `\xi `,
	'\U0001d70a': `o`,
	'\U0001d70b': `\pi `,
	'\U0001d70c': `\rho `,
	'\U0001d70d': `\varsigma `,
	'\U0001d70e': `\sigma `,
	'\U0001d70f': `\tau `,
	'\U0001d710': `\upsilon `,
	'\U0001d711': `\phi `,
	'\U0001d712': `\chi `,
	'\U0001d713': `\psi `,
	'\U0001d714': `\omega `,
	'\U0001d715': `\partial `,
	'\U0001d716': `\varepsilon `,
	'\U0001d717': `\vartheta `,
	'\U0001d718': `\varkappa `,
	'\U0001d719': `\varphi `,
	'\U0001d71a': `\varrho `,
	'\U0001d71b': `\varpi `,
	// Arrows
	'←': `\leftarrow `,
	'↑': `\uparrow `,
	'→': `\rightarrow `,
	'↓': `\downarrow `,
	'↔': `\leftrightarrow `,
	'↕': `\updownarrow `,
	'↖': `\nwarrow `,
	'↗': `\nearrow `,
	'↘': `\searrow `,
	'↙': `\swarrow `,
	'↦': `\mapsto `,
	'⇐': `\Leftarrow `,
	'⇒': `\Rightarrow `,
	'⇔': `\Leftrightarrow `,
	// Dots
	'⋮': `\vdots `,
	'⋯': `\cdots `,
	'⋰': `\iddots `,
	'⋱': `\ddots `,
	'…': `\ldots `,
	// Relations
	'≠': `\ne `,
	'≤': `\leq `,
	'≥': `\geq `,
	'≦': `\leqq `,
	'≧': `\geqq `,
	'≨': `\lneqq `,
	'≩': `\gneqq `,
	'≪': `\ll `,
	'≫': `\gg `,
	'≈': `\approx `,
	'≡': `\equiv `,
	'∼': `\sim `,
	'≅': `\cong `,
	'∝': `\propto `,
	'⊥': `\perp `,
	'∥': `\parallel `,
	'∈': `\in `,
	'∉': `\notin `,
	'∋': `\ni `,
	'∌': `\not\ni `,
	'⊂': `\subset `,
	'⊃': `\supset `,
	'⊆': `\subseteq `,
	'⊇': `\supseteq `,
	// Binary operators
	'±': `\pm `,
	'∓': `\mp `,
	'×': `\times `,
	'÷': `\div `,
	'·': `\cdot `,
	'⋅': `\cdot `,
	'−': `-`,
	'∗': `\ast `,
	'∘': `\circ `,
	'∩': `\cap `,
	'∪': `\cup `,
	'∧': `\wedge `,
	'∨': `\vee `,
	'⊕': `\oplus `,
	'⊗': `\otimes `,
	'⊙': `\odot `,
	// Ordinary symbols
	'∞': `\infty `,
	'∂': `\partial `,
	'∇': `\nabla `,
	'∀': `\forall `,
	'∃': `\exists `,
	'¬': `\neg `,
	'∅': `\emptyset `,
	'∠': `\angle `,
	'√': `\surd `,
	'∴': `\therefore `,
	'∵': `\because `,
	'ℏ': `\hbar `,
	'ℓ': `\ell `,
	'′': `'`,
	'″': `''`,
	'ℕ': `\mathbb N `,
	'ℤ': `\mathbb Z `,
	'ℚ': `\mathbb Q `,
	'ℝ': `\mathbb R `,
	'ℂ': `\mathbb C `,
	// Delimiters
	'⟨': `\langle `,
	'⟩': `\rangle `,
	'⌈': `\lceil `,
	'⌉': `\rceil `,
	'⌊': `\lfloor `,
	'⌋': `\rfloor `,
	'‖': `\| `,
	// Big operators appearing as plain run text
	'∑': `\sum `,
	'∏': `\prod `,
	'∐': `\coprod `,
	'∫': `\int `,
	'∬': `\iint `,
	'∭': `\iiint `,
	'∮': `\oint `,
	// Italic, Latin, uppercase
	'\U0001d434': `A`,
	'\U0001d435': `B`,
	'\U0001d436': `C`,
	'\U0001d437': `D`,
	'\U0001d438': `E`,
	'\U0001d439': `F`,
	'\U0001d43a': `G`,
	'\U0001d43b': `H`,
	'\U0001d43c': `I`,
	'\U0001d43d': `J`,
	'\U0001d43e': `K`,
	'\U0001d43f': `L`,
	'\U0001d440': `M`,
	'\U0001d441': `N`,
	'\U0001d442': `O`,
	'\U0001d443': `P`,
	'\U0001d444': `Q`,
	'\U0001d445': `R`,
	'\U0001d446': `S`,
	'\U0001d447': `T`,
	'\U0001d448': `U`,
	'\U0001d449': `V`,
	'\U0001d44a': `W`,
	'\U0001d44b': `X`,
	'\U0001d44c': `Y`,
	'\U0001d44d': `Z`,
	// Italic, Latin, lowercase (U+1D455 is unassigned; italic h is U+210E)
	'\U0001d44e': `a`,
	'\U0001d44f': `b`,
	'\U0001d450': `c`,
	'\U0001d451': `d`,
	'\U0001d452': `e`,
	'\U0001d453': `f`,
	'\U0001d454': `g`,
	'ℎ': `h`,
	'\U0001d456': `i`,
	'\U0001d457': `j`,
	'\U0001d458': `k`,
	'\U0001d459': `l`,
	'\U0001d45a': `m`,
	'\U0001d45b': `n`,
	'\U0001d45c': `o`,
	'\U0001d45d': `p`,
	'\U0001d45e': `q`,
	'\U0001d45f': `r`,
	'\U0001d460': `s`,
	'\U0001d461': `t`,
	'\U0001d462': `u`,
	'\U0001d463': `v`,
	'\U0001d464': `w`,
	'\U0001d465': `x`,
	'\U0001d466': `y`,
	'\U0001d467': `z`,
}

// accentToLatex maps the chr property of m:acc and m:groupChr to a LaTeX
// command taking one argument. Keys are matched exactly, without Unicode
// normalisation.
var accentToLatex = map[string]string{
	// Top accents
	"\u0300": `\grave`,
	"\u0301": `\acute`,
	"\u0302": `\hat`,
	"\u0303": `\tilde`,
	"\u0304": `\bar`,
	"\u0305": `\overline`,
	"\u0306": `\breve`,
	"\u0307": `\dot`,
	"\u0308": `\ddot`,
	"\u030a": `\mathring`,
	"\u030c": `\check`,
	"\u20d0": `\overleftharpoon`,
	"\u20d1": `\overrightharpoon`,
	"\u20d6": `\overleftarrow`,
	"\u20d7": `\vec`,
	"\u20db": `\dddot`,
	"\u20dc": `\ddddot`,
	"\u20e1": `\overleftrightarrow`,
	// Bottom accents
	"\u0330": `\utilde`,
	"\u0331": `\underbar`,
	"\u20ec": `\underrightharpoondown`,
	"\u20ed": `\underleftharpoondown`,
	"\u20ee": `\underleftarrow`,
	"\u20ef": `\underrightarrow`,
	// Over | group
	"\u23b4": `\overbracket`,
	"\u23dc": `\overparen`,
	"\u23de": `\overbrace`,
	// Under | group
	"\u23b5": `\underbracket`,
	"\u23dd": `\underparen`,
	"\u23df": `\underbrace`,
}

// bigOperators maps the chr property of m:nary to a LaTeX operator macro.
var bigOperators = map[string]string{
	"\u2140": `\Bbbsum`,
	"\u220f": `\prod`,
	"\u2210": `\coprod`,
	"\u2211": `\sum`,
	"\u222b": `\int`,
	"\u222c": `\iint`,
	"\u222d": `\iiint`,
	"\u222e": `\oint`,
	"\u22c0": `\bigwedge`,
	"\u22c1": `\bigvee`,
	"\u22c2": `\bigcap`,
	"\u22c3": `\bigcup`,
	"\u2a00": `\bigodot`,
	"\u2a01": `\bigoplus`,
	"\u2a02": `\bigotimes`,
	"\u2a04": `\biguplus`,
	"\u2a06": `\bigsqcup`,
}

// knownFunctions are emitted as LaTeX operators (\sin) rather than as
// plain italic names.
var knownFunctions = map[string]bool{
	"sin": true,
	"cos": true,
	"tan": true,
	"log": true,
	"ln":  true,
	"exp": true,
}

// limitFunctions are bases of m:limLow that take their limit as a subscript
// operator.
var limitFunctions = map[string]string{
	"lim": `\lim`,
	"max": `\max`,
	"min": `\min`,
	"sup": `\sup`,
	"inf": `\inf`,
}

// Emission defaults. Each is used only when the corresponding property is
// absent from the document.
const (
	defaultDelimBegin  = "("
	defaultDelimEnd    = ")"
	defaultDelimSep    = "|"
	emptyDelim         = "."
	defaultBigOperator = `\sum`
	defaultAccent      = `\hat`
	defaultGroupBottom = `\underbrace`
	defaultGroupTop    = `\overbrace`
)

// Property values that select a non-default template.
const (
	fractionLinear = "lin"
	fractionNoBar  = "noBar"
	positionBottom = "bot"
	positionTop    = "top"
)

// Row and cell separators for array environments.
const (
	lineBreak = `\\`
	cellSep   = "&"
)
