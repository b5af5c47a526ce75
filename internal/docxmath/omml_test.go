package docxmath

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nicholasgasior/docxtex/internal/xmltree"
)

func el(name string, children ...*xmltree.Node) *xmltree.Node {
	return xmltree.Element(name, nil, children...)
}

// run builds <m:r><m:t>s</m:t></m:r>.
func run(s string) *xmltree.Node {
	return el("m:r", el("m:t", xmltree.Text(s)))
}

// prop builds a property element carrying m:val.
func prop(name, val string) *xmltree.Node {
	return xmltree.Element(name, []xmltree.Attr{{Name: "m:val", Value: val}})
}

func oMath(children ...*xmltree.Node) *xmltree.Node {
	return el("m:oMath", children...)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   *xmltree.Node
		want string
	}{
		{"plain run", oMath(run("x")), "x"},
		{"ascii operators untouched", oMath(run("a+b=c")), "a+b=c"},
		{"greek letter", oMath(run("α")), `\alpha `},
		{"special characters escaped", oMath(run("50%_x")), `50\%\_x`},
		{"runs concatenate", oMath(run("a"), run("∞")), `a\infty `},
		{"nil", nil, ""},
		{"bare text leaf", xmltree.Text("{"), `\{`},

		{"superscript", oMath(el("m:sSup", el("m:e", run("x")), el("m:sup", run("2")))), "x^{2}"},
		{"subscript", oMath(el("m:sSub", el("m:e", run("x")), el("m:sub", run("i")))), "x_{i}"},
		{"subsup", oMath(el("m:sSubSup", el("m:e", run("x")), el("m:sub", run("i")), el("m:sup", run("2")))), "x_{i}^{2}"},
		{"subsup with empty sub", oMath(el("m:sSubSup", el("m:e", run("x")), el("m:sub"), el("m:sup", run("2")))), "x^{2}"},
		{"pre scripts", oMath(el("m:sPre", el("m:sub", run("1")), el("m:sup", run("2")), el("m:e", run("x")))), "{}_{1}^{2}x"},
		{"superscript missing sup flattens", oMath(el("m:sSup", el("m:e", run("x")))), "x"},
		{"subscript missing base flattens", oMath(el("m:sSub", el("m:sub", run("i")))), "i"},
		{"subsup missing base flattens", oMath(el("m:sSubSup", el("m:sub", run("i")), el("m:sup", run("2")))), "i2"},

		{"fraction", oMath(el("m:f", el("m:num", run("x")), el("m:den", run("y")))), `\frac{x}{y}`},
		{"linear fraction", oMath(el("m:f", el("m:fPr", prop("m:type", "lin")), el("m:num", run("x")), el("m:den", run("y")))), "x/y"},
		{"binomial", oMath(el("m:f", el("m:fPr", prop("m:type", "noBar")), el("m:num", run("x")), el("m:den", run("y")))), `\binom{x}{y}`},
		{"skewed fraction uses frac", oMath(el("m:f", el("m:fPr", prop("m:type", "skw")), el("m:num", run("x")), el("m:den", run("y")))), `\frac{x}{y}`},
		{"fraction missing den flattens", oMath(el("m:f", el("m:num", run("x")))), "x"},

		{"square root", oMath(el("m:rad", el("m:deg"), el("m:e", run("x")))), `\sqrt{x}`},
		{"square root without deg", oMath(el("m:rad", el("m:e", run("x")))), `\sqrt{x}`},
		{"cube root", oMath(el("m:rad", el("m:deg", run("3")), el("m:e", run("x")))), `\sqrt[3]{x}`},
		{"radical missing base flattens", oMath(el("m:rad", el("m:deg", run("3")))), "3"},

		{"delimiter defaults", oMath(el("m:d", el("m:e", run("x")))), `\left(x\right)`},
		{"delimiter brackets", oMath(el("m:d", el("m:dPr", prop("m:begChr", "["), prop("m:endChr", "]")), el("m:e", run("x")))), `\left[x\right]`},
		{"delimiter braces escaped", oMath(el("m:d", el("m:dPr", prop("m:begChr", "{"), prop("m:endChr", "}")), el("m:e", run("x")))), `\left\{x\right\}`},
		{"delimiter empty begin", oMath(el("m:d", el("m:dPr", prop("m:begChr", "")), el("m:e", run("x")))), `\left.x\right)`},
		{"delimiter symbol", oMath(el("m:d", el("m:dPr", prop("m:begChr", "⟨"), prop("m:endChr", "⟩")), el("m:e", run("x")))), `\left\langle x\right\rangle `},
		{"delimiter separator default", oMath(el("m:d", el("m:e", run("a")), el("m:e", run("b")))), `\left(a|b\right)`},
		{"delimiter missing base flattens", oMath(el("m:d", el("m:dPr", prop("m:begChr", "[")), run("q"))), "q"},
		{"delimiter separator", oMath(el("m:d", el("m:dPr", prop("m:sepChr", ",")), el("m:e", run("a")), el("m:e", run("b")))), `\left(a,b\right)`},

		{
			"sum with limits",
			oMath(el("m:nary",
				el("m:naryPr", prop("m:chr", "∑")),
				el("m:sub", run("i=0")),
				el("m:sup", run("n")),
				el("m:e", el("m:sSub", el("m:e", run("x")), el("m:sub", run("i")))))),
			`\sum_{i=0}^{n} x_{i}`,
		},
		{"integral", oMath(el("m:nary", el("m:naryPr", prop("m:chr", "∫")), el("m:sub", run("0")), el("m:sup", run("1")), el("m:e", run("f")))), `\int_{0}^{1} f`},
		{"nary default operator", oMath(el("m:nary", el("m:sub"), el("m:sup"), el("m:e", run("x")))), `\sum x`},
		{"nary without base", oMath(el("m:nary", el("m:naryPr", prop("m:chr", "∏")), el("m:sub", run("k")))), `\prod_{k}`},
		{"nary unknown glyph", oMath(el("m:nary", el("m:naryPr", prop("m:chr", "#")), el("m:e", run("x")))), `\# x`},

		{"known function", oMath(el("m:func", el("m:fName", run("sin")), el("m:e", run("x")))), `\sin(x)`},
		{"known function padded", oMath(el("m:func", el("m:fName", run(" ln ")), el("m:e", run("x")))), `\ln(x)`},
		{"other function", oMath(el("m:func", el("m:fName", run("foo")), el("m:e", run("x")))), "foo(x)"},
		{"other function name translated", oMath(el("m:func", el("m:fName", run("f_1")), el("m:e", run("x")))), `f\_1(x)`},
		{"function missing base flattens", oMath(el("m:func", el("m:fName", run("sin")))), "sin"},
		{"function missing name flattens", oMath(el("m:func", el("m:e", run("x")))), "x"},
		{
			"structured function name",
			oMath(el("m:func",
				el("m:fName", el("m:limLow", el("m:e", run("lim")), el("m:lim", run("n→∞")))),
				el("m:e", run("a")))),
			`\lim_{n\to \infty }(a)`,
		},

		{"accent default", oMath(el("m:acc", el("m:e", run("x")))), `\hat{x}`},
		{"accent dot", oMath(el("m:acc", el("m:accPr", prop("m:chr", "\u0307")), el("m:e", run("x")))), `\dot{x}`},
		{"accent vector", oMath(el("m:acc", el("m:accPr", prop("m:chr", "\u20d7")), el("m:e", run("v")))), `\vec{v}`},
		{"accent missing base flattens", oMath(el("m:acc", el("m:accPr", prop("m:chr", "\u0307")))), ""},
		{"accent unknown falls back", oMath(el("m:acc", el("m:accPr", prop("m:chr", "Z")), el("m:e", run("x")))), `\hat{x}`},

		{"bar default", oMath(el("m:bar", el("m:e", run("x")))), `\overline{x}`},
		{"bar bottom", oMath(el("m:bar", el("m:barPr", prop("m:pos", "bot")), el("m:e", run("x")))), `\underline{x}`},
		{"bar missing base flattens", oMath(el("m:bar", el("m:barPr", prop("m:pos", "bot")), run("y"))), "y"},

		{"group default", oMath(el("m:groupChr", el("m:e", run("x")))), `\underbrace{x}`},
		{"group top", oMath(el("m:groupChr", el("m:groupChrPr", prop("m:pos", "top")), el("m:e", run("x")))), `\overbrace{x}`},
		{"group missing base flattens", oMath(el("m:groupChr", el("m:groupChrPr", prop("m:pos", "top")))), ""},
		{"group character", oMath(el("m:groupChr", el("m:groupChrPr", prop("m:chr", "\u23de")), el("m:e", run("x")))), `\overbrace{x}`},

		{"limit", oMath(el("m:limLow", el("m:e", run("lim")), el("m:lim", run("x→0")))), `\lim_{x\to 0}`},
		{"lower limit plain", oMath(el("m:limLow", el("m:e", run("A")), el("m:lim", run("i")))), "A_{i}"},
		{"upper limit", oMath(el("m:limUpp", el("m:e", run("x")), el("m:lim", run("n")))), `\overset{n}{x}`},
		{"lower limit missing lim flattens", oMath(el("m:limLow", el("m:e", run("lim")))), "lim"},
		{"lower limit missing base flattens", oMath(el("m:limLow", el("m:lim", run("n")))), "n"},
		{"upper limit missing lim flattens", oMath(el("m:limUpp", el("m:e", run("x")))), "x"},
		{"upper limit missing base flattens", oMath(el("m:limUpp", el("m:lim", run("n")))), "n"},

		{"equation array", oMath(el("m:eqArr", el("m:e", run("a")), el("m:e", run("b")))), `\begin{array}{c}a\\b\end{array}`},
		{
			"matrix",
			oMath(el("m:m",
				el("m:mPr"),
				el("m:mr", el("m:e", run("a")), el("m:e", run("b"))),
				el("m:mr", el("m:e", run("c")), el("m:e", run("d"))))),
			`\begin{matrix}a&b\\c&d\end{matrix}`,
		},

		{"unknown element transparent", oMath(el("m:box", el("m:e", run("x")))), "x"},
		{"property elements ignored", oMath(el("m:r", el("m:rPr", prop("m:sty", "p")), el("m:t", xmltree.Text("x"))), el("m:ctrlPr", el("w:rPr"))), "x"},
		{"foreign element transparent", oMath(el("w:r", el("m:t", xmltree.Text("q")))), "q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.in)
			if err != nil {
				t.Fatalf("Translate() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Translate() = %q, want %q", got, tt.want)
			}
		})
	}
}

// nestedSup builds n superscripts nested through their exponents.
func nestedSup(n int) *xmltree.Node {
	node := run("x")
	for i := 0; i < n; i++ {
		node = el("m:sSup", el("m:e", run("x")), el("m:sup", node))
	}
	return oMath(node)
}

func TestTranslateNested(t *testing.T) {
	got, err := Translate(nestedSup(10))
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	want := strings.Repeat("x^{", 10) + "x" + strings.Repeat("}", 10)
	if got != want {
		t.Errorf("Translate() = %q, want %q", got, want)
	}
}

func TestTranslateConcurrent(t *testing.T) {
	inputs := []struct {
		in   *xmltree.Node
		want string
	}{
		{nestedSup(3), "x^{x^{x^{x}}}"},
		{oMath(el("m:f", el("m:num", run("α")), el("m:den", run("2")))), `\frac{\alpha }{2}`},
		{oMath(el("m:func", el("m:fName", run("cos")), el("m:e", run("θ")))), `\cos(\theta )`},
		{nestedSup(80), ""},
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8*len(inputs))
	for i := 0; i < 8; i++ {
		for _, in := range inputs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := Translate(in.in)
				switch {
				case in.want == "" && !IsMalformedInput(err):
					errs <- fmt.Sprintf("err = %v, want MalformedInputError", err)
				case in.want != "" && err != nil:
					errs <- fmt.Sprintf("Translate() error: %v", err)
				case got != in.want:
					errs <- fmt.Sprintf("Translate() = %q, want %q", got, in.want)
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestTranslateDepthLimit(t *testing.T) {
	tr := New(WithMaxDepth(5))
	_, err := tr.Translate(nestedSup(10))
	if !IsMalformedInput(err) {
		t.Fatalf("err = %v, want MalformedInputError", err)
	}
	var mie *MalformedInputError
	if !errors.As(err, &mie) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if mie.Limit != 5 || mie.Depth != 6 {
		t.Errorf("error = %+v, want depth 6 limit 5", mie)
	}

	if _, err := Translate(nestedSup(40)); !IsMalformedInput(err) {
		t.Errorf("default limit: err = %v, want MalformedInputError", err)
	}
	if _, err := New(WithMaxDepth(200)).Translate(nestedSup(40)); err != nil {
		t.Errorf("raised limit: unexpected error %v", err)
	}
}

func TestOptions(t *testing.T) {
	if got := New().MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("default MaxDepth = %d, want %d", got, DefaultMaxDepth)
	}
	if got := New(WithMaxDepth(0)).MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("WithMaxDepth(0) MaxDepth = %d, want default", got)
	}
	if got := New(WithMaxDepth(-3)).MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("WithMaxDepth(-3) MaxDepth = %d, want default", got)
	}
}

func TestIsMathElement(t *testing.T) {
	if !IsMathElement(oMath()) {
		t.Error("m:oMath not recognized")
	}
	for _, n := range []*xmltree.Node{nil, el("m:oMathPara"), el("w:p"), xmltree.Text("m:oMath")} {
		if IsMathElement(n) {
			t.Errorf("IsMathElement(%+v) = true", n)
		}
	}
}

func TestTranslateXML(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math">
  <w:body>
    <w:p>
      <w:r><w:t>Energy: </w:t></w:r>
      <m:oMath>
        <m:sSup>
          <m:e><m:r><m:t>x</m:t></m:r></m:e>
          <m:sup><m:r><m:t>2</m:t></m:r></m:sup>
        </m:sSup>
      </m:oMath>
    </w:p>
    <w:p>
      <m:oMathPara>
        <m:oMath>
          <m:f>
            <m:fPr><m:type m:val="lin"/></m:fPr>
            <m:num><m:r><m:t>a</m:t></m:r></m:num>
            <m:den><m:r><m:t>b</m:t></m:r></m:den>
          </m:f>
        </m:oMath>
      </m:oMathPara>
    </w:p>
  </w:body>
</w:document>`

	got, err := New().TranslateXML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("TranslateXML() error: %v", err)
	}
	want := []string{"x^{2}", "a/b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TranslateXML() mismatch (-want +got):\n%s", diff)
	}

	if _, err := New().TranslateXML(strings.NewReader("<m:oMath>")); err == nil {
		t.Error("expected parse error for truncated input")
	}
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"m:oMath":  RootKind,
		"m:r":      RunKind,
		"m:f":      FractionKind,
		"m:nary":   NaryKind,
		"m:e":      GenericOperandKind,
		"m:box":    UnrecognizedKind,
		"f":        UnrecognizedKind,
		"w:sSup":   UnrecognizedKind,
		"m:eqArr":  EquationArrayKind,
		"m:limUpp": UpperLimitKind,
	}
	for name, want := range tests {
		if got := KindOf(name); got != want {
			t.Errorf("KindOf(%q) = %v, want %v", name, got, want)
		}
	}
	if got := FractionKind.String(); got != "fraction" {
		t.Errorf("FractionKind.String() = %q", got)
	}
}
