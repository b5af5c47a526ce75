package bibliography

import (
	"archive/zip"
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"
)

const sourcesXML = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<b:Sources xmlns:b="http://schemas.openxmlformats.org/officeDocument/2006/bibliography" xmlns="http://schemas.openxmlformats.org/officeDocument/2006/bibliography" SelectedStyle="\APASixthEditionOfficeOnline.xsl" StyleName="APA">
  <b:Source>
    <b:Tag>WuJ24</b:Tag>
    <b:SourceType>JournalArticle</b:SourceType>
    <b:Guid>{6C5A5C1E-0000-4000-8000-000000000001}</b:Guid>
    <b:Title>AutoGen: Enabling Next-Gen LLM Applications</b:Title>
    <b:Year>2024</b:Year>
    <b:JournalName>Journal of Agents</b:JournalName>
    <b:Author>
      <b:Author>
        <b:NameList>
          <b:Person><b:Last>Wu</b:Last><b:First>Qingyun</b:First></b:Person>
          <b:Person><b:Last>Bansal</b:Last><b:First>Gagan</b:First><b:Middle>K</b:Middle></b:Person>
          <b:Person></b:Person>
        </b:NameList>
      </b:Author>
    </b:Author>
    <b:RefOrder>2</b:RefOrder>
  </b:Source>
  <Source>
    <Tag>Acm19</Tag>
    <SourceType>Book</SourceType>
    <Title>Style Guide</Title>
    <Author><Author><Corporate>ACM</Corporate></Author></Author>
    <RefOrder>1</RefOrder>
  </Source>
  <b:Source>
    <b:Title>No tag, dropped</b:Title>
  </b:Source>
</b:Sources>`

func wantSources() Sources {
	return Sources{
		"WuJ24": {
			Tag:         "WuJ24",
			SourceType:  "JournalArticle",
			GUID:        "{6C5A5C1E-0000-4000-8000-000000000001}",
			Title:       "AutoGen: Enabling Next-Gen LLM Applications",
			Year:        "2024",
			JournalName: "Journal of Agents",
			RefOrder:    "2",
			Authors: []Person{
				{Last: "Wu", First: "Qingyun"},
				{Last: "Bansal", First: "Gagan", Middle: "K"},
			},
		},
		"Acm19": {
			Tag:        "Acm19",
			SourceType: "Book",
			Title:      "Style Guide",
			RefOrder:   "1",
			Authors:    []Person{{Last: "ACM"}},
		},
	}
}

func TestParse(t *testing.T) {
	got, err := Parse([]byte(sourcesXML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff(wantSources(), got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEncodings(t *testing.T) {
	utf16 := func(order unicode.Endianness, bom unicode.BOMPolicy) []byte {
		t.Helper()
		src := bytes.Replace([]byte(sourcesXML), []byte(`encoding="UTF-8"`), []byte(`encoding="UTF-16"`), 1)
		data, err := unicode.UTF16(order, bom).NewEncoder().Bytes(src)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		return data
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, sourcesXML...)},
		{"utf-16le bom", utf16(unicode.LittleEndian, unicode.UseBOM)},
		{"utf-16be bom", utf16(unicode.BigEndian, unicode.UseBOM)},
		{"utf-16le without bom", utf16(unicode.LittleEndian, unicode.IgnoreBOM)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.data)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if diff := cmp.Diff(wantSources(), got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDeclaredLegacyCharset(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"windows-1252\"?>" +
		"<b:Sources xmlns:b=\"http://schemas.openxmlformats.org/officeDocument/2006/bibliography\">" +
		"<b:Source><b:Tag>Caf</b:Tag><b:Title>Caf\xe9 society</b:Title></b:Source></b:Sources>"
	got, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if title := got["Caf"].Title; title != "Café society" {
		t.Errorf("Title = %q, want %q", title, "Café society")
	}
}

func TestParseNotSources(t *testing.T) {
	_, err := Parse([]byte(`<ds:datastoreItem xmlns:ds="http://schemas.openxmlformats.org/officeDocument/2006/customXml"/>`))
	if !errors.Is(err, ErrNotSources) {
		t.Errorf("err = %v, want ErrNotSources", err)
	}
	if _, err := Parse([]byte(`<b:Sources>`)); err == nil || errors.Is(err, ErrNotSources) {
		t.Errorf("truncated input: err = %v, want parse error", err)
	}
}

func TestSorted(t *testing.T) {
	sources := wantSources()
	sources["Zed"] = Source{Tag: "Zed"}
	sources["Abe"] = Source{Tag: "Abe"}

	var tags []string
	for _, s := range sources.Sorted() {
		tags = append(tags, s.Tag)
	}
	want := []string{"Acm19", "WuJ24", "Abe", "Zed"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("Sorted() order mismatch (-want +got):\n%s", diff)
	}
}

func TestPersonString(t *testing.T) {
	tests := []struct {
		p    Person
		want string
	}{
		{Person{Last: "Wu", First: "Qingyun"}, "Wu, Qingyun"},
		{Person{Last: "Bansal", First: "Gagan", Middle: "K"}, "Bansal, Gagan K"},
		{Person{Last: "ACM"}, "ACM"},
		{Person{First: "Prince"}, "Prince"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func buildZip(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	return zr
}

func TestRead(t *testing.T) {
	zr := buildZip(t, map[string]string{
		"customXml/item1.xml": `<ds:datastoreItem xmlns:ds="http://schemas.openxmlformats.org/officeDocument/2006/customXml"/>`,
		"customXml/item2.xml": `<b:Sources xmlns:b="http://schemas.openxmlformats.org/officeDocument/2006/bibliography"/>`,
		"customXml/item3.xml": `<broken`,
		"customXml/item4.xml": sourcesXML,
	})
	got := Read(zr, slog.Default())
	if diff := cmp.Diff(wantSources(), got); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}

	empty := buildZip(t, map[string]string{"word/document.xml": "<w:document/>"})
	if got := Read(empty, nil); got != nil {
		t.Errorf("Read() without sources = %v, want nil", got)
	}
}
