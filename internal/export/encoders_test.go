// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-ldap/ldif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeranaias/loom/internal/entry"
)

func render(t *testing.T, f Format, entries []entry.Entry, attrs []string) []byte {
	t.Helper()
	data, err := New(DefaultOptions()).Render(f, entries, attrs)
	require.NoError(t, err)
	return data
}

func testEntry() entry.Entry {
	return entry.New("cn=Test,dc=example,dc=com", entry.Attributes{
		"cn": {"Test"},
		"sn": {"User"},
	})
}

// =============================================================================
// JSON
// =============================================================================

func TestJSON_ConcreteScenario(t *testing.T) {
	data := render(t, FormatJSON, []entry.Entry{testEntry()}, []string{"*"})

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "cn=Test,dc=example,dc=com", raw[0]["dn"])

	text := string(data)
	assert.Less(t, strings.Index(text, `"cn"`), strings.Index(text, `"sn"`))

	back, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "cn=Test,dc=example,dc=com", back[0].DN)
}

func TestJSON_PrettyPrinted(t *testing.T) {
	data := render(t, FormatJSON, []entry.Entry{testEntry()}, []string{"*"})
	want := `[
  {
    "dn": "cn=Test,dc=example,dc=com",
    "attributes": {
      "cn": [
        "Test"
      ],
      "sn": [
        "User"
      ]
    }
  }
]
`
	assert.Equal(t, want, string(data))
}

func TestJSON_RoundTrip(t *testing.T) {
	in := sampleEntries()
	in = append(in, entry.New("cn=empty,dc=example,dc=com", nil))
	in[1].Attributes["description"] = []string{"<b>&amp;</b>", "line\nbreak", ""}

	back, err := ParseJSON(render(t, FormatJSON, in, []string{"*"}))
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestJSON_ExplicitKeepsCanonicalKeyOrder(t *testing.T) {
	data := render(t, FormatJSON, []entry.Entry{testEntry()}, []string{"sn", "cn"})
	text := string(data)
	assert.Less(t, strings.Index(text, `"cn"`), strings.Index(text, `"sn"`))
}

func TestJSON_EmptyCollection(t *testing.T) {
	assert.Equal(t, "[]\n", string(render(t, FormatJSON, nil, []string{"*"})))
}

func TestJSON_InvalidUTF8(t *testing.T) {
	bad := entry.New("cn=bad,dc=x", entry.Attributes{"cn": {"ok\xffno"}})
	_, err := New(DefaultOptions()).Render(FormatJSON, []entry.Entry{bad}, []string{"*"})
	require.Error(t, err)
	assert.Equal(t, KindEncoding, KindOf(err))
}

func TestJSON_InvalidUTF8AttributeName(t *testing.T) {
	bad := entry.New("cn=bad,dc=x", entry.Attributes{"c\xffn": {"ok"}})
	_, err := New(DefaultOptions()).Render(FormatJSON, []entry.Entry{bad}, []string{"*"})
	require.Error(t, err)
	assert.Equal(t, KindEncoding, KindOf(err))

	var xerr *Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, FormatJSON, xerr.Format)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte(`{"dn": "x"}`))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`[{"attributes": {}}]`))
	assert.Error(t, err)
}

// =============================================================================
// LDIF
// =============================================================================

func TestLDIF_Basic(t *testing.T) {
	data := render(t, FormatLDIF, []entry.Entry{testEntry()}, []string{"*"})
	assert.Equal(t, "version: 1\ndn: cn=Test,dc=example,dc=com\ncn: Test\nsn: User\n", string(data))
}

func TestLDIF_RecordsAndExplicitOrder(t *testing.T) {
	data := render(t, FormatLDIF, sampleEntries(), []string{"mail", "cn"})
	want := "version: 1\n" +
		"dn: cn=Alice,ou=people,dc=example,dc=com\n" +
		"mail: alice@example.com\n" +
		"mail: a@example.com\n" +
		"cn: Alice\n" +
		"\n" +
		"dn: cn=Bob,ou=people,dc=example,dc=com\n" +
		"cn: Bob\n"
	assert.Equal(t, want, string(data))
}

func TestLDIF_ParsesBack(t *testing.T) {
	in := sampleEntries()
	data := render(t, FormatLDIF, in, []string{"*"})

	l, err := ldif.Parse(string(data))
	require.NoError(t, err)
	require.Len(t, l.Entries, 2)

	alice := l.Entries[0].Entry
	require.NotNil(t, alice)
	assert.Equal(t, in[0].DN, alice.DN)
	assert.Equal(t, []string{"alice@example.com", "a@example.com"}, alice.GetAttributeValues("mail"))
	assert.Equal(t, []string{"top", "person"}, alice.GetAttributeValues("objectClass"))
	assert.Equal(t, []string{"Builder"}, l.Entries[1].Entry.GetAttributeValues("sn"))
}

func TestLDIF_Base64(t *testing.T) {
	values := []string{
		" leading space",
		":colon",
		"<angle",
		"trailing space ",
		"multi\nline",
		"café",
		"nul\x00byte",
		"\xff\xfe",
	}
	e := entry.New("cn=b64,dc=x", entry.Attributes{"description": values})
	data := render(t, FormatLDIF, []entry.Entry{e}, []string{"*"})

	for _, v := range values {
		line := "description:: " + base64.StdEncoding.EncodeToString([]byte(v))
		assert.Contains(t, string(data), line+"\n", "value %q", v)
	}

	l, err := ldif.Parse(string(data))
	require.NoError(t, err)
	require.Len(t, l.Entries, 1)
	assert.Equal(t, values, l.Entries[0].Entry.GetAttributeValues("description"))
}

func TestLDIF_NonASCIIDN(t *testing.T) {
	e := entry.New("cn=Jürgen,dc=x", entry.Attributes{"cn": {"plain"}})
	data := render(t, FormatLDIF, []entry.Entry{e}, []string{"*"})
	assert.Contains(t, string(data), "dn:: "+base64.StdEncoding.EncodeToString([]byte(e.DN))+"\n")
}

func TestLDIF_Folding(t *testing.T) {
	long := strings.Repeat("abcdefghij", 20)
	e := entry.New("cn=fold,dc=x", entry.Attributes{"description": {long}})
	data := render(t, FormatLDIF, []entry.Entry{e}, []string{"*"})

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	var unfolded []string
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), DefaultLDIFFoldWidth)
		if strings.HasPrefix(line, " ") {
			unfolded[len(unfolded)-1] += line[1:]
			continue
		}
		unfolded = append(unfolded, line)
	}
	assert.Contains(t, unfolded, "description: "+long)

	l, err := ldif.Parse(string(data))
	require.NoError(t, err)
	require.Len(t, l.Entries, 1)
	assert.Equal(t, []string{long}, l.Entries[0].Entry.GetAttributeValues("description"))
}

func TestLDIF_FoldWidthOption(t *testing.T) {
	e := entry.New("cn=fold,dc=x", entry.Attributes{"cn": {"0123456789"}})

	folded, err := (&LDIFEncoder{FoldWidth: 8}).Encode([]entry.Entry{e}, []string{"cn"})
	require.NoError(t, err)
	assert.Equal(t, "version: 1\ndn: cn=f\n old,dc=\n x\ncn: 0123\n 456789\n", string(folded))

	unfolded, err := (&LDIFEncoder{FoldWidth: -1}).Encode([]entry.Entry{e}, []string{"cn"})
	require.NoError(t, err)
	assert.Equal(t, "version: 1\ndn: cn=fold,dc=x\ncn: 0123456789\n", string(unfolded))
}

func TestLDIF_EmptyValue(t *testing.T) {
	e := entry.New("cn=e,dc=x", entry.Attributes{"description": {""}})
	data := render(t, FormatLDIF, []entry.Entry{e}, []string{"*"})
	assert.Equal(t, "version: 1\ndn: cn=e,dc=x\ndescription:\n", string(data))
}

func TestLDIF_InvalidAttributeName(t *testing.T) {
	_, err := New(DefaultOptions()).Render(FormatLDIF, []entry.Entry{testEntry()}, []string{"bad name"})
	require.Error(t, err)
	assert.Equal(t, KindEncoding, KindOf(err))
}

func TestLDIF_EmptyCollection(t *testing.T) {
	assert.Equal(t, "version: 1\n", string(render(t, FormatLDIF, nil, []string{"*"})))
}

// =============================================================================
// CSV
// =============================================================================

func TestCSV_WildcardColumns(t *testing.T) {
	data := render(t, FormatCSV, sampleEntries(), []string{"*"})
	want := "dn,cn,mail,objectClass,sn\n" +
		"\"cn=Alice,ou=people,dc=example,dc=com\",Alice,alice@example.com|a@example.com,top|person,\n" +
		"\"cn=Bob,ou=people,dc=example,dc=com\",Bob,,,Builder\n"
	assert.Equal(t, want, string(data))
}

func TestCSV_ExplicitColumnOrder(t *testing.T) {
	data := render(t, FormatCSV, sampleEntries(), []string{"sn", "cn", "nothere"})
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"dn", "sn", "cn", "nothere"}, records[0])
	assert.Equal(t, []string{"cn=Bob,ou=people,dc=example,dc=com", "Builder", "Bob", ""}, records[2])
}

func TestCSV_Quoting(t *testing.T) {
	e := entry.New("cn=q,dc=x", entry.Attributes{
		"description": {`say "hi"`},
		"note":        {"two\nlines"},
		"title":       {"a,b"},
	})
	data := render(t, FormatCSV, []entry.Entry{e}, []string{"*"})
	assert.Contains(t, string(data), `"say ""hi"""`)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"cn=q,dc=x", `say "hi"`, "two\nlines", "a,b"}, records[1])
}

func TestCSV_CustomSeparator(t *testing.T) {
	x := New(Options{CSVSeparator: ";"})
	data, err := x.Render(FormatCSV, sampleEntries()[:1], []string{"mail"})
	require.NoError(t, err)
	assert.Equal(t, "dn,mail\n\"cn=Alice,ou=people,dc=example,dc=com\",alice@example.com;a@example.com\n", string(data))
}

func TestCSV_HeaderOnlyForEmptyCollection(t *testing.T) {
	assert.Equal(t, "dn\n", string(render(t, FormatCSV, nil, []string{"*"})))
	assert.Equal(t, "dn,cn\n", string(render(t, FormatCSV, nil, []string{"cn"})))
}

func TestCSV_InvalidUTF8(t *testing.T) {
	bad := entry.New("cn=bad,dc=x", entry.Attributes{"cn": {"\xc3\x28"}})
	_, err := New(DefaultOptions()).Render(FormatCSV, []entry.Entry{bad}, []string{"*"})
	require.Error(t, err)
	assert.Equal(t, KindEncoding, KindOf(err))
}

// =============================================================================
// XLSX
// =============================================================================

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestXLSX_Rows(t *testing.T) {
	data := render(t, FormatXLSX, sampleEntries(), []string{"*"})
	f := openWorkbook(t, data)

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"dn", "cn", "mail", "objectClass", "sn"}, rows[0])
	assert.Equal(t, []string{"cn=Alice,ou=people,dc=example,dc=com", "Alice", "alice@example.com|a@example.com", "top|person"}, rows[1])
	assert.Equal(t, []string{"cn=Bob,ou=people,dc=example,dc=com", "Bob", "", "", "Builder"}, rows[2])
}

func TestXLSX_ExplicitColumnsAndSheetName(t *testing.T) {
	x := New(Options{SheetName: "People"})
	data, err := x.Render(FormatXLSX, sampleEntries(), []string{"sn", "cn"})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"People"}, f.GetSheetList())
	rows, err := f.GetRows("People")
	require.NoError(t, err)
	assert.Equal(t, []string{"dn", "sn", "cn"}, rows[0])
	assert.Equal(t, []string{"cn=Alice,ou=people,dc=example,dc=com", "", "Alice"}, rows[1])
}

func TestXLSX_TextCellsNotFormulas(t *testing.T) {
	e := entry.New("cn=f,dc=x", entry.Attributes{"cn": {"=1+1"}, "uid": {"0012"}})
	f := openWorkbook(t, render(t, FormatXLSX, []entry.Entry{e}, []string{"*"}))

	formula, err := f.GetCellFormula(DefaultSheetName, "B2")
	require.NoError(t, err)
	assert.Empty(t, formula)

	v, err := f.GetCellValue(DefaultSheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "=1+1", v)

	v, err = f.GetCellValue(DefaultSheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "0012", v)
}

func TestXLSX_Deterministic(t *testing.T) {
	a := render(t, FormatXLSX, sampleEntries(), []string{"*"})
	b := render(t, FormatXLSX, sampleEntries(), []string{"*"})
	assert.True(t, bytes.Equal(a, b), "two renders of the same input must be byte-identical")
}

func TestXLSX_RejectsUnrepresentableValues(t *testing.T) {
	tests := map[string]string{
		"invalid utf8":  "\xff",
		"control char":  "bell\x07",
		"too long cell": strings.Repeat("x", maxCellChars+1),
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			e := entry.New("cn=bad,dc=x", entry.Attributes{"cn": {value}})
			_, err := New(DefaultOptions()).Render(FormatXLSX, []entry.Entry{e}, []string{"*"})
			require.Error(t, err)
			assert.Equal(t, KindEncoding, KindOf(err))
		})
	}
}

func TestXLSX_AllowsWhitespaceControls(t *testing.T) {
	e := entry.New("cn=ws,dc=x", entry.Attributes{"description": {"a\tb\nc"}})
	f := openWorkbook(t, render(t, FormatXLSX, []entry.Entry{e}, []string{"*"}))
	v, err := f.GetCellValue(DefaultSheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc", v)
}

func TestCanonicalZip_SortsEntries(t *testing.T) {
	data := render(t, FormatXLSX, sampleEntries(), []string{"*"})
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		assert.True(t, f.Modified.IsZero() || f.Modified.Year() <= 1980, "entry %s carries a timestamp", f.Name)
	}
	assert.IsIncreasing(t, names)
}

// =============================================================================
// ENCODER FACTORY
// =============================================================================

func TestNewEncoder(t *testing.T) {
	for _, f := range Formats {
		enc, err := NewEncoder(f, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, f, enc.Format())
	}

	_, err := NewEncoder(FormatUnknown, DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, KindUnsupportedFormat, KindOf(err))
}
