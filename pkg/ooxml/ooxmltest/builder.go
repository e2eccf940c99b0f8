// Package ooxmltest builds small word-processing packages for tests.
package ooxmltest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Namespaces declared on the root of every generated document part.
var Namespaces = map[string]string{
	"w":   "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
	"r":   "http://schemas.openxmlformats.org/officeDocument/2006/relationships",
	"a":   "http://schemas.openxmlformats.org/drawingml/2006/main",
	"wp":  "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing",
	"pic": "http://schemas.openxmlformats.org/drawingml/2006/picture",
	"mc":  "http://schemas.openxmlformats.org/markup-compatibility/2006",
	"v":   "urn:schemas-microsoft-com:vml",
}

// Image is a media part related to the main document.
type Image struct {
	RelID string
	Name  string
	Data  []byte
}

// Doc describes a package. A nil Styles, StylesWithEffects or Numbering
// slice omits the part; an empty non-nil slice writes an empty part.
type Doc struct {
	Body              []string
	Styles            []string
	StylesWithEffects []string
	Numbering         []string
	Images            []Image
	// ExtraNamespaces are declared on the document root in addition to Namespaces.
	ExtraNamespaces map[string]string
	// Ignorable is written as mc:Ignorable on the document root when set.
	Ignorable string
	// NoBody omits w:body from the main document.
	NoBody bool
}

// Bytes renders the package as a zip container.
func (d Doc) Bytes() []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	write := func(name, content string) {
		f, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	write("[Content_Types].xml", d.contentTypes())
	write("_rels/.rels", header+`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>`+
		`</Relationships>`)
	write("word/_rels/document.xml.rels", d.documentRels())
	write("word/document.xml", d.document())
	if d.Styles != nil {
		write("word/styles.xml", container("w:styles", d.Styles))
	}
	if d.StylesWithEffects != nil {
		write("word/stylesWithEffects.xml", container("w:styles", d.StylesWithEffects))
	}
	if d.Numbering != nil {
		write("word/numbering.xml", container("w:numbering", d.Numbering))
	}
	for _, img := range d.Images {
		f, err := w.Create("word/media/" + img.Name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write(img.Data); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Write stores the package in dir under name and returns its path.
func (d Doc) Write(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

const header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func (d Doc) contentTypes() string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	seen := map[string]bool{}
	for _, img := range d.Images {
		ext := strings.TrimPrefix(filepath.Ext(img.Name), ".")
		if seen[ext] {
			continue
		}
		seen[ext] = true
		fmt.Fprintf(&sb, `<Default Extension="%s" ContentType="%s"/>`, ext, imageContentType(ext))
	}
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	if d.Styles != nil {
		sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	}
	if d.StylesWithEffects != nil {
		sb.WriteString(`<Override PartName="/word/stylesWithEffects.xml" ContentType="application/vnd.ms-word.stylesWithEffects+xml"/>`)
	}
	if d.Numbering != nil {
		sb.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func imageContentType(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "emf":
		return "image/x-emf"
	case "svg":
		return "image/svg+xml"
	}
	return "image/png"
}

func (d Doc) documentRels() string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	if d.Styles != nil {
		sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	}
	if d.StylesWithEffects != nil {
		sb.WriteString(`<Relationship Id="rId2" Type="http://schemas.microsoft.com/office/2007/relationships/stylesWithEffects" Target="stylesWithEffects.xml"/>`)
	}
	if d.Numbering != nil {
		sb.WriteString(`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>`)
	}
	for _, img := range d.Images {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`, img.RelID, img.Name)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func (d Doc) document() string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(`<w:document`)
	for _, prefix := range sortedKeys(Namespaces) {
		fmt.Fprintf(&sb, ` xmlns:%s="%s"`, prefix, Namespaces[prefix])
	}
	for _, prefix := range sortedKeys(d.ExtraNamespaces) {
		fmt.Fprintf(&sb, ` xmlns:%s="%s"`, prefix, d.ExtraNamespaces[prefix])
	}
	if d.Ignorable != "" {
		fmt.Fprintf(&sb, ` mc:Ignorable="%s"`, d.Ignorable)
	}
	sb.WriteString(`>`)
	if !d.NoBody {
		sb.WriteString(`<w:body>`)
		sb.WriteString(strings.Join(d.Body, ""))
		sb.WriteString(`</w:body>`)
	}
	sb.WriteString(`</w:document>`)
	return sb.String()
}

func container(tag string, children []string) string {
	return header + `<` + tag + ` xmlns:w="` + Namespaces["w"] + `">` + strings.Join(children, "") + `</` + tag + `>`
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
