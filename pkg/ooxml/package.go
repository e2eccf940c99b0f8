package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

const (
	contentTypesPart = "[Content_Types].xml"
	rootRelsPart     = "_rels/.rels"
	defaultMainPart  = "word/document.xml"
)

// Package is an opened word-processing container held in memory.
//
// XML parts are parsed lazily into etree documents the first time they are
// requested and written back on Save; untouched parts are copied verbatim.
// A Package is not safe for concurrent use.
type Package struct {
	path     string
	order    []string
	parts    map[string][]byte
	trees    map[string]*etree.Document
	rels     map[string]*Relationships
	types    *ContentTypes
	mainPart string
	closed   bool
}

// Open reads the package stored at path.
func Open(path string) (*Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	pkg, err := Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	pkg.path = path
	return pkg, nil
}

// Read loads a package from an in-memory container.
func Read(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	pkg := &Package{
		parts: make(map[string][]byte, len(zr.File)),
		trees: make(map[string]*etree.Document),
		rels:  make(map[string]*Relationships),
	}
	for _, file := range zr.File {
		if strings.HasSuffix(file.Name, "/") {
			continue
		}
		content, err := readZipFile(file)
		if err != nil {
			return nil, err
		}
		pkg.addPart(file.Name, content)
	}

	raw, ok := pkg.parts[contentTypesPart]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocument, contentTypesPart)
	}
	if pkg.types, err = parseContentTypes(raw); err != nil {
		return nil, err
	}
	if pkg.mainPart, err = pkg.locateMainPart(); err != nil {
		return nil, err
	}
	if _, ok := pkg.parts[pkg.mainPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocument, pkg.mainPart)
	}
	return pkg, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", file.Name, err)
	}
	return content, nil
}

func (p *Package) locateMainPart() (string, error) {
	raw, ok := p.parts[rootRelsPart]
	if !ok {
		return defaultMainPart, nil
	}
	rels, err := parseRelationships(raw)
	if err != nil {
		return "", err
	}
	if rel, ok := rels.Find(RelTypeOfficeDocument); ok {
		return resolveTarget("", rel.Target), nil
	}
	return defaultMainPart, nil
}

// Path returns the file the package was opened from, if any.
func (p *Package) Path() string {
	return p.path
}

// MainPart returns the name of the main document part.
func (p *Package) MainPart() string {
	return p.mainPart
}

// ContentTypes exposes the package content-type listing.
func (p *Package) ContentTypes() *ContentTypes {
	return p.types
}

// Part returns the raw bytes of a part as last loaded or written.
func (p *Package) Part(name string) ([]byte, bool) {
	if p.closed {
		return nil, false
	}
	if content, err := p.serialize(name); err == nil && content != nil {
		return content, true
	}
	return nil, false
}

// HasPart reports whether the package contains the named part.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// PartNames lists the parts in container order.
func (p *Package) PartNames() []string {
	return append([]string(nil), p.order...)
}

func (p *Package) addPart(name string, content []byte) {
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = content
}

func (p *Package) checkOpen() error {
	if p.closed {
		return ErrClosed
	}
	return nil
}

// XMLPart returns the parsed tree of an XML part, parsing it on first use.
func (p *Package) XMLPart(name string) (*etree.Document, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	if doc, ok := p.trees[name]; ok {
		return doc, nil
	}
	raw, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse part %s: %w", name, err)
	}
	p.trees[name] = doc
	return doc, nil
}

// Relationships returns the relationships of a part. With create set an
// empty listing is registered when the part has none; otherwise nil is
// returned for a part without relationships.
func (p *Package) Relationships(partName string, create bool) (*Relationships, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	name := relationshipsPartName(partName)
	if rels, ok := p.rels[name]; ok {
		return rels, nil
	}
	if raw, ok := p.parts[name]; ok {
		rels, err := parseRelationships(raw)
		if err != nil {
			return nil, err
		}
		p.rels[name] = rels
		return rels, nil
	}
	if !create {
		return nil, nil
	}
	rels := &Relationships{Namespace: NamespacePackageRelationships}
	p.rels[name] = rels
	p.addPart(name, nil)
	p.types.EnsureDefault("rels", ContentTypeRelationships)
	return rels, nil
}

// relatedPart resolves the first internal part related to the main part by type.
func (p *Package) relatedPart(relType string) (string, bool, error) {
	rels, err := p.Relationships(p.mainPart, false)
	if err != nil || rels == nil {
		return "", false, err
	}
	for _, rel := range rels.Relationship {
		if rel.Type != relType || rel.External() {
			continue
		}
		name := resolveTarget(p.mainPart, rel.Target)
		if p.HasPart(name) {
			return name, true, nil
		}
	}
	return "", false, nil
}

// Document returns the parsed main document part.
func (p *Package) Document() (*etree.Document, error) {
	return p.XMLPart(p.mainPart)
}

// Body returns the w:body element of the main document, or nil when the
// document has none.
func (p *Package) Body() (*etree.Element, error) {
	doc, err := p.Document()
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	for _, child := range root.ChildElements() {
		if Is(child, PrefixW, "body") {
			return child, nil
		}
	}
	return nil, nil
}

// Numbering returns the root of the numbering definitions part.
func (p *Package) Numbering(create bool) (*etree.Element, error) {
	return p.auxiliaryRoot(numberingPart, create)
}

// Styles returns the root of the primary style definitions part.
func (p *Package) Styles(create bool) (*etree.Element, error) {
	return p.auxiliaryRoot(stylesPart, create)
}

// StylesWithEffects returns the root of the with-effects style definitions part.
func (p *Package) StylesWithEffects(create bool) (*etree.Element, error) {
	return p.auxiliaryRoot(stylesWithEffectsPart, create)
}

func (p *Package) auxiliaryRoot(aux auxiliaryPart, create bool) (*etree.Element, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	name, ok, err := p.relatedPart(aux.relType)
	if err != nil {
		return nil, err
	}
	if ok {
		doc, err := p.XMLPart(name)
		if err != nil {
			return nil, err
		}
		if root := doc.Root(); root != nil || !create {
			return root, nil
		}
		return newPartRoot(doc, aux.rootTag), nil
	}
	if !create {
		return nil, nil
	}

	name = p.freePartName(aux.defaultName)
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := newPartRoot(doc, aux.rootTag)
	p.trees[name] = doc
	p.addPart(name, nil)
	p.types.SetOverride(name, aux.contentType)

	rels, err := p.Relationships(p.mainPart, true)
	if err != nil {
		return nil, err
	}
	rels.Add(aux.relType, relativeTarget(p.mainPart, name))
	return root, nil
}

func newPartRoot(doc *etree.Document, tag string) *etree.Element {
	root := doc.CreateElement(tag)
	root.CreateAttr("xmlns:"+PrefixW, NamespaceWordprocessing)
	return root
}

// freePartName returns name, or name with a numeric suffix when taken.
func (p *Package) freePartName(name string) string {
	if !p.HasPart(name) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d%s", stem, i, ext)
		if !p.HasPart(candidate) {
			return candidate
		}
	}
}

func (p *Package) serialize(name string) ([]byte, error) {
	if name == contentTypesPart {
		return p.types.marshal()
	}
	if rels, ok := p.rels[name]; ok {
		return rels.marshal()
	}
	if doc, ok := p.trees[name]; ok {
		content, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize part %s: %w", name, err)
		}
		return content, nil
	}
	content, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	return content, nil
}

// Write serializes the package as a zip container.
func (p *Package) Write(w io.Writer) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, name := range p.order {
		content, err := p.serialize(name)
		if err != nil {
			return err
		}
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zip writer: %w", err)
	}
	return nil
}

// Bytes serializes the package into memory.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package to path through a temporary file in the same
// directory, so a failed save never leaves a truncated document behind. An
// existing file keeps its permissions; a new one gets 0644.
func (p *Package) Save(path string) error {
	if err := p.checkOpen(); err != nil {
		return NewDocumentError("save", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tdg-*.docx")
	if err != nil {
		return NewDocumentError("save", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := p.Write(tmp); err != nil {
		tmp.Close()
		return NewDocumentError("save", path, err)
	}
	if err := tmp.Close(); err != nil {
		return NewDocumentError("save", path, err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return NewDocumentError("save", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return NewDocumentError("save", path, err)
	}
	p.path = path
	return nil
}

// Close releases the in-memory parts. Close is idempotent.
func (p *Package) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.parts = nil
	p.trees = nil
	p.rels = nil
	p.order = nil
	return nil
}
