package merge

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
)

// ErrDetachedAnchor is returned when the anchor paragraph has no parent.
var ErrDetachedAnchor = errors.New("anchor paragraph is not attached to a document")

// Result summarizes one merge.
type Result struct {
	Elements    int
	Numbering   map[int]int
	Styles      map[string]string
	Images      map[string]string
	EmptySource bool
}

// Engine splices the body of a source package into a target package.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates an engine logging through log; a nil logger discards.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Merge replaces the anchor paragraph's content with the body of the
// package stored at sourcePath.
//
// The anchor's runs are cleared first. The numbering, style and image
// resources of the source are then merged into target, and every top-level
// body element of the source except the section properties is cloned,
// rewritten and inserted after the anchor in source order. A source without
// a body leaves target untouched apart from the cleared anchor.
func (e *Engine) Merge(target *ooxml.Package, sourcePath string, anchor *etree.Element) (*Result, error) {
	parent := anchor.Parent()
	if parent == nil {
		return nil, ErrDetachedAnchor
	}
	ooxml.ClearParagraph(anchor)

	source, err := ooxml.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	body, err := source.Body()
	if err != nil {
		return nil, ooxml.NewDocumentError("merge", sourcePath, err)
	}
	if body == nil {
		e.log.Warn("source document has no body", zap.String("source", sourcePath))
		return &Result{EmptySource: true}, nil
	}

	if err := mergeDocumentNamespaces(target, source); err != nil {
		return nil, ooxml.NewDocumentError("merge", sourcePath, err)
	}

	numbering, defs, err := mergeNumbering(target, source)
	if err != nil {
		return nil, ooxml.NewDocumentError("merge", sourcePath, err)
	}
	styles, err := MergeStyles(target, source, numbering)
	if err != nil {
		return nil, ooxml.NewDocumentError("merge", sourcePath, err)
	}
	relinkNumberingStyles(defs, styles)
	images, err := MergeImages(target, source)
	if err != nil {
		return nil, ooxml.NewDocumentError("merge", sourcePath, err)
	}

	m := Mappings{Numbering: numbering, Styles: styles, Images: images}
	result := &Result{Numbering: numbering, Styles: styles, Images: images}
	cursor := anchor
	for _, el := range body.ChildElements() {
		if ooxml.Is(el, ooxml.PrefixW, "sectPr") {
			continue
		}
		clone := el.Copy()
		Rewrite(clone, m)
		parent.InsertChildAt(cursor.Index()+1, clone)
		cursor = clone
		result.Elements++
	}

	e.log.Info("merged document",
		zap.String("source", sourcePath),
		zap.Int("elements", result.Elements),
		zap.Int("numbering", len(numbering)),
		zap.Int("renamed_styles", len(styles)),
		zap.Int("images", len(images)),
	)
	return result, nil
}

// Append merges sourcePath at the end of target's body.
func (e *Engine) Append(target *ooxml.Package, sourcePath string) (*Result, error) {
	body, err := target.Body()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, ooxml.NewDocumentError("append", target.Path(), errors.New("target document has no body"))
	}
	return e.Merge(target, sourcePath, ooxml.AppendParagraph(body))
}

func mergeDocumentNamespaces(target, source *ooxml.Package) error {
	dst, err := target.Document()
	if err != nil {
		return fmt.Errorf("read target document: %w", err)
	}
	src, err := source.Document()
	if err != nil {
		return fmt.Errorf("read source document: %w", err)
	}
	declareNamespaces(dst.Root(), src.Root())
	return nil
}
