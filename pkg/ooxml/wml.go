package ooxml

import (
	"strings"

	"github.com/beevik/etree"
)

// Is reports whether el has the given prefix and local name.
func Is(el *etree.Element, prefix, local string) bool {
	return el != nil && el.Space == prefix && el.Tag == local
}

// Walk visits el and its descendant elements in document order. Returning
// false from fn skips the children of the visited element.
func Walk(el *etree.Element, fn func(*etree.Element) bool) {
	if el == nil || !fn(el) {
		return
	}
	for _, child := range el.ChildElements() {
		Walk(child, fn)
	}
}

// Paragraphs returns every w:p below root in document order, nested
// paragraphs included.
func Paragraphs(root *etree.Element) []*etree.Element {
	var paragraphs []*etree.Element
	Walk(root, func(el *etree.Element) bool {
		if Is(el, PrefixW, "p") {
			paragraphs = append(paragraphs, el)
		}
		return true
	})
	return paragraphs
}

// Text concatenates the w:t text below el. Paragraphs nested in el, such as
// text box content, are not part of its text.
func Text(el *etree.Element) string {
	var sb strings.Builder
	Walk(el, func(e *etree.Element) bool {
		if e != el && (Is(e, PrefixW, "p") || Is(e, PrefixW, "txbxContent")) {
			return false
		}
		if Is(e, PrefixW, "t") {
			sb.WriteString(e.Text())
			return false
		}
		return true
	})
	return sb.String()
}

// ParagraphTexts returns the text of each top-level paragraph of body,
// descending into tables.
func ParagraphTexts(body *etree.Element) []string {
	var texts []string
	Walk(body, func(el *etree.Element) bool {
		if Is(el, PrefixW, "p") {
			texts = append(texts, Text(el))
			return false
		}
		return true
	})
	return texts
}

// NewParagraph creates a detached, empty w:p.
func NewParagraph() *etree.Element {
	return etree.NewElement(PrefixW + ":p")
}

// AppendParagraph adds an empty paragraph at the end of body, ahead of the
// trailing section properties when present.
func AppendParagraph(body *etree.Element) *etree.Element {
	p := NewParagraph()
	children := body.ChildElements()
	if n := len(children); n > 0 && Is(children[n-1], PrefixW, "sectPr") {
		body.InsertChildAt(children[n-1].Index(), p)
		return p
	}
	body.AddChild(p)
	return p
}

// ClearParagraph drops the inline content of a paragraph, keeping its
// properties and bookmark boundaries.
func ClearParagraph(p *etree.Element) {
	for _, child := range p.ChildElements() {
		if Is(child, PrefixW, "pPr") || Is(child, PrefixW, "bookmarkStart") || Is(child, PrefixW, "bookmarkEnd") {
			continue
		}
		p.RemoveChild(child)
	}
}
