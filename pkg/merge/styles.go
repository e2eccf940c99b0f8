package merge

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
)

// StyleSuffix is appended to the identifier of a source style that collides
// with a style already present in the target.
const StyleSuffix = "_merged"

const attrStyleID = "w:styleId"

// MergeStyles copies the styles of both source style containers into the
// matching target containers. A source style whose identifier is already
// taken in the target is renamed; every other style keeps its identifier.
// Numbering references inside the copied styles are rewritten through
// numIDs. It returns the old-to-new map of renamed style identifiers.
func MergeStyles(target, source *ooxml.Package, numIDs map[int]int) (map[string]string, error) {
	renames := make(map[string]string)

	srcPrimary, err := source.Styles(false)
	if err != nil {
		return nil, fmt.Errorf("read source styles: %w", err)
	}
	srcEffects, err := source.StylesWithEffects(false)
	if err != nil {
		return nil, fmt.Errorf("read source styles with effects: %w", err)
	}
	if srcPrimary == nil && srcEffects == nil {
		return renames, nil
	}

	dstPrimary, err := target.Styles(true)
	if err != nil {
		return nil, fmt.Errorf("prepare target styles: %w", err)
	}
	dstEffects, err := target.StylesWithEffects(true)
	if err != nil {
		return nil, fmt.Errorf("prepare target styles with effects: %w", err)
	}

	taken := make(map[string]bool)
	for _, container := range []*etree.Element{dstPrimary, dstEffects} {
		for _, style := range styleElements(container) {
			taken[style.SelectAttrValue(attrStyleID, "")] = true
		}
	}

	// Both source containers usually define the same identifiers, so the
	// rename decision is taken once per identifier and shared by both.
	decided := make(map[string]bool)
	for _, container := range []*etree.Element{srcPrimary, srcEffects} {
		for _, style := range styleElements(container) {
			id := style.SelectAttrValue(attrStyleID, "")
			if id == "" || decided[id] {
				continue
			}
			decided[id] = true
			if taken[id] {
				renamed := freeStyleID(id, taken)
				renames[id] = renamed
				taken[renamed] = true
				continue
			}
			taken[id] = true
		}
	}

	pairs := []struct{ src, dst *etree.Element }{
		{srcPrimary, dstPrimary},
		{srcEffects, dstEffects},
	}
	for _, pair := range pairs {
		if pair.src == nil {
			continue
		}
		declareNamespaces(pair.dst, pair.src)
		appended := make(map[string]bool)
		for _, style := range styleElements(pair.src) {
			clone := style.Copy()
			id := clone.SelectAttrValue(attrStyleID, "")
			final := id
			if renamed, ok := renames[id]; ok {
				final = renamed
			}
			if id != "" && appended[final] {
				// Duplicate definition inside one container.
				final = freeStyleID(id, taken)
				taken[final] = true
			}
			appended[final] = true
			if final != id {
				clone.CreateAttr(attrStyleID, final)
			}
			rewriteStyleLinks(clone, renames)
			Rewrite(clone, Mappings{Numbering: numIDs})
			pair.dst.AddChild(clone)
		}
	}
	return renames, nil
}

func styleElements(container *etree.Element) []*etree.Element {
	if container == nil {
		return nil
	}
	var styles []*etree.Element
	for _, child := range container.ChildElements() {
		if ooxml.Is(child, ooxml.PrefixW, "style") {
			styles = append(styles, child)
		}
	}
	return styles
}

func freeStyleID(id string, taken map[string]bool) string {
	candidate := id + StyleSuffix
	for n := 2; taken[candidate]; n++ {
		candidate = id + StyleSuffix + strconv.Itoa(n)
	}
	return candidate
}

// rewriteStyleLinks follows renames through the inheritance, next-style and
// linked-style references of a style definition.
func rewriteStyleLinks(style *etree.Element, renames map[string]string) {
	for _, child := range style.ChildElements() {
		if !ooxml.Is(child, ooxml.PrefixW, "basedOn") &&
			!ooxml.Is(child, ooxml.PrefixW, "next") &&
			!ooxml.Is(child, ooxml.PrefixW, "link") {
			continue
		}
		if renamed, ok := renames[child.SelectAttrValue(attrVal, "")]; ok {
			child.CreateAttr(attrVal, renamed)
		}
	}
}
