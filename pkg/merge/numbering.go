package merge

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
)

const (
	attrVal           = "w:val"
	attrAbstractNumID = "w:abstractNumId"
	attrNumID         = "w:numId"
)

// MergeNumbering copies every abstract numbering definition and numbering
// instance of source into target under fresh identifiers, creating the
// target numbering part when needed. It returns the source-to-target
// numbering instance identifier map.
//
// New abstract definitions are placed after the existing ones and new
// instances after the existing instances, keeping the part schema order.
func MergeNumbering(target, source *ooxml.Package) (map[int]int, error) {
	numIDs, _, err := mergeNumbering(target, source)
	return numIDs, err
}

// mergeNumbering is MergeNumbering that also returns the abstract
// definitions it appended to target.
func mergeNumbering(target, source *ooxml.Package) (map[int]int, []*etree.Element, error) {
	numIDs := make(map[int]int)

	src, err := source.Numbering(false)
	if err != nil {
		return nil, nil, fmt.Errorf("read source numbering: %w", err)
	}
	if src == nil {
		return numIDs, nil, nil
	}
	dst, err := target.Numbering(true)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare target numbering: %w", err)
	}
	declareNamespaces(dst, src)

	nextAbstract, nextNum, err := nextNumberingIDs(dst)
	if err != nil {
		return nil, nil, err
	}

	abstractIDs := make(map[int]int)
	var defs []*etree.Element
	for _, def := range src.ChildElements() {
		if !ooxml.Is(def, ooxml.PrefixW, "abstractNum") {
			continue
		}
		oldID, err := intAttr(def, attrAbstractNumID)
		if err != nil {
			return nil, nil, err
		}
		clone := def.Copy()
		clone.CreateAttr(attrAbstractNumID, strconv.Itoa(nextAbstract))
		insertAbstractNum(dst, clone)
		abstractIDs[oldID] = nextAbstract
		defs = append(defs, clone)
		nextAbstract++
	}

	for _, inst := range src.ChildElements() {
		if !ooxml.Is(inst, ooxml.PrefixW, "num") {
			continue
		}
		oldID, err := intAttr(inst, attrNumID)
		if err != nil {
			return nil, nil, err
		}
		clone := inst.Copy()
		clone.CreateAttr(attrNumID, strconv.Itoa(nextNum))
		if ref := firstChild(clone, "abstractNumId"); ref != nil {
			if old, err := intAttr(ref, attrVal); err == nil {
				if mapped, ok := abstractIDs[old]; ok {
					ref.CreateAttr(attrVal, strconv.Itoa(mapped))
				}
			}
		}
		insertNum(dst, clone)
		numIDs[oldID] = nextNum
		nextNum++
	}
	return numIDs, defs, nil
}

// relinkNumberingStyles points the style references of abstract
// definitions (level paragraph styles, numStyleLink, styleLink) at
// renamed styles.
func relinkNumberingStyles(defs []*etree.Element, renames map[string]string) {
	if len(renames) == 0 {
		return
	}
	for _, def := range defs {
		ooxml.Walk(def, func(el *etree.Element) bool {
			if ooxml.Is(el, ooxml.PrefixW, "pStyle") ||
				ooxml.Is(el, ooxml.PrefixW, "numStyleLink") ||
				ooxml.Is(el, ooxml.PrefixW, "styleLink") {
				replaceAttr(el, attrVal, renames)
			}
			return true
		})
	}
}

// nextNumberingIDs returns max+1 over the existing abstract definitions
// (0 when there are none) and max+1 over the existing instances (at least 1).
func nextNumberingIDs(root *etree.Element) (int, int, error) {
	nextAbstract, nextNum := 0, 1
	for _, child := range root.ChildElements() {
		switch {
		case ooxml.Is(child, ooxml.PrefixW, "abstractNum"):
			id, err := intAttr(child, attrAbstractNumID)
			if err != nil {
				return 0, 0, err
			}
			nextAbstract = max(nextAbstract, id+1)
		case ooxml.Is(child, ooxml.PrefixW, "num"):
			id, err := intAttr(child, attrNumID)
			if err != nil {
				return 0, 0, err
			}
			nextNum = max(nextNum, id+1)
		}
	}
	return nextAbstract, nextNum, nil
}

func insertAbstractNum(root, def *etree.Element) {
	for _, child := range root.ChildElements() {
		if ooxml.Is(child, ooxml.PrefixW, "num") || ooxml.Is(child, ooxml.PrefixW, "numIdMacAtCleanup") {
			root.InsertChildAt(child.Index(), def)
			return
		}
	}
	root.AddChild(def)
}

func insertNum(root, inst *etree.Element) {
	if last := firstChild(root, "numIdMacAtCleanup"); last != nil {
		root.InsertChildAt(last.Index(), inst)
		return
	}
	root.AddChild(inst)
}

func firstChild(el *etree.Element, local string) *etree.Element {
	for _, child := range el.ChildElements() {
		if ooxml.Is(child, ooxml.PrefixW, local) {
			return child
		}
	}
	return nil
}

func intAttr(el *etree.Element, key string) (int, error) {
	raw := el.SelectAttrValue(key, "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s:%s has invalid %s %q", el.Space, el.Tag, key, raw)
	}
	return n, nil
}
