package merge

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
)

// Mappings carries the identifier maps produced by the resource merges.
// A nil map leaves the corresponding references untouched.
type Mappings struct {
	Numbering map[int]int
	Styles    map[string]string
	Images    map[string]string
}

type reference int

const (
	noReference reference = iota
	paragraphStyleReference
	runStyleReference
	tableStyleReference
	numberingReference
	blipReference
	vmlImageReference
)

func classify(el *etree.Element) reference {
	switch {
	case ooxml.Is(el, ooxml.PrefixW, "pStyle"):
		return paragraphStyleReference
	case ooxml.Is(el, ooxml.PrefixW, "rStyle"):
		return runStyleReference
	case ooxml.Is(el, ooxml.PrefixW, "tblStyle"):
		return tableStyleReference
	case ooxml.Is(el, ooxml.PrefixW, "numId") && ooxml.Is(el.Parent(), ooxml.PrefixW, "numPr"):
		return numberingReference
	case el.Tag == "blip" || el.Tag == "svgBlip":
		return blipReference
	case el.Space == "v" && el.Tag == "imagedata":
		return vmlImageReference
	}
	return noReference
}

// Rewrite walks root and replaces every style, numbering and image
// reference found in m. References without a mapping are left as they are.
func Rewrite(root *etree.Element, m Mappings) {
	ooxml.Walk(root, func(el *etree.Element) bool {
		switch classify(el) {
		case paragraphStyleReference, runStyleReference, tableStyleReference:
			replaceAttr(el, attrVal, m.Styles)
		case numberingReference:
			if old, err := strconv.Atoi(el.SelectAttrValue(attrVal, "")); err == nil {
				if mapped, ok := m.Numbering[old]; ok {
					el.CreateAttr(attrVal, strconv.Itoa(mapped))
				}
			}
		case blipReference:
			replaceAttr(el, "r:embed", m.Images)
			replaceAttr(el, "r:link", m.Images)
		case vmlImageReference:
			replaceAttr(el, "r:id", m.Images)
		}
		return true
	})
}

func replaceAttr(el *etree.Element, key string, mapping map[string]string) {
	attr := el.SelectAttr(key)
	if attr == nil {
		return
	}
	if mapped, ok := mapping[attr.Value]; ok {
		attr.Value = mapped
	}
}
