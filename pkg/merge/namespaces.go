package merge

import (
	"strings"

	"github.com/beevik/etree"
)

const attrIgnorable = "mc:Ignorable"

// declareNamespaces copies the prefixed namespace declarations of src that
// dst lacks, and extends dst's mc:Ignorable list with the ignorable prefixes
// of src. Spliced markup may use prefixes such as w14 that only src declared.
func declareNamespaces(dst, src *etree.Element) {
	if dst == nil || src == nil {
		return
	}
	for _, attr := range src.Attr {
		if attr.Space != "xmlns" {
			continue
		}
		if dst.SelectAttr("xmlns:"+attr.Key) == nil {
			dst.CreateAttr("xmlns:"+attr.Key, attr.Value)
		}
	}

	srcIgnorable := strings.Fields(src.SelectAttrValue(attrIgnorable, ""))
	if len(srcIgnorable) == 0 {
		return
	}
	if dst.SelectAttr("xmlns:mc") == nil {
		return
	}
	prefixes := strings.Fields(dst.SelectAttrValue(attrIgnorable, ""))
	seen := make(map[string]bool, len(prefixes))
	for _, p := range prefixes {
		seen[p] = true
	}
	for _, p := range srcIgnorable {
		if !seen[p] && dst.SelectAttr("xmlns:"+p) != nil {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}
	if len(prefixes) > 0 {
		dst.CreateAttr(attrIgnorable, strings.Join(prefixes, " "))
	}
}
