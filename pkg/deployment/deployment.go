// Package deployment reads TASTE deployment views.
package deployment

import (
	"os"
	"strings"

	"github.com/beevik/etree"
)

// TargetName guesses the deployment target of a deployment view: the name
// of the partition holding the most functions. Element names are compared
// case-insensitively and without namespace. Ties keep the first partition in
// document order. The second result is false when the file cannot be read
// or no named partition is found.
func TargetName(path string) (string, bool) {
	if strings.TrimSpace(path) == "" {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return "", false
	}
	root := doc.Root()
	if root == nil {
		return "", false
	}

	best, bestCount := "", -1
	walk(root, func(el *etree.Element) {
		if !strings.EqualFold(el.Tag, "Partition") {
			return
		}
		count := 0
		for _, child := range el.ChildElements() {
			walk(child, func(d *etree.Element) {
				if strings.EqualFold(d.Tag, "Function") {
					count++
				}
			})
		}
		if count > bestCount {
			bestCount = count
			best = el.SelectAttrValue("name", "")
		}
	})
	return best, best != ""
}

func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}
