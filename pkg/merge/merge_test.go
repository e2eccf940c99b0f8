package merge

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
	"github.com/n7space/taste-document-generator/pkg/ooxml/ooxmltest"
)

const w14Namespace = "http://schemas.microsoft.com/office/word/2010/wordml"

func load(t *testing.T, d ooxmltest.Doc) *ooxml.Package {
	t.Helper()
	data := d.Bytes()
	pkg, err := ooxml.Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	t.Cleanup(func() { pkg.Close() })
	return pkg
}

func find(root *etree.Element, prefix, local string) []*etree.Element {
	var found []*etree.Element
	ooxml.Walk(root, func(el *etree.Element) bool {
		if ooxml.Is(el, prefix, local) {
			found = append(found, el)
		}
		return true
	})
	return found
}

func describe(root *etree.Element) []string {
	var out []string
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "abstractNum":
			out = append(out, "abstract:"+child.SelectAttrValue("w:abstractNumId", ""))
		case "num":
			ref := child.SelectElement("w:abstractNumId").SelectAttrValue("w:val", "")
			out = append(out, fmt.Sprintf("num:%s->%s", child.SelectAttrValue("w:numId", ""), ref))
		case "style":
			desc := "style:" + child.SelectAttrValue("w:styleId", "")
			if based := child.SelectElement("w:basedOn"); based != nil {
				desc += "<" + based.SelectAttrValue("w:val", "")
			}
			if nums := find(child, "w", "numId"); len(nums) > 0 {
				desc += "#" + nums[0].SelectAttrValue("w:val", "")
			}
			out = append(out, desc)
		}
	}
	return out
}

func TestMergeNumbering(t *testing.T) {
	tests := []struct {
		name          string
		target        []string
		source        []string
		wantMap       map[int]int
		wantNumbering []string
	}{
		{
			name:    "appends after existing definitions",
			target:  []string{ooxmltest.AbstractNum(0), ooxmltest.AbstractNum(1), ooxmltest.Num(1, 0), ooxmltest.Num(2, 1)},
			source:  []string{ooxmltest.AbstractNum(0), ooxmltest.Num(1, 0), ooxmltest.Num(4, 0)},
			wantMap: map[int]int{1: 3, 4: 4},
			wantNumbering: []string{
				"abstract:0", "abstract:1", "abstract:2",
				"num:1->0", "num:2->1", "num:3->2", "num:4->2",
			},
		},
		{
			name:          "target without numbering part",
			target:        nil,
			source:        []string{ooxmltest.AbstractNum(3), ooxmltest.Num(5, 3)},
			wantMap:       map[int]int{5: 1},
			wantNumbering: []string{"abstract:0", "num:1->0"},
		},
		{
			name:          "identifiers are remapped even without collision",
			target:        []string{ooxmltest.AbstractNum(0), ooxmltest.Num(1, 0)},
			source:        []string{ooxmltest.AbstractNum(7), ooxmltest.Num(9, 7)},
			wantMap:       map[int]int{9: 2},
			wantNumbering: []string{"abstract:0", "abstract:1", "num:1->0", "num:2->1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := load(t, ooxmltest.Doc{Numbering: tt.target})
			source := load(t, ooxmltest.Doc{Numbering: tt.source})

			got, err := MergeNumbering(target, source)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMap, got)

			root, err := target.Numbering(false)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantNumbering, describe(root)); diff != "" {
				t.Errorf("numbering mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeNumberingWithoutSourcePart(t *testing.T) {
	target := load(t, ooxmltest.Doc{})
	source := load(t, ooxmltest.Doc{})

	got, err := MergeNumbering(target, source)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, target.HasPart("word/numbering.xml"), "no part is created when there is nothing to merge")
}

func TestMergeNumberingInvalidIdentifier(t *testing.T) {
	target := load(t, ooxmltest.Doc{})
	source := load(t, ooxmltest.Doc{Numbering: []string{`<w:num w:numId="x"><w:abstractNumId w:val="0"/></w:num>`}})

	_, err := MergeNumbering(target, source)
	assert.ErrorContains(t, err, "invalid")
}

func TestMergeStyles(t *testing.T) {
	target := load(t, ooxmltest.Doc{
		Styles: []string{ooxmltest.Style("Normal"), ooxmltest.Style("Heading1"), ooxmltest.Style("Heading1_merged")},
	})
	source := load(t, ooxmltest.Doc{
		Styles: []string{
			ooxmltest.Style("Heading1"),
			ooxmltest.StyleBasedOn("Custom", "Heading1"),
			ooxmltest.NumberedStyle("Listy", 1),
		},
		StylesWithEffects: []string{
			ooxmltest.Style("Heading1"),
			ooxmltest.StyleBasedOn("Custom", "Heading1"),
		},
	})

	renames, err := MergeStyles(target, source, map[int]int{1: 7})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Heading1": "Heading1_merged2"}, renames)

	primary, err := target.Styles(false)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{
		"style:Normal", "style:Heading1", "style:Heading1_merged",
		"style:Heading1_merged2", "style:Custom<Heading1_merged2", "style:Listy#7",
	}, describe(primary)); diff != "" {
		t.Errorf("primary styles mismatch (-want +got):\n%s", diff)
	}

	effects, err := target.StylesWithEffects(false)
	require.NoError(t, err)
	require.NotNil(t, effects, "with-effects container is created in the target")
	if diff := cmp.Diff([]string{"style:Heading1_merged2", "style:Custom<Heading1_merged2"}, describe(effects)); diff != "" {
		t.Errorf("with-effects styles mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeStylesNoCollisions(t *testing.T) {
	target := load(t, ooxmltest.Doc{Styles: []string{ooxmltest.Style("Normal")}})
	source := load(t, ooxmltest.Doc{Styles: []string{ooxmltest.Style("Fresh")}})

	renames, err := MergeStyles(target, source, nil)
	require.NoError(t, err)
	assert.Empty(t, renames)

	primary, err := target.Styles(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"style:Normal", "style:Fresh"}, describe(primary))
}

func TestMergeStylesDuplicateInContainer(t *testing.T) {
	target := load(t, ooxmltest.Doc{Styles: []string{}})
	source := load(t, ooxmltest.Doc{Styles: []string{ooxmltest.Style("Twice"), ooxmltest.Style("Twice")}})

	_, err := MergeStyles(target, source, nil)
	require.NoError(t, err)

	primary, err := target.Styles(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"style:Twice", "style:Twice_merged"}, describe(primary))
}

func TestMergeImages(t *testing.T) {
	target := load(t, ooxmltest.Doc{Images: []ooxmltest.Image{{RelID: "rId4", Name: "image1.png", Data: []byte("existing")}}})
	source := load(t, ooxmltest.Doc{Images: []ooxmltest.Image{
		{RelID: "rId4", Name: "image1.png", Data: []byte("same name")},
		{RelID: "rId9", Name: "chart.emf", Data: []byte("vector")},
	}})

	got, err := MergeImages(target, source)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"rId4": "rId5", "rId9": "rId6"}, got)

	images, err := target.ImageParts()
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, []byte("existing"), images[0].Data)
	assert.Equal(t, []byte("same name"), images[1].Data)
	assert.Equal(t, "word/media/image2.png", images[1].PartName)
	assert.Equal(t, ooxml.ImageEMF, images[2].Kind())
}

func TestRewrite(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<w:body xmlns:w="w" xmlns:r="r" xmlns:a="a" xmlns:wp="wp" xmlns:pic="pic">`+
		ooxmltest.StyledP("Heading1", "Emphasis", "x")+
		ooxmltest.NumberedP(2, "y")+
		ooxmltest.NumberedP(8, "unmapped")+
		ooxmltest.ImageP("rId3")+
		ooxmltest.Table("Grid", "z")+
		`</w:body>`))

	Rewrite(doc.Root(), Mappings{
		Numbering: map[int]int{2: 12},
		Styles:    map[string]string{"Heading1": "Heading1_merged", "Grid": "Grid_merged"},
		Images:    map[string]string{"rId3": "rId30"},
	})

	root := doc.Root()
	assert.Equal(t, "Heading1_merged", find(root, "w", "pStyle")[0].SelectAttrValue("w:val", ""))
	assert.Equal(t, "Emphasis", find(root, "w", "rStyle")[0].SelectAttrValue("w:val", ""))
	assert.Equal(t, "Grid_merged", find(root, "w", "tblStyle")[0].SelectAttrValue("w:val", ""))

	nums := find(root, "w", "numId")
	require.Len(t, nums, 2)
	assert.Equal(t, "12", nums[0].SelectAttrValue("w:val", ""))
	assert.Equal(t, "8", nums[1].SelectAttrValue("w:val", ""))

	assert.Equal(t, "rId30", find(root, "a", "blip")[0].SelectAttrValue("r:embed", ""))
}

func TestDeclareNamespaces(t *testing.T) {
	dst := etree.NewElement("w:document")
	dst.CreateAttr("xmlns:w", "w")
	dst.CreateAttr("xmlns:mc", ooxml.NamespaceMarkupCompatibility)
	dst.CreateAttr("mc:Ignorable", "w14")
	dst.CreateAttr("xmlns:w14", w14Namespace)

	src := etree.NewElement("w:document")
	src.CreateAttr("xmlns:w", "other")
	src.CreateAttr("xmlns:w15", "w15-ns")
	src.CreateAttr("xmlns:mc", ooxml.NamespaceMarkupCompatibility)
	src.CreateAttr("mc:Ignorable", "w14 w15 wp14")

	declareNamespaces(dst, src)

	assert.Equal(t, "w", dst.SelectAttrValue("xmlns:w", ""), "existing declarations are kept")
	assert.Equal(t, "w15-ns", dst.SelectAttrValue("xmlns:w15", ""))
	assert.Equal(t, "w14 w15", dst.SelectAttrValue("mc:Ignorable", ""), "undeclared prefixes are not made ignorable")
}
