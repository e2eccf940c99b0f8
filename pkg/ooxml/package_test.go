package ooxml_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
	"github.com/n7space/taste-document-generator/pkg/ooxml/ooxmltest"
)

func openDoc(t *testing.T, d ooxmltest.Doc) *ooxml.Package {
	t.Helper()
	data := d.Bytes()
	pkg, err := ooxml.Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	t.Cleanup(func() { pkg.Close() })
	return pkg
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		setup   func() string
		wantErr bool
		check   func(t *testing.T, err error)
	}{
		{
			name: "valid package",
			setup: func() string {
				return ooxmltest.Doc{Body: []string{ooxmltest.P("hello")}}.Write(t, dir, "valid.docx")
			},
		},
		{
			name:    "missing file",
			setup:   func() string { return filepath.Join(dir, "missing.docx") },
			wantErr: true,
			check: func(t *testing.T, err error) {
				assert.True(t, ooxml.IsDocumentError(err))
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
		{
			name: "not a zip",
			setup: func() string {
				path := filepath.Join(dir, "plain.docx")
				require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := ooxml.Open(tt.setup())
			if tt.wantErr {
				require.Error(t, err)
				if tt.check != nil {
					tt.check(t, err)
				}
				return
			}
			require.NoError(t, err)
			defer pkg.Close()
			assert.Equal(t, "word/document.xml", pkg.MainPart())
		})
	}
}

func TestBody(t *testing.T) {
	pkg := openDoc(t, ooxmltest.Doc{Body: []string{ooxmltest.P("one"), ooxmltest.P("two")}})
	body, err := pkg.Body()
	require.NoError(t, err)
	require.NotNil(t, body)
	assert.Equal(t, []string{"one", "two"}, ooxml.ParagraphTexts(body))

	empty := openDoc(t, ooxmltest.Doc{NoBody: true})
	body, err = empty.Body()
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestAuxiliaryParts(t *testing.T) {
	t.Run("absent without create", func(t *testing.T) {
		pkg := openDoc(t, ooxmltest.Doc{})
		root, err := pkg.Numbering(false)
		require.NoError(t, err)
		assert.Nil(t, root)
	})

	t.Run("created on demand", func(t *testing.T) {
		pkg := openDoc(t, ooxmltest.Doc{})
		root, err := pkg.StylesWithEffects(true)
		require.NoError(t, err)
		require.NotNil(t, root)
		assert.Equal(t, "styles", root.Tag)

		assert.True(t, pkg.HasPart("word/stylesWithEffects.xml"))
		assert.Equal(t, ooxml.ContentTypeStylesWithEffects, pkg.ContentTypes().ContentTypeOf("word/stylesWithEffects.xml"))

		rels, err := pkg.Relationships(pkg.MainPart(), false)
		require.NoError(t, err)
		rel, ok := rels.Find(ooxml.RelTypeStylesWithEffects)
		require.True(t, ok)
		assert.Equal(t, "stylesWithEffects.xml", rel.Target)

		again, err := pkg.StylesWithEffects(true)
		require.NoError(t, err)
		assert.Same(t, root, again)
	})

	t.Run("existing part", func(t *testing.T) {
		pkg := openDoc(t, ooxmltest.Doc{Styles: []string{ooxmltest.Style("Heading1")}})
		root, err := pkg.Styles(false)
		require.NoError(t, err)
		require.NotNil(t, root)
		assert.Len(t, root.ChildElements(), 1)
	})
}

func TestImageParts(t *testing.T) {
	pkg := openDoc(t, ooxmltest.Doc{
		Body: []string{ooxmltest.ImageP("rId7")},
		Images: []ooxmltest.Image{
			{RelID: "rId7", Name: "image1.png", Data: []byte("png-bytes")},
			{RelID: "rId8", Name: "photo.jpeg", Data: []byte("jpeg-bytes")},
		},
	})

	images, err := pkg.ImageParts()
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "rId7", images[0].RelationshipID)
	assert.Equal(t, ooxml.ImagePNG, images[0].Kind())
	assert.Equal(t, []byte("png-bytes"), images[0].Data)
	assert.Equal(t, ooxml.ImageJPEG, images[1].Kind())
}

func TestAddImagePart(t *testing.T) {
	pkg := openDoc(t, ooxmltest.Doc{
		Styles: []string{},
		Images: []ooxmltest.Image{{RelID: "rId9", Name: "image1.png", Data: []byte("a")}},
	})

	id, err := pkg.AddImagePart(ooxml.ImagePNG, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, "rId10", id)
	assert.True(t, pkg.HasPart("word/media/image2.png"))

	id, err = pkg.AddImagePart(ooxml.ImageEMF, []byte("c"))
	require.NoError(t, err)
	assert.Equal(t, "rId11", id)
	assert.Equal(t, "image/x-emf", pkg.ContentTypes().ContentTypeOf("word/media/image1.emf"))

	images, err := pkg.ImageParts()
	require.NoError(t, err)
	var got []string
	for _, img := range images {
		got = append(got, img.RelationshipID+"="+string(img.Data))
	}
	if diff := cmp.Diff([]string{"rId9=a", "rId10=b", "rId11=c"}, got); diff != "" {
		t.Errorf("image parts mismatch (-want +got):\n%s", diff)
	}
}

func TestImageKindFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        ooxml.ImageKind
	}{
		{"image/png", ooxml.ImagePNG},
		{"IMAGE/JPEG", ooxml.ImageJPEG},
		{"image/gif", ooxml.ImageGIF},
		{"image/bmp", ooxml.ImageBMP},
		{"image/tiff", ooxml.ImageTIFF},
		{"image/x-emf", ooxml.ImageEMF},
		{"image/x-wmf", ooxml.ImageWMF},
		{"image/svg+xml", ooxml.ImageSVG},
		{"image/x-icon", ooxml.ImageIcon},
		{"image/x-pcx", ooxml.ImagePCX},
		{"image/jpeg; q=1", ooxml.ImageJPEG},
		{"application/octet-stream", ooxml.ImagePNG},
		{"", ooxml.ImagePNG},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, ooxml.ImageKindFor(tt.contentType))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := ooxmltest.Doc{
		Body:      []string{ooxmltest.P("first"), ooxmltest.P("a < b & c"), ooxmltest.SectPr()},
		Numbering: []string{ooxmltest.AbstractNum(0), ooxmltest.Num(1, 0)},
	}.Write(t, dir, "in.docx")

	pkg, err := ooxml.Open(src)
	require.NoError(t, err)
	body, err := pkg.Body()
	require.NoError(t, err)
	p := ooxml.AppendParagraph(body)
	p.CreateElement("w:r").CreateElement("w:t").SetText("appended")

	out := filepath.Join(dir, "out.docx")
	require.NoError(t, pkg.Save(out))
	require.NoError(t, pkg.Close())

	reopened, err := ooxml.Open(out)
	require.NoError(t, err)
	defer reopened.Close()

	body, err = reopened.Body()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "a < b & c", "appended"}, ooxml.ParagraphTexts(body))

	children := body.ChildElements()
	assert.Equal(t, "sectPr", children[len(children)-1].Tag, "section properties stay last")

	numbering, err := reopened.Numbering(false)
	require.NoError(t, err)
	assert.Len(t, numbering.ChildElements(), 2)

	matches, err := filepath.Glob(filepath.Join(dir, ".tdg-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files are cleaned up")
}

func TestClosedPackage(t *testing.T) {
	pkg := openDoc(t, ooxmltest.Doc{})
	require.NoError(t, pkg.Close())
	require.NoError(t, pkg.Close())

	_, err := pkg.Body()
	assert.ErrorIs(t, err, ooxml.ErrClosed)
	_, err = pkg.AddImagePart(ooxml.ImagePNG, nil)
	assert.ErrorIs(t, err, ooxml.ErrClosed)
	assert.ErrorIs(t, pkg.Save(filepath.Join(t.TempDir(), "x.docx")), ooxml.ErrClosed)
}

func TestSaveFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	pkg := openDoc(t, ooxmltest.Doc{Body: []string{ooxmltest.P("x")}})

	fresh := filepath.Join(dir, "fresh.docx")
	require.NoError(t, pkg.Save(fresh))
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	existing := filepath.Join(dir, "existing.docx")
	require.NoError(t, os.WriteFile(existing, nil, 0o600))
	require.NoError(t, os.Chmod(existing, 0o640))
	require.NoError(t, pkg.Save(existing))
	info, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm(), "an existing file keeps its permissions")
}

func TestTextStopsAtNestedParagraphs(t *testing.T) {
	pkg := openDoc(t, ooxmltest.Doc{Body: []string{
		ooxmltest.TextBoxP(ooxmltest.P("inside"), ooxmltest.P("box")),
	}})
	body, err := pkg.Body()
	require.NoError(t, err)

	paragraphs := ooxml.Paragraphs(body)
	require.Len(t, paragraphs, 3)
	var texts []string
	for _, p := range paragraphs {
		texts = append(texts, ooxml.Text(p))
	}
	assert.Equal(t, []string{"", "inside", "box"}, texts)
}
