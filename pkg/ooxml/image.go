package ooxml

import (
	"fmt"
	"path"
	"strings"
)

// ImageKind classifies an image part by format.
type ImageKind int

const (
	ImagePNG ImageKind = iota
	ImageJPEG
	ImageGIF
	ImageBMP
	ImageTIFF
	ImageEMF
	ImageWMF
	ImageSVG
	ImageIcon
	ImagePCX
)

var imageKinds = map[ImageKind]struct {
	contentType string
	extension   string
}{
	ImagePNG:  {"image/png", ".png"},
	ImageJPEG: {"image/jpeg", ".jpeg"},
	ImageGIF:  {"image/gif", ".gif"},
	ImageBMP:  {"image/bmp", ".bmp"},
	ImageTIFF: {"image/tiff", ".tiff"},
	ImageEMF:  {"image/x-emf", ".emf"},
	ImageWMF:  {"image/x-wmf", ".wmf"},
	ImageSVG:  {"image/svg+xml", ".svg"},
	ImageIcon: {"image/x-icon", ".ico"},
	ImagePCX:  {"image/x-pcx", ".pcx"},
}

// ImageKindFor maps a content type to an image kind. Unrecognized content
// types fall back to PNG.
func ImageKindFor(contentType string) ImageKind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return ImageJPEG
	case "image/gif":
		return ImageGIF
	case "image/bmp", "image/x-bmp":
		return ImageBMP
	case "image/tiff", "image/tif":
		return ImageTIFF
	case "image/x-emf", "image/emf":
		return ImageEMF
	case "image/x-wmf", "image/wmf":
		return ImageWMF
	case "image/svg+xml":
		return ImageSVG
	case "image/x-icon", "image/vnd.microsoft.icon":
		return ImageIcon
	case "image/x-pcx", "image/pcx":
		return ImagePCX
	}
	return ImagePNG
}

// ContentType returns the canonical content type of the kind.
func (k ImageKind) ContentType() string {
	if info, ok := imageKinds[k]; ok {
		return info.contentType
	}
	return imageKinds[ImagePNG].contentType
}

// Extension returns the file extension, with leading dot, used for new parts of the kind.
func (k ImageKind) Extension() string {
	if info, ok := imageKinds[k]; ok {
		return info.extension
	}
	return imageKinds[ImagePNG].extension
}

func (k ImageKind) String() string {
	return strings.TrimPrefix(k.Extension(), ".")
}

// ImagePart is an internal image related to the main document.
type ImagePart struct {
	RelationshipID string
	PartName       string
	ContentType    string
	Data           []byte
}

// Kind classifies the part by its content type.
func (i ImagePart) Kind() ImageKind {
	return ImageKindFor(i.ContentType)
}

// ImageParts lists the internal image parts of the main document in
// relationship order. External images are skipped.
func (p *Package) ImageParts() ([]ImagePart, error) {
	rels, err := p.Relationships(p.mainPart, false)
	if err != nil || rels == nil {
		return nil, err
	}
	var images []ImagePart
	for _, rel := range rels.Relationship {
		if rel.Type != RelTypeImage || rel.External() {
			continue
		}
		name := resolveTarget(p.mainPart, rel.Target)
		data, ok := p.parts[name]
		if !ok {
			continue
		}
		images = append(images, ImagePart{
			RelationshipID: rel.ID,
			PartName:       name,
			ContentType:    p.types.ContentTypeOf(name),
			Data:           data,
		})
	}
	return images, nil
}

// AddImagePart stores data as a new media part of the given kind, relates
// it to the main document and returns the fresh relationship identifier.
func (p *Package) AddImagePart(kind ImageKind, data []byte) (string, error) {
	if err := p.checkOpen(); err != nil {
		return "", err
	}
	dir := path.Join(path.Dir(p.mainPart), "media")
	var name string
	for n := 1; ; n++ {
		name = fmt.Sprintf("%s/image%d%s", dir, n, kind.Extension())
		if !p.HasPart(name) {
			break
		}
	}
	p.addPart(name, append([]byte(nil), data...))
	p.types.EnsureDefault(kind.Extension(), kind.ContentType())

	rels, err := p.Relationships(p.mainPart, true)
	if err != nil {
		return "", err
	}
	return rels.Add(RelTypeImage, relativeTarget(p.mainPart, name)), nil
}
