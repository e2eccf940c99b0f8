package ooxml

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// ContentTypes is the package-level [Content_Types].xml listing.
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps a file extension to a content type.
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a single part to a content type.
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func parseContentTypes(content []byte) (*ContentTypes, error) {
	var types ContentTypes
	if err := xml.Unmarshal(content, &types); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	return &types, nil
}

func (c *ContentTypes) marshal() ([]byte, error) {
	c.XMLName = xml.Name{Local: "Types"}
	if c.Namespace == "" {
		c.Namespace = NamespaceContentTypes
	}
	content, err := xml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content types: %w", err)
	}
	return append([]byte(xmlHeader), content...), nil
}

// ContentTypeOf resolves the content type of a part: override first, then extension default.
func (c *ContentTypes) ContentTypeOf(partName string) string {
	for _, o := range c.Overrides {
		if strings.EqualFold(strings.TrimPrefix(o.PartName, "/"), partName) {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// EnsureDefault registers an extension default unless one already exists.
func (c *ContentTypes) EnsureDefault(extension, contentType string) {
	extension = strings.TrimPrefix(extension, ".")
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, extension) {
			return
		}
	}
	c.Defaults = append(c.Defaults, ContentTypeDefault{Extension: extension, ContentType: contentType})
}

// SetOverride registers or replaces the override of a part.
func (c *ContentTypes) SetOverride(partName, contentType string) {
	partName = "/" + strings.TrimPrefix(partName, "/")
	for i, o := range c.Overrides {
		if strings.EqualFold(o.PartName, partName) {
			c.Overrides[i].ContentType = contentType
			return
		}
	}
	c.Overrides = append(c.Overrides, ContentTypeOverride{PartName: partName, ContentType: contentType})
}
