package ooxml

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Namespaces
const (
	NamespaceContentTypes         = "http://schemas.openxmlformats.org/package/2006/content-types"
	NamespacePackageRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NamespaceWordprocessing       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceRelationships        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceDrawing              = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespaceMarkupCompatibility  = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// Relationship types
const (
	RelTypeOfficeDocument    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeStylesWithEffects = "http://schemas.microsoft.com/office/2007/relationships/stylesWithEffects"
	RelTypeNumbering         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	RelTypeImage             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Content types
const (
	ContentTypeRelationships     = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML               = "application/xml"
	ContentTypeMainDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles            = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeStylesWithEffects = "application/vnd.ms-word.stylesWithEffects+xml"
	ContentTypeNumbering         = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
)

// Prefixes Word binds to the namespaces above. Elements are matched by
// prefix because cloned subtrees lose the declarations that live on the
// part root.
const (
	PrefixW  = "w"
	PrefixR  = "r"
	PrefixA  = "a"
	PrefixMC = "mc"
)

// auxiliaryPart describes a main-document related part that can be created on demand.
type auxiliaryPart struct {
	relType     string
	contentType string
	defaultName string
	rootTag     string
}

var (
	numberingPart = auxiliaryPart{
		relType:     RelTypeNumbering,
		contentType: ContentTypeNumbering,
		defaultName: "word/numbering.xml",
		rootTag:     "w:numbering",
	}
	stylesPart = auxiliaryPart{
		relType:     RelTypeStyles,
		contentType: ContentTypeStyles,
		defaultName: "word/styles.xml",
		rootTag:     "w:styles",
	}
	stylesWithEffectsPart = auxiliaryPart{
		relType:     RelTypeStylesWithEffects,
		contentType: ContentTypeStylesWithEffects,
		defaultName: "word/stylesWithEffects.xml",
		rootTag:     "w:styles",
	}
)
