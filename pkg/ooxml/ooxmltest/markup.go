package ooxmltest

import (
	"fmt"
	"html"
	"strings"
)

// P is a paragraph holding a single run of text.
func P(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t></w:r></w:p>`
}

// SplitP is a paragraph whose text is spread over one run per fragment.
func SplitP(fragments ...string) string {
	var sb strings.Builder
	sb.WriteString(`<w:p>`)
	for _, f := range fragments {
		sb.WriteString(`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">` + html.EscapeString(f) + `</w:t></w:r>`)
	}
	sb.WriteString(`</w:p>`)
	return sb.String()
}

// StyledP is a paragraph with a paragraph style and a run style.
func StyledP(paragraphStyle, runStyle, text string) string {
	return fmt.Sprintf(`<w:p><w:pPr><w:pStyle w:val="%s"/></w:pPr><w:r><w:rPr><w:rStyle w:val="%s"/></w:rPr><w:t>%s</w:t></w:r></w:p>`,
		paragraphStyle, runStyle, html.EscapeString(text))
}

// NumberedP is a list paragraph referencing a numbering instance.
func NumberedP(numID int, text string) string {
	return fmt.Sprintf(`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr></w:pPr><w:r><w:t>%s</w:t></w:r></w:p>`,
		numID, html.EscapeString(text))
}

// ImageP is a paragraph with an inline picture embedding relID.
func ImageP(relID string) string {
	return `<w:p><w:r><w:drawing><wp:inline><wp:docPr id="1" name="Picture 1"/>` +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:pic><pic:blipFill><a:blip r:embed="` + relID + `"/></pic:blipFill></pic:pic>` +
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`
}

// TextBoxP is a paragraph whose only content is a VML text box holding the
// given paragraphs.
func TextBoxP(paragraphs ...string) string {
	return `<w:p><w:r><w:pict><v:shape><v:textbox><w:txbxContent>` + strings.Join(paragraphs, "") +
		`</w:txbxContent></v:textbox></v:shape></w:pict></w:r></w:p>`
}

// Table is a one-cell table holding text.
func Table(style, text string) string {
	return `<w:tbl><w:tblPr><w:tblStyle w:val="` + style + `"/></w:tblPr><w:tblGrid><w:gridCol w:w="2000"/></w:tblGrid>` +
		`<w:tr><w:tc>` + P(text) + `</w:tc></w:tr></w:tbl>`
}

// SectPr is a trailing section-properties element.
func SectPr() string {
	return `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`
}

// Style is a paragraph style definition.
func Style(id string) string {
	return fmt.Sprintf(`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/></w:style>`, id, id)
}

// StyleBasedOn is a paragraph style inheriting from another style.
func StyleBasedOn(id, basedOn string) string {
	return fmt.Sprintf(`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/><w:basedOn w:val="%s"/></w:style>`, id, id, basedOn)
}

// NumberedStyle is a paragraph style carrying a numbering reference.
func NumberedStyle(id string, numID int) string {
	return fmt.Sprintf(`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/><w:pPr><w:numPr><w:numId w:val="%d"/></w:numPr></w:pPr></w:style>`, id, id, numID)
}

// AbstractNum is an abstract numbering definition with one decimal level.
func AbstractNum(id int) string {
	return fmt.Sprintf(`<w:abstractNum w:abstractNumId="%d"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>`, id)
}

// Num is a numbering instance bound to an abstract definition.
func Num(id, abstractID int) string {
	return fmt.Sprintf(`<w:num w:numId="%d"><w:abstractNumId w:val="%d"/></w:num>`, id, abstractID)
}

// Hook is a paragraph carrying a directive with the default delimiters.
func Hook(command string) string {
	return P("<TDG: " + command + "/>")
}
