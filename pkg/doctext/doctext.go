// Package doctext extracts the plain text of a Word document, one line per
// paragraph. It reads documents independently of pkg/ooxml so generated
// output can be checked by a second parser.
package doctext

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// Paragraphs returns the text of every body paragraph in document order.
// Table cells contribute their paragraphs row by row.
func Paragraphs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", path, err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			lines = append(lines, paragraphText(v))
		case *docx.Table:
			lines = appendTable(lines, v)
		}
	}
	return lines, nil
}

// Text returns the paragraphs of the document joined by newlines.
func Text(path string) (string, error) {
	lines, err := Paragraphs(path)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func appendTable(lines []string, t *docx.Table) []string {
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, p := range cell.Paragraphs {
				lines = append(lines, paragraphText(p))
			}
			for _, nested := range cell.Tables {
				lines = appendTable(lines, nested)
			}
		}
	}
	return lines
}

func paragraphText(p *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range p.Children {
		switch v := child.(type) {
		case *docx.Run:
			writeRun(&sb, v)
		case *docx.Hyperlink:
			writeRun(&sb, &v.Run)
		}
	}
	return sb.String()
}

func writeRun(sb *strings.Builder, r *docx.Run) {
	for _, rc := range r.Children {
		if t, ok := rc.(*docx.Text); ok {
			sb.WriteString(t.Text)
		}
	}
}
