package assembler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
)

// Default hook delimiters.
const (
	DefaultOpen  = "<"
	DefaultTag   = "TDG:"
	DefaultClose = "/>"
)

// Hook verbs.
const (
	VerbTemplate = "template"
	VerbDocument = "document"
)

// Delimiters frame a hook: Open+Tag starts it and Close ends it. Zero
// fields take the defaults.
type Delimiters struct {
	Open  string
	Tag   string
	Close string
}

// DefaultDelimiters returns the delimiters "<TDG:" and "/>".
func DefaultDelimiters() Delimiters {
	return Delimiters{Open: DefaultOpen, Tag: DefaultTag, Close: DefaultClose}
}

func (d Delimiters) withDefaults() Delimiters {
	if d.Open == "" {
		d.Open = DefaultOpen
	}
	if d.Tag == "" {
		d.Tag = DefaultTag
	}
	if d.Close == "" {
		d.Close = DefaultClose
	}
	return d
}

// Command extracts the command of a hook from paragraph text. The text is
// trimmed, must start with Open+Tag and end with Close, and the command
// between them is trimmed as well.
func (d Delimiters) Command(text string) (string, bool) {
	d = d.withDefaults()
	text = strings.TrimSpace(text)
	prefix := d.Open + d.Tag
	if len(text) < len(prefix)+len(d.Close) {
		return "", false
	}
	if !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, d.Close) {
		return "", false
	}
	return strings.TrimSpace(text[len(prefix) : len(text)-len(d.Close)]), true
}

// Hook is a paragraph carrying a directive.
type Hook struct {
	Paragraph *etree.Element
	// Command is the trimmed text between the delimiters.
	Command string
}

// Verb returns the first token of the command.
func (h Hook) Verb() string {
	return ParseCommand(h.Command).Verb
}

// FindHooks returns, in document order, the paragraphs below body whose
// command starts with verb followed by a word boundary.
func FindHooks(body *etree.Element, d Delimiters, verb string) []Hook {
	var hooks []Hook
	for _, h := range ScanHooks(body, d) {
		if hasVerb(h.Command, verb) {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// ScanHooks returns every hook below body in document order, whatever its verb.
func ScanHooks(body *etree.Element, d Delimiters) []Hook {
	if body == nil {
		return nil
	}
	var hooks []Hook
	for _, p := range ooxml.Paragraphs(body) {
		if command, ok := d.Command(ooxml.Text(p)); ok {
			hooks = append(hooks, Hook{Paragraph: p, Command: command})
		}
	}
	return hooks
}

func hasVerb(command, verb string) bool {
	if !strings.HasPrefix(command, verb) {
		return false
	}
	rest := command[len(verb):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r)
}
