// Package assembler resolves the hooks of a template document into a
// composite output document.
//
// A hook is a paragraph whose whole text reads
//
//	<TDG: template path/to/template.tmplt/>
//	<TDG: document path/to/include.docx/>
//
// Template hooks run the external template processor and splice the
// document it produces; document hooks splice an existing document. All
// template hooks are resolved before any document hook.
package assembler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/n7space/taste-document-generator/pkg/merge"
	"github.com/n7space/taste-document-generator/pkg/ooxml"
	"github.com/n7space/taste-document-generator/pkg/runner"
)

// Context carries the inputs shared by every hook of one run.
type Context struct {
	InterfaceViewPath  string
	DeploymentViewPath string
	// Target is passed to the template processor as TARGET when set.
	Target string
	// TemplateDirectory resolves relative hook arguments. Empty means the
	// directory of the template being processed.
	TemplateDirectory string
	// TemporaryDirectory holds per-hook scratch directories. Empty means os.TempDir().
	TemporaryDirectory string
	// TemplateProcessor is the template processor binary.
	TemplateProcessor string
	// SystemObjectFiles are exported CSV files handed to the template processor.
	SystemObjectFiles []string
	Delimiters        Delimiters
}

func (c Context) resolve(arg string) string {
	if filepath.IsAbs(arg) {
		return arg
	}
	return filepath.Join(c.TemplateDirectory, arg)
}

// Processor turns a template into an output document.
type Processor interface {
	ProcessTemplate(ctx context.Context, c Context, templatePath, outputPath string) error
}

// Assembler resolves hooks. It is safe to reuse across runs but a single
// run must not be shared between goroutines.
type Assembler struct {
	runner runner.Runner
	engine *merge.Engine
	log    *zap.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Assembler) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates an assembler running external tools through r.
func New(r runner.Runner, opts ...Option) *Assembler {
	a := &Assembler{runner: r, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.engine = merge.NewEngine(a.log.Named("merge"))
	return a
}

// ProcessTemplate copies templatePath to outputPath, resolves every hook of
// the copy and saves it. Hooks found in spliced content are not resolved.
func (a *Assembler) ProcessTemplate(ctx context.Context, c Context, templatePath, outputPath string) error {
	if c.TemplateDirectory == "" {
		c.TemplateDirectory = filepath.Dir(templatePath)
	}
	if c.TemporaryDirectory == "" {
		c.TemporaryDirectory = os.TempDir()
	}
	c.Delimiters = c.Delimiters.withDefaults()

	if sameFile(templatePath, outputPath) {
		return fmt.Errorf("%w: %s", ErrOutputIsTemplate, outputPath)
	}
	if err := copyFile(templatePath, outputPath); err != nil {
		return err
	}

	doc, err := ooxml.Open(outputPath)
	if err != nil {
		return err
	}
	defer doc.Close()

	body, err := doc.Body()
	if err != nil {
		return ooxml.NewDocumentError("scan", outputPath, err)
	}

	// Both passes are collected before anything is spliced so generated
	// content is never scanned.
	passes := []struct {
		verb  string
		hooks []Hook
	}{
		{VerbTemplate, FindHooks(body, c.Delimiters, VerbTemplate)},
		{VerbDocument, FindHooks(body, c.Delimiters, VerbDocument)},
	}
	for _, pass := range passes {
		a.log.Debug("resolving hooks", zap.String("verb", pass.verb), zap.Int("count", len(pass.hooks)))
		for _, hook := range pass.hooks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.dispatch(ctx, c, doc, hook); err != nil {
				return err
			}
		}
	}

	if err := doc.Save(outputPath); err != nil {
		return err
	}
	a.log.Info("document assembled", zap.String("output", outputPath))
	return nil
}

// sameFile reports whether a and b name one existing file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Kind: "template", Path: src}
		}
		return fmt.Errorf("open template: %w", err)
	}
	defer in.Close()

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy template: %w", err)
	}
	return out.Close()
}
