// Package orchestrator runs a complete generation: it validates the inputs,
// exports system object data for the deployment target and hands everything
// to the document assembler.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/n7space/taste-document-generator/pkg/assembler"
	"github.com/n7space/taste-document-generator/pkg/config"
	"github.com/n7space/taste-document-generator/pkg/runner"
)

// DefaultConcurrency bounds the exporter processes running at once.
const DefaultConcurrency = 4

// Parameters describe one generation.
type Parameters struct {
	TemplatePath       string
	InterfaceViewPath  string
	DeploymentViewPath string
	// Opus2ModelPath is only required when Target is set.
	Opus2ModelPath string
	OutputPath     string
	// Target is the deployment target. Empty skips the system object export.
	Target               string
	TemplateDirectory    string
	TemplateProcessor    string
	SystemObjectExporter string
	SystemObjectTypes    []string
	Tag                  string
	// TemporaryDirectory holds the run directory. Empty means os.TempDir().
	TemporaryDirectory string
}

// ParametersFromSettings maps persisted settings onto generation parameters.
func ParametersFromSettings(s config.Settings) Parameters {
	return Parameters{
		TemplatePath:         s.TemplatePath,
		InterfaceViewPath:    s.InterfaceViewPath,
		DeploymentViewPath:   s.DeploymentViewPath,
		Opus2ModelPath:       s.Opus2ModelPath,
		OutputPath:           s.OutputPath,
		Target:               s.Target,
		TemplateDirectory:    s.TemplateDirectory,
		TemplateProcessor:    s.TemplateProcessor,
		SystemObjectExporter: s.SystemObjectExporter,
		SystemObjectTypes:    append([]string(nil), s.SystemObjectTypes...),
		Tag:                  s.Tag,
	}
}

// Validate reports every missing or unusable parameter at once.
func (p Parameters) Validate() error {
	verr := &ValidationError{}
	requireFile(verr, "template", p.TemplatePath)
	requireFile(verr, "interface view", p.InterfaceViewPath)
	requireFile(verr, "deployment view", p.DeploymentViewPath)
	if strings.TrimSpace(p.Target) != "" {
		requireFile(verr, "OPUS2 model", p.Opus2ModelPath)
	}
	if strings.TrimSpace(p.OutputPath) == "" {
		verr.add("output", "must be provided")
	} else if overwritesTemplate(p.TemplatePath, p.OutputPath) {
		verr.add("output", "%s is the template itself", p.OutputPath)
	}
	return verr.orNil()
}

func requireFile(verr *ValidationError, field, path string) {
	if strings.TrimSpace(path) == "" {
		verr.add(field, "must be provided")
		return
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		verr.add(field, "file not found: %s", path)
	case info.IsDir():
		verr.add(field, "%s is a directory", path)
	}
}

func overwritesTemplate(template, output string) bool {
	ti, err := os.Stat(template)
	if err != nil {
		return false
	}
	oi, err := os.Stat(output)
	return err == nil && os.SameFile(ti, oi)
}

// Orchestrator drives generations.
type Orchestrator struct {
	processor   assembler.Processor
	runner      runner.Runner
	log         *zap.Logger
	concurrency int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithConcurrency bounds the exporter processes running at once.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// New creates an orchestrator assembling documents with p and running the
// system object exporter through r.
func New(p assembler.Processor, r runner.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{processor: p, runner: r, log: zap.NewNop(), concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate produces p.OutputPath. The run directory is removed on every path.
func (o *Orchestrator) Generate(ctx context.Context, p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.TemplateProcessor == "" {
		p.TemplateProcessor = config.DefaultTemplateProcessor
	}
	if p.SystemObjectExporter == "" {
		p.SystemObjectExporter = config.DefaultSystemObjectExporter
	}
	if err := os.MkdirAll(filepath.Dir(p.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	root := p.TemporaryDirectory
	if root == "" {
		root = os.TempDir()
	}
	work := filepath.Join(root, "tdg_"+strings.ReplaceAll(uuid.NewString(), "-", ""))
	exports := filepath.Join(work, "exports")
	scratch := filepath.Join(work, "assembler")
	for _, dir := range []string{exports, scratch} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.RemoveAll(work)
			return fmt.Errorf("create run directory: %w", err)
		}
	}
	defer func() {
		if err := os.RemoveAll(work); err != nil {
			o.log.Warn("failed to remove run directory", zap.String("path", work), zap.Error(err))
		}
	}()

	log := o.log.With(zap.String("template", p.TemplatePath), zap.String("target", p.Target))

	var csvFiles []string
	if strings.TrimSpace(p.Target) != "" {
		var err error
		if csvFiles, err = o.export(ctx, p, exports); err != nil {
			return err
		}
	} else {
		log.Info("no deployment target set, skipping system object export")
	}

	c := assembler.Context{
		InterfaceViewPath:  p.InterfaceViewPath,
		DeploymentViewPath: p.DeploymentViewPath,
		Target:             p.Target,
		TemplateDirectory:  p.TemplateDirectory,
		TemporaryDirectory: scratch,
		TemplateProcessor:  p.TemplateProcessor,
		SystemObjectFiles:  csvFiles,
		Delimiters:         assembler.Delimiters{Tag: p.Tag},
	}
	if err := o.processor.ProcessTemplate(ctx, c, p.TemplatePath, p.OutputPath); err != nil {
		return err
	}
	log.Info("document generated", zap.String("output", p.OutputPath))
	return nil
}
