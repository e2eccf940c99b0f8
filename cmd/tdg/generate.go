package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/n7space/taste-document-generator/pkg/assembler"
	"github.com/n7space/taste-document-generator/pkg/config"
	"github.com/n7space/taste-document-generator/pkg/deployment"
	"github.com/n7space/taste-document-generator/pkg/orchestrator"
	"github.com/n7space/taste-document-generator/pkg/runner"
	"github.com/n7space/taste-document-generator/pkg/watch"
)

type generateOptions struct {
	templatePath         string
	interfaceView        string
	deploymentView       string
	opus2Model           string
	outputPath           string
	target               string
	templateDirectory    string
	templateProcessor    string
	systemObjectExporter string
	systemObjectTypes    []string
	tag                  string
	timeout              time.Duration

	watch        bool
	guessTarget  bool
	saveSettings bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a document from a template",
		Long: `Generates a document from a template. Flags override the settings file,
which overrides the built-in defaults.

Without a deployment target the system object export is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.templatePath, "template-path", "t", "", "input template file path")
	f.StringVarP(&opts.interfaceView, "interface-view", "i", "", "interface view file path")
	f.StringVarP(&opts.deploymentView, "deployment-view", "d", "", "deployment view file path")
	f.StringVarP(&opts.opus2Model, "opus2-model-path", "p", "", "OPUS2 model file path")
	f.StringVarP(&opts.outputPath, "output-path", "o", "", "output file path")
	f.StringVar(&opts.target, "target", "", "deployment target (partition) name")
	f.StringVar(&opts.templateDirectory, "template-directory", "", "directory resolving relative hook arguments")
	f.StringVar(&opts.templateProcessor, "template-processor", "", "template processor binary (default "+config.DefaultTemplateProcessor+")")
	f.StringVar(&opts.systemObjectExporter, "system-object-exporter", "", "system object exporter binary (default "+config.DefaultSystemObjectExporter+")")
	f.StringArrayVar(&opts.systemObjectTypes, "system-object-type", nil, "system object type to export (repeatable)")
	f.StringVar(&opts.tag, "tag", "", "hook tag (default "+config.DefaultTag+")")
	f.DurationVar(&opts.timeout, "timeout", 0, "timeout of each external process, 0 for none")
	f.BoolVar(&opts.watch, "watch", false, "regenerate whenever an input changes")
	f.BoolVar(&opts.guessTarget, "guess-target", false, "guess the target from the deployment view when none is set")
	f.BoolVar(&opts.saveSettings, "save-settings", false, "write the effective settings back to the settings file")
	return cmd
}

// apply overlays the flags that were given on the command line.
func (o generateOptions) apply(cmd *cobra.Command, s *config.Settings) {
	strs := []struct {
		flag  string
		dst   *string
		value string
	}{
		{"template-path", &s.TemplatePath, o.templatePath},
		{"interface-view", &s.InterfaceViewPath, o.interfaceView},
		{"deployment-view", &s.DeploymentViewPath, o.deploymentView},
		{"opus2-model-path", &s.Opus2ModelPath, o.opus2Model},
		{"output-path", &s.OutputPath, o.outputPath},
		{"target", &s.Target, o.target},
		{"template-directory", &s.TemplateDirectory, o.templateDirectory},
		{"template-processor", &s.TemplateProcessor, o.templateProcessor},
		{"system-object-exporter", &s.SystemObjectExporter, o.systemObjectExporter},
		{"tag", &s.Tag, o.tag},
	}
	for _, v := range strs {
		if cmd.Flags().Changed(v.flag) {
			*v.dst = v.value
		}
	}
	if cmd.Flags().Changed("system-object-type") {
		s.SystemObjectTypes = o.systemObjectTypes
	}
	if cmd.Flags().Changed("timeout") {
		s.ProcessTimeout = o.timeout
	}
}

func (a *app) generate(cmd *cobra.Command, opts generateOptions) error {
	s := a.settings
	opts.apply(cmd, &s)
	if err := s.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	if s.Target == "" && opts.guessTarget && s.DeploymentViewPath != "" {
		if name, ok := deployment.TargetName(s.DeploymentViewPath); ok {
			a.log.Info("guessed deployment target", zap.String("target", name))
			s.Target = name
		} else {
			a.log.Warn("could not guess deployment target", zap.String("deployment_view", s.DeploymentViewPath))
		}
	}

	if opts.saveSettings {
		path := config.SettingsPath(a.configPath)
		if err := s.Save(path); err != nil {
			return err
		}
		a.log.Info("settings saved", zap.String("path", path))
	}

	r := runner.NewExecRunner(runner.WithTimeout(s.ProcessTimeout), runner.WithLogger(a.log.Named("runner")))
	asm := assembler.New(r, assembler.WithLogger(a.log.Named("assembler")))
	orch := orchestrator.New(asm, r, orchestrator.WithLogger(a.log.Named("orchestrator")))
	params := orchestrator.ParametersFromSettings(s)

	run := func(ctx context.Context) error {
		if err := orch.Generate(ctx, params); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, params.OutputPath)
		return nil
	}

	if !opts.watch {
		return run(cmd.Context())
	}
	w, err := watch.New(
		[]string{s.TemplatePath, s.InterfaceViewPath, s.DeploymentViewPath},
		watch.WithLogger(a.log.Named("watch")),
	)
	if err != nil {
		return err
	}
	return w.Run(cmd.Context(), run)
}
