package assembler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
	"github.com/n7space/taste-document-generator/pkg/runner"
)

// Profile is the output profile requested from the template processor.
const Profile = "md2docx"

// Command is a parsed hook command.
type Command struct {
	Verb string
	Args []string
}

// ParseCommand splits a hook command on whitespace; the first token is the
// verb and the rest are positional arguments.
func ParseCommand(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Verb: fields[0], Args: fields[1:]}
}

func (c Command) String() string {
	return strings.TrimSpace(c.Verb + " " + strings.Join(c.Args, " "))
}

func (c Command) single() (string, error) {
	if len(c.Args) != 1 {
		return "", &InvocationError{
			Command: c.String(),
			Reason:  fmt.Sprintf("%s expects exactly 1 argument, got %d", c.Verb, len(c.Args)),
		}
	}
	return c.Args[0], nil
}

// dispatch resolves one hook against target.
func (a *Assembler) dispatch(ctx context.Context, c Context, target *ooxml.Package, hook Hook) error {
	cmd := ParseCommand(hook.Command)
	switch cmd.Verb {
	case VerbTemplate:
		arg, err := cmd.single()
		if err != nil {
			return err
		}
		return a.instantiateTemplate(ctx, c, target, hook, arg)
	case VerbDocument:
		arg, err := cmd.single()
		if err != nil {
			return err
		}
		return a.includeDocument(c, target, hook, arg)
	default:
		a.log.Debug("ignoring hook with unknown verb", zap.String("command", hook.Command))
		return nil
	}
}

func (a *Assembler) includeDocument(c Context, target *ooxml.Package, hook Hook, arg string) error {
	path := c.resolve(arg)
	if _, err := os.Stat(path); err != nil {
		return &NotFoundError{Kind: "document", Path: path}
	}
	a.log.Info("including document", zap.String("path", path))
	_, err := a.engine.Merge(target, path, hook.Paragraph)
	return err
}

func (a *Assembler) instantiateTemplate(ctx context.Context, c Context, target *ooxml.Package, hook Hook, arg string) error {
	scratch := filepath.Join(c.TemporaryDirectory, "template_"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			a.log.Warn("failed to remove scratch directory", zap.String("path", scratch), zap.Error(err))
		}
	}()

	templatePath := c.resolve(arg)
	args := []string{
		"--verbosity", "info",
		"--iv", c.InterfaceViewPath,
		"--dv", c.DeploymentViewPath,
		"-o", scratch,
		"-t", templatePath,
		"-p", Profile,
	}
	if c.Target != "" {
		args = append(args, "--value", "TARGET="+c.Target)
	}
	for _, csv := range c.SystemObjectFiles {
		args = append(args, "-s", csv)
	}
	proc := runner.Command{Binary: c.TemplateProcessor, Args: args}

	a.log.Info("instantiating template", zap.String("template", templatePath))
	res, err := a.runner.Run(ctx, proc)
	if err != nil {
		return err
	}
	if err := runner.Check(proc, res); err != nil {
		return err
	}

	base := filepath.Base(arg)
	produced := filepath.Join(scratch, strings.TrimSuffix(base, filepath.Ext(base))+".docx")
	if _, err := os.Stat(produced); err != nil {
		return &runner.ProcessError{
			Command:  proc,
			Reason:   fmt.Sprintf("expected output %s was not produced", produced),
			ExitCode: res.ExitCode,
			Output:   res.Combined(),
			Err:      err,
		}
	}
	_, err = a.engine.Merge(target, produced, hook.Paragraph)
	return err
}
