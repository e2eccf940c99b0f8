package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/n7space/taste-document-generator/pkg/assembler"
	"github.com/n7space/taste-document-generator/pkg/deployment"
	"github.com/n7space/taste-document-generator/pkg/doctext"
	"github.com/n7space/taste-document-generator/pkg/merge"
	"github.com/n7space/taste-document-generator/pkg/ooxml"
)

func newHooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hooks <document.docx>",
		Short: "List the hooks of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := ooxml.Open(args[0])
			if err != nil {
				return err
			}
			defer pkg.Close()

			body, err := pkg.Body()
			if err != nil {
				return err
			}
			for _, h := range assembler.ScanHooks(body, assembler.Delimiters{Tag: a.settings.Tag}) {
				fmt.Fprintf(a.stdout, "%s\t%s\n", h.Verb(), h.Command)
			}
			return nil
		},
	}
}

func newMergeCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "merge <target.docx> <source.docx>",
		Short: "Append a document to the end of another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0]
			}
			target, err := ooxml.Open(args[0])
			if err != nil {
				return err
			}
			defer target.Close()

			res, err := merge.NewEngine(a.log.Named("merge")).Append(target, args[1])
			if err != nil {
				return err
			}
			if err := target.Save(output); err != nil {
				return err
			}
			a.log.Info("merged",
				zap.String("output", output),
				zap.Int("elements", res.Elements),
				zap.Int("renamed_styles", len(res.Styles)),
				zap.Int("images", len(res.Images)))
			fmt.Fprintln(a.stdout, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default overwrites the target)")
	return cmd
}

func newTargetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target <deployment-view.xml>",
		Short: "Guess the deployment target from a deployment view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := deployment.TargetName(args[0])
			if !ok {
				return errors.New("no partition with functions found in " + args[0])
			}
			fmt.Fprintln(a.stdout, name)
			return nil
		},
	}
}

func newTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text <document.docx>",
		Short: "Print the text of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := doctext.Text(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, text)
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.stdout, "tdg", version)
			return nil
		},
	}
}
