package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/n7space/taste-document-generator/pkg/assembler"
	"github.com/n7space/taste-document-generator/pkg/config"
	"github.com/n7space/taste-document-generator/pkg/runner"
)

// NormalizeSystemObjectTypes trims the requested types, drops empty ones and
// removes case-insensitive duplicates keeping the first spelling. The
// default types are returned when nothing is left.
func NormalizeSystemObjectTypes(types []string) []string {
	seen := make(map[string]bool, len(types))
	var out []string
	for _, t := range types {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return append([]string(nil), config.DefaultSystemObjectTypes...)
	}
	return out
}

// CSVFileName derives the export file name of a system object type: letters
// and digits are lowercased, every other rune becomes an underscore.
func CSVFileName(systemObjectType string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(systemObjectType) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "system_object.csv"
	}
	return sb.String() + ".csv"
}

// csvPaths assigns each type its own export file inside dir. A name already
// handed out gets the first free numeric suffix.
func csvPaths(dir string, types []string) []string {
	used := make(map[string]bool, len(types))
	paths := make([]string, len(types))
	for i, t := range types {
		name := CSVFileName(t)
		base := strings.TrimSuffix(name, ".csv")
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d.csv", base, n)
		}
		used[name] = true
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

// export runs the system object exporter once per type and returns the
// produced files in type order.
func (o *Orchestrator) export(ctx context.Context, p Parameters, dir string) ([]string, error) {
	types := NormalizeSystemObjectTypes(p.SystemObjectTypes)
	paths := csvPaths(dir, types)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, t := range types {
		i, t := i, t
		g.Go(func() error {
			return o.exportOne(gctx, p, t, paths[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (o *Orchestrator) exportOne(ctx context.Context, p Parameters, systemObjectType, csvPath string) error {
	cmd := runner.Command{
		Binary: p.SystemObjectExporter,
		Args: []string{
			"--model", p.Opus2ModelPath,
			"--deployment-target", p.Target,
			"--system-object-type", systemObjectType,
			"--output", csvPath,
		},
	}
	o.log.Debug("exporting system objects",
		zap.String("type", systemObjectType),
		zap.String("output", csvPath))

	res, err := o.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if err := runner.Check(cmd, res); err != nil {
		return err
	}
	if _, err := os.Stat(csvPath); err != nil {
		return &assembler.NotFoundError{Kind: "system object export", Path: csvPath}
	}
	return nil
}
