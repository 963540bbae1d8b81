package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ejez/portabletext/html"
	"github.com/ejez/portabletext/sanity"
)

// RenderCmd renders each input to an HTML fragment.
type RenderCmd struct {
	Files      []string `arg:"" help:"Portable Text arrays or entry objects (JSON)" type:"existingfile"`
	OutDir     string   `name:"out-dir" short:"o" help:"Write one fragment per input here instead of stdout" type:"path"`
	NoFallback bool     `name:"no-fallback" help:"Emit nothing for documents without visible content"`
	Jobs       int      `name:"jobs" short:"j" help:"Documents rendered concurrently" default:"4"`
}

func (c *RenderCmd) Run(env *appEnv) error {
	return c.run(context.Background(), env)
}

func (c *RenderCmd) run(ctx context.Context, env *appEnv) error {
	renderer := html.New(html.Options{
		Images: env.Config,
		Logger: env.Log.Named("render"),
	})
	opts := html.RenderOptions{EmitFallbackWhenEmpty: !c.NoFallback}

	if c.OutDir != "" {
		if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	jobs := c.Jobs
	if jobs < 1 {
		jobs = 1
	}

	fragments := make([]string, len(c.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range c.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := loadSource(path)
			if err != nil {
				return err
			}

			fields := []zap.Field{zap.String("file", path)}
			if e := src.Entry; e != nil {
				fields = append(fields,
					zap.String("id", e.ID),
					zap.String("title", e.Title),
					zap.String("published", sanity.FormatDate(e.PublishedAt, env.Config.DefaultLocale)),
					zap.Int("reading_minutes", e.ReadingMinutes()),
				)
				if canonical := html.NormalizeURL(e.Canonical(env.Config.SiteURL)); canonical != "" {
					fields = append(fields, zap.String("canonical", canonical))
				} else {
					env.Log.Warn("entry has an unusable canonical URL", zap.String("file", path), zap.String("canonical_url", e.CanonicalURL))
				}
			}
			log := env.Log.With(fields...)

			fragment := renderer.Render(src.Doc.Blocks(), opts)
			if c.OutDir == "" {
				fragments[i] = fragment
				log.Debug("rendered", zap.String("size", humanize.Bytes(uint64(len(fragment)))))
				return nil
			}

			out := filepath.Join(c.OutDir, src.OutputName())
			if err := os.WriteFile(out, []byte(fragment), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Info("rendered",
				zap.String("output", out),
				zap.String("size", humanize.Bytes(uint64(len(fragment)))),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if c.OutDir == "" {
		return writeFragments(env.Out, fragments)
	}
	env.Log.Info("render completed", zap.Int("documents", len(c.Files)))
	return nil
}

func writeFragments(w io.Writer, fragments []string) error {
	for _, f := range fragments {
		if _, err := io.WriteString(w, f+"\n"); err != nil {
			return err
		}
	}
	return nil
}
