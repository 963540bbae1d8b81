// Command ptrender renders Portable Text article bodies to HTML fragments
// for the static blog build, and inspects their links and headings.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejez/portabletext"
	"github.com/ejez/portabletext/internal/logging"
	"github.com/ejez/portabletext/sanity"
)

const version = "0.4.0"

// CLI defines the command-line interface for ptrender.
var CLI struct {
	Config    string `name:"config" short:"c" help:"Build config file (YAML)" type:"path" default:"sanity.build.yaml"`
	Verbose   bool   `name:"verbose" short:"v" help:"Log debug output, including omitted blocks"`
	LogFormat string `name:"log-format" help:"Log encoding" enum:"console,json" default:"console"`

	Render  RenderCmd  `cmd:"" help:"Render documents or entries to HTML fragments"`
	Links   LinksCmd   `cmd:"" help:"List link annotations and how they render"`
	Outline OutlineCmd `cmd:"" help:"Print the heading outline of a document"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// appEnv carries what every command needs.
type appEnv struct {
	Log    *zap.Logger
	Config sanity.Config
	Out    io.Writer
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(env *appEnv) error {
	_, err := fmt.Fprintf(env.Out, "ptrender version %s\n", version)
	return err
}

// source is one decoded input file.
type source struct {
	Path  string
	Entry *sanity.Entry
	Doc   portabletext.Document
}

// OutputName is the fragment file name written for the source.
func (s source) OutputName() string {
	if s.Entry != nil {
		return s.Entry.FileName()
	}
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
}

// loadSource reads either a bare Portable Text array or an entry object.
func loadSource(path string) (source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read %s: %w", path, err)
	}
	src := source{Path: path}

	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return source{}, fmt.Errorf("%s: empty input", path)
	}

	switch data[0] {
	case '[':
		src.Doc, err = portabletext.Decode(bytes.NewReader(data))
	case '{':
		var entry sanity.Entry
		entry, err = sanity.DecodeEntry(bytes.NewReader(data))
		if err == nil {
			src.Entry = &entry
			src.Doc, err = entry.Document()
		}
	default:
		err = errors.New("expected a JSON array or entry object")
	}
	if err != nil {
		return source{}, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ptrender"),
		kong.Description("Portable Text to HTML for the blog build"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	log, err := logging.New(logging.Format(CLI.LogFormat), CLI.Verbose)
	ctx.FatalIfErrorf(err)
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("run_id", uuid.NewString()))

	cfg, err := sanity.LoadConfig(CLI.Config)
	ctx.FatalIfErrorf(err)
	if err := cfg.Validate(); err != nil {
		log.Warn("asset references will not resolve", zap.Error(err))
	}

	err = ctx.Run(&appEnv{Log: log, Config: cfg, Out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
