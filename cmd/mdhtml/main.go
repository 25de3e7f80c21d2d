package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdhtml"
	"pkt.systems/mdhtml/internal/textview"
	"pkt.systems/version"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("pkt.systems/mdhtml")
}

type options struct {
	baseURL     string
	style       string
	page        bool
	title       string
	frontMatter bool
	outPath     string
	outDir      string
	preview     bool
	width       int
}

func (o options) renderOptions() []mdhtml.RenderOption {
	return []mdhtml.RenderOption{
		mdhtml.WithBaseURL(o.baseURL),
		mdhtml.WithStyle(o.style),
		mdhtml.WithFrontMatter(o.frontMatter),
	}
}

func main() {
	var (
		o           options
		configPath  string
		watchFlag   bool
		verbose     bool
		showVersion bool
	)

	flags := pflag.NewFlagSet("mdhtml", pflag.ExitOnError)
	flags.StringVar(&o.baseURL, "base-url", "", "Prefix for relative link targets")
	flags.StringVar(&o.style, "style", "", "Inline style attribute added to every generated tag")
	flags.StringVarP(&o.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&o.page, "page", false, "Wrap output in a standalone HTML page")
	flags.StringVar(&o.title, "title", "", "Page title (defaults to the front matter title)")
	flags.BoolVar(&o.frontMatter, "front-matter", true, "Strip YAML, TOML or JSON front matter")
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&o.outDir, "out-dir", "", "Render each input to <dir>/<name>.html")
	flags.BoolVar(&watchFlag, "watch", false, "Re-render file inputs when they change")
	flags.BoolVarP(&o.preview, "preview", "p", false, "Print a plain-text preview instead of HTML")
	flags.IntVarP(&o.width, "width", "w", 0, "Preview width (0 uses terminal width if available)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: mdhtml [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, text is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return
	}

	log := newLogger(os.Stderr, verbose)

	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(2)
		}
		cfg.apply(&o, flags.Changed)
		log.WithField("path", configPath).Debug("loaded config")
	}
	if o.outPath != "" && o.outDir != "" {
		fmt.Fprintln(os.Stderr, "-o/--output and --out-dir are mutually exclusive")
		os.Exit(2)
	}
	if o.preview {
		o.width = resolveWidth(o.width)
	}

	args := flags.Args()
	ctx := context.Background()
	if err := run(ctx, o, args, log); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
	if !watchFlag {
		return
	}

	paths, err := watchPaths(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	log.WithField("inputs", len(paths)).Info("watching for changes")
	if err := watch(ctx, paths, log, func() error {
		return run(ctx, o, args, log)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// run renders all inputs once, either concatenated into one output or one
// file per input when an output directory is set.
func run(ctx context.Context, o options, args []string, log *logrus.Logger) error {
	if o.outDir != "" {
		return renderBatch(ctx, o, args, log)
	}
	writer, closeOut, err := resolveOutput(o.outPath)
	if err != nil {
		return errors.Wrap(err, "open output")
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	if len(args) == 1 && isRemote(args[0]) && !o.page && !o.preview {
		return mdhtml.HTTPRender(ctx, mdhtml.HTTPRenderRequest{
			URL:     strings.TrimSpace(args[0]),
			Writer:  writer,
			Options: o.renderOptions(),
		})
	}
	reader, closer, err := openInputs(ctx, args)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	return renderTo(writer, reader, o)
}

func renderTo(w io.Writer, r io.Reader, o options) error {
	if !o.page && !o.preview {
		return mdhtml.RenderStream(mdhtml.RenderRequest{
			Reader:  r,
			Writer:  w,
			Options: o.renderOptions(),
		})
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	if err := mdhtml.ValidateInput(src); err != nil {
		return err
	}
	doc, err := o.document(string(src))
	if err != nil {
		return err
	}
	if o.preview {
		_, err := io.WriteString(w, textview.Render(doc.HTML, o.width)+"\n")
		return err
	}
	title := o.title
	if title == "" {
		title = doc.Title
	}
	return mdhtml.WritePage(mdhtml.PageRequest{
		Writer: w,
		Title:  title,
		Body:   doc.HTML,
	})
}

func (o options) document(text string) (mdhtml.Document, error) {
	if o.frontMatter {
		return mdhtml.RenderDocument(text, o.renderOptions()...)
	}
	return mdhtml.Document{HTML: mdhtml.Render(text, o.renderOptions()...)}, nil
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}
