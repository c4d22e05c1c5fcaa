package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/riverfjs/richhtml-go"
	"github.com/riverfjs/richhtml-go/internal/imagesrc"
	"github.com/riverfjs/richhtml-go/internal/types"
)

// headless stands in for a view when rendering from the command line.
type headless struct {
	width          int
	linksClickable bool
}

func (h *headless) SetLinksClickable(enabled bool) { h.linksClickable = enabled }
func (h *headless) Width() int                     { return h.width }

// clickLogger reports concept card links found in the output.
type clickLogger struct {
	log *zap.Logger
}

func (c clickLogger) OnConceptCardLinkClicked(_ richhtml.Surface, skillID string) {
	c.log.Info("Concept card requested", zap.String("skill", skillID))
}

type imageReport struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Left   int    `json:"left,omitempty"`
}

type renderReport struct {
	richhtml.Document
	LinksClickable bool          `json:"links_clickable"`
	Images         []imageReport `json:"images,omitempty"`
}

// recordingFactory keeps the getter of the last render so images can be loaded afterwards.
type recordingFactory struct {
	*imagesrc.Factory
	last *imagesrc.Getter
}

func (f *recordingFactory) Create(surface types.Surface, resourceNamespace, entityType, entityID string, centerAlign bool) types.ImageGetter {
	g := f.Factory.Create(surface, resourceNamespace, entityType, entityID, centerAlign).(*imagesrc.Getter)
	f.last = g
	return g
}

func runRender(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	source := cmd.Args().Get(0)
	raw, err := readSource(source)
	if err != nil {
		return err
	}

	images := &recordingFactory{Factory: imagesrc.NewFactory(env.cfg.Images, nil, env.log.Named("images"))}
	parser := richhtml.NewFactory(images,
		richhtml.WithConfig(env.cfg),
		richhtml.WithLogger(env.log.Named("parser")),
		richhtml.WithTagActionListener(clickLogger{log: env.log}),
	).Create(cmd.String("namespace"), cmd.String("entity-type"), cmd.String("entity-id"), cmd.Bool("center"))

	surface := &headless{width: int(cmd.Int("width"))}
	var text *richhtml.Spannable
	if cmd.Bool("markdown") {
		text = parser.ParseMarkdown(string(raw), surface, cmd.Bool("links"))
	} else {
		text = parser.ParseHTML(string(raw), surface, cmd.Bool("links"))
	}

	report := renderReport{
		Document:       richhtml.Export(text),
		LinksClickable: surface.linksClickable,
	}

	if images.last != nil {
		if cmd.Bool("load-images") {
			if lerr := images.last.LoadAll(ctx); lerr != nil {
				for _, e := range multierr.Errors(lerr) {
					env.log.Warn("Image not loaded", zap.Error(e))
				}
			}
		}
		for _, p := range images.last.Placeholders() {
			b := p.Bounds()
			report.Images = append(report.Images, imageReport{
				Source: p.Source(),
				URL:    p.URL(),
				Format: p.Format(),
				Width:  b.Dx(),
				Height: b.Dy(),
				Left:   b.Min.X,
			})
		}
	}

	out, closeOut, err := createOutput(cmd.String("output"))
	if err != nil {
		return err
	}
	defer closeOut(&err)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	env.log.Debug("Rendered", zap.Int("length", len(report.Text)), zap.Int("entities", len(report.Entities)))
	return nil
}

func readSource(name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read STDIN: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read source: %w", err)
	}
	return data, nil
}

// createOutput opens fname for writing, STDOUT when empty. The returned closer appends
// its failure to *err.
func createOutput(fname string) (io.Writer, func(*error), error) {
	if len(fname) == 0 {
		return os.Stdout, func(*error) {}, nil
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return f, func(err *error) {
		if er := f.Close(); er != nil {
			*err = multierr.Append(*err, fmt.Errorf("unable to close '%s': %w", fname, er))
		}
	}, nil
}
