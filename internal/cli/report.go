package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/visionspec/visionspec/pkg/cache"
	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/report"
	"github.com/visionspec/visionspec/pkg/study"
)

// reportOpts holds the command-line flags for the report command.
type reportOpts struct {
	room    roomFlags
	project string
	client  string
	roomNm  string
	label   study.WhiteLabel
	output  string   // output file (single format) or base path
	formats []string // svg, pdf, png, json
	slots   int      // diagrams per elevation page; 0 uses config
	scale   float64  // points per meter; 0 uses config (auto-fit when unset)
	noCache bool
}

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		opts       reportOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a white-label technical report",
		Long: `Generate the technical report of a viewing study.

The report has a summary page with the study data and the three
recommendations, followed by elevation pages with one wall diagram per
recommendation. Several formats can be written at once; rendered artifacts
are cached under the visionspec cache directory.`,
		Example: `  visionspec report --project "Board room" --distance 4.2 -f pdf
  visionspec report --project Lobby --client ACME --distance 3 -f svg,png -o out/lobby`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := errors.ValidateFormat(f); err != nil {
					return err
				}
			}
			if err := opts.room.validate(); err != nil {
				return err
			}
			_, err := c.runReport(cmd.Context(), &opts)
			return err
		},
	}

	opts.room.register(cmd)
	cmd.Flags().StringVar(&opts.project, "project", "", "project name (required)")
	cmd.Flags().StringVar(&opts.client, "client", "Client", "client name")
	cmd.Flags().StringVar(&opts.roomNm, "room", "Main room", "room name")
	cmd.Flags().StringVar(&opts.label.CompanyName, "company", "VisionSpec", "white-label company name")
	cmd.Flags().StringVar(&opts.label.PrimaryColor, "primary-color", study.DefaultPrimaryColor, "white-label primary color (#rrggbb)")
	cmd.Flags().StringVar(&opts.label.AccentColor, "accent-color", study.DefaultAccentColor, "white-label accent color (#rrggbb)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), svg, png, json (comma-separated)")
	cmd.Flags().IntVar(&opts.slots, "slots", 0, "elevation diagrams per page (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "drawing scale in points per meter (default: fit to slot)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("distance")

	return cmd
}

// artifact is one written report file.
type artifact struct {
	Path   string
	Format string
	Size   int
	Cached bool
}

// runReport builds the study described by opts and writes one file per format.
func (c *CLI) runReport(ctx context.Context, opts *reportOpts) ([]artifact, error) {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	engine, err := c.newEngine(cfg)
	if err != nil {
		return nil, err
	}

	req := study.CreateRequest{
		ProjectName:      opts.project,
		ClientName:       opts.client,
		RoomName:         opts.roomNm,
		ViewingDistanceM: opts.room.distance,
		EyeHeightM:       opts.room.eye,
		CeilingHeightM:   opts.room.ceiling,
		WhiteLabel:       opts.label,
	}
	st, err := study.New(req, engine)
	if err != nil {
		return nil, err
	}

	render := c.reportOptions(cfg)
	if opts.slots > 0 {
		render.SlotsPerPage = opts.slots
	}
	if opts.scale > 0 {
		render.Scale = opts.scale
	}

	store, err := newCache(opts.noCache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	id := studyKey(req)
	catHash := cache.CatalogHash(engine.Catalog())
	keys := cache.NewDefaultKeyer()
	base := reportBasePath(opts.output, opts.project)

	logger.Infof("Building report for study %s", st)
	prog := newProgress(logger)

	var written []artifact
	for _, format := range opts.formats {
		key := keys.ReportKey(id, cache.ReportKeyOpts{
			Format:       format,
			SlotsPerPage: render.SlotsPerPage,
			Scale:        render.Scale,
			CatalogHash:  catHash,
		})

		a, err := writeArtifact(ctx, store, key, st, engine, format, render, outputPath(base, opts.output, format, len(opts.formats)))
		if err != nil {
			return written, err
		}
		written = append(written, a)
	}

	prog.done("Report written", "files", len(written))
	printSuccess("Report for %s", StyleHighlight.Render(st.ProjectName))
	for _, a := range written {
		printArtifact(a.Path, a.Size, a.Cached)
	}
	return written, nil
}

func writeArtifact(ctx context.Context, store cache.Cache, key string, st *study.Study, engine *recommend.Engine, format string, render report.Options, path string) (artifact, error) {
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Looking up cached %s...", format))
	spinner.Start()

	data, hit, err := cache.Fetch(ctx, store, cache.KeyTypeReport, key, cache.ReportTTL, func() ([]byte, error) {
		spinner.SetMessage(fmt.Sprintf("Rendering %s...", format))
		return report.Render(ctx, st, engine, format, render)
	})
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return artifact{}, ctx.Err()
		}
		spinner.StopWithError(fmt.Sprintf("Rendering %s failed", format))
		return artifact{}, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return artifact{}, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return artifact{}, fmt.Errorf("write %s: %w", path, err)
	}
	return artifact{Path: path, Format: format, Size: len(data), Cached: hit}, nil
}

// studyKey identifies a report request by its inputs; the CLI assigns a
// fresh study ID on every run.
func studyKey(req study.CreateRequest) string {
	data, _ := json.Marshal(req)
	return "cli-" + cache.Hash(data)[:16]
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// reportBasePath derives the base output path. Without -o the project name
// is slugged; an -o ending in a known format extension loses it.
func reportBasePath(output, project string) string {
	if output == "" {
		slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(project), "-"), "-")
		if slug == "" {
			slug = "report"
		}
		return slug
	}
	ext := filepath.Ext(output)
	if errors.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file a format is written to. A single format with
// an explicit -o is written exactly there.
func outputPath(base, output, format string, count int) string {
	if count == 1 && output != "" && filepath.Ext(output) != "" {
		return output
	}
	return base + "." + format
}
