package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/esimov/plate"
	"github.com/esimov/plate/utils"
)

const HelpBanner = `
┌─┐┬  ┌─┐┌┬┐┌─┐
├─┘│  ├─┤ │ ├┤
┴  ┴─┘┴ ┴ ┴ └─┘

Icon plate renderer.
    Version: %s

`

// watchDelay is the quiet period after the last change of the source before re-rendering.
const watchDelay = 500 * time.Millisecond

// Version indicates the current build version.
var Version string

var defaults = plate.DefaultConfig()

var (
	// Flags
	configFile = flag.String("config", "", "YAML configuration file")
	source     = flag.String("in", defaults.Source, "Source SVG document")
	output     = flag.String("out", defaults.Output, "Output directory")
	marker     = flag.String("marker", defaults.Marker, "Label marker of the plate layers")
	backend    = flag.String("backend", defaults.Backend, "Rasterizer backend: inkscape or native")
	inkscape   = flag.String("inkscape", defaults.Inkscape, "Inkscape binary")
	legacy     = flag.Bool("legacy", false, "Use the Inkscape 0.x command line")
	dpi        = flag.Float64("dpi", 0, "Export resolution (0 keeps the backend default)")
	background = flag.String("bg", "", "Background color, e.g. #ffffff")
	timeout    = flag.Duration("timeout", 0, "Time limit of a single export (0 disables it)")
	list       = flag.Bool("list", false, "List the render targets without exporting them")
	verify     = flag.Bool("verify", false, "Check that the existing icons can be decoded")
	repair     = flag.Bool("repair", false, "Remove the icons failing verification")
	watch      = flag.Bool("watch", false, "Render again every time the source changes")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf(utils.DecorateText("%v", utils.ErrorMessage), err)
	}

	exporter, err := plate.NewExporter(cfg)
	if err != nil {
		log.Fatalf(utils.DecorateText("%v", utils.ErrorMessage), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *list:
		err = listJobs(ctx, exporter)
	case *verify || *repair:
		err = verifyOutputs(ctx, exporter, *repair)
	case *watch:
		if err = render(ctx, exporter); err != nil {
			break
		}
		fmt.Fprintf(os.Stderr, "%s %s\n",
			utils.DecorateText("⚡ PLATE", utils.StatusMessage),
			utils.DecorateText("watching "+cfg.Source+" for changes...", utils.DefaultMessage),
		)
		err = plate.Watch(ctx, cfg.Source, watchDelay, func(ctx context.Context) {
			if err := render(ctx, exporter); err != nil && ctx.Err() == nil {
				log.Printf(utils.DecorateText("%v", utils.ErrorMessage), err)
			}
		})
	default:
		err = render(ctx, exporter)
	}

	if errors.Is(err, context.Canceled) {
		stop()
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf(utils.DecorateText("%v", utils.ErrorMessage), err)
	}
}

// loadConfig reads the optional configuration file and applies the flags set
// on the command line on top of it.
func loadConfig() (*plate.Config, error) {
	cfg := plate.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = plate.LoadConfig(*configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Source = *source
		case "out":
			cfg.Output = *output
		case "marker":
			cfg.Marker = *marker
		case "backend":
			cfg.Backend = *backend
		case "inkscape":
			cfg.Inkscape = *inkscape
		case "legacy":
			cfg.Legacy = *legacy
		case "dpi":
			cfg.DPI = *dpi
		case "bg":
			cfg.Background = *background
		case "timeout":
			cfg.Timeout = *timeout
		case "v":
			cfg.Verbose = *verbose
		}
	})
	return cfg, cfg.Validate()
}

// render runs the exporter once and prints the outcome.
func render(ctx context.Context, e *plate.Exporter) error {
	rep, err := e.Run(ctx)
	if err != nil {
		return err
	}

	status := utils.SuccessMessage
	if rep.Failed > 0 {
		status = utils.ErrorMessage
	}
	fmt.Fprintf(os.Stderr, "%s %s\n",
		utils.DecorateText("⚡ PLATE", utils.StatusMessage),
		utils.DecorateText(fmt.Sprintf("%d layers, %d rendered, %d skipped, %d failed, %d rejected",
			rep.Layers, rep.Rendered, rep.Skipped, rep.Failed, rep.Rejected), status),
	)
	fmt.Fprintf(os.Stderr, "Execution time: %s\n", utils.DecorateText(utils.FormatTime(rep.Elapsed), utils.SuccessMessage))

	return nil
}

// listJobs prints every render target with its resolved output path.
func listJobs(ctx context.Context, e *plate.Exporter) error {
	jobs, err := e.Plan(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, job := range jobs {
		state, dst := "pending", job.Path
		switch {
		case job.Reason != "":
			state, dst = "rejected", job.Reason
		case job.Exists:
			state = "done"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", state, job.Layer, job.Target.ID, dst)
	}
	return tw.Flush()
}

// verifyOutputs reports the icons which cannot be decoded.
func verifyOutputs(ctx context.Context, e *plate.Exporter, repair bool) error {
	rep, err := e.Verify(ctx, repair)
	if err != nil {
		return err
	}

	for _, path := range rep.Corrupt {
		fmt.Fprintf(os.Stderr, "%s %s\n", utils.DecorateText("✘", utils.ErrorMessage), path)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n",
		utils.DecorateText("⚡ PLATE", utils.StatusMessage),
		utils.DecorateText(fmt.Sprintf("%d checked, %d missing, %d corrupt, %d removed",
			rep.Checked, rep.Missing, len(rep.Corrupt), rep.Removed), utils.DefaultMessage),
	)
	return nil
}
