package plate

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/plate/utils"
)

// Reasons a render target is rejected without being exported.
var (
	errMissingID    = errors.New("rect has no id")
	errEmptyLabel   = errors.New("rect has no label")
	errAbsolutePath = errors.New("label is an absolute path")
	errOutsideRoot  = errors.New("label resolves outside of the output directory")
)

// Report summarizes a run of the exporter.
type Report struct {
	Layers   int
	Targets  int
	Rendered int // rasterizer invocations
	Skipped  int // outputs already present
	Failed   int // invocations which returned an error
	Rejected int // targets with an unusable id or label
	Elapsed  time.Duration
}

// Job describes what the exporter would do with a single target.
type Job struct {
	Layer  string
	Target Target
	Path   string
	Exists bool
	Reason string
}

// Exporter renders every target of the plate layers found in the source document.
// Targets are processed one at a time, in document order.
type Exporter struct {
	*Config
	Rasterizer Rasterizer
	Progress   io.Writer
	Logger     *log.Logger
}

// NewExporter validates cfg and returns an exporter using the configured
// backend. Progress markers go to stdout and log messages to stderr.
func NewExporter(cfg *Config) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := NewRasterizer(cfg)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		Config:     cfg,
		Rasterizer: r,
		Progress:   os.Stdout,
		Logger:     log.New(os.Stderr, "", 0),
	}, nil
}

// Run exports the targets which have no output file yet. A missing source
// document is not an error. A failed export is only counted: the output stays
// absent and is retried on the next run.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	rep := &Report{}
	defer func() { rep.Elapsed = time.Since(start) }()

	doc, err := Load(e.Source)
	if err != nil {
		if errors.Is(err, ErrNoSource) {
			e.debugf("%s not found, nothing to render", e.Source)
			return rep, nil
		}
		return nil, err
	}

	progress := utils.NewProgress(e.Progress)
	for _, layer := range Scan(doc, e.Marker) {
		rep.Layers++
		for _, t := range layer.Targets {
			if err := ctx.Err(); err != nil {
				progress.Break()
				return rep, err
			}
			rep.Targets++
			progress.Mark(e.export(ctx, doc, t, rep))
		}
		progress.Break()
	}
	return rep, nil
}

// export handles a single target and returns the kind of progress marker to print.
func (e *Exporter) export(ctx context.Context, doc *Document, t Target, rep *Report) utils.MessageType {
	dst, err := e.resolve(t)
	if err != nil {
		rep.Rejected++
		e.debugf("skipping rect %q (%q): %v", t.ID, t.Label, err)
		return utils.ErrorMessage
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		e.debugf("unable to create the output directory: %v", err)
	}
	if exists(dst) {
		rep.Skipped++
		return utils.DefaultMessage
	}

	rep.Rendered++
	if err := e.Rasterizer.Export(ctx, doc, t, dst); err != nil {
		rep.Failed++
		e.debugf("%v", err)
		return utils.ErrorMessage
	}
	return utils.SuccessMessage
}

// Plan resolves every target without touching the output tree.
func (e *Exporter) Plan(ctx context.Context) ([]Job, error) {
	doc, err := Load(e.Source)
	if err != nil {
		if errors.Is(err, ErrNoSource) {
			return nil, nil
		}
		return nil, err
	}

	var jobs []Job
	for _, layer := range Scan(doc, e.Marker) {
		for _, t := range layer.Targets {
			if err := ctx.Err(); err != nil {
				return jobs, err
			}
			job := Job{Layer: layer.Label, Target: t}
			if dst, err := e.resolve(t); err != nil {
				job.Reason = err.Error()
			} else {
				job.Path, job.Exists = dst, exists(dst)
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// resolve maps the label of a target to its path under the output root.
// Labels are slash separated; the .png extension is appended when missing.
func (e *Exporter) resolve(t Target) (string, error) {
	switch {
	case t.ID == "":
		return "", errMissingID
	case strings.TrimSpace(t.Label) == "":
		return "", errEmptyLabel
	case strings.HasPrefix(t.Label, "/") || filepath.IsAbs(t.Label):
		return "", errAbsolutePath
	}

	label := t.Label
	if !strings.EqualFold(filepath.Ext(label), ".png") {
		label += ".png"
	}
	rel := filepath.Clean(filepath.FromSlash(label))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return filepath.Join(e.Output, rel), nil
}

func (e *Exporter) debugf(format string, v ...any) {
	if e.Verbose && e.Logger != nil {
		e.Logger.Printf(format, v...)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
