package plate

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Inkscape exports targets by running the Inkscape command line once per target.
// The standard streams of the child process are discarded.
type Inkscape struct {
	Binary     string
	Legacy     bool
	DPI        float64
	Background string
	Timeout    time.Duration
}

// Args builds the command line exporting the object id of src into dst.
func (ink *Inkscape) Args(id, dst, src string) []string {
	var args []string
	if ink.Legacy {
		args = []string{"-i", id, "-e", dst}
		if ink.DPI > 0 {
			args = append(args, "-d", formatFloat(ink.DPI))
		}
		if ink.Background != "" {
			args = append(args, "-b", ink.Background)
		}
	} else {
		args = []string{"--export-id=" + id, "--export-filename=" + dst}
		if ink.DPI > 0 {
			args = append(args, "--export-dpi="+formatFloat(ink.DPI))
		}
		if ink.Background != "" {
			args = append(args, "--export-background="+ink.Background)
		}
	}
	return append(args, src)
}

// Export runs Inkscape and waits for it to exit.
func (ink *Inkscape) Export(ctx context.Context, doc *Document, t Target, dst string) error {
	if ink.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ink.Timeout)
		defer cancel()
	}

	// A nil Stdout and Stderr connect the child to the null device.
	cmd := exec.CommandContext(ctx, ink.Binary, ink.Args(t.ID, dst, doc.Path)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("inkscape failed to export %q: %w", t.ID, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
