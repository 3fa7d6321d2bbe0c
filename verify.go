package plate

import (
	"context"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// VerifyReport lists the outputs which could not be decoded.
type VerifyReport struct {
	Checked int
	Missing int
	Corrupt []string
	Removed int
}

// Verify decodes every existing output. Run only checks that an output
// exists, so a truncated file left by an interrupted export is never refreshed
// on its own. With repair set the undecodable files are removed, which makes
// the next Run render them again.
func (e *Exporter) Verify(ctx context.Context, repair bool) (*VerifyReport, error) {
	jobs, err := e.Plan(ctx)
	if err != nil {
		return nil, err
	}

	rep := &VerifyReport{}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if job.Reason != "" {
			continue
		}
		if !job.Exists {
			rep.Missing++
			continue
		}

		rep.Checked++
		if _, err := imaging.Open(job.Path); err == nil {
			continue
		}
		rep.Corrupt = append(rep.Corrupt, job.Path)
		if repair {
			if err := os.Remove(job.Path); err != nil {
				return rep, fmt.Errorf("unable to remove %s: %w", job.Path, err)
			}
			rep.Removed++
		}
	}
	return rep, nil
}
