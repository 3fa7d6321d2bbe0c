package plate

import (
	"context"
	"fmt"
)

// Rasterizer exports a single render target of the source document to a PNG file.
type Rasterizer interface {
	Export(ctx context.Context, doc *Document, t Target, dst string) error
}

// NewRasterizer returns the backend selected by the configuration.
func NewRasterizer(cfg *Config) (Rasterizer, error) {
	switch cfg.Backend {
	case BackendInkscape, "":
		return &Inkscape{
			Binary:     cfg.Inkscape,
			Legacy:     cfg.Legacy,
			DPI:        cfg.DPI,
			Background: cfg.Background,
			Timeout:    cfg.Timeout,
		}, nil
	case BackendNative:
		n := &Native{DPI: cfg.DPI}
		if cfg.Background != "" {
			bg, err := ParseColor(cfg.Background)
			if err != nil {
				return nil, err
			}
			n.Background = bg
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
