// Package plotting renders trajectories to images with gonum/plot.
package plotting

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cxd309/ballistics-engine/internal/flight"
)

var _ plotter.XYer = flight.Trajectory(nil)

// ErrEmptyTrajectory is returned when there is nothing to draw.
var ErrEmptyTrajectory = errors.New("trajectory has no points")

// formats lists the image formats accepted by plot.Plot.WriterTo.
var formats = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
	"eps":  "application/postscript",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// Options controls the rendered image.
type Options struct {
	Title  string
	Format string // one of the keys of formats, "png" when empty
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns a 6x4 inch PNG.
func DefaultOptions() Options {
	return Options{Format: "png", Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

// ContentType returns the MIME type for format, or an error if it is not supported.
func ContentType(format string) (string, error) {
	ct, ok := formats[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q", format)
	}
	return ct, nil
}

// FormatFromPath picks the image format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, err := ContentType(ext); err != nil {
		return "", err
	}
	return ext, nil
}

// Render draws traj with the target plane at y = 0 and the last sample marked,
// and writes the image to w.
func Render(w io.Writer, traj flight.Trajectory, opts Options) error {
	if len(traj) == 0 {
		return ErrEmptyTrajectory
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "png"
	}
	if _, err := ContentType(format); err != nil {
		return err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Horizontal distance (m)"
	p.Y.Label.Text = "Height above target plane (m)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(traj)
	if err != nil {
		return fmt.Errorf("building trajectory line: %w", err)
	}

	plane := plotter.NewFunction(func(float64) float64 { return 0 })
	plane.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	last := traj[len(traj)-1]
	end, err := plotter.NewScatter(plotter.XYs{{X: last.X, Y: last.Y}})
	if err != nil {
		return fmt.Errorf("building end marker: %w", err)
	}
	end.GlyphStyle.Shape = draw.CrossGlyph{}
	end.GlyphStyle.Radius = vg.Points(4)

	p.Add(plane, line, end)
	p.Legend.Add("trajectory", line)
	p.Legend.Add("target plane", plane)
	p.Legend.Add("end", end)
	p.Legend.Top = true

	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}
