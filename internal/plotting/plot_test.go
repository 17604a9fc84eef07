package plotting

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cxd309/ballistics-engine/internal/flight"
	"github.com/cxd309/ballistics-engine/internal/kinematics"
)

func sampleTrajectory() flight.Trajectory {
	m := kinematics.LinearDrag{Drag: 0.05, Velocity: 50, Mass: 1, Gravity: 9.81}
	clock := flight.Clock{TimeStep: 0.01, MaxDuration: 30}
	return flight.Simulate(m, 40, clock, 0, true).Trajectory
}

func TestRenderFormats(t *testing.T) {
	traj := sampleTrajectory()
	magic := map[string][]byte{
		"png": []byte("\x89PNG"),
		"svg": []byte("<svg"),
		"pdf": []byte("%PDF"),
	}
	for format, marker := range magic {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			opts := DefaultOptions()
			opts.Format = format
			opts.Title = "40°"
			if err := Render(&buf, traj, opts); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !bytes.Contains(buf.Bytes()[:min(512, buf.Len())], marker) {
				t.Errorf("output head %q lacks %q", buf.Bytes()[:min(16, buf.Len())], marker)
			}
		})
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, DefaultOptions()); !errors.Is(err, ErrEmptyTrajectory) {
		t.Errorf("empty trajectory: err = %v", err)
	}
	opts := DefaultOptions()
	opts.Format = "bmp"
	if err := Render(&buf, sampleTrajectory(), opts); err == nil {
		t.Error("bmp should be rejected")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out/shot.png", "png", false},
		{"shot.SVG", "svg", false},
		{"shot.pdf", "pdf", false},
		{"shot.txt", "", true},
		{"shot", "", true},
	}
	for _, tc := range tests {
		got, err := FormatFromPath(tc.path)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tc.path, got, err)
		}
	}
}
