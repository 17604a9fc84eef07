// Command ballistics reads a SolveInput JSON from a file argument (or stdin),
// runs the solve, and writes the SolveOutput JSON to stdout.
//
// With -plot, the returned trajectory (angle_for_distance and trajectory modes)
// is also rendered to the named image file; the extension picks the format.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cxd309/ballistics-engine/internal/engine"
	"github.com/cxd309/ballistics-engine/internal/flight"
	"github.com/cxd309/ballistics-engine/internal/plotting"
)

func main() {
	plotPath := flag.String("plot", "", "write the trajectory to this image file (.png, .svg, .pdf, ...)")
	flag.Parse()

	var (
		data []byte
		err  error
	)

	if flag.NArg() > 0 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}

	in, err := engine.DecodeInput(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	result, err := engine.Run(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "solve error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshaling output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if *plotPath != "" {
		if err := writePlot(*plotPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "plot error: %v\n", err)
			os.Exit(1)
		}
	}
}

func writePlot(path string, result engine.SolveOutput) error {
	var (
		traj  flight.Trajectory
		title string
	)
	switch {
	case result.AngleForDistance != nil:
		traj = result.AngleForDistance.Trajectory
		title = fmt.Sprintf("%.4f° (%s)", result.AngleForDistance.Angle, result.AngleForDistance.Status)
	case result.Trajectory != nil:
		traj = result.Trajectory.Trajectory
		title = fmt.Sprintf("%.1f m in %.3f s (%s)", result.Trajectory.Distance, result.Trajectory.FlightTime, result.Trajectory.Status)
	default:
		return fmt.Errorf("mode %q returns no trajectory", result.Mode)
	}

	format, err := plotting.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	opts := plotting.DefaultOptions()
	opts.Format = format
	opts.Title = title
	if err := plotting.Render(f, traj, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
