//go:build js && wasm

// Command wasm exposes the ballistics engine to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	solveBallistics(jsonString) -> jsonString
//
// The input and output are JSON-encoded SolveInput and SolveOutput
// respectively, matching the same contract used by the CLI and HTTP server.
package main

import (
	"syscall/js"

	"github.com/cxd309/ballistics-engine/internal/engine"
)

func main() {
	js.Global().Set("solveBallistics", js.FuncOf(solveBallistics))
	select {} // keep the WASM module alive until the page is closed
}

func solveBallistics(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
