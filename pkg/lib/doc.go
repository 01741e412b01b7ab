// Package lib provides a Go SDK for running generated Python scripts inside
// Blender programmatically.
//
// This package allows applications to execute bpy scripts in a Blender child
// process without shelling out to the blendrun CLI binary. It handles
// executable discovery and validation, per-run staging, timeouts, output
// classification and run journaling. It is useful for automation pipelines
// and for building tools that drive Blender.
//
// # Quick Start
//
// Create a client and run a script:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	outcome, err := client.Run(ctx, `
//	import bpy
//	bpy.ops.mesh.primitive_cube_add(size=2)
//	print("SUCCESS: Cube created")
//	print('{"vertices": 8}')
//	`, &lib.RunOpts{Name: "create-cube"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if outcome.OK() {
//	    fmt.Println(outcome.Message, outcome.Payload)
//	}
//
// # The Marker Protocol
//
// Scripts report their result by printing marker lines on stdout:
//
//   - "SUCCESS: <message>" declares success.
//   - "ERROR: <message>" declares failure.
//   - A line holding a single JSON object ("{...}") carries a structured
//     payload, the last such line wins.
//
// The first marker line wins for the status. A run that exits 0 without any
// marker is classified as [OutcomeParseError]; a non-zero exit or a timeout
// overrides whatever the output claims.
//
// # Invocation Modes
//
// The SDK supports two invocation modes:
//
//   - [ModeHeadless]: Blender runs with --background and exits when the
//     script finishes. This is the default.
//   - [ModeInteractive]: Blender opens its GUI and the run finishes when the
//     window is closed or the timeout expires. Requires a display.
//
// # Run Journal
//
// Every finished run is recorded in a SQLite journal. List, inspect and
// delete records:
//
//	runs, _ := client.History(ctx, &lib.HistoryOpts{Limit: 10})
//	run, _ := client.GetRun(ctx, outcome.RunID)
//	client.RemoveRun(ctx, outcome.RunID)
//
// # Health Checks
//
// Run preflight checks to verify the Blender installation:
//
//	results, _ := client.Doctor(ctx)
//	for _, r := range results {
//	    fmt.Printf("%s: %s (%s)\n", r.ID, r.Message, r.Status)
//	}
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Resource does not exist (a journaled run, or a usable
//     Blender executable after exhausting every discovery tier).
//   - [ErrNotValid]: Invalid input or configuration (e.g. an empty script).
//
// Script failures are NOT errors: [Client.Run] reports them as outcomes with
// a nil error, see [Outcome].
//
// # Testing
//
// Point the client at any binary that answers `--version` with a first line
// containing "Blender", and use a temporary database path:
//
//	client, _ := lib.New(ctx, lib.Config{
//	    BinaryPath: "/path/to/blender",
//	    DBPath:     filepath.Join(t.TempDir(), "test.db"),
//	})
//	defer client.Close()
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. Runs on
// the same configuration share one validated session and execute in
// parallel, each in its own staging workspace and child process. The journal
// uses SQLite with WAL mode.
package lib
