package lib_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blendrun/blendrun/pkg/lib"
)

// stubBlender writes a shell script that stands in for Blender: it answers
// the `--version` probe and prints the given body for any script run. Real
// usage points Config.BinaryPath at an actual Blender install (or leaves it
// empty for discovery).
func stubBlender(dir, body string) (string, error) {
	path := filepath.Join(dir, "blender")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then\n" +
		"  echo \"Blender 4.2.1\"\n" +
		"  exit 0\n" +
		"fi\n" +
		body + "\n"
	return path, os.WriteFile(path, []byte(script), 0o755)
}

// This example shows how to create a client against a known binary and a
// temporary journal, the setup to use in tests.
func Example_testing() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "blendrun-example-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binary, err := stubBlender(dir, "echo \"SUCCESS: ready\"")
	if err != nil {
		panic(err)
	}

	client, err := lib.New(ctx, lib.Config{
		BinaryPath: binary,
		DBPath:     filepath.Join(dir, "blendrun.db"),
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	exe, err := client.Locate(ctx)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Located: %s (via %s)\n", exe.Version, exe.Source)

	// Output:
	// Located: Blender 4.2.1 (via configured)
}

// This example shows how to run a script and read the classified outcome.
func ExampleClient_Run() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "blendrun-example-run-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binary, err := stubBlender(dir, "echo \"SUCCESS: Cube created\"\necho '{\"vertices\": 8}'")
	if err != nil {
		panic(err)
	}

	client, err := lib.New(ctx, lib.Config{
		BinaryPath: binary,
		DBPath:     filepath.Join(dir, "blendrun.db"),
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	outcome, err := client.Run(ctx, `
import bpy
bpy.ops.mesh.primitive_cube_add(size=2)
print("SUCCESS: Cube created")
print('{"vertices": 8}')
`, &lib.RunOpts{Name: "create-cube"})
	if err != nil {
		panic(err)
	}

	fmt.Printf("status: %s\n", outcome.Status)
	fmt.Printf("message: %s\n", outcome.Message)
	fmt.Printf("vertices: %v\n", outcome.Payload["vertices"])

	// Output:
	// status: success
	// message: Cube created
	// vertices: 8
}

// This example shows how to inspect the run journal.
func ExampleClient_History() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "blendrun-example-history-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binary, err := stubBlender(dir, "echo \"SUCCESS: done\"")
	if err != nil {
		panic(err)
	}

	client, err := lib.New(ctx, lib.Config{
		BinaryPath: binary,
		DBPath:     filepath.Join(dir, "blendrun.db"),
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	// Run two scripts.
	_, _ = client.Run(ctx, "print('first')", &lib.RunOpts{Name: "add-camera"})
	_, _ = client.Run(ctx, "print('second')", &lib.RunOpts{Name: "render-still"})

	// Newest first.
	runs, err := client.History(ctx, nil)
	if err != nil {
		panic(err)
	}

	fmt.Printf("total: %d\n", len(runs))
	for _, r := range runs {
		fmt.Printf("%s: %s\n", r.Name, r.Status)
	}

	// Output:
	// total: 2
	// render-still: success
	// add-camera: success
}

// This example shows how to handle SDK errors using errors.Is.
func Example_errorHandling() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "blendrun-example-errors-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binary, err := stubBlender(dir, "echo \"SUCCESS: done\"")
	if err != nil {
		panic(err)
	}

	client, err := lib.New(ctx, lib.Config{
		BinaryPath: binary,
		DBPath:     filepath.Join(dir, "blendrun.db"),
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	// Try to get a non-existent run.
	_, err = client.GetRun(ctx, "01JC8R4V9NXX2FEGTPM3QWE5RT")
	if errors.Is(err, lib.ErrNotFound) {
		fmt.Println("run not found (expected)")
	}

	// Try to run an empty script.
	_, err = client.Run(ctx, "   ", nil)
	if errors.Is(err, lib.ErrNotValid) {
		fmt.Println("empty script (expected)")
	}

	// Output:
	// run not found (expected)
	// empty script (expected)
}

// This example shows a fully configured run (it does not actually execute
// without a Blender installation, but demonstrates the API).
func ExampleRunOpts() {
	opts := lib.RunOpts{
		Name:      "bake-lighting",
		Timeout:   10 * time.Minute,
		BlendFile: "/home/user/scenes/kitchen.blend",
		Env:       map[string]string{"CYCLES_DEVICE": "GPU"},
	}

	fmt.Printf("name=%s timeout=%s blend=%s\n", opts.Name, opts.Timeout, opts.BlendFile)

	// Output:
	// name=bake-lighting timeout=10m0s blend=/home/user/scenes/kitchen.blend
}
