// Command memview inspects the linear memory of WebAssembly modules through
// typed views.
//
//	memview inspect app.wasm --kind u32 --offset 1024 --count 16
//	memview inspect app.wasm --call add_one --args 41
//	memview grow app.wasm --pages 2
//	memview dump app.wasm -o app.snap && memview inspect app.snap
//	memview tui app.wasm
//
// Flags can also come from a YAML file (--config) or MEMVIEW_* environment
// variables, e.g. MEMVIEW_MEMORY_LIMIT=256.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp().Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
