// Command rawtile runs the raster engine on TIFF files: demosaicing,
// resampling, opcode lists and final rendering.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/rawtile/cmd/rawtile/cmd"
)

var (
	GitSHA string = "NA"
)

func main() {
	// register sigterm for graceful shutdown
	ctx, cnc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cnc()
	go func() {
		defer cnc() // removes the signal handler so a second ctrl-c kills the process
		<-ctx.Done()
	}()
	if err := cmd.NewRoot(ctx, GitSHA).Execute(); err != nil {
		os.Exit(1)
	}
}
