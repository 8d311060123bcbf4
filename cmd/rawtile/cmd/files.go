package cmd

import (
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rawtile/image"
)

// addOutputFlags registers the flags that name output files.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file, only with a single input")
	cmd.Flags().String("out-dir", "", "Directory for outputs, defaults to the input's directory")
}

// outputPath names the output for in. An explicit --output wins; otherwise
// the input name gets suffix and ext in --out-dir.
func outputPath(cmd *cobra.Command, in, suffix, ext string) string {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out
	}
	dir, _ := cmd.Flags().GetString("out-dir")
	if dir == "" {
		dir = filepath.Dir(in)
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(dir, base+suffix+ext)
}

// checkOutput rejects --output with more than one input.
func checkOutput(cmd *cobra.Command, inputs []string) error {
	if out, _ := cmd.Flags().GetString("output"); out != "" && len(inputs) > 1 {
		return errors.New("--output needs a single input, use --out-dir")
	}
	return nil
}

// forEach runs fn on every input with at most --jobs inputs in flight. The
// first failure cancels the rest.
func (a *app) forEach(ctx context.Context, inputs []string, fn func(ctx context.Context, in string) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.jobs))
	for _, in := range inputs {
		g.Go(func() error {
			if err := fn(ctx, in); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func readTIFF(path string) (*image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return image.ReadTIFF(f)
}

func writeTIFF(path string, im *image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := image.WriteTIFF(f, im); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePNG(path string, im stdimage.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, im); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// reportImage prints a one line summary of a written image.
func (a *app) reportImage(path string, im *image.Image) {
	a.report("%s: %d x %d, %d planes %s, %d pixels\n",
		path, im.Width(), im.Height(), im.Planes(), im.PixelType(), im.Bounds().Pixels())
}
