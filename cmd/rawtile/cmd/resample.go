package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/resample"
)

// scaledSize fills a zero width or height from the aspect ratio of size.
func scaledSize(size geom.Point, width, height int32) (geom.Point, error) {
	switch {
	case width < 0 || height < 0:
		return geom.Point{}, fmt.Errorf("negative size %dx%d", width, height)
	case width == 0 && height == 0:
		return geom.Point{}, errors.New("--width or --height is required")
	case width == 0:
		width = max(1, geom.Round(float64(height)*float64(size.H)/float64(size.V)))
	case height == 0:
		height = max(1, geom.Round(float64(width)*float64(size.V)/float64(size.H)))
	}
	return geom.Pt(height, width), nil
}

func NewResampleCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resample [flags] input.tif...",
		Short: "resize images with a separable filter",
		Long:  "resample scales TIFFs to --width by --height. A zero side keeps the aspect ratio.",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(cmd, args); err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt32("width")
		height, _ := cmd.Flags().GetInt32("height")
		name, _ := cmd.Flags().GetString("kernel")
		kernel, ok := resample.KernelByName(name)
		if !ok {
			return fmt.Errorf("%w: unknown kernel %q", rawtile.ErrBadFormat, name)
		}

		return a.forEach(ctx, args, func(ctx context.Context, in string) error {
			src, err := readTIFF(in)
			if err != nil {
				return err
			}
			size, err := scaledSize(src.Size(), width, height)
			if err != nil {
				return err
			}
			dst, err := image.Alloc(geom.RectOfSize(size), src.Planes(), src.PixelType())
			if err != nil {
				return err
			}
			if err := resample.Image(ctx, a.Host(), src, dst, src.Bounds(), dst.Bounds(), kernel); err != nil {
				return err
			}
			out := outputPath(cmd, in, fmt.Sprintf("-%dx%d", size.H, size.V), ".tif")
			if err := writeTIFF(out, dst); err != nil {
				return err
			}
			a.reportImage(out, dst)
			return nil
		})
	})
	cmd.Flags().Int32("width", 0, "Output width in pixels")
	cmd.Flags().Int32("height", 0, "Output height in pixels")
	cmd.Flags().String("kernel", "bicubic", "Resampling kernel")
	addOutputFlags(cmd)
	return cmd
}
