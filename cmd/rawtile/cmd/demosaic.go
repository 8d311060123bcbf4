package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/mosaic"
)

// parseCFA reads a pattern given as rows of color letters separated by
// '/', for example "RG/GB".
func parseCFA(pattern string, size geom.Point) (*mosaic.Info, error) {
	rows := strings.Split(pattern, "/")
	cols := len(rows[0])
	for _, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: CFA rows of %q differ in length", rawtile.ErrBadFormat, pattern)
		}
	}
	return mosaic.NewCFA(len(rows), cols, strings.Join(rows, ""), size)
}

func NewDemosaicCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demosaic [flags] input.tif...",
		Short: "interpolate CFA images into color planes",
		Long: "demosaic reads single plane CFA TIFFs and writes one plane per pattern color. " +
			"With --size the output is averaged down to about that many pixels on the long side.",
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(cmd, args); err != nil {
			return err
		}
		pattern, _ := cmd.Flags().GetString("cfa")
		fourColor, _ := cmd.Flags().GetBool("four-color")
		prefSize, _ := cmd.Flags().GetInt32("size")
		minSize, _ := cmd.Flags().GetInt32("min-size")
		plane, _ := cmd.Flags().GetInt("plane")

		return a.forEach(ctx, args, func(ctx context.Context, in string) error {
			src, err := readTIFF(in)
			if err != nil {
				return err
			}
			info, err := parseCFA(pattern, src.Size())
			if err != nil {
				return err
			}
			if fourColor && !info.SetFourColorBayer() {
				return fmt.Errorf("%w: %s is not a Bayer pattern", rawtile.ErrBadFormat, info)
			}
			downScale := info.DownScale(minSize, prefSize, 1)
			dst, err := image.Alloc(geom.RectOfSize(info.DstSize(downScale)), info.ColorPlanes, src.PixelType())
			if err != nil {
				return err
			}
			slog.Debug("demosaic", "input", in, "pattern", info.String(), "downscale", downScale)
			if err := info.Interpolate(ctx, a.Host(), src, dst, downScale, plane); err != nil {
				return err
			}
			out := outputPath(cmd, in, "-rgb", ".tif")
			if err := writeTIFF(out, dst); err != nil {
				return err
			}
			a.reportImage(out, dst)
			return nil
		})
	})
	cmd.Flags().String("cfa", "RG/GB", "CFA pattern rows of R, G, B, C, M, Y, W separated by '/'")
	cmd.Flags().Bool("four-color", false, "Interpolate the two greens of a Bayer pattern separately")
	cmd.Flags().Int32("size", 0, "Preferred long side of the output, 0 for full scale")
	cmd.Flags().Int32("min-size", 0, "Smallest acceptable long side when downscaling")
	cmd.Flags().Int("plane", 0, "Source plane holding the mosaic")
	addOutputFlags(cmd)
	return cmd
}
