package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/color"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/pixel"
	"github.com/gogpu/rawtile/render"
)

// linearProPhoto describes a camera whose channels are linear ProPhoto RGB,
// which is what a demosaiced interchange TIFF is taken to hold.
func linearProPhoto() *color.Profile {
	return &color.Profile{Name: "linear prophoto", ColorMatrix: color.ProPhoto.MatrixFromPCS()}
}

// renderParams builds the parameters for neg from the defaults, the
// --params file and the individual flags, in that order.
func renderParams(cmd *cobra.Command, neg render.Negative) (*render.Params, error) {
	p, err := render.DefaultParams(neg)
	if err != nil {
		return nil, err
	}
	if path, _ := cmd.Flags().GetString("params"); path != "" {
		f, err := render.LoadParamsFile(path)
		if err != nil {
			return nil, err
		}
		if err := f.Apply(p); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	flags := cmd.Flags()
	if flags.Changed("exposure") {
		p.Exposure, _ = flags.GetFloat64("exposure")
	}
	if flags.Changed("space") {
		name, _ := flags.GetString("space")
		if p.FinalSpace, err = color.SpaceByName(name); err != nil {
			return nil, err
		}
	}
	if flags.Changed("pixel-type") {
		name, _ := flags.GetString("pixel-type")
		t, ok := pixel.ParseType(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown pixel type %q", rawtile.ErrBadFormat, name)
		}
		p.FinalPixelType = t
	}
	if flags.Changed("max-size") {
		p.MaximumSize, _ = flags.GetInt32("max-size")
	}
	return p, p.Validate()
}

func NewRenderCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [flags] input.tif...",
		Short: "render linear images to an output color space",
		Long: "render treats each TIFF as linear scene data in ProPhoto primaries, or gray for " +
			"single plane files, and writes it with exposure, tone curve and output encoding applied.",
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(cmd, args); err != nil {
			return err
		}
		baseline, _ := cmd.Flags().GetFloat64("baseline-exposure")
		preview, _ := cmd.Flags().GetInt("preview")

		return a.forEach(ctx, args, func(ctx context.Context, in string) error {
			src, err := readTIFF(in)
			if err != nil {
				return err
			}
			neg := &render.SimpleNegative{Image: src, Baseline: baseline}
			if src.Planes() > 1 {
				neg.ColorProfile = linearProPhoto()
			}
			if err := neg.Validate(); err != nil {
				return err
			}
			params, err := renderParams(cmd, neg)
			if err != nil {
				return err
			}
			dst, err := render.Render(ctx, a.Host(), neg, params)
			if err != nil {
				return err
			}
			out := outputPath(cmd, in, "-"+params.FinalSpace.Name(), ".tif")
			if err := writeTIFF(out, dst); err != nil {
				return err
			}
			a.reportImage(out, dst)
			if preview <= 0 {
				return nil
			}
			thumb, err := image.Preview(dst, preview)
			if err != nil {
				return err
			}
			png := outputPath(cmd, in, "-preview", ".png")
			if out, _ := cmd.Flags().GetString("output"); out != "" {
				png = out + ".png"
			}
			return writePNG(png, thumb)
		})
	})
	cmd.Flags().String("params", "", "YAML file with render parameters")
	cmd.Flags().Float64("exposure", 0, "Exposure adjustment in stops")
	cmd.Flags().Float64("baseline-exposure", 0, "Baseline exposure of the input in stops")
	cmd.Flags().String("space", "srgb", "Output color space")
	cmd.Flags().String("pixel-type", "u8", "Output pixel type (u8, u16, f32)")
	cmd.Flags().Int32("max-size", 0, "Limit the long side of the output, 0 for none")
	cmd.Flags().Int("preview", 0, "Also write a PNG preview with this long side")
	addOutputFlags(cmd)
	return cmd
}
