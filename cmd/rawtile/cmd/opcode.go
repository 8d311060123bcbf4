package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/rawtile/opcode"
	"github.com/gogpu/rawtile/render"
)

func NewOpcodeCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opcode",
		Short: "DNG opcode lists",
		Long:  "opcode converts binary opcode lists to and from YAML and applies them to images.",
	}
	cmd.AddCommand(
		NewOpcodeDumpCmd(ctx, a),
		NewOpcodeEncodeCmd(ctx, a),
		NewOpcodeApplyCmd(ctx, a),
	)
	return cmd
}

// loadList reads a binary list, or a YAML description when the file name
// ends in .yaml or .yml.
func loadList(path string, stage int) (*opcode.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		spec, err := opcode.ParseSpec(data)
		if err != nil {
			return nil, err
		}
		return spec.List()
	}
	return opcode.Parse(data, stage)
}

func NewOpcodeDumpCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] list.bin",
		Short: "print a binary opcode list as YAML",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		stage, _ := cmd.Flags().GetInt("stage")
		l, err := loadList(args[0], stage)
		if err != nil {
			return err
		}
		out, err := opcode.SpecOf(l).Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	})
	cmd.Flags().Int("stage", 1, "Processing stage the list belongs to (1, 2 or 3)")
	return cmd
}

func NewOpcodeEncodeCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [flags] list.yaml",
		Short: "write a YAML opcode list in the binary DNG form",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		l, err := loadList(args[0], 1)
		if err != nil {
			return err
		}
		out := outputPath(cmd, args[0], "", ".bin")
		if err := os.WriteFile(out, l.Bytes(), 0o644); err != nil {
			return err
		}
		a.report("%s: %d opcodes, needs version %08x\n", out, len(l.Opcodes), l.MinVersion(false))
		return nil
	})
	cmd.Flags().StringP("output", "o", "", "Output file, defaults to the input name with .bin")
	cmd.Flags().String("out-dir", "", "Directory for the output")
	return cmd
}

func NewOpcodeApplyCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [flags] --list list input.tif...",
		Short: "run an opcode list on images",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		if err := checkOutput(cmd, args); err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("list")
		stage, _ := cmd.Flags().GetInt("stage")
		aspect, _ := cmd.Flags().GetFloat64("pixel-aspect")
		var opts []opcode.ApplyOption
		if preview, _ := cmd.Flags().GetBool("preview"); preview {
			opts = append(opts, opcode.ForPreview())
		}
		l, err := loadList(path, stage)
		if err != nil {
			return err
		}

		return a.forEach(ctx, args, func(ctx context.Context, in string) error {
			src, err := readTIFF(in)
			if err != nil {
				return err
			}
			neg := &render.SimpleNegative{Image: src, PixelAspect: aspect}
			dst, err := l.Apply(ctx, a.Host(), neg, src, opts...)
			if err != nil {
				return err
			}
			out := outputPath(cmd, in, "-op", ".tif")
			if err := writeTIFF(out, dst); err != nil {
				return err
			}
			a.reportImage(out, dst)
			return nil
		})
	})
	cmd.Flags().String("list", "", "Opcode list, binary or .yaml")
	cmd.Flags().Int("stage", 1, "Processing stage of a binary list")
	cmd.Flags().Float64("pixel-aspect", 1, "Pixel aspect ratio of the inputs")
	cmd.Flags().Bool("preview", false, "Skip opcodes flagged for full renders only")
	_ = cmd.MarkFlagRequired("list")
	addOutputFlags(cmd)
	return cmd
}
