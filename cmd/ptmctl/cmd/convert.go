package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jpfielding/ptm.go/pkg/ptm"
	"github.com/jpfielding/ptm.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewConvertCmd creates the convert cobra command
func NewConvertCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a PTM into three PNG images",
		Long:  "Decodes a PTM file and writes its high-order coefficients, low-order coefficients and base color as coeffH.png, coeffL.png and rgb.png.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			outDir, _ := cmd.Flags().GetString("out")

			if filePath == "" && len(args) > 0 {
				filePath = args[0]
			}

			if filePath == "" {
				return fmt.Errorf("file path is required. Use --file flag or provide as argument")
			}

			return runConvert(ctx, filePath, outDir)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "PTM file path to convert")
	pf.StringP("out", "o", ".", "Output directory for the PNG images")

	return cmd
}

func runConvert(ctx context.Context, filePath, outDir string) error {
	p, err := ptm.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	imgs, err := p.Split()
	if err != nil {
		return fmt.Errorf("assembling output: %w", err)
	}

	outputs := []struct {
		name string
		img  *image.NRGBA
		raw  []byte
	}{
		{"coeffH.png", imgs.HighImage(), imgs.CoeffHigh},
		{"coeffL.png", imgs.LowImage(), imgs.CoeffLow},
		{"rgb.png", imgs.RGBImage(), imgs.RGB},
	}

	for _, out := range outputs {
		path := filepath.Join(outDir, out.name)
		if err := writePNG(path, out.img); err != nil {
			return err
		}
		slog.InfoContext(ctx, "wrote image",
			"path", path,
			"width", imgs.Width,
			"height", imgs.Height,
			"fingerprint", util.BufferUUID(out.raw))
	}
	return nil
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
