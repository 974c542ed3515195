package cmd

import (
	"context"
	"fmt"

	"github.com/jpfielding/ptm.go/pkg/ptm"
	"github.com/jpfielding/ptm.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewInfoCmd creates the info cobra command
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print PTM header and compression details",
		Long:  "Parses a PTM file and displays its dimensions, scale/bias coefficients, compression tables and output fingerprints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")

			if filePath == "" && len(args) > 0 {
				filePath = args[0]
			}

			if filePath == "" {
				return fmt.Errorf("file path is required. Use --file flag or provide as argument")
			}

			return runInfo(filePath)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "PTM file path to inspect")

	return cmd
}

func runInfo(filePath string) error {
	p, err := ptm.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	hdr := &p.Header
	fmt.Println("=== Header ===")
	fmt.Printf("Format: %s\n", hdr.Format)
	fmt.Printf("Width: %d\n", hdr.Width)
	fmt.Printf("Height: %d\n", hdr.Height)
	fmt.Printf("EntriesPerPixel: %d\n", hdr.EntriesPerPixel())

	fmt.Print("Scale coefficients: ")
	for _, s := range hdr.Scale {
		fmt.Printf("%g ", s)
	}
	fmt.Print("\nBias coefficients: ")
	for _, b := range hdr.Bias {
		fmt.Printf("%d ", b)
	}
	fmt.Println()

	if ci := hdr.Compression; ci != nil {
		fmt.Println("\n=== Compression ===")
		fmt.Printf("Parameter: %d\n", ci.Parameter)
		for slot := range ci.Order {
			ref := "none"
			if ci.ReferencePlanes[slot].Valid {
				ref = fmt.Sprintf("%d", ci.ReferencePlanes[slot].Plane)
			}
			fmt.Printf("plane %d: order=%d transform=%d ref=%s compressed=%d side=%d\n",
				slot, ci.Order[slot], ci.Transforms[slot], ref,
				ci.CompressedSize[slot], ci.SideInfoSize[slot])
		}
	}

	imgs, err := p.Split()
	if err != nil {
		return fmt.Errorf("assembling output: %w", err)
	}

	fmt.Println("\n=== Output fingerprints ===")
	fmt.Printf("coefficients: %s\n", util.BufferUUID(p.Coefficients))
	fmt.Printf("coeffH: %s\n", util.BufferUUID(imgs.CoeffHigh))
	fmt.Printf("coeffL: %s\n", util.BufferUUID(imgs.CoeffLow))
	fmt.Printf("rgb: %s\n", util.BufferUUID(imgs.RGB))

	return nil
}
