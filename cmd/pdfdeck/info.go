package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/ternarybob/pdfdeck/internal/services/pdf"
	"github.com/ternarybob/pdfdeck/internal/services/pptx"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.pdf>",
	Short: "Show the structure of a PDF and how its pages will be placed",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	info, err := pdf.Inspect(data)
	if err != nil {
		return err
	}

	fmt.Printf("File:      %s (%s)\n", args[0], humanize.Bytes(uint64(info.FileSize)))
	fmt.Printf("Version:   %s\n", info.Version)
	fmt.Printf("Encrypted: %t\n", info.Encrypted)
	fmt.Printf("Pages:     %d\n", info.PageCount)

	for i, bounds := range info.Pages {
		geometry := pptx.ComputeGeometry(bounds)
		fmt.Printf("  %3d  %7.1f x %-7.1f pt  %4dx%-4d px  slide extent %dx%d EMU at (%d, %d)\n",
			i+1,
			bounds.Width, bounds.Height,
			roundPixels(bounds.Width*application.Rasterizer.RenderScale(bounds)),
			roundPixels(bounds.Height*application.Rasterizer.RenderScale(bounds)),
			geometry.ExtCx, geometry.ExtCy,
			geometry.OffX, geometry.OffY)
	}
	return nil
}

func roundPixels(v float64) int {
	return int(v + 0.5)
}
