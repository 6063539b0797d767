package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/models"
	"github.com/ternarybob/pdfdeck/internal/services/converter"
	"golang.org/x/sync/errgroup"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>...",
	Short: "Convert PDF files into .pptx presentations",
	Long:  `Renders each page of every given PDF onto its own slide. Several files are converted concurrently (see [batch] concurrency); each gets its own output file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConvert,
}

var (
	convertOutput string
	convertOutDir string
)

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file name (single input only, .pptx is appended when missing)")
	convertCmd.Flags().StringVar(&convertOutDir, "out-dir", "", "Output directory (overrides config)")
}

type convertOutcome struct {
	input  string
	record *models.ConversionRecord
	err    error
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output can only be used with a single input file")
	}

	common.PrintBanner(common.GetVersion())

	names := outputNames(args, convertOutput, config.Output.DefaultName)
	outcomes := make([]convertOutcome, len(args))

	var g errgroup.Group
	g.SetLimit(config.Batch.Concurrency)

	for i, input := range args {
		g.Go(func() error {
			outcomes[i] = convertOne(cmd, input, names[i])
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", o.input, o.err)
			continue
		}
		line := fmt.Sprintf("✓ %s -> %s (%d slides, %s, %s)",
			o.input,
			o.record.OutputPath,
			o.record.SlideCount,
			humanize.Bytes(uint64(o.record.ArchiveSize)),
			o.record.Duration.Round(time.Millisecond))
		if len(o.record.SkippedPages) > 0 {
			line += fmt.Sprintf(" skipped pages: %s", pageList(o.record.SkippedPages))
		}
		fmt.Println(line)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(args))
	}
	return nil
}

func convertOne(cmd *cobra.Command, input, name string) convertOutcome {
	data, err := os.ReadFile(input)
	if err != nil {
		return convertOutcome{input: input, err: err}
	}

	logger.Debug().
		Str("input", input).
		Str("output", name).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("Converting")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	record, err := application.Converter.ConvertFile(ctx, filepath.Base(input), data, name)
	return convertOutcome{input: input, record: record, err: err}
}

// outputNames assigns every input its own output file. Inputs that would
// share a name get a numeric suffix: deck.pptx, deck-2.pptx, ...
func outputNames(inputs []string, explicit, fallback string) []string {
	names := make([]string, len(inputs))
	taken := make(map[string]bool, len(inputs))

	for i, input := range inputs {
		name := explicit
		if name == "" {
			base := filepath.Base(input)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		name = converter.NormalizeFileName(name, fallback)

		ext := path.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		candidate := name
		for n := 2; taken[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		taken[strings.ToLower(candidate)] = true
		names[i] = candidate
	}
	return names
}

// pageList renders 0-based page indices as 1-based page numbers
func pageList(indices []int) string {
	numbers := make([]string, len(indices))
	for i, idx := range indices {
		numbers[i] = fmt.Sprintf("%d", idx+1)
	}
	return strings.Join(numbers, ", ")
}
