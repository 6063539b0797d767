package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/ternarybob/pdfdeck/internal/models"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded conversion",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one recorded conversion",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records (0 = all)")
	historyCmd.AddCommand(historyShowCmd, historyDeleteCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !config.Storage.Badger.Enabled {
		fmt.Println("Conversion history is disabled ([storage.badger] enabled = false)")
		return nil
	}

	records, err := application.Storage.ListConversions(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No conversions recorded")
		return nil
	}

	for _, r := range records {
		summary := fmt.Sprintf("%d/%d slides, %s", r.SlideCount, r.PageCount, humanize.Bytes(uint64(r.ArchiveSize)))
		if r.Status == models.ConversionStatusFailed {
			summary = fmt.Sprintf("%s error: %s", r.ErrorKind, r.Error)
		}
		fmt.Printf("%s  %-9s  %-14s  %s  %s\n", r.ID, r.Status, humanize.Time(r.CreatedAt), displayName(r), summary)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	r, err := application.Storage.GetConversion(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:       %s\n", r.ID)
	fmt.Printf("Status:   %s\n", r.Status)
	fmt.Printf("Source:   %s\n", displayName(r))
	fmt.Printf("Output:   %s\n", r.OutputPath)
	fmt.Printf("Created:  %s (%s)\n", r.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(r.CreatedAt))
	fmt.Printf("Duration: %s\n", r.Duration)
	fmt.Printf("Pages:    %d rendered of %d\n", r.SlideCount, r.PageCount)
	if len(r.SkippedPages) > 0 {
		fmt.Printf("Skipped:  %s\n", pageList(r.SkippedPages))
	}
	fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(r.ArchiveSize)))
	if r.Error != "" {
		fmt.Printf("Error:    [%s] %s\n", r.ErrorKind, r.Error)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if err := application.Storage.DeleteConversion(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func displayName(r *models.ConversionRecord) string {
	if r.SourceName == "" {
		return "(bytes)"
	}
	return r.SourceName
}
