package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.docx>",
	Short: "Print the plain text of a .docx document",
	Long:  `Reads word/document.xml from the archive and prints its paragraphs separated by blank lines.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractOutput string

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write the text to this file instead of stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	text, err := application.Extractor.ExtractText(data)
	if err != nil {
		return fmt.Errorf("failed to extract text from %s: %w", args[0], err)
	}

	if extractOutput == "" {
		fmt.Println(text)
		return nil
	}

	if err := os.WriteFile(extractOutput, []byte(text+"\n"), 0644); err != nil {
		return err
	}
	logger.Info().Str("input", args[0]).Str("output", extractOutput).Int("chars", len(text)).Msg("Text extracted")
	return nil
}
