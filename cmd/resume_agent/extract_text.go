package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/spf13/cobra"
)

var (
	extractInput     string
	extractOutDir    string
	extractMinLength int
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract plain text from a resume file",
	Long: `Reads a .pdf, .docx or .txt resume, normalizes its text and prints it. With --out the
cleaned text and a metadata JSON file are written to that directory instead.`,
	RunE: runExtractText,
}

func init() {
	extractTextCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to resume file (.pdf, .docx, .txt)")
	extractTextCmd.Flags().StringVar(&extractOutDir, "out", "", "Output directory for <name>.cleaned.txt and <name>.meta.json")
	extractTextCmd.Flags().IntVar(&extractMinLength, "min-length", ingestion.MinResumeLength, "Minimum characters of extracted text")
	_ = extractTextCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, _ []string) error {
	return extractText(cmd.OutOrStdout(), extractInput, extractOutDir, extractMinLength)
}

// extractText ingests path and either prints the text or writes it to outDir.
func extractText(out io.Writer, path, outDir string, minLength int) error {
	if !ingestion.IsSupported(path) {
		return fmt.Errorf("unsupported file type %q: use .pdf, .docx or .txt", filepath.Ext(path))
	}

	text, metadata, err := ingestion.IngestFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", path, err)
	}
	if !ingestion.MeetsMinimumLength(text, minLength) {
		return fmt.Errorf("extracted text is too short (%d characters, need %d); the file may be scanned or empty",
			metadata.Length, minLength)
	}

	if outDir == "" {
		_, err := fmt.Fprintln(out, text)
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := ingestion.WriteOutput(outDir, base, text, metadata); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Wrote %s and %s\n",
		filepath.Join(outDir, base+".cleaned.txt"), filepath.Join(outDir, base+".meta.json"))
	return nil
}
