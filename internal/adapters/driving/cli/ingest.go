package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Add documents to the knowledge base",
	Long: `Extracts text from the given files, splits it into overlapping
chunks, embeds each chunk and stores the result. Supported formats:
plain text (.txt, .text, .log) and Markdown (.md, .markdown); unknown
extensions are treated as plain text.

A document that fails is reported and skipped; the rest of the batch
still goes through.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	var sources []domain.SourceText
	var readFailures []domain.DocumentFailure

	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			readFailures = append(readFailures, domain.DocumentFailure{
				SourceID: filepath.Base(path),
				Err:      err,
			})
			continue
		}

		text, err := registry.ForFile(path).Extract(ctx, raw)
		if err != nil {
			readFailures = append(readFailures, domain.DocumentFailure{
				SourceID: filepath.Base(path),
				Err:      err,
			})
			continue
		}

		sources = append(sources, domain.SourceText{
			SourceID: filepath.Base(path),
			Text:     text,
		})
	}

	var report *domain.IngestReport
	if len(sources) > 0 {
		var err error
		report, err = ingestor.Ingest(ctx, sources)
		if report == nil && err != nil {
			return err
		}
	} else {
		report = &domain.IngestReport{}
	}
	report.Failures = append(readFailures, report.Failures...)

	cmd.Printf("Documents processed: %d\n", report.DocumentsProcessed)
	cmd.Printf("Chunks added:        %d\n", report.ChunksAdded)

	if len(report.Failures) > 0 {
		cmd.Println()
		cmd.Println("Failed:")
		for _, f := range report.Failures {
			cmd.Printf("  %s: %v\n", f.SourceID, f.Err)
		}
	}

	if report.DocumentsProcessed == 0 {
		return fmt.Errorf("no document could be ingested")
	}
	return nil
}
