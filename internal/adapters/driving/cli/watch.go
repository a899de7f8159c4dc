package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Re-ingest documents as they change",
	Long: `Watches a directory and ingests supported files whenever they are
created or modified, keeping the collection in sync with the directory
contents. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch target: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if err := ingestFile(ctx, cmd, event.Name); err != nil {
				cmd.PrintErrf("%s: %v\n", filepath.Base(event.Name), err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestFile ingests a single file, skipping directories and files still
// being written.
func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	text, err := registry.ForFile(path).Extract(ctx, raw)
	if err != nil {
		return err
	}

	report, err := ingestor.Ingest(ctx, []domain.SourceText{{
		SourceID: filepath.Base(path),
		Text:     text,
	}})
	if err != nil {
		return err
	}

	cmd.Printf("Ingested %s (%d chunks)\n", filepath.Base(path), report.ChunksAdded)
	return nil
}
