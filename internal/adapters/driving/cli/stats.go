package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsJSON bool
	statsPing bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.Flags().BoolVar(&statsPing, "ping", false, "check that the embedding and generation backends are reachable")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if admin == nil {
		return errors.New("admin service not configured")
	}

	stats, err := admin.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		if err := outputJSON(cmd, stats); err != nil {
			return err
		}
	} else {
		cmd.Printf("Collection:      %s\n", stats.Collection)
		cmd.Printf("Total chunks:    %d\n", stats.TotalChunks)
		cmd.Printf("Dimension:       %d\n", stats.Dimension)
		cmd.Printf("Embedding model: %s\n", stats.EmbeddingModel)
	}

	if statsPing {
		cmd.Println()
		var unreachable bool
		for _, status := range admin.Ping(cmd.Context()) {
			if status.Err != nil {
				unreachable = true
				cmd.Printf("%s backend (%s): unreachable: %v\n", status.Name, status.Model, status.Err)
				continue
			}
			cmd.Printf("%s backend (%s): ok\n", status.Name, status.Model)
		}
		if unreachable {
			return errors.New("one or more backends are unreachable")
		}
	}
	return nil
}
