package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document from the collection",
	Long: `Removes all stored chunks from the active collection. This cannot
be undone; pass --force to skip the confirmation.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "clear without confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if admin == nil {
		return errors.New("admin service not configured")
	}

	if !clearForce {
		cmd.Print("Clear the entire collection? [y/N] ")
		var response string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &response); err != nil || (response != "y" && response != "Y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := admin.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cmd.Println("Collection cleared.")
	return nil
}
