package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imkarma/herd/internal/config"
	"github.com/spf13/cobra"
)

var initBoardID string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize herd in the current directory",
	Long:  "Creates a .herd/ directory with a default config.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initBoardID, "board", "", "Board id to write into the config")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dir := filepath.Dir(configPath)

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("herd already initialized (%s exists)", configPath)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	cfg := config.DefaultConfig()
	cfg.Board.ID = initBoardID
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "Initialized herd in %s\n", dir)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Next steps:")
	if initBoardID == "" {
		fmt.Fprintf(out, "  1. Set board.id in %s\n", configPath)
	} else {
		fmt.Fprintf(out, "  1. Board id set to %s\n", initBoardID)
	}
	fmt.Fprintf(out, "  2. Export %s and %s\n", cfg.Credentials.KeyEnv, cfg.Credentials.TokenEnv)
	fmt.Fprintln(out, "  3. Run: herd \"?lists\"")
	return nil
}
