package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial manager account",
	Long: `Create a manager account from SEED_MANAGER_USERNAME and
SEED_MANAGER_PASSWORD unless a manager already exists. The server does
this on its own in development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		gdb, closeDB, err := openGORM(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer closeDB()
		return seedManager(cmd.Context(), cfg, gdb)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
