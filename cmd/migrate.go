package cmd

import (
	"fmt"

	"LabelCMS/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.AutoMigrate(gdb); err != nil {
			return err
		}
		fmt.Println("Tables users, releases, tracks and news are up to date.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
