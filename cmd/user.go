package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"LabelCMS/db"
	"LabelCMS/model"
	"LabelCMS/repository"

	"github.com/spf13/cobra"
)

var (
	promoteOpenID string
	promoteRole   string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Inspect users and change roles",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		users, err := repository.NewUserRepository(gdb, cfg.OwnerOpenID).List(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tOPEN ID\tNAME\tROLE\tLAST SIGNED IN")
		for _, u := range users {
			name := ""
			if u.Name != nil {
				name = *u.Name
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.OpenID, name, u.Role, u.LastSignedIn.Format(time.RFC3339))
		}
		return tw.Flush()
	},
}

var userPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Set the role of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if promoteOpenID == "" {
			return fmt.Errorf("--open-id is required")
		}
		gdb, err := db.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		role := model.Role(promoteRole)
		if err := repository.NewUserRepository(gdb, cfg.OwnerOpenID).SetRole(cmd.Context(), promoteOpenID, role); err != nil {
			return fmt.Errorf("set role of %s: %w", promoteOpenID, err)
		}
		fmt.Printf("%s is now %s\n", promoteOpenID, role)
		return nil
	},
}

func init() {
	userPromoteCmd.Flags().StringVar(&promoteOpenID, "open-id", "", "openId of the user")
	userPromoteCmd.Flags().StringVar(&promoteRole, "role", string(model.RoleAdmin), "role to set (admin or user)")
	userCmd.AddCommand(userListCmd, userPromoteCmd)
	rootCmd.AddCommand(userCmd)
}
