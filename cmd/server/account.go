package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
)

var (
	accountEmail    string
	accountPassword string
	accountRoles    []string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage admin panel accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an admin panel account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		account, err := a.accounts.CreateAccount(cmd.Context(), accountEmail, accountPassword, accountRoles)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with roles %s\n",
			account.Spec.Email, account.Name, strings.Join(account.Spec.Roles, ","))
		return nil
	},
}

func init() {
	accountAddCmd.Flags().StringVar(&accountEmail, "email", "", "account email")
	accountAddCmd.Flags().StringVar(&accountPassword, "password", "", "account password")
	accountAddCmd.Flags().StringSliceVar(&accountRoles, "role", []string{v1alpha1.RoleEditor}, "account roles (admin, editor)")
	_ = accountAddCmd.MarkFlagRequired("email")
	_ = accountAddCmd.MarkFlagRequired("password")
}
