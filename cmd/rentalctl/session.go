package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentalcore/internal/auth"
	"rentalcore/internal/seed"
	"rentalcore/pkg/domain"
)

func seedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the demo accounts and listings on an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seeded, err := seed.Run(cmd.Context(), c.app.repos,
				seed.WithHashParams(c.hashParams), seed.WithClock(c.now), seed.WithLogger(c.app.logger))
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(c.stdout, "store already has users; nothing seeded")
				return nil
			}
			fmt.Fprintln(c.stdout, "seeded demo data")
			return nil
		},
	}
}

func loginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.auth.LoginErr(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return c.print(viewUser(user))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, "logged out")
			return nil
		},
	}
}

func whoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			u, err := c.current()
			if err != nil {
				return err
			}
			return c.print(viewUser(u))
		},
	}
}

func registerCmd(c *cli) *cobra.Command {
	var (
		in    auth.RegisterInput
		role  string
		phone string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in as it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = domain.Role(role)
			if cmd.Flags().Changed("phone") {
				in.Phone = &phone
			}
			user, err := c.app.auth.RegisterErr(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.print(viewUser(user))
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleTenant), "tenant, owner or admin")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
