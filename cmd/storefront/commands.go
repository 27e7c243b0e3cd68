// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/database"
	"storefront/internal/identity"
	"storefront/internal/models"
	"storefront/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		return database.Migrate(db)
	},
}

var createUser struct {
	email    string
	password string
	name     string
	role     string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a local dashboard account (ADMIN or SELLER)",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.Role(strings.ToUpper(createUser.role))
		if role != models.RoleAdmin && role != models.RoleSeller {
			return fmt.Errorf("role must be ADMIN or SELLER, got %q", createUser.role)
		}
		if createUser.email == "" {
			return errors.New("--email is required")
		}
		if len(createUser.password) < 8 {
			return errors.New("--password must be at least 8 characters")
		}

		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		u, err := store.NewUserStore(db).Create(cmd.Context(), createUser.email, createUser.password, createUser.name, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
		return nil
	},
}

var setRole struct {
	email string
	role  string
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change a user's role and push it to the identity provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.Role(strings.ToUpper(setRole.role))
		if !role.Valid() {
			return fmt.Errorf("role must be ADMIN, SELLER or USER, got %q", setRole.role)
		}
		if setRole.email == "" {
			return errors.New("--email is required")
		}

		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		users := store.NewUserStore(db)
		u, err := users.FindByEmail(cmd.Context(), setRole.email)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("no user with email %q", setRole.email)
		}
		if err := users.SetRole(cmd.Context(), u.ID, role); err != nil {
			return err
		}

		if u.ProviderManaged() && cfg.IdentitySecretKey != "" {
			client := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentitySecretKey)
			if err := client.UpdateRole(cmd.Context(), u.ID, role); err != nil {
				return fmt.Errorf("role saved locally, provider update failed: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, role)
		return nil
	},
}

func init() {
	sf := setRoleCmd.Flags()
	sf.StringVar(&setRole.email, "email", "", "account email")
	sf.StringVar(&setRole.role, "role", string(models.RoleSeller), "ADMIN, SELLER or USER")

	f := createUserCmd.Flags()
	f.StringVar(&createUser.email, "email", "", "account email")
	f.StringVar(&createUser.password, "password", "", "account password")
	f.StringVar(&createUser.name, "name", "", "display name")
	f.StringVar(&createUser.role, "role", string(models.RoleSeller), "ADMIN or SELLER")
}
