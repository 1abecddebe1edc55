package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
)

var (
	adminEmail    string
	adminPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account (bootstrap for a fresh database)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := services.NewUserService(repositories.NewUserRepository(pool), nil, false)
		user, err := svc.CreateUser(ctx, &models.CreateUserRequest{
			Email:    adminEmail,
			Password: adminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(userCmd)
}
