package cmd

import (
	"context"
	"fmt"
	"log"

	"gspotify/config"
	"gspotify/core/auth"
	"gspotify/db"
	"gspotify/model"
	"gspotify/repository"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

// Admin accounts cannot be created through the signup API; this command is
// the only way in.
var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Create an admin account",
	Run: func(cmd *cobra.Command, args []string) {
		if adminUsername == "" || adminEmail == "" || adminPassword == "" {
			log.Fatal("username, email and password are all required")
		}

		cfg := config.Load()
		if err := db.Connect(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		userRepo := repository.NewGormUserRepository(db.DB)
		user := &model.User{
			Username:      adminUsername,
			Email:         adminEmail,
			PasswordHash:  hash,
			Role:          model.RoleAdmin,
			IsActive:      true,
			AgreedToTerms: true,
		}

		id, err := userRepo.Create(context.Background(), user)
		if err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}

		fmt.Printf("Admin account created: %s (id %d)\n", adminUsername, id)
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "admin username")
	createAdminCmd.Flags().StringVarP(&adminEmail, "email", "e", "", "admin email")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "admin password")
}
