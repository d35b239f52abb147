package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wingman/internal/auth"
	"wingman/internal/models"
)

var (
	userEmail    string
	userName     string
	userPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Add a user who can log in to the web app",
	RunE:  runCreateUser,
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "login email (required)")
	createUserCmd.Flags().StringVar(&userName, "name", "", "display name")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "initial password (required)")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := auth.ValidatePasswordStrength(userPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(userPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	u := &models.User{Email: userEmail, Name: userName, PasswordHash: hash}
	if err := st.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	log.Info("user created", zap.String("user_id", u.ID), zap.String("email", u.Email))
	fmt.Fprintln(cmd.OutOrStdout(), u.ID)
	return nil
}
