package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/potatbotat/potat-tui/config"
	"github.com/potatbotat/potat-tui/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token for authenticated requests",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored API token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

func validateToken(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("token cannot be empty")
	}
	return nil
}

// verifyToken resolves the account behind token with an authenticated
// request. A rejected token is an error.
func verifyToken(ctx context.Context, cfg *config.Config, token string) (*api.UserState, error) {
	client := newClient(cfg, api.StaticToken(token), log.New(io.Discard, "", 0))
	state, err := api.NewAccountService(client).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("verifying token: %w", err)
	}
	return state, nil
}

// saveLogin verifies token and stores it with the account's login.
func saveLogin(ctx context.Context, cfg *config.Config, store *config.TokenStore, token string) (*api.UserState, error) {
	token = strings.TrimSpace(token)
	state, err := verifyToken(ctx, cfg, token)
	if err != nil {
		return nil, err
	}
	if err := store.Save(token, state.Login); err != nil {
		return nil, err
	}
	return state, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var token string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(validateToken),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	store := config.NewTokenStore(config.DefaultTokenPath())
	state, err := saveLogin(cmd.Context(), cfg, store, token)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Logged in as "+state.Login+", token saved to "+store.Path()))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store := config.NewTokenStore(config.DefaultTokenPath())
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Logged out"))
	return nil
}
