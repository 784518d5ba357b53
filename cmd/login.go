package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/credentials"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	loginRefresh  bool
)

// tokenIssuer is the authentication side of the directory client.
type tokenIssuer interface {
	Login(ctx context.Context, username, password string) (*directory.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*directory.TokenResponse, error)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the directory and store the token",
	Long: `Exchange a username and password for a directory token and store it in the
token file used by the other commands. With --refresh the stored refresh token
is used instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		client := newDirectoryClient(nil)
		tokenFile := credentials.File{Path: tokenPath()}

		if loginRefresh {
			return refreshToken(ctx, client, tokenFile, cmd.OutOrStdout())
		}

		password := loginPassword
		if password == "" {
			password = os.Getenv("DIRECTORY_PASSWORD")
		}
		return login(ctx, client, tokenFile, loginUsername, password, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "directory username")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "directory password, defaults to $DIRECTORY_PASSWORD")
	loginCmd.Flags().BoolVar(&loginRefresh, "refresh", false, "renew the token with the stored refresh token")
}

// refreshFile holds the refresh token next to the token file.
func refreshFile(tokenFile credentials.File) credentials.File {
	return credentials.File{Path: tokenFile.Path + ".refresh"}
}

func login(ctx context.Context, client tokenIssuer, tokenFile credentials.File, username, password string, w io.Writer) error {
	if username == "" {
		return errors.New("--username is required")
	}

	token, err := client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := tokenFile.Store(token.Token); err != nil {
		return err
	}
	if token.RefreshToken != "" {
		if err := refreshFile(tokenFile).Store(token.RefreshToken); err != nil {
			return err
		}
	}

	log.Info().Str("user", username).Str("file", tokenFile.Path).Msg("logged in")
	_, err = fmt.Fprintf(w, "Logged in as %s\n", username)
	return err
}

func refreshToken(ctx context.Context, client tokenIssuer, tokenFile credentials.File, w io.Writer) error {
	stored, err := refreshFile(tokenFile).Credential(ctx)
	if err != nil {
		return err
	}
	if stored == "" {
		return errors.New("no refresh token stored, log in with a password first")
	}

	token, err := client.Refresh(ctx, stored)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	if err := tokenFile.Store(token.Token); err != nil {
		return err
	}

	log.Info().Str("file", tokenFile.Path).Msg("token refreshed")
	_, err = fmt.Fprintln(w, "Token refreshed")
	return err
}

// tokenPath returns the token file of the file credential source.
func tokenPath() string {
	if appCfg.Credentials.File != "" {
		return appCfg.Credentials.File
	}
	return credentials.DefaultTokenPath()
}
