package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cellgit/BearBasic/internal/identity"
	"github.com/cellgit/BearBasic/internal/session"
)

// startCmd stores the app id and a fresh device uuid
func startCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "start <appId>",
		Short: "Register the app id and generate a device uuid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.sdk.Start(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "appId: %s\n", id.AppID)
			fmt.Fprintf(out, "uuid:  %s\n", id.DeviceUUID)
			return nil
		},
	}
}

// identityCmd shows what will be sent with the next request
func identityCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Show the stored identity and login state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			appID, err := identity.AppID(ctx, c.sdk.Store)
			if err != nil {
				return err
			}
			deviceUUID, err := identity.DeviceUUID(ctx, c.sdk.Store)
			if err != nil {
				return err
			}
			loggedIn, err := c.sdk.Session.IsLoggedIn(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Base URL:  %s\n", c.sdk.Config.BaseURL())
			fmt.Fprintf(out, "App ID:    %s\n", orNone(appID))
			fmt.Fprintf(out, "UUID:      %s\n", deviceUUID)
			fmt.Fprintf(out, "Logged in: %t\n", loggedIn)

			claims, err := c.sdk.Session.Claims(ctx)
			switch {
			case errors.Is(err, session.ErrNoToken):
				return nil
			case err != nil:
				fmt.Fprintf(out, "Token:     opaque (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "Subject:   %s\n", orNone(claims.Subject))
			fmt.Fprintf(out, "Issuer:    %s\n", orNone(claims.Issuer))
			if !claims.ExpiresAt.IsZero() {
				state := "valid"
				if claims.Expired(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "Expires:   %s (%s)\n", claims.ExpiresAt.Format(time.RFC3339), state)
			}
			return nil
		},
	}
}

// loginCmd stores a bearer token
func loginCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store the Authorization token and mark the user signed in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.sdk.Session.Login(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}
}

// logoutCmd clears the token, login flag and cached user info
func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored login state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.sdk.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
