package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aura/internal/domain"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a patient or a doctor",
	}
	cmd.AddCommand(loginPatientCmd(), loginDoctorCmd())
	return cmd
}

func loginPatientCmd() *cobra.Command {
	var name, email, wallet, token string
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Sign in as a patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wallet != "" {
				if err := validateWallet(wallet); err != nil {
					return err
				}
			}
			id, err := appCtx.Session.Login(cmd.Context(), domain.LoginRequest{
				Role:          domain.RolePatient,
				Name:          name,
				Email:         email,
				WalletAddress: wallet,
				Token:         token,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", id.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address (0x...)")
	cmd.Flags().StringVar(&token, "token", "", "sign-in token; its name and email claims fill missing fields")
	return withRole(cmd, areaAuth)
}

func loginDoctorCmd() *cobra.Command {
	var name, license string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Verify your license and sign in as a doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, license = strings.TrimSpace(name), strings.TrimSpace(license)
			if name == "" {
				return &domain.ValidationError{Field: "name", Message: "is required"}
			}
			if license == "" {
				return &domain.ValidationError{Field: "license", Message: "is required"}
			}

			// Verification is simulated: a fixed, cancellable delay.
			fmt.Fprintln(cmd.OutOrStdout(), "Verifying medical license...")
			t := time.NewTimer(appCtx.Config.VerifyDelay)
			defer t.Stop()
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-t.C:
			}
			appCtx.Log.Info("license verified", "license", license)

			id, err := appCtx.Session.Login(cmd.Context(), domain.LoginRequest{
				Role:          domain.RoleDoctor,
				Name:          name,
				WalletAddress: domain.WalletDoctorVerified,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "License verified. Welcome, %s!\n", id.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your full name")
	cmd.Flags().StringVar(&license, "license", "", "medical license number")
	return withRole(cmd, areaAuth)
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			id, ok := appCtx.Session.Current().Identity()
			if !ok {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}
			fmt.Fprintf(out, "Role:   %s\nName:   %s\n", id.Role, id.Name)
			if id.Email != "" {
				fmt.Fprintf(out, "Email:  %s\n", id.Email)
			}
			if id.WalletAddress != "" {
				fmt.Fprintf(out, "Wallet: %s\n", id.WalletAddress)
			}
			return nil
		},
	}
}
