package commands

import (
	"fmt"
	"net/mail"
	"regexp"

	"github.com/spf13/cobra"

	"aura/internal/domain"
)

var walletRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func validateWallet(addr string) error {
	if !walletRe.MatchString(addr) {
		return &domain.ValidationError{Field: "wallet", Message: "must be 0x followed by 40 hex characters"}
	}
	return nil
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Update your profile",
	}
	cmd.AddCommand(linkWalletCmd(), setEmailCmd())
	return cmd
}

func linkWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link-wallet <address>",
		Short: "Attach a wallet address to your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateWallet(args[0]); err != nil {
				return err
			}
			id, err := appCtx.Session.UpdateUser(cmd.Context(), domain.IdentityPatch{
				WalletAddress: args[0],
				MustPersist:   true,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wallet linked: %s\n", id.WalletAddress)
			return nil
		},
	}
	return withRole(cmd, areaPatient)
}

func setEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-email <address>",
		Short: "Change the email on your profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := mail.ParseAddress(args[0])
			if err != nil {
				return &domain.ValidationError{Field: "email", Message: "is not a valid address"}
			}
			id, err := appCtx.Session.UpdateUser(cmd.Context(), domain.IdentityPatch{
				Email:       addr.Address,
				MustPersist: true,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Email updated: %s\n", id.Email)
			return nil
		},
	}
	return withRole(cmd, areaAny)
}
