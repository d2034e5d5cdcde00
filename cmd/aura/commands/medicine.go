package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func medicineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medicine",
		Short: "Identify a medicine from a photo",
	}
	identify := &cobra.Command{
		Use:   "identify <image>",
		Short: "Upload a photo of a strip or box and look it up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := appCtx.Medicine.IdentifyFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, l := range v.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
	cmd.AddCommand(withRole(identify, areaPatient))
	return cmd
}
