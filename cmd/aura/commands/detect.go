package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"aura/internal/domain"
	"aura/internal/services/analysis"
)

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run the demo fracture and tumor detectors",
	}
	cmd.AddCommand(
		detectKindCmd(analysis.Fracture, "Detect fractures in a sample X-ray"),
		detectKindCmd(analysis.Tumor, "Segment tumors in a sample scan"),
	)
	return cmd
}

func detectKindCmd(kind analysis.Kind, short string) *cobra.Command {
	var sampleID string
	var list bool
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, s := range analysis.Samples(kind) {
					fmt.Fprintf(out, "%s\t%s\n", s.ID, s.DisplayName)
				}
				return nil
			}
			sample, ok := analysis.FindSample(kind, sampleID)
			if !ok {
				return &domain.ValidationError{Field: "sample", Message: "unknown sample; see --list"}
			}

			last := ""
			res, err := appCtx.Analysis.Simulate(cmd.Context(), kind, sample, func(p analysis.Progress) {
				if p.Stage != last {
					last = p.Stage
					fmt.Fprintln(out, p.Stage)
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Analysis complete: %s\n", res.Sample.DisplayName)
			fmt.Fprintf(out, "Confidence: %.2f%%\nTime: %s\nModel: %s\n", res.Confidence, res.Elapsed, res.Model)
			fmt.Fprintln(out, "Demo only. Not a medical diagnosis.")
			return nil
		},
	}
	cmd.Flags().StringVar(&sampleID, "sample", "", "bundled sample id")
	cmd.Flags().BoolVar(&list, "list", false, "list bundled samples")
	return withRole(cmd, areaAny)
}
