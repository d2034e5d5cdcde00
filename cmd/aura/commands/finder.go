package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"aura/internal/domain"
	"aura/internal/services/finder"
)

func finderCmd() *cobra.Command {
	var lat, lon float64
	var radius int
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find hospitals and doctors nearby",
	}
	pf := cmd.PersistentFlags()
	pf.Float64Var(&lat, "lat", 0, "latitude of your location")
	pf.Float64Var(&lon, "lon", 0, "longitude of your location")
	pf.IntVar(&radius, "radius", domain.DefaultSearchRadius, "search radius in meters")

	position := func(cmd *cobra.Command) *finder.Position {
		f := cmd.Flags()
		if !f.Changed("lat") || !f.Changed("lon") {
			return nil
		}
		return &finder.Position{Latitude: lat, Longitude: lon}
	}

	hospitals := &cobra.Command{
		Use:   "hospitals",
		Short: "Hospitals near you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := appCtx.Finder.FindHospitals(cmd.Context(), position(cmd), radius)
			if err != nil {
				return err
			}
			printPlaces(cmd.OutOrStdout(), "hospital", res.Places())
			return nil
		},
	}
	doctors := &cobra.Command{
		Use:   "doctors",
		Short: "Doctors near you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := appCtx.Finder.FindDoctors(cmd.Context(), position(cmd), radius)
			if err != nil {
				return err
			}
			printPlaces(cmd.OutOrStdout(), "doctor", res.Places())
			return nil
		},
	}
	cmd.AddCommand(withRole(hospitals, areaPatient), withRole(doctors, areaPatient))
	return cmd
}

func printPlaces(w io.Writer, noun string, places []domain.Place) {
	if len(places) == 0 {
		fmt.Fprintf(w, "No %ss found nearby.\n", noun)
		return
	}
	for i, p := range places {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, p.Name, p.Address)
		if p.Rating > 0 {
			fmt.Fprintf(w, "   Rating %.1f (%d reviews)\n", p.Rating, p.UserRatingsTotal)
		}
		if p.OpenNow != nil {
			if *p.OpenNow {
				fmt.Fprintln(w, "   Open now")
			} else {
				fmt.Fprintln(w, "   Closed")
			}
		}
	}
}
