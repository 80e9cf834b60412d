package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/munishbansal2000/layla-sub008/backend/validate"
	"github.com/munishbansal2000/layla-sub008/frontend/cli/pkg/terminal"
)

func NewRemediateCmd(options *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "remediate <itinerary.json>",
		Short: "Repair an itinerary with the ordered remediation pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := loadItinerary(options.fs, args[0])
			if err != nil {
				return err
			}
			profile, err := options.loadProfile()
			if err != nil {
				return err
			}

			remediator := validate.NewRemediator(profile,
				validate.WithRemediatorFlights(options.flights()))
			result := remediator.Remediate(it)

			fmt.Fprint(cmd.OutOrStdout(), terminal.RenderChanges(result.Changes))

			target := out
			if target == "" {
				target = args[0]
			}
			if err := saveItinerary(options.fs, target, result.Itinerary); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the repaired itinerary here instead of overwriting the input")
	return cmd
}
