package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/validate"
	"github.com/munishbansal2000/layla-sub008/frontend/cli/pkg/terminal"
)

func NewValidateCmd(options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <itinerary.json>...",
		Short: "Audit itineraries against every constraint layer",
		Long:  "Audits one or more itinerary files. A file that fails to load or validate does not stop the others from being checked.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := options.loadProfile()
			if err != nil {
				return err
			}
			validator := validate.New(constraint.NewEngine(profile),
				validate.WithFlights(options.flights()))

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if len(args) > 1 {
					fmt.Fprintf(out, "== %s\n", path)
				}
				it, err := loadItinerary(options.fs, path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				report := validator.Validate(it)
				fmt.Fprint(out, terminal.RenderReport(report))
				if !report.Valid {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d itineraries have blocking issues", failed, len(args))
			}
			return nil
		},
	}
}
