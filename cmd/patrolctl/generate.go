package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"patrol-verifier/internal/features/reports"
	"patrol-verifier/internal/features/reports/domain"
	"patrol-verifier/internal/features/reports/service"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	shiftID  int64
	scenario string
	start    string
	output   string
}

func newGenerateTrackCmd(configPath *string) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate-track",
		Short: "Write a synthetic track CSV for a shift's route",
		Long: "Writes a track CSV for the device assigned to a shift, following its route.\n" +
			"Scenarios: perfect, missed_checkpoint, out_of_order, extra_points.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenario := service.Scenario(opts.scenario)
			if !slices.Contains(service.Scenarios, scenario) {
				return fmt.Errorf("%w: %s", service.ErrUnknownScenario, opts.scenario)
			}

			start := time.Now().UTC()
			if opts.start != "" {
				parsed, err := time.Parse(domain.TimestampLayout, opts.start)
				if err != nil {
					return fmt.Errorf("--start must use the format YYYY-MM-DD HH:MM:SS: %w", err)
				}
				start = parsed
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			module := reports.Build(e.cfg, e.db, nil, e.log)
			shift, err := module.Shifts.GetShift(cmd.Context(), opts.shiftID)
			if err != nil {
				return err
			}
			planned, err := module.Routes.PlannedCheckpoints(cmd.Context(), shift.RouteID)
			if err != nil {
				return err
			}
			if len(planned) == 0 {
				return fmt.Errorf("route %d has no checkpoints", shift.RouteID)
			}

			var w io.Writer = cmd.OutOrStdout()
			if opts.output != "" && opts.output != "-" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", opts.output, err)
				}
				defer f.Close()
				w = f
			}

			return service.GenerateTrack(w, shift.DeviceIdentifier, planned, start, scenario)
		},
	}

	cmd.Flags().Int64Var(&opts.shiftID, "shift", 0, "shift whose device and route are used")
	cmd.Flags().StringVar(&opts.scenario, "scenario", string(service.ScenarioPerfect), "track scenario")
	cmd.Flags().StringVar(&opts.start, "start", "", "start time (YYYY-MM-DD HH:MM:SS), defaults to now")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, stdout when empty")
	_ = cmd.MarkFlagRequired("shift")

	return cmd
}
