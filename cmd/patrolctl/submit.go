package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"patrol-verifier/internal/features/reports"
	"patrol-verifier/internal/features/reports/domain"

	"github.com/spf13/cobra"
)

type submitOptions struct {
	file     string
	shiftID  int64
	clientID int64
	userID   int64
}

func newSubmitCmd(configPath *string) *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a track CSV for a shift and print the verification result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.shiftID <= 0 || opts.clientID <= 0 || opts.userID <= 0 {
				return errors.New("--shift, --client and --user must be positive")
			}

			data, err := os.ReadFile(opts.file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", opts.file, err)
			}

			e, err := openEnv(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			module := reports.Build(e.cfg, e.db, nil, e.log)
			result := module.Service.SubmitReport(cmd.Context(), domain.SubmitRequest{
				ShiftID:     opts.shiftID,
				ClientID:    opts.clientID,
				SubmittedBy: opts.userID,
				Filename:    filepath.Base(opts.file),
				Data:        data,
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("report rejected: %s", result.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "track CSV to submit")
	cmd.Flags().Int64Var(&opts.shiftID, "shift", 0, "shift id")
	cmd.Flags().Int64Var(&opts.clientID, "client", 0, "client id")
	cmd.Flags().Int64Var(&opts.userID, "user", 0, "submitting user id")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("shift")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
