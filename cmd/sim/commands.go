package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Arrow-air/tool-simulation/eel"
	"github.com/Arrow-air/tool-simulation/settings"
	"github.com/Arrow-air/tool-simulation/simconfig"
)

var errJournalRequired = errors.New("export-eel reads the journal store: set --journal-adapter and --journal-dsn")

func newRootCommand() *cobra.Command {
	v := settings.New()

	root := &cobra.Command{
		Use:   "sim <file>",
		Short: "Generate cargo booking traffic from an event log or a simulation config",
		Long: `sim replays an external event log (JSON) against the cargo service in real time,
or spawns the customers described by a simulation config (YAML) and steps them
through the booking workflow until the simulated duration has elapsed.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(v)
			if err != nil {
				return err
			}

			return runSimulation(cmd.Context(), s, args[0], cmd.ErrOrStderr())
		},
	}

	if err := settings.RegisterFlags(root, v); err != nil {
		panic(err) // flags are defined right above
	}

	root.AddCommand(
		newValidateConfigCommand(),
		newValidateEELCommand(),
		newExportEELCommand(v),
	)

	return root
}

func newValidateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config <file>",
		Short: "Check a simulation config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := simconfig.Load(args[0]); err != nil {
				return fmt.Errorf("invalid config file %s: %w", args[0], err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "valid")

			return err
		},
	}
}

func newValidateEELCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-eel <file>",
		Short: "Check an external event log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := eel.Load(args[0]); err != nil {
				return fmt.Errorf("invalid EEL file %s: %w", args[0], err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "valid")

			return err
		},
	}
}

func newExportEELCommand(v *viper.Viper) *cobra.Command {
	var runID, out string

	cmd := &cobra.Command{
		Use:   "export-eel --run <id> --out <file>",
		Short: "Write the journaled traffic of a run as a replayable event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(v)
			if err != nil {
				return err
			}

			if s.Journal.Adapter == settings.JournalNone {
				return errJournalRequired
			}

			count, err := exportEventLog(cmd.Context(), s, runID, out)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d events to %s\n", count, out)

			return err
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run id printed at the start of the run")
	cmd.Flags().StringVar(&out, "out", "", "event log file to write")
	_ = cmd.MarkFlagRequired("run")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
