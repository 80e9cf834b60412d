// Package cmd wires the engine into the tripflow command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/munishbansal2000/layla-sub008/backend/constraint"
)

type globalOptions struct {
	LogLevel LogLevel
	Profile  string
	Arrive   string
	Depart   string

	fs afero.Fs
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	options := &globalOptions{fs: fs}
	cmd := &cobra.Command{
		Use:   "tripflow",
		Short: "Tripflow: rework travel itineraries with plain language.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: options.LogLevel.SlogLevel(),
			})))
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Var(&options.LogLevel, "log-level", "set the log level")
	cmd.PersistentFlags().StringVar(&options.Profile, "profile", "", "constraint profile YAML (defaults apply when omitted)")
	cmd.PersistentFlags().StringVar(&options.Arrive, "arrive", "", "arrival flight time on the first day (HH:MM)")
	cmd.PersistentFlags().StringVar(&options.Depart, "depart", "", "departure flight time on the last day (HH:MM)")

	cmd.AddCommand(NewChatCmd(options))
	cmd.AddCommand(NewValidateCmd(options))
	cmd.AddCommand(NewRemediateCmd(options))
	return cmd
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadProfile reads the profile flag, or returns defaults when unset.
func (o *globalOptions) loadProfile() (*constraint.Profile, error) {
	if o.Profile == "" {
		return constraint.DefaultProfile(), nil
	}
	f, err := o.fs.Open(o.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	defer f.Close()
	return constraint.LoadProfile(f)
}

// flights builds the flight boundaries from the flags, nil when neither is
// set.
func (o *globalOptions) flights() *constraint.Flights {
	if o.Arrive == "" && o.Depart == "" {
		return nil
	}
	return &constraint.Flights{Arrival: o.Arrive, Departure: o.Depart}
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (e *LogLevel) String() string {
	if e == nil {
		return ""
	}
	return string(*e)
}

func (e *LogLevel) Set(v string) error {
	for _, level := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		if v == string(level) {
			*e = level
			return nil
		}
	}
	return errors.New(`must be one of "debug", "info", "warn", or "error"`)
}

func (e *LogLevel) Type() string {
	return "log-level"
}

func (e *LogLevel) SlogLevel() slog.Level {
	switch *e {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	}
	return slog.LevelWarn
}
