package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/export"
	"github.com/verte-zerg/typemaster/internal/integrity"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withLedger opens the app with progression loaded and runs fn.
func withLedger(cmd *cobra.Command, fn func(a *app, w io.Writer, useColor bool) error) error {
	a, err := loadApp(commandContext(cmd), true)
	if err != nil {
		return err
	}
	defer a.Close()
	w := cmd.OutOrStdout()
	return fn(a, w, stats.ShouldUseColor(w, forceColor))
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show level, streak and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(a *app, w io.Writer, useColor bool) error {
				return stats.RenderProfile(w, stats.BuildReport(a.ledger), useColor)
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded tests",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 20, "limit to last N tests (0 for all)")
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter: normal, timer or challenge")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	mode := model.Mode(historyMode)
	if mode != "" && !mode.Valid() {
		return fmt.Errorf("--mode must be normal, timer or challenge")
	}
	return withLedger(cmd, func(a *app, w io.Writer, useColor bool) error {
		cfg := model.HistoryConfig{Last: historyLast, Mode: mode, Width: stats.TerminalWidth(w)}
		return stats.RenderHistory(w, a.ledger.History(), cfg, useColor)
	})
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and what is unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(a *app, w io.Writer, useColor bool) error {
				return stats.RenderAchievements(w, a.ledger.State(), useColor)
			})
		},
	}
}

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List lessons and completion state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(a *app, w io.Writer, useColor bool) error {
				return stats.RenderLessons(w, a.ledger.State(), useColor)
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progression and test history",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", string(export.FormatJSON), "json, csv or parquet")
	cmd.Flags().StringVar(&exportOut, "out", "-", "output file, - for stdout")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	return withLedger(cmd, func(a *app, w io.Writer, _ bool) error {
		bundle := export.Bundle{
			ExportedAt:  time.Now().UTC(),
			Progression: a.ledger.State(),
			History:     a.ledger.History(),
		}
		if exportOut == "" || exportOut == "-" {
			return export.Write(w, format, bundle)
		}
		return writeExportFile(exportOut, format, bundle)
	})
}

func writeExportFile(path string, format export.Format, bundle export.Bundle) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()
	return export.Write(f, format, bundle)
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a result against the integrity rules",
		Args:  cobra.NoArgs,
		RunE:  runVerifyCmd,
	}
	cmd.Flags().Float64Var(&verifyWPM, "wpm", 0, "words per minute")
	cmd.Flags().Float64Var(&verifyAccuracy, "accuracy", 100, "accuracy percent")
	cmd.Flags().Float64Var(&verifyDuration, "duration", 60, "test duration in seconds")
	_ = cmd.MarkFlagRequired("wpm")
	return cmd
}

func runVerifyCmd(cmd *cobra.Command, _ []string) error {
	if verifyWPM < 0 || verifyAccuracy < 0 || verifyAccuracy > 100 || verifyDuration < 0 {
		return fmt.Errorf("--wpm and --duration must be >= 0, --accuracy between 0 and 100")
	}
	a, err := loadApp(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer a.Close()
	th, err := a.thresholds()
	if err != nil {
		return err
	}

	v := integrity.New(th, integrity.WithLogger(a.logger)).ValidateResult(verifyWPM, verifyAccuracy, verifyDuration)
	w := cmd.OutOrStdout()
	if err := stats.RenderVerdict(w, v, stats.ShouldUseColor(w, forceColor)); err != nil {
		return err
	}
	if !v.Valid {
		return errResultRejected
	}
	return nil
}
