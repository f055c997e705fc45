// Package main provides the CLI entrypoint for strokelab.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yalev/strokelab/internal/config"
	"github.com/yalev/strokelab/internal/export"
	"github.com/yalev/strokelab/internal/model"
	"github.com/yalev/strokelab/internal/participant"
	"github.com/yalev/strokelab/internal/reviewui"
	"github.com/yalev/strokelab/internal/stats"
	"github.com/yalev/strokelab/internal/store"
)

const (
	defaultIntervalMs    = 25.0
	defaultMinDistancePx = 3.0
)

var (
	reviewHebrewKeys bool

	trainableOut         string
	trainableIntervalMs  float64
	trainableMinDistance float64

	csvOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "strokelab <participant.json>...",
		Short:         "Pen-stroke annotation and export toolchain",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReviewCmd,
	}
	rootCmd.Flags().BoolVar(&reviewHebrewKeys, "hebrew-keys", true, "map QWERTY input to Hebrew letters")

	rootCmd.AddCommand(newCSVCmd())
	rootCmd.AddCommand(newTrainableCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runReviewCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "hebrew-keys", &reviewHebrewKeys, fileCfg.Review.HebrewKeys)

	participants, err := loadParticipants(args)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open annotation journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close annotation journal: %v\n", cerr)
		}
	}()

	m := reviewui.NewModel(participants, st, model.ReviewConfig{HebrewKeys: reviewHebrewKeys})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run review TUI: %w", err)
	}
	return nil
}

func newCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv <participant.json>...",
		Short: "Export the per-word analysis CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCSVCmd,
	}
	cmd.Flags().StringVar(&csvOut, "out", "", "output path (default derived from input count)")
	return cmd
}

func runCSVCmd(_ *cobra.Command, args []string) error {
	participants, err := loadParticipants(args)
	if err != nil {
		return err
	}
	out := csvOut
	if out == "" {
		out = defaultExportName(participants, "analysis.csv")
	}
	if err := export.WriteCSV(out, participants); err != nil {
		return err
	}
	logErrf("Wrote %s\n", out)
	return nil
}

func newTrainableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trainable <participant.json>...",
		Short: "Export the downsampled trainable JSON dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTrainableCmd,
	}
	cmd.Flags().StringVar(&trainableOut, "out", "", "output path (default derived from input count)")
	cmd.Flags().Float64Var(&trainableIntervalMs, "interval", defaultIntervalMs, "min time between kept events (ms)")
	cmd.Flags().Float64Var(&trainableMinDistance, "min-distance", defaultMinDistancePx, "min distance between kept events (px)")
	return cmd
}

func runTrainableCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "interval", &trainableIntervalMs, fileCfg.Export.IntervalMs)
	applyFloatConfig(cmd, "min-distance", &trainableMinDistance, fileCfg.Export.MinDistancePx)
	if trainableIntervalMs < 0 {
		return fmt.Errorf("--interval must be >= 0")
	}
	if trainableMinDistance < 0 {
		return fmt.Errorf("--min-distance must be >= 0")
	}

	participants, err := loadParticipants(args)
	if err != nil {
		return err
	}
	out := trainableOut
	if out == "" {
		out = defaultExportName(participants, "trainable.json")
	}
	cfg := model.ExportConfig{
		TargetIntervalMs: trainableIntervalMs,
		MinDistancePx:    trainableMinDistance,
	}
	if err := export.WriteTrainable(out, participants, cfg, exportLogf); err != nil {
		return err
	}
	logErrf("Wrote %s\n", out)
	return nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <participant.json>...",
		Short: "Print a per-word summary table",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInspectCmd,
	}
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	participants, err := loadParticipants(args)
	if err != nil {
		return err
	}
	headers := []string{"Participant", "Cell", "Word", "Written", "Correct", "Strokes", "Events", "Letters", "Quality"}
	var rows [][]string
	for _, p := range participants {
		for _, w := range p.Words {
			m := stats.Compute(w)
			correct := "no"
			if w.IsCorrect {
				correct = "yes"
			}
			rows = append(rows, []string{
				p.ParticipantNumber,
				fmt.Sprintf("%d", w.Cell),
				w.Word,
				w.WrittenWord,
				correct,
				fmt.Sprintf("%d", m.StrokeCount),
				fmt.Sprintf("%d", len(w.Events)),
				fmt.Sprintf("%d", len(w.Letters)),
				string(w.Trainability),
			})
		}
	}
	rightAlign := map[int]bool{1: true, 5: true, 6: true, 7: true}
	return stats.RenderTable(cmd.OutOrStdout(), headers, rows, rightAlign, stats.TerminalWidth())
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show annotation progress per participant",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open annotation journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close annotation journal: %v\n", cerr)
		}
	}()

	progress, err := st.ListProgress(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list progress: %w", err)
	}
	if len(progress) == 0 {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "No annotations recorded yet."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	headers := []string{"Participant", "Reviewed", "Correct", "Trainable", "Low-Quality", "Untrainable", "Last Reviewed"}
	rows := make([][]string, 0, len(progress))
	for _, p := range progress {
		rows = append(rows, []string{
			p.Participant,
			fmt.Sprintf("%d", p.Reviewed),
			fmt.Sprintf("%d", p.Correct),
			fmt.Sprintf("%d", p.Trainable),
			fmt.Sprintf("%d", p.LowQuality),
			fmt.Sprintf("%d", p.Untrainable),
			p.LastReviewed.Format("2006-01-02 15:04"),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	return stats.RenderTable(cmd.OutOrStdout(), headers, rows, rightAlign, stats.TerminalWidth())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func loadParticipants(paths []string) ([]*model.Participant, error) {
	participants := make([]*model.Participant, 0, len(paths))
	seen := map[string]struct{}{}
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			logErrf("Skipped (already loaded): %s\n", path)
			continue
		}
		seen[path] = struct{}{}
		p, warnings, err := participant.Load(path)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			logErrf("warning: %s\n", w)
		}
		participants = append(participants, p)
		logErrf("Loaded: %s (participant %s, %d words)\n", path, p.ParticipantNumber, len(p.Words))
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("no participant files loaded")
	}
	return participants, nil
}

func defaultExportName(participants []*model.Participant, suffix string) string {
	if len(participants) > 1 {
		return "combined_" + suffix
	}
	return "participant_" + suffix
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# strokelab configuration
# Uncomment a value to enable it. CLI flags override config values.

[export]
# interval-ms = %.0f      # Min time between kept events when downsampling (ms)
# min-distance-px = %.0f  # Min distance between kept events when downsampling (px)

[review]
# hebrew-keys = true    # Map QWERTY input to Hebrew letters when assigning
`,
		defaultIntervalMs,
		defaultMinDistancePx,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// exportLogf adapts logErrf for export progress reporting with a trailing newline.
func exportLogf(format string, args ...any) {
	logErrf(format+"\n", args...)
}
