// Command nurseshift is the CLI front end for the nurse-shift scheduler:
// validate a roster/rules pair, build a schedule (from JSON or from a
// free-text shift sheet), or recheck an existing assignment list. Its
// command/flag shape follows the cobra root-plus-subcommand pattern used
// throughout the retrieved example pack (derekprior-rbrl's cmd/rbrl).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ty819/nurse-shift/internal/core"
	"github.com/ty819/nurse-shift/internal/ingest"
	"github.com/ty819/nurse-shift/internal/modelbuild"
	"github.com/ty819/nurse-shift/internal/obslog"
	"github.com/ty819/nurse-shift/internal/recheck"
	"github.com/ty819/nurse-shift/internal/roster"
	"github.com/ty819/nurse-shift/internal/rulemerge"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nurseshift",
		Short: "Nurse shift roster scheduler",
	}

	var alternatives int
	var lockedPath, outPath string
	var watch bool
	buildCmd := &cobra.Command{
		Use:          "build <nurses.json> <rules.json>",
		Short:        "Solve a month's schedule from a nurse roster and rule set",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func() error { return runBuild(args[0], args[1], lockedPath, outPath, alternatives) }
			if !watch {
				return run()
			}
			return runWatched(args, run)
		},
	}
	buildCmd.Flags().IntVar(&alternatives, "alternatives", 1, "number of distinct schedules to return")
	buildCmd.Flags().StringVar(&lockedPath, "locked", "", "optional CSV of assignments to lock in place")
	buildCmd.Flags().StringVar(&outPath, "out", "", "write result JSON here instead of stdout")
	buildCmd.Flags().BoolVar(&watch, "watch", false, "re-run whenever the input files change")

	var year, month int
	var mdAlternatives int
	var mdOut string
	buildMDCmd := &cobra.Command{
		Use:          "build-md <sheet.md>",
		Short:        "Solve a month's schedule from a free-text shift sheet",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildMD(args[0], year, month, mdOut, mdAlternatives)
		},
	}
	buildMDCmd.Flags().IntVar(&year, "year", 0, "roster year (required)")
	buildMDCmd.Flags().IntVar(&month, "month", 0, "roster month, 1-12 (required)")
	buildMDCmd.Flags().IntVar(&mdAlternatives, "alternatives", 1, "number of distinct schedules to return")
	buildMDCmd.Flags().StringVar(&mdOut, "out", "", "write result JSON here instead of stdout")
	_ = buildMDCmd.MarkFlagRequired("year")
	_ = buildMDCmd.MarkFlagRequired("month")

	validateCmd := &cobra.Command{
		Use:          "validate <nurses.json> <rules.json>",
		Short:        "Check that a roster and rule set compile into a constraint model",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], args[1])
		},
	}

	recheckCmd := &cobra.Command{
		Use:          "recheck <assignments.csv> <nurses.json> <rules.json>",
		Short:        "Validate a hand-edited or external schedule against a rule set",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecheck(args[0], args[1], args[2])
		},
	}

	rootCmd.AddCommand(buildCmd, buildMDCmd, validateCmd, recheckCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadNurses(path string) ([]roster.Nurse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading nurses file: %w", err)
	}
	var nurses []roster.Nurse
	if err := json.Unmarshal(data, &nurses); err != nil {
		return nil, fmt.Errorf("parsing nurses file: %w", err)
	}
	return nurses, nil
}

func loadRules(path string) (roster.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return roster.Rules{}, fmt.Errorf("reading rules file: %w", err)
	}
	var rules roster.Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return roster.Rules{}, fmt.Errorf("parsing rules file: %w", err)
	}
	return rules, nil
}

func loadLocked(path string) ([]roster.Assignment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locked assignments file: %w", err)
	}
	assignments, err := roster.AssignmentsFromCSV(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing locked assignments: %w", err)
	}
	return assignments, nil
}

func writeResult(outPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if outPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func runBuild(nursesPath, rulesPath, lockedPath, outPath string, alternatives int) error {
	nurses, err := loadNurses(nursesPath)
	if err != nil {
		return err
	}
	rules, err := loadRules(rulesPath)
	if err != nil {
		return err
	}
	locked, err := loadLocked(lockedPath)
	if err != nil {
		return err
	}

	result, err := core.BuildSchedule(context.Background(), nurses, rules, locked, alternatives)
	if err != nil {
		return fmt.Errorf("build schedule: %w", err)
	}
	if result.Status != "OK" {
		fmt.Printf("✗ %s: %s\n", result.Status, result.Message)
		for _, s := range result.Suggestions {
			fmt.Printf("  suggestion: %s (%s)\n", s.Type, s.Reason)
		}
		return fmt.Errorf("no feasible schedule found")
	}
	fmt.Printf("✓ %d plan(s) found for %04d-%02d\n", result.AlternativesReturned, result.Year, result.Month)
	return writeResult(outPath, result)
}

func runBuildMD(path string, year, month int, outPath string, alternatives int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading shift sheet: %w", err)
	}
	nurses, rules := ingest.ParseShiftMD(string(data), year, month)
	result, err := core.BuildSchedule(context.Background(), nurses, rules, nil, alternatives)
	if err != nil {
		return fmt.Errorf("build schedule: %w", err)
	}
	if result.Status != "OK" {
		fmt.Printf("✗ %s: %s\n", result.Status, result.Message)
		return fmt.Errorf("no feasible schedule found")
	}
	fmt.Printf("✓ %d plan(s) found for %04d-%02d from %d nurses\n", result.AlternativesReturned, result.Year, result.Month, len(nurses))
	return writeResult(outPath, result)
}

func runValidate(nursesPath, rulesPath string) error {
	nurses, err := loadNurses(nursesPath)
	if err != nil {
		return err
	}
	rules, err := loadRules(rulesPath)
	if err != nil {
		return err
	}

	merged, effective, err := rulemerge.Merge(nurses, rules.PersonRules)
	if err != nil {
		return fmt.Errorf("validate: merge rules: %w", err)
	}
	if _, err := modelbuild.Build(nurses, rules, merged, effective, nil); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	fmt.Printf("✓ %d nurses and rule set for %04d-%02d compile to a valid model\n", len(nurses), rules.Year, rules.Month)
	return nil
}

func runRecheck(assignmentsPath, nursesPath, rulesPath string) error {
	data, err := os.ReadFile(assignmentsPath)
	if err != nil {
		return fmt.Errorf("reading assignments csv: %w", err)
	}
	assignments, err := roster.AssignmentsFromCSV(string(data))
	if err != nil {
		return fmt.Errorf("parsing assignments csv: %w", err)
	}
	nurses, err := loadNurses(nursesPath)
	if err != nil {
		return err
	}
	rules, err := loadRules(rulesPath)
	if err != nil {
		return err
	}

	result, err := recheck.Recheck(assignments, nurses, rules)
	if err != nil {
		return fmt.Errorf("recheck: %w", err)
	}
	if result.OK {
		fmt.Println("✓ schedule passes recheck")
	} else {
		fmt.Printf("✗ %d violation(s)\n", len(result.Violations))
		for _, v := range result.Violations {
			fmt.Printf("  - %s\n", v)
		}
	}
	return writeResult("", result)
}

// runWatched runs run() immediately and again on every write or create
// event, in the given file paths' parent directories, for a file whose base
// name matches one of the given paths, mirroring the watch-and-reload
// loop in jpfluger-alibs-slim/ageo/globals.go.
func runWatched(paths []string, run func() error) error {
	log := obslog.WithComponent("cli")

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	names := map[string]bool{}
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
		names[filepath.Base(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	fmt.Println("watching for changes, press ctrl-c to stop")
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !names[filepath.Base(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Info().Str("file", event.Name).Msg("input changed, rebuilding")
			if err := run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Err(err).Msg("watcher error")
		}
	}
}
