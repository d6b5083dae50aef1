// Package main provides the pcsmerge CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pcsmerge/auditstore"
	"pcsmerge/batchselect"
	"pcsmerge/cas"
	"pcsmerge/contentmerge"
	"pcsmerge/gitsource"
	"pcsmerge/langmodel"
	"pcsmerge/merge"
)

var rootCmd = &cobra.Command{
	Use:     "pcsmerge",
	Short:   "pcsmerge merges typed syntax trees using the PCS interpreter",
	Long:    `pcsmerge is a local CLI around a Parent-Child-Successor three-way tree merge interpreter. It runs named scenario fixtures, batches over scenario-selecting glob rules, and can pull raw three-way text straight out of a Git repository.`,
	Version: Version,
}

// Version is the current pcsmerge CLI version.
var Version = "0.1.0"

var scenarios = map[string]func() merge.Inputs{
	"rename-conflict":          langmodel.RenameConflictScenario,
	"modifier-union":           langmodel.ModifierUnionScenario,
	"visibility-conflict":      langmodel.VisibilityConflictScenario,
	"comment-conflict":         langmodel.CommentConflictScenario,
	"type-member-auto-resolve": langmodel.TypeMemberAutoResolutionScenario,
	"successor-conflict":       langmodel.SuccessorConflictScenario,
}

var (
	configFile    string
	auditDBFlag   string
	mergeScenario string
	gitRepo       string
	gitBase       string
	gitLeft       string
	gitRight      string
	gitPath       string
	batchRules    string
	batchDir      string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Run a single three-way merge",
	Long: `Run a single three-way merge, either over a named built-in scenario
(see 'pcsmerge scenarios') or, with --from-git, over the raw text of a path
at three git refs.

Examples:
  pcsmerge merge --scenario rename-conflict
  pcsmerge merge --from-git . --base main --left feature --right release --path README.md`,
	RunE: runMerge,
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in scenario fixtures",
	RunE:  runScenarios,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run every scenario a glob rules file selects",
	Long: `Batch mode walks --dir, matches each path against the glob rules in
--rules, and runs the corresponding built-in scenario once per matched rule
(a rules file maps scenario names to path patterns, the way
kai-core/modulematch maps module names to patterns).`,
	RunE: runBatch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&auditDBFlag, "audit-db", "", "Path to the sqlite audit database (overrides config)")

	mergeCmd.Flags().StringVar(&mergeScenario, "scenario", "", "Name of a built-in scenario to run")
	mergeCmd.Flags().StringVar(&gitRepo, "from-git", "", "Path to a git repository to read a path's three revisions from")
	mergeCmd.Flags().StringVar(&gitBase, "base", "", "BASE git ref (used with --from-git)")
	mergeCmd.Flags().StringVar(&gitLeft, "left", "", "LEFT git ref (used with --from-git)")
	mergeCmd.Flags().StringVar(&gitRight, "right", "", "RIGHT git ref (used with --from-git)")
	mergeCmd.Flags().StringVar(&gitPath, "path", "", "Path within the repository (used with --from-git)")

	batchCmd.Flags().StringVar(&batchRules, "rules", "", "Path to a YAML scenario-selection rules file (required unless rules_file is set in the config file)")
	batchCmd.Flags().StringVar(&batchDir, "dir", ".", "Directory to walk for candidate paths")

	rootCmd.AddCommand(mergeCmd, scenariosCmd, batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadRunConfig() (Config, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return Config{}, err
	}
	var overrides Config
	if auditDBFlag != "" {
		overrides.AuditDB = auditDBFlag
	}
	return applyFlagOverrides(cfg, overrides)
}

func openAudit(cfg Config) (*auditstore.Store, error) {
	if cfg.AuditDB == "" {
		return nil, nil
	}
	if dir := filepath.Dir(cfg.AuditDB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating audit db directory: %w", err)
		}
	}
	return auditstore.Open(cfg.AuditDB)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	for name := range scenarios {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	audit, err := openAudit(cfg)
	if err != nil {
		return err
	}
	if audit != nil {
		defer audit.Close()
	}

	if gitRepo != "" {
		return runGitMerge(cmd, cfg, audit)
	}
	return runScenarioMerge(cmd, cfg, audit)
}

func runScenarioMerge(cmd *cobra.Command, cfg Config, audit *auditstore.Store) error {
	if mergeScenario == "" {
		return fmt.Errorf("--scenario is required unless --from-git is given")
	}
	build, ok := scenarios[mergeScenario]
	if !ok {
		return fmt.Errorf("unknown scenario %q (see 'pcsmerge scenarios')", mergeScenario)
	}

	in := build()
	root, hasConflicts, err := merge.NewInterpreter(in).Interpret()
	if err != nil {
		return fmt.Errorf("interpreting scenario %q: %w", mergeScenario, err)
	}

	conflicts, structuralCount, contentCount := collectConflicts(root)
	changeSetHash, err := cas.HashOf(in.ChangeSet.Triples)
	if err != nil {
		return fmt.Errorf("hashing change set: %w", err)
	}
	resultHash, err := cas.HashTree(root, conflicts)
	if err != nil {
		return fmt.Errorf("hashing merged tree: %w", err)
	}

	if audit != nil {
		if _, err := audit.RecordRun(auditstore.RunOutcome{
			ChangeSetHash:   changeSetHash,
			ResultHash:      resultHash,
			HasConflicts:    hasConflicts,
			StructuralCount: structuralCount,
			ContentCount:    contentCount,
			SourcePath:      mergeScenario,
		}); err != nil {
			return fmt.Errorf("recording audit entry: %w", err)
		}
	}

	return printReport(cmd, outcomeReport{
		Scenario:        mergeScenario,
		HasConflicts:    hasConflicts,
		StructuralCount: structuralCount,
		ContentCount:    contentCount,
		ChangeSetHash:   string(changeSetHash),
		ResultHash:      string(resultHash),
	})
}

// runGitMerge demonstrates the non-tree path: with nothing but three git
// blobs and no parser, the best this core can offer is the same line-based
// three-way merge used internally for comment bodies.
func runGitMerge(cmd *cobra.Command, cfg Config, audit *auditstore.Store) error {
	if gitBase == "" || gitLeft == "" || gitRight == "" || gitPath == "" {
		return fmt.Errorf("--from-git requires --base, --left, --right, and --path")
	}
	three, err := gitsource.LoadThreeWay(gitRepo, gitBase, gitLeft, gitRight, gitPath)
	if err != nil {
		return fmt.Errorf("loading three-way blobs: %w", err)
	}
	merged, hasConflict := contentmerge.MergeText(string(three.Base), string(three.Left), string(three.Right))

	resultHash, err := cas.HashOf(merged)
	if err != nil {
		return fmt.Errorf("hashing merged text: %w", err)
	}
	changeSetHash, err := cas.HashOf(three)
	if err != nil {
		return fmt.Errorf("hashing source blobs: %w", err)
	}

	contentCount := 0
	if hasConflict {
		contentCount = 1
	}
	if audit != nil {
		if _, err := audit.RecordRun(auditstore.RunOutcome{
			ChangeSetHash: changeSetHash,
			ResultHash:    resultHash,
			HasConflicts:  hasConflict,
			ContentCount:  contentCount,
			SourcePath:    gitPath,
		}); err != nil {
			return fmt.Errorf("recording audit entry: %w", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), merged)
	return printReport(cmd, outcomeReport{
		Scenario:      gitPath,
		HasConflicts:  hasConflict,
		ContentCount:  contentCount,
		ChangeSetHash: string(changeSetHash),
		ResultHash:    string(resultHash),
	})
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	rulesPath := batchRules
	if rulesPath == "" {
		rulesPath = cfg.RulesFile
	}
	if rulesPath == "" {
		return fmt.Errorf("--rules is required (or set rules_file in the config file)")
	}
	selector, err := batchselect.LoadRules(rulesPath)
	if err != nil {
		return err
	}

	var paths []string
	if err := filepath.WalkDir(batchDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(batchDir, path)
			if err != nil {
				rel = path
			}
			paths = append(paths, rel)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walking %s: %w", batchDir, err)
	}

	grouped := selector.Group(paths)
	if len(grouped) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no paths under %s matched any scenario rule\n", batchDir)
		return nil
	}
	for _, path := range selector.Unmatched(paths) {
		fmt.Fprintf(cmd.ErrOrStderr(), "batch: %s matched no scenario rule, skipping\n", path)
	}

	audit, err := openAudit(cfg)
	if err != nil {
		return err
	}
	if audit != nil {
		defer audit.Close()
	}

	reports := make([]outcomeReport, 0, len(grouped))
	for name := range grouped {
		build, ok := scenarios[name]
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "batch: rule %q names an unknown scenario, skipping\n", name)
			continue
		}
		in := build()
		root, hasConflicts, err := merge.NewInterpreter(in).Interpret()
		if err != nil {
			return fmt.Errorf("interpreting scenario %q: %w", name, err)
		}
		conflicts, structuralCount, contentCount := collectConflicts(root)
		changeSetHash, err := cas.HashOf(in.ChangeSet.Triples)
		if err != nil {
			return fmt.Errorf("hashing change set for %q: %w", name, err)
		}
		resultHash, err := cas.HashTree(root, conflicts)
		if err != nil {
			return fmt.Errorf("hashing merged tree for %q: %w", name, err)
		}
		if audit != nil {
			if _, err := audit.RecordRun(auditstore.RunOutcome{
				ChangeSetHash:   changeSetHash,
				ResultHash:      resultHash,
				HasConflicts:    hasConflicts,
				StructuralCount: structuralCount,
				ContentCount:    contentCount,
				SourcePath:      name,
			}); err != nil {
				return fmt.Errorf("recording audit entry for %q: %w", name, err)
			}
		}
		reports = append(reports, outcomeReport{
			Scenario:        name,
			HasConflicts:    hasConflicts,
			StructuralCount: structuralCount,
			ContentCount:    contentCount,
			ChangeSetHash:   string(changeSetHash),
			ResultHash:      string(resultHash),
		})
	}

	return printReport(cmd, reports)
}

func printReport(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
