package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/config"
	"github.com/stockledger/stockledger/internal/gitops"
	"github.com/stockledger/stockledger/internal/importer"
	"github.com/stockledger/stockledger/internal/store"
)

func newInitCommand() *cobra.Command {
	var name, currency string
	var seed, noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new stockledger project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			hash, err := runInit(absDir, initOptions{name: name, currency: currency, seed: seed, git: !noGit})
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized stockledger project at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized stockledger project at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "PKR", "ISO 4217 display currency")
	cmd.Flags().BoolVar(&seed, "seed", false, "load the sample accounts, inventory and transactions")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

type initOptions struct {
	name     string
	currency string
	seed     bool
	git      bool
}

func runInit(dir string, opts initOptions) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(opts.name)
	cfg.Business.Currency = opts.currency
	cfg.Git.AutoCommit = opts.git
	dataDir := filepath.Join(dir, cfg.DataDir)

	// Create directory structure.
	dirs := []string{
		dataDir,
		"logs",
		importer.Dir(dataDir),
		importer.ProcessedDir(dataDir),
	}
	for _, d := range dirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(dir, d)
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	s := store.New()
	if opts.seed {
		s = store.Seeded(time.Now())
	}
	if err := s.Save(dataDir); err != nil {
		return "", fmt.Errorf("writing data files: %w", err)
	}

	gitignore := "exports/\n*.xlsx\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(importer.Dir(dataDir), ".gitkeep"), []byte{}, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}

	if err := activitylog.Append(dir, activitylog.Entry{
		Timestamp: time.Now(),
		User:      "system",
		Action:    activitylog.ActionInit,
		EntityID:  opts.name,
		Details:   fmt.Sprintf("seed=%t", opts.seed),
	}); err != nil {
		return "", err
	}

	if !opts.git {
		return "", nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return "", fmt.Errorf("git init: %w", err)
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: Initialize "+opts.name, author)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
