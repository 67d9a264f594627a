package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/config"
	"github.com/stockledger/stockledger/internal/gitops"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/store"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	username   string
	password   string
}

// app is everything a command needs once the user has logged in.
type app struct {
	root  string // directory holding stockledger.yaml
	cfg   *config.Config
	log   *logrus.Logger
	store *store.Store
	user  model.User
	out   io.Writer
	now   func() time.Time
}

// openApp loads the project, authenticates the user and checks access to view.
func openApp(cmd *cobra.Command, g *globalFlags, view auth.View) (*app, error) {
	cfgPath, err := filepath.Abs(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := config.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	user, err := auth.NewService(cfg.Users).Authenticate(g.username, g.password)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(user, view); err != nil {
		return nil, err
	}

	a := &app{
		root: filepath.Dir(cfgPath),
		cfg:  cfg,
		log:  log,
		user: user,
		out:  cmd.OutOrStdout(),
		now:  time.Now,
	}
	a.store, err = store.Load(a.dataDir())
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"user": user.Username, "data_dir": a.dataDir()}).Debug("store loaded")
	return a, nil
}

// requireAdmin rejects location users from admin-only operations inside a
// view they can otherwise see.
func (a *app) requireAdmin(what string) error {
	if !a.user.IsAdmin() {
		return fmt.Errorf("%s cannot use %s: %w", a.user.Username, what, auth.ErrForbidden)
	}
	return nil
}

func (a *app) dataDir() string {
	if filepath.IsAbs(a.cfg.DataDir) {
		return a.cfg.DataDir
	}
	return filepath.Join(a.root, a.cfg.DataDir)
}

func (a *app) currency() string {
	return a.cfg.Business.Currency
}

func (a *app) author() gitops.Author {
	return gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}
}

// persist saves the store, records the change in the activity log and, when
// enabled, commits the project directory.
func (a *app) persist(action, entityID, details string) error {
	if err := a.store.Save(a.dataDir()); err != nil {
		return err
	}

	entry := activitylog.Entry{
		Timestamp: a.now(),
		User:      a.user.Username,
		Action:    action,
		EntityID:  entityID,
		Details:   details,
	}
	if err := activitylog.Append(a.root, entry); err != nil {
		a.log.WithError(err).Warn("activity log not written")
	}

	if !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.root) {
		return nil
	}
	msg := fmt.Sprintf("%s: %s", action, entityID)
	hash, err := gitops.CommitAll(a.root, msg, a.author())
	if err != nil {
		a.log.WithError(err).Warn("git commit failed")
		return nil
	}
	if hash != "" {
		a.log.WithFields(logrus.Fields{"commit": hash, "action": action}).Debug("committed")
	}
	return nil
}

// render pretty-prints markdown, falling back to plain text styling when the
// output is not a terminal.
func (a *app) render(md string) error {
	return renderMarkdown(a.out, md)
}

func renderMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func defaultConfigPath() string {
	if p := os.Getenv("STOCKLEDGER_CONFIG"); p != "" {
		return p
	}
	return config.FileName
}
