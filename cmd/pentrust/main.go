// Package main provides the CLI entrypoint for pentrust.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pentrust/internal/analyzer"
	"github.com/verte-zerg/pentrust/internal/config"
	"github.com/verte-zerg/pentrust/internal/dashboard"
	"github.com/verte-zerg/pentrust/internal/input"
	"github.com/verte-zerg/pentrust/internal/logging"
	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/report"
	"github.com/verte-zerg/pentrust/internal/scoring"
	"github.com/verte-zerg/pentrust/internal/server"
	"github.com/verte-zerg/pentrust/internal/session"
	"github.com/verte-zerg/pentrust/internal/stats"
	"github.com/verte-zerg/pentrust/internal/store"
)

const (
	defaultAddr         = "127.0.0.1:8080"
	defaultRunBurst     = 5
	defaultHistoryLimit = 20
)

var (
	analysisMode     string
	analysisSeed     int64
	analysisIssueCap int
	logLevel         string
	storePath        string

	dashboardFile string

	analyzeFile   string
	analyzeFocus  string
	analyzeFormat string
	analyzeSave   bool

	serveAddr     string
	serveRunRate  float64
	serveRunBurst int

	historyShow   string
	historyLimit  int
	historyFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pentrust",
		Short:         "Content clarity audit for healthcare pages",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&analysisMode, "mode", scoring.ModeStable, "scoring mode (stable or random)")
	pf.Int64Var(&analysisSeed, "seed", 0, "scoring seed (0 picks a time-based seed in random mode)")
	pf.IntVar(&analysisIssueCap, "issue-cap", analyzer.DefaultIssueCap, "maximum issues reported per page")
	pf.StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&storePath, "store", "", "path of the run export database")

	rootCmd.Flags().StringVar(&dashboardFile, "file", "", "prefill the input with pages from a file")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

type settings struct {
	mode      string
	seed      int64
	issueCap  int
	logLevel  string
	storePath string
	addr      string
	runRate   float64
	runBurst  int
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "mode", &analysisMode, fileCfg.Analysis.Mode)
	applyConfig(cmd, "seed", &analysisSeed, fileCfg.Analysis.Seed)
	applyConfig(cmd, "issue-cap", &analysisIssueCap, fileCfg.Analysis.IssueCap)
	applyConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyConfig(cmd, "store", &storePath, fileCfg.Store.Path)
	applyConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)
	applyConfig(cmd, "run-rate", &serveRunRate, fileCfg.Serve.RunRate)
	applyConfig(cmd, "run-burst", &serveRunBurst, fileCfg.Serve.RunBurst)

	s := settings{
		mode:      analysisMode,
		seed:      analysisSeed,
		issueCap:  analysisIssueCap,
		logLevel:  logLevel,
		storePath: storePath,
		addr:      serveAddr,
		runRate:   serveRunRate,
		runBurst:  serveRunBurst,
	}
	if s.storePath == "" {
		s.storePath = config.DefaultDBPath()
	}
	if err := validateSettings(s); err != nil {
		return settings{}, err
	}
	return s, nil
}

func validateSettings(s settings) error {
	if s.issueCap < 0 {
		return fmt.Errorf("--issue-cap must be >= 0")
	}
	if s.runRate < 0 {
		return fmt.Errorf("--run-rate must be >= 0")
	}
	if _, err := logging.ParseLevel(s.logLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func buildAnalyzer(s settings) (*analyzer.Analyzer, error) {
	src, err := scoring.New(s.mode, s.seed)
	if err != nil {
		return nil, fmt.Errorf("--mode: %w", err)
	}
	remedies, err := analyzer.DefaultRemedies()
	if err != nil {
		return nil, fmt.Errorf("failed to load remedies: %w", err)
	}
	return analyzer.New(src, remedies, analyzer.WithIssueCap(s.issueCap)), nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a, err := buildAnalyzer(s)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(config.DefaultLogDir(), s.logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	prefill := ""
	if dashboardFile != "" {
		prefill, err = input.ReadFile(dashboardFile)
		if err != nil {
			return err
		}
	}

	st, err := store.Open(s.storePath)
	if err != nil {
		logger.Warn("run export disabled", "path", s.storePath, "error", err)
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	logger.Info("dashboard started", "mode", s.mode, "issue_cap", s.issueCap)
	m := dashboard.NewModel(session.New(a, logger), dashboard.Options{
		Store:   st,
		Logger:  logger,
		Prefill: prefill,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [page...]",
		Short: "Analyze pages from arguments, --file or stdin",
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeFile, "file", "", "read pages from a file, one per line")
	cmd.Flags().StringVar(&analyzeFocus, "focus", "", "limit the report to one page")
	cmd.Flags().StringVar(&analyzeFormat, "format", string(report.FormatText), "output format (text, json, markdown, html)")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "export the run to the store")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}
	a, err := buildAnalyzer(s)
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), s.logLevel)
	if err != nil {
		return err
	}

	text, err := readAnalyzeInput(cmd, args)
	if err != nil {
		return err
	}

	sess := session.New(a, logger)
	batch, err := sess.Run(cmd.Context(), text)
	if err != nil {
		return err
	}

	focus := model.AllRecords()
	if analyzeFocus != "" {
		focus = model.FocusOn(model.PageIdentifier(analyzeFocus))
	}
	rep, err := sess.Report(focus)
	if err != nil {
		return notFound(err)
	}
	if err := report.Write(cmd.OutOrStdout(), format, rep, report.Options{}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if analyzeSave {
		if err := saveBatch(cmd.Context(), s.storePath, batch, logger); err != nil {
			return err
		}
	}
	return nil
}

func readAnalyzeInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case analyzeFile != "" && len(args) > 0:
		return "", fmt.Errorf("use either --file or page arguments, not both")
	case analyzeFile != "":
		return input.ReadFile(analyzeFile)
	case len(args) > 0:
		return strings.Join(args, "\n"), nil
	}
	return input.Read(cmd.InOrStdin())
}

func saveBatch(ctx context.Context, path string, batch model.Batch, logger *slog.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.SaveBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("run saved", "run_id", batch.RunID, "path", path)
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().Float64Var(&serveRunRate, "run-rate", 0, "analysis runs per second across sessions (0 for unlimited)")
	cmd.Flags().IntVar(&serveRunBurst, "run-burst", defaultRunBurst, "analysis runs allowed in a burst")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a, err := buildAnalyzer(s)
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), s.logLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(session.NewRegistry(a, logger), logger, server.WithRunLimit(s.runRate, s.runBurst))
	return srv.ListenAndServe(ctx, s.addr)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List exported runs or print one",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyShow, "show", "", "print the run with this ID")
	cmd.Flags().IntVar(&historyLimit, "last", defaultHistoryLimit, "number of runs to list (0 for all)")
	cmd.Flags().StringVar(&historyFormat, "format", string(report.FormatText), "output format for --show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(s.storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if historyShow != "" {
		format, err := report.ParseFormat(historyFormat)
		if err != nil {
			return err
		}
		batch, err := st.LoadRun(cmd.Context(), historyShow)
		if err != nil {
			return err
		}
		rep, err := stats.BuildReport(batch, model.AllRecords())
		if err != nil {
			return err
		}
		return report.Write(out, format, rep, report.Options{})
	}

	runs, err := st.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		if _, err := fmt.Fprintln(out, "No saved runs. Export one with: pentrust analyze --save"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", run.Pages),
			fmt.Sprintf("%.1f", run.MeanClarity),
			fmt.Sprintf("%.1f", run.MeanEmpathy),
			fmt.Sprintf("%.1f", run.MeanAccessibility),
		}
	}
	headers := []string{"Run", "Created", "Pages", "Clarity", "Empathy", "WCAG"}
	return stats.RenderRows(out, headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})
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
	if err := config.EnsureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, model.ErrUnknownSelection) {
		return fmt.Errorf("page not found: %w", err)
	}
	return err
}

// applyConfig copies a config file value into target unless the flag was set.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
