package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/mdplay/internal/config"
	"github.com/oakwood-commons/mdplay/internal/playground"
	"github.com/oakwood-commons/mdplay/internal/ui"
	"github.com/oakwood-commons/mdplay/pkg/logger"
	"github.com/oakwood-commons/mdplay/pkg/settings"
)

var (
	themeName      string
	configFile     string
	debug          bool
	noColor        bool
	logFile        string
	renderSnapshot bool
	startKeys      []string
	snapshotWidth  int
	snapshotHeight int
	viewName       string
	optionFlags    []string
	showOptions    bool
)

var (
	stdinIsPiped = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	runUI        = ui.Run
)

var (
	rootCtx  = context.Background()
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file]",
	Short: getCLIShortHelp(),
	Long:  getCLILongHelp(),
	Example: "\n  mdplay README.md\n  cat notes.md | mdplay --view html\n" +
		"  mdplay --option smart_punctuation=true --option cjk_autocorrect=false notes.md\n" +
		"  mdplay --snapshot --width 120 --height 40 --press \"<F4>\" README.md\n",
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPostRun: func(*cobra.Command, []string) { closeLog() },
	RunE:              runPlayground,
}

// setupRun builds the run settings and the logger. Log output goes to the
// log file when set, to stderr for batch commands and nowhere while the
// full-screen UI runs.
func setupRun(cmd *cobra.Command, args []string) error {
	run := settings.NewCliParams()
	run.NoColor = noColor || os.Getenv("NO_COLOR") != ""
	run.LogFile = logFile
	run.Interactive = cmd == rootCmd && !renderSnapshot
	if debug {
		run.MinLogLevel = -1
	}
	if len(args) > 0 {
		run.Input.Path = args[0]
	}
	run.Input.FromStdin = run.Input.Path == "-" || (run.Input.Path == "" && stdinIsPiped())

	out, closeFn, err := logger.OutputFor(run)
	if err != nil {
		return err
	}
	closeLog = closeFn
	lgr := logger.Setup(logger.Options{Level: run.MinLogLevel, Output: out})
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
	rootCtx = logger.WithLogger(settings.IntoContext(context.Background(), run), lgr)
	return nil
}

func runPlayground(cmd *cobra.Command, args []string) error {
	lgr := logger.FromContext(rootCtx)
	cfg, err := loadAppConfig(configFile, themeName)
	if err != nil {
		return err
	}
	text, source, err := readInput(cmd.InOrStdin(), args, playground.DefaultInput)
	if err != nil {
		return err
	}
	lgr.V(1).Info("input loaded", logger.InputKey, source, "bytes", len(text))

	uiCfg, err := buildUIConfig(cfg, *lgr)
	if err != nil {
		return err
	}
	uiCfg.Text = text
	if uiCfg.Options, err = applyOptionFlags(uiCfg.Options, optionFlags); err != nil {
		return err
	}
	if uiCfg.Mode, err = playground.ParseViewMode(viewName); err != nil {
		return err
	}
	if cmd.Flags().Changed("show-options") {
		uiCfg.ShowOptions = showOptions
	}

	if renderSnapshot {
		w, h := resolveSnapshotSize(snapshotWidth, snapshotHeight)
		out := ui.RenderSnapshot(uiCfg, ui.SnapshotConfig{Width: w, Height: h, StartKeys: startKeys})
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}

	opts, cleanup := getProgramOptions()
	defer cleanup()
	return runUI(uiCfg, startKeys, opts...)
}

// loadAppConfig loads the merged configuration and selects the theme. An
// empty theme keeps the configured default.
func loadAppConfig(path, theme string) (config.File, error) {
	cfg, err := config.Loader{Version: buildVersion()}.Load(config.ResolvePath(path))
	if err != nil {
		return cfg, err
	}
	if err := ui.InitializeThemes(cfg); err != nil {
		return cfg, err
	}
	if theme = strings.TrimSpace(theme); theme != "" {
		if err := ui.SetThemeByName(theme); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// buildUIConfig maps the configuration file onto the playground settings.
func buildUIConfig(cfg config.File, lgr logr.Logger) (ui.Config, error) {
	opts, err := cfg.ParserOptions()
	if err != nil {
		return ui.Config{}, err
	}
	run, _ := settings.FromContext(rootCtx)
	return ui.Config{
		AppName:            cfg.App.About.Name,
		Options:            opts,
		Theme:              ui.CurrentTheme(),
		NoColor:            noColor || (run != nil && run.NoColor),
		HighlightEnabled:   boolOr(cfg.UI.Highlight.Enabled, true),
		HighlightStyle:     cfg.UI.Highlight.Style,
		HighlightFormatter: cfg.UI.Highlight.Formatter,
		Indent:             intOr(cfg.UI.Viewer.Indent, 2),
		LineNumbers:        boolOr(cfg.UI.Editor.LineNumbers, true),
		Placeholder:        cfg.UI.Editor.Placeholder,
		InputPercent:       intOr(cfg.UI.Layout.InputPercent, ui.DefaultInputPercent),
		ShowOptions:        boolOr(cfg.UI.Layout.ShowOptions, false),
		About:              aboutLines(cfg.App.About),
		Context:            rootCtx,
		Logger:             lgr,
	}, nil
}

func aboutLines(a config.AboutConfig) []string {
	var lines []string
	if a.Description != "" {
		lines = append(lines, a.Description)
	}
	lines = append(lines, a.Details...)
	if a.License != "" {
		lines = append(lines, "License: "+a.License)
	}
	if a.RepositoryURL != "" {
		lines = append(lines, a.RepositoryURL)
	}
	return lines
}

// readInput returns the document to start with: the named file, stdin for
// "-" or piped input, else fallback. Windows line endings are normalized.
func readInput(stdin io.Reader, args []string, fallback string) (text, source string, err error) {
	var data []byte
	switch {
	case len(args) > 0 && args[0] != "-":
		source = args[0]
		data, err = os.ReadFile(source)
		if err != nil {
			return "", source, fmt.Errorf("read input: %w", err)
		}
	case len(args) > 0 || stdinIsPiped():
		source = "stdin"
		data, err = io.ReadAll(stdin)
		if err != nil {
			return "", source, fmt.Errorf("read stdin: %w", err)
		}
	default:
		return fallback, "default", nil
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), source, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentPreRunE = setupRun
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML config file (themes, parser defaults)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringArrayVar(&optionFlags, "option", nil, "set a parser option, e.g. --option smart_punctuation=true (repeatable; see 'mdplay options')")

	rootCmd.Flags().StringVar(&themeName, "theme", "", "theme name (default from config; see 'mdplay config themes')")
	rootCmd.Flags().StringVar(&viewName, "view", "tree", "initial view: tree, metadata, html, preview")
	rootCmd.Flags().BoolVar(&showOptions, "show-options", false, "open the parser options panel on start")
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single frame and exit; honors --width/--height")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "snapshot width in columns (default: terminal width or 80)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "snapshot height in rows (default: terminal height or 24)")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "Simulate keys on startup. Use <Key> for special keys (e.g. <F3>, <Tab>, <CR>, <Esc>, <C-y>). Literal text types normally. Example: --press \"<Esc>:\" --press \"_.children.size()<CR>\"")

	_ = rootCmd.RegisterFlagCompletionFunc("option", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return markdownFlagNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("view", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return viewNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(dumpCmd, optionsCmd, configCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
