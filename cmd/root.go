package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ngpepin/finder/pkg/config"
	"github.com/ngpepin/finder/pkg/report"
	"github.com/ngpepin/finder/pkg/search"
)

// rootLogger is installed by Execute before the command runs.
var rootLogger *zap.Logger

var searchOpts struct {
	content    bool
	fuzzy      bool
	regex      bool
	dirs       bool
	output     string
	noColor    bool
	progress   bool
	workers    int
	configPath string
}

// RootCmd is the base command: finder itself performs the search.
var RootCmd = &cobra.Command{
	Use:   "finder [directory] [pattern]",
	Short: "finder recursively searches for files by name, similarity, or content",
	Long: `finder walks a directory tree and reports entries whose names match a
wildcard pattern (* and ?), an approximate name within a small edit
distance (--fuzzy), or a regular expression (--regex). With --content it
additionally scans the lines of text files for the same pattern.

Arguments may appear in any order: a token naming an existing directory
selects the start directory, the first other token is the pattern. Both
are optional and default to the current directory and "*" (".*" under
--regex).

Matches go to stdout, one per line; notices about excluded or unreadable
items and the closing summary go to stderr. System trees such as /proc
and /mnt are skipped unless the search is rooted inside them.`,
	Example: `  finder /var/log "*.log"
  finder . readme --fuzzy
  finder ~/projects "TODO*" --content
  finder / "core?.dump" --output json`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runSearch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute wires the shared logger into the command tree and runs it.
func Execute(logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.Execute()
}

func init() {
	flags := RootCmd.Flags()
	flags.BoolVarP(&searchOpts.content, "content", "c", false, "also scan the content of text files for the pattern")
	flags.BoolVarP(&searchOpts.fuzzy, "fuzzy", "f", false, "match names by edit distance instead of the exact pattern")
	flags.BoolVar(&searchOpts.regex, "regex", false, "treat the pattern as a regular expression instead of a wildcard")
	flags.BoolVarP(&searchOpts.dirs, "dirs", "d", false, "match directory names as well as file names")
	flags.StringVarP(&searchOpts.output, "output", "o", report.FormatText, "output format: text or json")
	flags.BoolVar(&searchOpts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&searchOpts.progress, "progress", false, "show a progress spinner during interactive searches")
	flags.IntVar(&searchOpts.workers, "workers", 1, "number of directories processed in parallel")
	flags.StringVar(&searchOpts.configPath, "config", "", "config file (default is config.yaml in the per-user config dir)")
	// Registered so cobra parses and documents it; main sniffs the raw
	// arguments for verbosity before the logger exists.
	flags.BoolP("verbose", "v", false, "enable debug logging")
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := rootLogger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfgPath := searchOpts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// Flags beat the config file; the config file beats built-in defaults.
	flags := cmd.Flags()
	if !flags.Changed("output") {
		searchOpts.output = cfg.Output
	}
	if !flags.Changed("workers") {
		searchOpts.workers = cfg.Workers
	}
	if !flags.Changed("no-color") && cfg.NoColor {
		searchOpts.noColor = true
	}
	if !flags.Changed("progress") && cfg.Progress {
		searchOpts.progress = true
	}

	if !report.ValidFormat(searchOpts.output) {
		return fmt.Errorf("unknown output format %q", searchOpts.output)
	}
	if searchOpts.fuzzy && searchOpts.regex {
		return errors.New("--fuzzy and --regex are mutually exclusive")
	}

	// The match-everything default has to compile under the active syntax.
	defaultPattern := "*"
	if searchOpts.regex {
		defaultPattern = ".*"
	}
	dir, pattern := classifyArgs(args, defaultPattern, logger)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("start directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("start directory %s is not a directory", dir)
	}

	syntax := search.SyntaxWildcard
	if searchOpts.regex {
		syntax = search.SyntaxRegex
	}
	walker, err := search.NewWalker(search.Spec{
		Root:              dir,
		Pattern:           pattern,
		Syntax:            syntax,
		Fuzzy:             searchOpts.fuzzy,
		FuzzyThreshold:    cfg.FuzzyThreshold,
		SearchContent:     searchOpts.content,
		ContentExtensions: cfg.ContentExtensions,
		MatchDirs:         searchOpts.dirs,
		Workers:           searchOpts.workers,
	}, search.DefaultPolicy(), logger)
	if err != nil {
		return err
	}

	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	stderrTTY := term.IsTerminal(int(os.Stderr.Fd()))
	if searchOpts.output == report.FormatJSON || searchOpts.noColor || !stdoutTTY {
		color.NoColor = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := io.Writer(os.Stdout)
	errOut := io.Writer(os.Stderr)
	var prog *searchProgress
	// The spinner only makes sense when a person is watching both streams;
	// while it is live, everything renders through it so lines appear
	// above the bar.
	if searchOpts.progress && searchOpts.output == report.FormatText && stdoutTTY && stderrTTY {
		prog = startProgress(ctx, walker.Stats())
		out = prog
		errOut = prog
	}
	printer := report.New(out, errOut, searchOpts.output)

	logger.Debug("starting search",
		zap.String("dir", walker.Spec().Root),
		zap.String("pattern", pattern),
		zap.Bool("fuzzy", searchOpts.fuzzy),
		zap.Bool("regex", searchOpts.regex),
		zap.Bool("content", searchOpts.content),
		zap.Int("workers", walker.Spec().Workers),
	)

	start := time.Now()
	walkErr := walker.Walk(ctx, printer.Event)
	elapsed := time.Since(start)
	if prog != nil {
		prog.Stop()
	}
	if walkErr != nil {
		// The walk only fails on cancellation; per-item trouble is
		// reported inline and never reaches here. main prints the
		// interrupt notice once the command has unwound.
		return walkErr
	}

	printer.Summary(walker.Stats(), elapsed)
	logger.Debug("search complete",
		zap.Int64("matches", walker.Stats().Matches.Load()),
		zap.Duration("elapsed", elapsed))
	return printer.Err()
}

// classifyArgs assigns the positional tokens: any token naming an existing
// directory selects the start directory (the last such token wins) and the
// first token that is not a directory becomes the pattern. Order does not
// matter. Defaults are the current directory and the caller's
// match-everything pattern.
func classifyArgs(args []string, defaultPattern string, logger *zap.Logger) (dir, pattern string) {
	dir = "."
	pattern = defaultPattern
	haveDir := false
	havePattern := false
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			if haveDir {
				logger.Warn("multiple directory arguments, using the last one",
					zap.String("ignored", dir), zap.String("using", arg))
			}
			dir = arg
			haveDir = true
			continue
		}
		if havePattern {
			logger.Warn("ignoring extra argument", zap.String("argument", arg))
			continue
		}
		pattern = arg
		havePattern = true
	}
	return dir, pattern
}
