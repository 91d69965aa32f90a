package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/sec-analyzer/internal/config"
	"github.com/ensigniasec/sec-analyzer/internal/console"
	"github.com/ensigniasec/sec-analyzer/internal/scenario"
	"github.com/ensigniasec/sec-analyzer/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile string
	logFile    string
	verbose    bool
	jsonOutput bool

	headless  bool
	mute      bool
	timeScale float64
	countdown int
	imageURL  string
	soundURL  string
	player    string

	rootCmd = &cobra.Command{
		Use:   "sec-analyzer",
		Short: "Security Analyzer v4.0.2: enterprise grade device forensics & threat mitigation.",
		Long:  `Runs a comprehensive security audit of this terminal. Or at least it looks like one: a scripted analysis log escalates to a purge countdown and ends with a surprise. Nothing on the machine is inspected or changed.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to keep stdout for the session output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Optional: YAML file overriding the script, timings and assets")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Optional: write logs here while the interactive UI is running")

	playCmd.Flags().BoolVar(&headless, "headless", false, "Print the session to stdout instead of starting the interactive UI")
	playCmd.Flags().BoolVar(&mute, "mute", false, "Do not beep during the countdown")
	playCmd.Flags().Float64Var(&timeScale, "time-scale", 1, "Multiply every delay by this factor (0.5 runs twice as fast)")
	playCmd.Flags().IntVar(&countdown, "countdown", 0, "Countdown start value (1-9)")
	playCmd.Flags().StringVar(&imageURL, "image-url", "", "Reveal image URL")
	playCmd.Flags().StringVar(&soundURL, "sound-url", "", "Countdown beep sound, path or URL, handed to --player")
	playCmd.Flags().StringVar(&player, "player", "", `External audio player command, e.g. "mpv --no-video" (default: terminal bell)`)

	scriptCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the timeline in JSON format instead of text")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scriptCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the security analysis",
	Long:  "Start the interactive security analysis. Press enter (or click the button) to begin; click anywhere on the final screen to start over.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatal(err)
		}
		settings, err := cfg.Settings()
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.Debugf("loaded scenario: %d steps, countdown %d, total %s", len(settings.Script), settings.CountdownStart, settings.Duration())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if headless {
			err = console.Run(ctx, os.Stdout, console.Options{
				Settings: settings,
				Beeper:   cfg.Beeper(os.Stderr),
				ImageURL: cfg.ImageURL,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logrus.Fatal(err)
			}
			return
		}

		logOut, closeLog, err := openLogFile(logFile)
		if err != nil {
			logrus.Fatalf("Unable to open log file: %v", err)
		}
		defer closeLog()

		err = tui.Run(ctx, tui.Options{
			Settings:  settings,
			Beeper:    cfg.Beeper(os.Stderr),
			ImageURL:  cfg.ImageURL,
			LogOutput: logOut,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logrus.Fatalf("TUI mode failed: %v", err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the analysis timeline without running it",
	Long:  "Simulate a full session on a virtual clock and print every log line, state change and beep with its offset from the start.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			logrus.Fatal(err)
		}
		settings, err := cfg.Settings()
		if err != nil {
			logrus.Fatal(err)
		}
		if err := console.PrintTimeline(os.Stdout, scenario.Timeline(settings), jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

// loadConfig reads --config and applies the play flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("mute") {
		cfg.Mute = mute
	}
	if flags.Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if flags.Changed("countdown") {
		cfg.Countdown = countdown
	}
	if flags.Changed("image-url") {
		cfg.ImageURL = imageURL
	}
	if flags.Changed("sound-url") {
		cfg.SoundURL = soundURL
	}
	if flags.Changed("player") {
		cfg.Player = player
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openLogFile returns the writer logrus uses while the TUI is active.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func main() {
	Execute()
}
