package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/mfield/skim/internal/config"
	"github.com/mfield/skim/internal/extract"
	"github.com/mfield/skim/internal/store"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:      "skim",
		Usage:     "Terminal speed reader with smart pauses, bookmarks, and PDF/EPUB/article support",
		ArgsUsage: "[file]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("SKIM_CONFIG_FILE"),
			},
			&cli.IntFlag{
				Name:    "wpm",
				Aliases: []string{"w"},
				Usage:   "Words per minute for this session",
			},
			&cli.IntFlag{
				Name:  "chunk",
				Usage: "Words shown at once (coerced to odd)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Read an article from a URL",
			},
			&cli.BoolFlag{
				Name:  "paste",
				Usage: "Read text from the system clipboard",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "Show version information",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("version") {
		fmt.Printf("skim %s (commit: %s, built: %s)\n", version, commit, date)
		return nil
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	logger, logClose, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer logClose()

	st, err := store.Open(filepath.Join(cfg.StateDir, "skim.db"), logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	settings := loadSettings(st, cfg, cmd)

	src, err := resolveSource(cmd)
	if err != nil {
		return err
	}

	m := newModel(cfg, st, logger, settings, src)
	defer m.stopWatch()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// loadSettings resolves the runtime preferences: the stored settings
// record wins, config-file defaults seed a first run, and explicit CLI
// flags override either for this session.
func loadSettings(st *store.Store, cfg *config.Config, cmd *cli.Command) store.Settings {
	var settings store.Settings
	if st.HasSettings() {
		settings = st.Settings()
	} else {
		settings = store.DefaultSettings()
		settings.WPM = cfg.Reading.WPM
		settings.ChunkWidth = cfg.Reading.ChunkWidth
		settings.TopMargin = cfg.Reading.TopMargin
		settings.BottomMargin = cfg.Reading.BottomMargin
		settings.PauseScale = cfg.Reading.PauseScale
		settings.SpacingScale = cfg.Reading.SpacingScale
	}

	if wpm := int(cmd.Int("wpm")); wpm > 0 {
		settings.WPM = wpm
	}
	if chunk := int(cmd.Int("chunk")); chunk > 0 {
		settings.ChunkWidth = chunk
	}
	settings.Normalize()
	return settings
}

// resolveSource picks the content source for this invocation: a URL, the
// clipboard, a file argument, piped stdin, or none (the open screen).
func resolveSource(cmd *cli.Command) (*sourceRef, error) {
	if u := strings.TrimSpace(cmd.String("url")); u != "" {
		return &sourceRef{kind: extract.KindURL, location: u}, nil
	}

	if cmd.Bool("paste") {
		text, err := clipboard.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("clipboard is empty")
		}
		return &sourceRef{kind: extract.KindPaste, text: text, title: "Clipboard"}, nil
	}

	if cmd.Args().Len() > 0 {
		return &sourceRef{kind: extract.KindFile, location: cmd.Args().First()}, nil
	}

	// Piped stdin reads as pasted text.
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return &sourceRef{kind: extract.KindPaste, text: string(data), title: "Stdin"}, nil
		}
	}

	return nil, nil
}

func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(filepath.Join(cfg.StateDir, "skim.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
