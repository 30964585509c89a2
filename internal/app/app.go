package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/config"
	"github.com/five82/plusultra/internal/library"
	"github.com/five82/plusultra/internal/logging"
	"github.com/five82/plusultra/internal/logtail"
	"github.com/five82/plusultra/internal/prefs"
	"github.com/five82/plusultra/internal/session"
	"github.com/five82/plusultra/internal/state"
	"github.com/five82/plusultra/internal/ui"
)

// Options configure the PLUS ULTRA client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/plusultra/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the client TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closer, err := logging.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warn().Err(err).Msg("load prefs")
	}

	client, err := api.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	holder := session.NewHolder(cfg.SessionPath, client)
	if err := holder.Load(); err != nil {
		log.Warn().Err(err).Msg("restore session")
	}

	store := state.NewStore(library.Default())

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	log.Info().
		Str("api", cfg.APIURL).
		Dur("poll", interval).
		Bool("session", holder.LoggedIn()).
		Msg("starting")

	StartPoller(ctx, store, client, holder, interval, cfg.RequestTimeout)

	return ui.Run(ui.Options{
		Context:        ctx,
		Client:         client,
		Store:          store,
		Session:        holder,
		SearchDebounce: cfg.SearchDebounce,
		RequestTimeout: cfg.RequestTimeout,
		ThemeName:      userPrefs.Theme,
		PrefsPath:      opts.PrefsPath,
	})
}

// TailLog prints the last n lines of the configured log file to w, keeping
// events at or above level. An empty level keeps everything.
func TailLog(w io.Writer, configPath string, n int, level string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	lines, err := logtail.Read(cfg.LogPath, n)
	if err != nil {
		return err
	}
	if strings.TrimSpace(level) != "" {
		lines = logtail.FilterLevel(lines, logging.ParseLevel(level))
	}
	return logtail.Render(w, lines, colorEnabled(w))
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
