package tui

import (
	"log/slog"
	"time"

	"github.com/Veraticus/finanmaster/internal/chart"
	"github.com/Veraticus/finanmaster/internal/render"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme           themes.Theme
	Logger          *slog.Logger
	Now             func() time.Time
	ChartKind       chart.Kind
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	ChunkDelay      time.Duration
	ChunkSize       int
	Width           int
	Height          int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:           themes.Default,
		Logger:          slog.Default(),
		Now:             time.Now,
		ChartKind:       chart.KindLine,
		RefreshInterval: 30 * time.Second,
		RequestTimeout:  30 * time.Second,
		ChunkSize:       render.DefaultChunkSize,
		ChunkDelay:      render.DefaultDelay,
		Width:           100,
		Height:          30,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithLogger sets the logger. The dashboard owns the terminal, so it should
// point at a file.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithRefreshInterval sets how often the summary is refetched.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.RefreshInterval = d
		}
	}
}

// WithChunking tunes the incremental table rendering.
func WithChunking(size int, delay time.Duration) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
		if delay >= 0 {
			c.ChunkDelay = delay
		}
	}
}

// WithChartKind sets the initial kind of the cash-flow chart.
func WithChartKind(kind chart.Kind) Option {
	return func(c *Config) {
		c.ChartKind = kind
	}
}

// WithClock replaces the clock used for goal deadlines.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}
