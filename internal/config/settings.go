package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/spf13/viper"
)

// DefaultGenericPatterns match assistant replies that carry no real answer.
// They trigger the fallback endpoint.
var DefaultGenericPatterns = []string{
	`(?i)^posso ajudar você com análises`,
	`(?i)resposta não disponível`,
	`^\s*$`,
}

// Settings is the resolved client configuration.
type Settings struct {
	Session   SessionSettings
	TUI       TUISettings
	Server    ServerSettings
	API       APISettings
	Assistant AssistantSettings
	Dashboard DashboardSettings
}

// APISettings configures the backend REST client.
type APISettings struct {
	BaseURL string
	Timeout time.Duration
}

// AssistantSettings configures the assistant service client.
type AssistantSettings struct {
	BaseURL         string
	PrimaryPath     string
	FallbackPath    string
	GenericPatterns []string
	Timeout         time.Duration
}

// DashboardSettings tunes refresh and rendering.
type DashboardSettings struct {
	RefreshInterval time.Duration
	ChunkDelay      time.Duration
	ChunkSize       int
}

// SessionSettings locates the persisted cookie jar.
type SessionSettings struct {
	File string
}

// TUISettings configures the interactive dashboard.
type TUISettings struct {
	Theme   string
	LogFile string
}

// ServerSettings configures the local development backend.
type ServerSettings struct {
	Addr     string
	Database string
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5001")
	v.SetDefault("api.timeout", 15*time.Second)

	v.SetDefault("assistant.base_url", "http://localhost:8000")
	v.SetDefault("assistant.primary_path", "/ai/analyze")
	v.SetDefault("assistant.fallback_path", "/ai/chat")
	v.SetDefault("assistant.timeout", 20*time.Second)
	v.SetDefault("assistant.generic_patterns", DefaultGenericPatterns)

	v.SetDefault("dashboard.refresh_interval", 30*time.Second)
	v.SetDefault("dashboard.chunk_size", 50)
	v.SetDefault("dashboard.chunk_delay", 16*time.Millisecond)

	v.SetDefault("session.file", "~/.config/finan/session.json")

	v.SetDefault("tui.theme", "default")
	v.SetDefault("tui.log_file", "~/.local/share/finan/tui.log")

	v.SetDefault("server.addr", ":5001")
	v.SetDefault("server.database", "~/.local/share/finan/dev.db")

	v.SetDefault("sheets.token_file", "~/.config/finan/sheets-token.json")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates the settings from v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		API: APISettings{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Assistant: AssistantSettings{
			BaseURL:         v.GetString("assistant.base_url"),
			PrimaryPath:     v.GetString("assistant.primary_path"),
			FallbackPath:    v.GetString("assistant.fallback_path"),
			Timeout:         v.GetDuration("assistant.timeout"),
			GenericPatterns: v.GetStringSlice("assistant.generic_patterns"),
		},
		Dashboard: DashboardSettings{
			RefreshInterval: v.GetDuration("dashboard.refresh_interval"),
			ChunkSize:       v.GetInt("dashboard.chunk_size"),
			ChunkDelay:      v.GetDuration("dashboard.chunk_delay"),
		},
		Session: SessionSettings{
			File: ExpandPath(v.GetString("session.file")),
		},
		TUI: TUISettings{
			Theme:   v.GetString("tui.theme"),
			LogFile: ExpandPath(v.GetString("tui.log_file")),
		},
		Server: ServerSettings{
			Addr:     v.GetString("server.addr"),
			Database: ExpandPath(v.GetString("server.database")),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings for values the client cannot run with.
func (s *Settings) Validate() error {
	for key, raw := range map[string]string{
		"api.base_url":       s.API.BaseURL,
		"assistant.base_url": s.Assistant.BaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL, got %q", common.ErrInvalidConfig, key, raw)
		}
	}

	// A zero timeout would let a hung backend block a prompt or the chat forever.
	if s.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if s.Assistant.Timeout <= 0 {
		return fmt.Errorf("%w: assistant.timeout must be positive", common.ErrInvalidConfig)
	}
	if s.Dashboard.ChunkSize <= 0 {
		return fmt.Errorf("%w: dashboard.chunk_size must be positive", common.ErrInvalidConfig)
	}
	if s.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("%w: dashboard.refresh_interval must be positive", common.ErrInvalidConfig)
	}
	if s.Dashboard.ChunkDelay < 0 {
		return fmt.Errorf("%w: dashboard.chunk_delay cannot be negative", common.ErrInvalidConfig)
	}
	if _, err := common.CompilePatterns(s.Assistant.GenericPatterns); err != nil {
		return fmt.Errorf("%w: assistant.generic_patterns: %v", common.ErrInvalidConfig, err)
	}

	return nil
}
