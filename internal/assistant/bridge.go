package assistant

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/config"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
)

// Apology is shown when neither endpoint produced an answer.
const Apology = "Desculpe, ocorreu um erro ao processar sua pergunta. Tente novamente."

// Source tells which tier produced an answer.
type Source string

// Answer sources, in fallback order.
const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	SourceApology  Source = "apology"
)

// Answer is what the user sees for one question.
type Answer struct {
	Response   string
	Source     Source
	Directives model.Directives
}

// Config tunes the bridge.
type Config struct {
	PrimaryPath     string
	FallbackPath    string
	GenericPatterns []*regexp.Regexp
	Timeout         time.Duration
}

// ConfigFrom compiles the assistant settings into a bridge config.
func ConfigFrom(s config.AssistantSettings) (Config, error) {
	patterns, err := common.CompilePatterns(s.GenericPatterns)
	if err != nil {
		return Config{}, err
	}
	return Config{
		PrimaryPath:     s.PrimaryPath,
		FallbackPath:    s.FallbackPath,
		GenericPatterns: patterns,
		Timeout:         s.Timeout,
	}, nil
}

// Bridge answers free-text questions with two-tier fallback.
type Bridge struct {
	assistant service.Assistant
	logger    *slog.Logger
	cfg       Config
}

// NewBridge creates a bridge over assistant.
func NewBridge(assistant service.Assistant, cfg Config, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PrimaryPath == "" {
		cfg.PrimaryPath = "/ai/analyze"
	}
	if cfg.FallbackPath == "" {
		cfg.FallbackPath = "/ai/chat"
	}
	return &Bridge{assistant: assistant, cfg: cfg, logger: logger}
}

// Ask answers query. It never fails: errors are logged and the answer
// degrades to the fallback endpoint, then to Apology.
func (b *Bridge) Ask(ctx context.Context, query string, userID *int) Answer {
	reply, err := b.call(ctx, b.cfg.PrimaryPath, service.AssistantRequest{Query: query, UserID: userID})
	switch {
	case err != nil:
		b.logger.Warn("primary assistant failed", "path", b.cfg.PrimaryPath, "error", err)
	case b.generic(reply.Response):
		b.logger.Debug("primary assistant reply is generic", "response", reply.Response)
	default:
		return Answer{Response: reply.Response, Directives: reply.Actions, Source: SourcePrimary}
	}

	reply, err = b.call(ctx, b.cfg.FallbackPath, service.AssistantRequest{Query: strings.ToLower(query), UserID: userID})
	if err != nil {
		b.logger.Warn("fallback assistant failed", "path", b.cfg.FallbackPath, "error", err)
		return Answer{Response: Apology, Source: SourceApology}
	}
	return Answer{Response: reply.Response, Directives: reply.Actions, Source: SourceFallback}
}

func (b *Bridge) call(ctx context.Context, path string, req service.AssistantRequest) (*service.AssistantReply, error) {
	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}
	return b.assistant.Analyze(ctx, path, req)
}

func (b *Bridge) generic(response string) bool {
	return common.MatchAny(b.cfg.GenericPatterns, strings.TrimSpace(response))
}
