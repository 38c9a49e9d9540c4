package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/finanmaster/internal/config"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	err      error
	response string
	actions  model.Directives
}

// fakeAssistant answers per path and records the queries it saw.
type fakeAssistant struct {
	replies map[string]reply
	report  *model.Report
	queries map[string]string
	mu      sync.Mutex
}

func (f *fakeAssistant) Analyze(_ context.Context, path string, req service.AssistantRequest) (*service.AssistantReply, error) {
	f.mu.Lock()
	if f.queries == nil {
		f.queries = make(map[string]string)
	}
	f.queries[path] = req.Query
	f.mu.Unlock()

	r, ok := f.replies[path]
	if !ok {
		return nil, errors.New("no route")
	}
	if r.err != nil {
		return nil, r.err
	}
	return &service.AssistantReply{Response: r.response, Actions: r.actions}, nil
}

func (f *fakeAssistant) GenerateReport(context.Context, model.ReportRequest) (*model.Report, error) {
	if f.report == nil {
		return nil, errors.New("no report")
	}
	return f.report, nil
}

func testBridge(t *testing.T, a service.Assistant, timeout time.Duration) *Bridge {
	t.Helper()
	cfg, err := ConfigFrom(config.AssistantSettings{
		PrimaryPath:     "/ai/analyze",
		FallbackPath:    "/ai/chat",
		GenericPatterns: config.DefaultGenericPatterns,
		Timeout:         timeout,
	})
	require.NoError(t, err)
	return NewBridge(a, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBridge_Ask(t *testing.T) {
	navigate := model.Directives{model.NavigateToSection{Section: model.SectionBudget}}

	tests := []struct {
		replies      map[string]reply
		name         string
		wantResponse string
		wantSource   Source
		wantActions  int
	}{
		{
			name: "primary answers",
			replies: map[string]reply{
				"/ai/analyze": {response: "Seu saldo é R$ 100,00", actions: navigate},
				"/ai/chat":    {response: "não usado"},
			},
			wantResponse: "Seu saldo é R$ 100,00",
			wantSource:   SourcePrimary,
			wantActions:  1,
		},
		{
			name: "primary fails",
			replies: map[string]reply{
				"/ai/analyze": {err: errors.New("connection refused")},
				"/ai/chat":    {response: "Resposta do chat"},
			},
			wantResponse: "Resposta do chat",
			wantSource:   SourceFallback,
		},
		{
			name: "primary is generic",
			replies: map[string]reply{
				"/ai/analyze": {response: "Posso ajudar você com análises financeiras, metas e orçamento."},
				"/ai/chat":    {response: "Você gastou mais com Lazer", actions: navigate},
			},
			wantResponse: "Você gastou mais com Lazer",
			wantSource:   SourceFallback,
			wantActions:  1,
		},
		{
			name: "primary is empty",
			replies: map[string]reply{
				"/ai/analyze": {response: "   "},
				"/ai/chat":    {response: "ok"},
			},
			wantResponse: "ok",
			wantSource:   SourceFallback,
		},
		{
			name: "both fail",
			replies: map[string]reply{
				"/ai/analyze": {err: errors.New("boom")},
				"/ai/chat":    {err: errors.New("boom")},
			},
			wantResponse: Apology,
			wantSource:   SourceApology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAssistant{replies: tt.replies}
			answer := testBridge(t, fake, time.Second).Ask(context.Background(), "Qual meu SALDO?", nil)

			assert.Equal(t, tt.wantResponse, answer.Response)
			assert.Equal(t, tt.wantSource, answer.Source)
			assert.Len(t, answer.Directives, tt.wantActions)
			assert.Equal(t, "Qual meu SALDO?", fake.queries["/ai/analyze"])
			if tt.wantSource != SourcePrimary {
				assert.Equal(t, "qual meu saldo?", fake.queries["/ai/chat"], "fallback gets the lowercased query")
			}
		})
	}
}

func TestBridge_FallbackOnTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/analyze", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/ai/chat", func(w http.ResponseWriter, r *http.Request) {
		var req service.AssistantRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": "eco: " + req.Query,
			"actions": []map[string]any{
				{"type": "open_modal", "data": map[string]any{"modal": "goal"}},
				{"type": "launch_rockets", "data": map[string]any{}},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	answer := testBridge(t, client, 50*time.Millisecond).Ask(context.Background(), "Metas", nil)
	assert.Equal(t, SourceFallback, answer.Source)
	assert.Equal(t, "eco: metas", answer.Response)
	require.Len(t, answer.Directives, 1, "unknown directives are dropped")
	assert.Equal(t, model.OpenModal{Modal: model.ModalGoal}, answer.Directives[0])
}

func TestSession_History(t *testing.T) {
	fake := &fakeAssistant{replies: map[string]reply{
		"/ai/analyze": {err: errors.New("down")},
		"/ai/chat":    {err: errors.New("down")},
	}}
	s := NewSession(testBridge(t, fake, time.Second))

	_, err := s.Send(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, s.History())

	answer, err := s.Send(context.Background(), " Oi ", nil)
	require.NoError(t, err)
	assert.Equal(t, Apology, answer.Response)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, model.SenderUser, history[0].Sender)
	assert.Equal(t, "Oi", history[0].Text)
	assert.Equal(t, model.SenderAssistant, history[1].Sender)
	assert.Equal(t, Apology, history[1].Text, "errors never reach the history")
	assert.NotEqual(t, history[0].ID, history[1].ID)
	for _, m := range history {
		assert.False(t, strings.Contains(m.Text, "down"))
	}

	s.Clear()
	assert.Empty(t, s.History())
}

func TestQuickInsights(t *testing.T) {
	fake := &fakeAssistant{report: &model.Report{
		Insights:        []string{"a", "b", "c", "d"},
		Recommendations: []string{"x", "y", "z"},
	}}
	got, err := QuickInsights(context.Background(), fake, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got.Insights)
	assert.Equal(t, []string{"x", "y"}, got.Recommendations)
	assert.False(t, got.Empty())

	fake.report = &model.Report{}
	got, err = QuickInsights(context.Background(), fake, nil)
	require.NoError(t, err)
	assert.True(t, got.Empty())

	fake.report = nil
	_, err = QuickInsights(context.Background(), fake, nil)
	assert.Error(t, err)
}

func TestClient_GenerateReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ReportPath, r.URL.Path)
		var req model.ReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, model.ReportFinancial, req.ReportType)
		assert.Equal(t, model.PeriodLast3Months, req.Period)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"report_type":"financial","generated_at":"2024-03-01T10:00:00",
			"insights":["Gastos subiram"],"recommendations":[],
			"data":{"summary":{"total_receitas":5000,"total_despesas":3200.5,"saldo":1799.5,"num_transactions":12}}}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	report, err := client.GenerateReport(context.Background(), model.ReportRequest{
		ReportType: model.ReportFinancial,
		Period:     model.PeriodLast3Months,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gastos subiram"}, report.Insights)
	assert.Equal(t, 12, report.Data.Summary.NumTransactions)
	assert.Equal(t, "1799.5", report.Data.Summary.Saldo.String())
}
