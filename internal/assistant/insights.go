package assistant

import (
	"context"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
)

// NoInsightsMessage is shown when the period has nothing to analyze.
const NoInsightsMessage = "Sem dados no período. Cadastre transações para gerar insights."

const (
	maxInsights        = 3
	maxRecommendations = 2
)

// Insights is the short digest shown beside the chat.
type Insights struct {
	Insights        []string
	Recommendations []string
}

// Empty reports whether there is nothing to show.
func (i Insights) Empty() bool {
	return len(i.Insights) == 0 && len(i.Recommendations) == 0
}

// QuickInsights fetches the current month's digest: the top insights and
// recommendations of a quick_insights report.
func QuickInsights(ctx context.Context, a service.Assistant, userID *int) (Insights, error) {
	report, err := a.GenerateReport(ctx, model.ReportRequest{
		ReportType: model.ReportQuickInsights,
		Period:     model.PeriodCurrentMonth,
		Insights:   true,
		UserID:     userID,
	})
	if err != nil {
		return Insights{}, err
	}
	return Insights{
		Insights:        head(report.Insights, maxInsights),
		Recommendations: head(report.Recommendations, maxRecommendations),
	}, nil
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
