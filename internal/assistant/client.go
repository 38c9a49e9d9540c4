// Package assistant bridges the dashboard to the AI assistant service.
//
// Questions go to a primary analysis endpoint and degrade to a chat
// endpoint, then to a fixed apology, so the user always gets an answer.
// Replies carry typed directives that the dashboard dispatches through a
// Handler.
package assistant

import (
	"context"
	"fmt"

	"github.com/Veraticus/finanmaster/internal/api"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
)

// ReportPath is the assistant service's report generation endpoint.
const ReportPath = "/reports/generate"

var _ service.Assistant = (*Client)(nil)

// Client is the HTTP client of the assistant service.
type Client struct {
	http *api.Client
}

// NewClient creates a client for the assistant service rooted at baseURL.
func NewClient(baseURL string, opts ...api.Option) (*Client, error) {
	c, err := api.New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// Analyze posts req to path and returns the reply.
func (c *Client) Analyze(ctx context.Context, path string, req service.AssistantRequest) (*service.AssistantReply, error) {
	var reply service.AssistantReply
	if err := c.http.Post(ctx, path, req, &reply); err != nil {
		return nil, fmt.Errorf("assistant %s: %w", path, err)
	}
	return &reply, nil
}

// GenerateReport asks the service for a report.
func (c *Client) GenerateReport(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	var report model.Report
	if err := c.http.Post(ctx, ReportPath, req, &report); err != nil {
		return nil, fmt.Errorf("generate %s report: %w", req.ReportType, err)
	}
	return &report, nil
}
