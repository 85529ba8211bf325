// Package mcpadapter exposes the portfolio feed as MCP tools over stdio.
package mcpadapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
	"github.com/kirillkom/portfolio-feed/internal/core/ports"
	"github.com/kirillkom/portfolio-feed/internal/core/usecase"
)

const (
	serverName    = "Portfolio Feed MCP"
	serverVersion = "0.1.0"

	maxSampleSize = 100
)

// Server hosts the MCP tool server.
type Server struct {
	mcpServer *server.MCPServer
}

// SampleProjectsInput is the sample_projects tool input.
type SampleProjectsInput struct {
	Size int `json:"size"`
}

// SampleProjectsResult is the sample_projects tool output.
type SampleProjectsResult struct {
	Projects   []domain.ProjectRecord `json:"projects"`
	TotalCount int                    `json:"total_count"`
}

// CountProjectsInput is the count_projects tool input.
type CountProjectsInput struct {
	Category string `json:"category"`
}

// CountProjectsResult is the count_projects tool output.
type CountProjectsResult struct {
	Category string `json:"category,omitempty"`
	Count    int    `json:"count"`
	Total    int    `json:"total"`
}

// Catalog is what the tools need from the application core.
type Catalog struct {
	Source      ports.AssetSource
	Categories  []domain.Category
	Classifier  *usecase.Classifier
	DisplaySize int
}

func New(catalog Catalog) *Server {
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)
	mcpServer.AddTool(sampleProjectsTool(catalog.DisplaySize), sampleProjectsHandler(catalog))
	mcpServer.AddTool(countProjectsTool(), countProjectsHandler(catalog))
	return &Server{mcpServer: mcpServer}
}

// Serve blocks serving MCP on stdio.
func (s *Server) Serve() error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func sampleProjectsTool(defaultSize int) mcp.Tool {
	if defaultSize <= 0 {
		defaultSize = usecase.DefaultDisplaySize
	}
	return mcp.NewTool(
		"sample_projects",
		mcp.WithDescription("Draws a fresh random sample of portfolio projects with titles and locations"),
		mcp.WithNumber("size",
			mcp.Description("Number of projects to draw"),
			mcp.DefaultNumber(float64(defaultSize)),
			mcp.Min(1),
			mcp.Max(maxSampleSize),
		),
	)
}

func sampleProjectsHandler(catalog Catalog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input SampleProjectsInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid sample_projects arguments", err), nil
		}
		size := input.Size
		if size == 0 {
			size = catalog.DisplaySize
		}
		if size < 0 || size > maxSampleSize {
			return mcp.NewToolResultError(fmt.Sprintf("size must be between 1 and %d", maxSampleSize)), nil
		}

		controller, err := usecase.NewFeedController(ctx, catalog.Source, catalog.Categories,
			usecase.WithDisplaySize(size),
			usecase.WithClassifier(catalog.Classifier),
		)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("load portfolio", err), nil
		}

		return mcp.NewToolResultStructuredOnly(SampleProjectsResult{
			Projects:   controller.Displayed(),
			TotalCount: controller.TotalCount(),
		}), nil
	}
}

func countProjectsTool() mcp.Tool {
	return mcp.NewTool(
		"count_projects",
		mcp.WithDescription("Counts portfolio projects, optionally within one category"),
		mcp.WithString("category",
			mcp.Description("Category name; empty counts every project"),
		),
	)
}

func countProjectsHandler(catalog Catalog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input CountProjectsInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid count_projects arguments", err), nil
		}
		category := strings.TrimSpace(input.Category)
		if category != "" {
			name, ok := findCategory(catalog.Categories, category)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("unknown category %q", category)), nil
			}
			category = name
		}

		projects, err := usecase.NewCatalogLoader(catalog.Source, catalog.Classifier, catalog.Categories).Load(ctx)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("load portfolio", err), nil
		}
		summary := domain.SummarizeProjects(projects)

		result := CountProjectsResult{Category: category, Count: summary.Total, Total: summary.Total}
		if category != "" {
			result.Count = summary.ByCategory[category]
		}
		return mcp.NewToolResultStructuredOnly(result), nil
	}
}

// findCategory matches case-insensitively, like uploads do, and returns the
// configured spelling.
func findCategory(categories []domain.Category, name string) (string, bool) {
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c.Name, true
		}
	}
	return "", false
}
