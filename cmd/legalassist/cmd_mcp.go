package main

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kbukum/legalassist/bootstrap"
	"github.com/kbukum/legalassist/config"
	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/retrieval"
	"github.com/kbukum/legalassist/validation"
	"github.com/kbukum/legalassist/version"
)

const (
	searchToolName = "search_articles"
	maxToolTopK    = 50
)

// articleSearcher is the retrieval surface the MCP tools need.
type articleSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error)
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve corpus search as an MCP tool over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol.
			toStderr := func(cfg *config.Settings) {
				if cfg.Logging.Output == logger.OutputStdout {
					cfg.Logging.Output = logger.OutputStderr
				}
			}
			return withApp(cmd, toStderr, func(ctx context.Context, app *bootstrap.App) error {
				ix, err := app.Index(ctx)
				if err != nil {
					return err
				}
				s := newMCPServer(ix)
				app.Logger.Info("MCP server listening on stdio", logger.Fields("tool", searchToolName))
				return mcpserver.ServeStdio(s)
			})
		},
	}
}

func newMCPServer(searcher articleSearcher) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(version.Name, version.Get().Short(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	tool := mcp.NewTool(searchToolName,
		mcp.WithDescription("Find the Moroccan statute articles most relevant to a free-text legal question."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Question or facts to match against the corpus"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Number of articles to return (1-50, default 5)"),
		),
	)
	s.AddTool(tool, searchArticlesHandler(searcher))
	return s
}

// searchArticlesHandler answers search_articles calls. Request problems are
// returned as tool errors so the client sees them; only encoding failures
// surface as protocol errors.
func searchArticlesHandler(searcher articleSearcher) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		topK := req.GetInt("top_k", retrieval.DefaultTopK)
		if verr := validation.New().Required("query", query).Range("top_k", topK, 1, maxToolTopK).Err(); verr != nil {
			return mcp.NewToolResultError(verr.Message), nil
		}
		results, err := searcher.Search(ctx, query, topK)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return mcp.NewToolResultError(appErr.Message), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := json.Marshal(results)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
