package main

import (
	"context"
	"log"

	"github.com/eshaffer321/ragadmin-go/internal/config"
	"github.com/eshaffer321/ragadmin-go/internal/logging"
	"github.com/eshaffer321/ragadmin-go/pkg/admin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// stdout carries the protocol, so logs go to stderr
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	client, err := admin.NewClient(cfg.ClientOptions(logger))
	if err != nil {
		log.Fatalf("failed to initialize admin client: %v", err)
	}
	defer client.Close()

	if client.Session.Token() == "" {
		log.Fatalf("no stored session in %s, run 'adminctl login' first", cfg.TokenFile)
	}

	impl := &mcp.Implementation{
		Name:    "rag-admin",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	registerTools(server, client)

	// Run server over stdio transport
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func registerTools(server *mcp.Server, client *admin.Client) {
	tools := &adminTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get headline usage metrics for a time range: total messages, unique users, feedback count, share of positive feedback and average rating.",
	}, tools.GetSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user_activity",
		Description: "Get daily active user counts for the last N days. Days without activity are reported with a count of zero.",
	}, tools.GetUserActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_feedback",
		Description: "List user feedback on assistant answers with optional sentiment, priority and user filters. Returns the rated message, sentiment, priority and admin notes.",
	}, tools.ListFeedback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_feedback_dashboard",
		Description: "Get aggregated feedback for the last N days: sentiment and priority splits, high priority count and optionally the change against the previous period.",
	}, tools.GetFeedbackDashboard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_chats",
		Description: "List chat sessions, optionally for a single user or a date range. Returns message counts, last activity and the opening message.",
	}, tools.ListChats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_faq",
		Description: "Get the FAQ for a language as a flat list of category, question and answer.",
	}, tools.GetFAQ)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_limited_users",
		Description: "List users who reached their daily token limit or were blocked by an administrator.",
	}, tools.GetLimitedUsers)
}
