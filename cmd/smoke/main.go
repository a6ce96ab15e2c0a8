// Command smoke exercises the read-only admin endpoints against a live
// backend and writes a JSON report. It exits non-zero when any check fails.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eshaffer321/ragadmin-go/internal/config"
	"github.com/eshaffer321/ragadmin-go/internal/logging"
	"github.com/eshaffer321/ragadmin-go/pkg/admin"
	"github.com/eshaffer321/ragadmin-go/pkg/fetch"
)

// SmokeConfig holds configuration for a smoke run
type SmokeConfig struct {
	OutputDir     string
	Verbose       bool
	ChecksToRun   []string
	Username      string
	Password      string
	FetchSettings *config.Config
}

// CheckResult represents the result of one endpoint check
type CheckResult struct {
	Check    string        `json:"check"`
	Passed   bool          `json:"passed"`
	Items    int           `json:"items"`
	Retries  int           `json:"retries"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// SmokeReport represents the full smoke run
type SmokeReport struct {
	Timestamp   time.Time     `json:"timestamp"`
	BaseURL     string        `json:"base_url"`
	TotalChecks int           `json:"total_checks"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"success_rate"`
	Results     []CheckResult `json:"results"`
}

// checkFunc performs one read and reports how many items came back
type checkFunc func(ctx context.Context, c *admin.Client) (int, error)

var checks = map[string]checkFunc{
	"summary": func(ctx context.Context, c *admin.Client) (int, error) {
		_, err := c.Analytics.Summary(ctx, admin.RangeWeek)
		return 1, err
	},
	"user_activity": func(ctx context.Context, c *admin.Client) (int, error) {
		points, err := c.Analytics.UserActivity(ctx, admin.RangeWeek)
		return len(points), err
	},
	"monthly_messages": func(ctx context.Context, c *admin.Client) (int, error) {
		stats, err := c.Analytics.MonthlyMessages(ctx, 0, 0)
		if err != nil {
			return 0, err
		}
		return len(stats.Daily), nil
	},
	"chats": func(ctx context.Context, c *admin.Client) (int, error) {
		list, err := c.Chats.List(ctx, &admin.ChatListParams{Limit: 5})
		if err != nil {
			return 0, err
		}
		return len(list.Chats), nil
	},
	"feedback": func(ctx context.Context, c *admin.Client) (int, error) {
		list, err := c.Feedback.List(ctx, &admin.FeedbackListParams{Limit: 5})
		if err != nil {
			return 0, err
		}
		return len(list.Feedbacks), nil
	},
	"feedback_dashboard": func(ctx context.Context, c *admin.Client) (int, error) {
		_, err := c.Feedback.Dashboard(ctx, 7, false)
		return 1, err
	},
	"faq_languages": func(ctx context.Context, c *admin.Client) (int, error) {
		langs, err := c.FAQ.Languages(ctx)
		return len(langs), err
	},
	"token_settings": func(ctx context.Context, c *admin.Client) (int, error) {
		_, err := c.Settings.TokenSettings(ctx)
		return 1, err
	},
	"limited_users": func(ctx context.Context, c *admin.Client) (int, error) {
		list, err := c.Users.Limited(ctx, &admin.ListParams{Limit: 5})
		if err != nil {
			return 0, err
		}
		return len(list.Users), nil
	},
	"documents": func(ctx context.Context, c *admin.Client) (int, error) {
		list, err := c.Documents.List(ctx, &admin.ListParams{Limit: 5})
		if err != nil {
			return 0, err
		}
		return len(list.Documents), nil
	},
}

var defaultChecks = []string{
	"summary",
	"user_activity",
	"monthly_messages",
	"chats",
	"feedback",
	"feedback_dashboard",
	"faq_languages",
	"token_settings",
	"limited_users",
	"documents",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	smokeCfg := parseFlags(cfg)

	if err := os.MkdirAll(smokeCfg.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	client, err := admin.NewClient(cfg.ClientOptions(logger))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	runner := NewRunner(smokeCfg, client, os.Stdout)

	report, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Smoke run failed: %v", err)
	}

	reportPath := filepath.Join(smokeCfg.OutputDir, fmt.Sprintf("smoke_report_%d.json", time.Now().Unix()))
	if err := saveReport(report, reportPath); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	printSummary(os.Stdout, report)

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags(cfg *config.Config) *SmokeConfig {
	smokeCfg := &SmokeConfig{FetchSettings: cfg}

	flag.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Admin API base URL")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file to use")
	flag.StringVar(&smokeCfg.Username, "username", os.Getenv("ADMIN_USERNAME"), "Log in first with this username")
	flag.StringVar(&smokeCfg.Password, "password", os.Getenv("ADMIN_PASSWORD"), "Password for -username")
	flag.StringVar(&smokeCfg.OutputDir, "output", "./smoke_results", "Output directory for reports")
	flag.BoolVar(&smokeCfg.Verbose, "verbose", false, "Verbose output")

	checkList := flag.String("checks", "", "Comma-separated list of checks to run (empty for all)")

	flag.Parse()

	if *checkList != "" {
		smokeCfg.ChecksToRun = strings.Split(*checkList, ",")
	} else {
		smokeCfg.ChecksToRun = defaultChecks
	}

	return smokeCfg
}

// Runner executes smoke checks
type Runner struct {
	config *SmokeConfig
	client *admin.Client
	out    io.Writer
}

// NewRunner creates a runner
func NewRunner(cfg *SmokeConfig, client *admin.Client, out io.Writer) *Runner {
	return &Runner{config: cfg, client: client, out: out}
}

// Run logs in when credentials are configured, then runs every check
func (r *Runner) Run(ctx context.Context) (*SmokeReport, error) {
	if r.config.Username != "" {
		if _, err := r.client.Session.Login(ctx, admin.Credentials{Username: r.config.Username, Password: r.config.Password}); err != nil {
			return nil, fmt.Errorf("login failed: %s", admin.UserMessage(err))
		}
	}

	if r.client.Session.Token() == "" {
		return nil, admin.ErrNotAuthenticated
	}

	report := &SmokeReport{
		Timestamp: time.Now(),
		BaseURL:   r.client.BaseURL(),
		Results:   make([]CheckResult, 0, len(r.config.ChecksToRun)),
	}

	for _, name := range r.config.ChecksToRun {
		name = strings.TrimSpace(name)
		if r.config.Verbose {
			fmt.Fprintf(r.out, "Checking %s...\n", name)
		}

		result := r.runCheck(ctx, name)
		report.Results = append(report.Results, result)

		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	report.TotalChecks = len(report.Results)
	if report.TotalChecks > 0 {
		report.SuccessRate = float64(report.Passed) / float64(report.TotalChecks) * 100
	}

	return report, nil
}

// runCheck runs one check through a fetch controller so network failures
// get the configured retries
func (r *Runner) runCheck(ctx context.Context, name string) CheckResult {
	start := time.Now()
	result := CheckResult{Check: name}

	check, ok := checks[name]
	if !ok {
		result.Error = fmt.Sprintf("unknown check: %s", name)
		return result
	}

	opts := &fetch.Options[int]{}
	if r.config.FetchSettings != nil {
		opts = config.FetchOptions[int](r.config.FetchSettings, nil)
	}
	opts.OnRetry = func(attempt int, err error) {
		result.Retries = attempt
		if r.config.Verbose {
			fmt.Fprintf(r.out, "  retry %d: %s\n", attempt, admin.UserMessage(err))
		}
	}

	ctrl := fetch.New(func(ctx context.Context, _ struct{}) (int, error) {
		return check(ctx, r.client)
	}, opts)
	defer ctrl.Close()

	items, err := ctrl.Refetch(ctx, struct{}{})
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = admin.UserMessage(err)
		return result
	}

	result.Passed = true
	result.Items = items
	return result
}

func saveReport(report *SmokeReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummary(w io.Writer, report *SmokeReport) {
	fmt.Fprintln(w, "\n=== Smoke Report ===")
	fmt.Fprintf(w, "Backend: %s\n", report.BaseURL)
	fmt.Fprintf(w, "Checks: %d, Passed: %d, Failed: %d (%.1f%%)\n",
		report.TotalChecks, report.Passed, report.Failed, report.SuccessRate)

	for _, result := range report.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %-20s %4d items  %s", status, result.Check, result.Items, result.Duration.Round(time.Millisecond))
		if result.Error != "" {
			fmt.Fprintf(w, "  %s", result.Error)
		}
		fmt.Fprintln(w)
	}
}
