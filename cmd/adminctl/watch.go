package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/eshaffer321/ragadmin-go/internal/config"
	"github.com/eshaffer321/ragadmin-go/pkg/admin"
	"github.com/eshaffer321/ragadmin-go/pkg/fetch"
)

// runWatch polls the summary metrics. Each refresh runs through its own
// fetch controller, so every refresh gets the full retry budget for
// network failures before it is reported as failed.
func runWatch(ctx context.Context, a *app, args []string) error {
	fs := a.flags("watch")
	timeRange := fs.String("range", admin.RangeWeek, "day, week, month or year")
	interval := fs.Duration("interval", 30*time.Second, "time between refreshes")
	count := fs.Int("count", 0, "stop after this many refreshes (0 runs until interrupted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *interval <= 0 {
		return fmt.Errorf("watch: interval must be positive")
	}

	clock := clockwork.NewRealClock()
	ticker := clock.NewTicker(*interval)
	defer ticker.Stop()

	for refreshes := 0; ; {
		err := a.refreshSummary(ctx, clock, *timeRange)
		if errors.Is(err, context.Canceled) || errors.Is(err, fetch.ErrClosed) {
			return nil
		}
		if errors.Is(err, admin.ErrUnauthorized) {
			return err
		}

		refreshes++
		if *count > 0 && refreshes >= *count {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// refreshSummary runs one refresh and prints its outcome
func (a *app) refreshSummary(ctx context.Context, clock clockwork.Clock, timeRange string) error {
	opts := config.FetchOptions[*admin.SummaryMetrics](a.cfg, a.logger)
	opts.Clock = clock
	opts.Context = ctx
	opts.OnRetry = func(attempt int, err error) {
		fmt.Fprintf(a.stderr, "%s  retrying (%d/%d): %s\n", clock.Now().Format(time.TimeOnly), attempt, opts.RetryCount, admin.UserMessage(err))
	}

	ctrl := fetch.New(func(ctx context.Context, _ struct{}) (*admin.SummaryMetrics, error) {
		return a.client.Analytics.Summary(ctx, timeRange)
	}, opts)
	defer ctrl.Close()

	unsubscribe := ctrl.Subscribe(func(s fetch.State[*admin.SummaryMetrics]) {
		if s.Loading {
			return
		}
		a.printSummaryLine(clock.Now(), s)
	})
	defer unsubscribe()

	_, err := ctrl.Refetch(ctx, struct{}{})
	return err
}

func (a *app) printSummaryLine(now time.Time, s fetch.State[*admin.SummaryMetrics]) {
	stamp := now.Format(time.TimeOnly)
	if s.Error != "" {
		fmt.Fprintf(a.stdout, "%s  error: %s\n", stamp, s.Error)
		return
	}
	if s.Data == nil {
		return
	}
	fmt.Fprintf(a.stdout, "%s  messages=%d users=%d feedback=%d positive=%.1f%% rating=%.2f\n",
		stamp,
		s.Data.TotalMessages,
		s.Data.UniqueUsers,
		s.Data.TotalFeedback,
		s.Data.PositiveFeedbackPercentage,
		s.Data.AverageRating,
	)
}
