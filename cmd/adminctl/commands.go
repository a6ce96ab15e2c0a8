package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eshaffer321/ragadmin-go/pkg/admin"
)

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := a.flags("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", os.Getenv("ADMIN_PASSWORD"), "password (defaults to $ADMIN_PASSWORD, else read from stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" && a.stdin != nil {
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	if _, err := a.client.Session.Login(ctx, admin.Credentials{Username: *username, Password: *password}); err != nil {
		if msg := a.client.Session.State().Error; msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}

	a.client.Session.Wait()
	state := a.client.Session.State()

	name := *username
	if state.User != nil && state.User.Username != "" {
		name = state.User.Username
	}
	fmt.Fprintf(a.stdout, "Logged in as %s\n", name)
	return nil
}

func runLogout(ctx context.Context, a *app, args []string) error {
	a.client.Session.Logout()
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func runWhoami(ctx context.Context, a *app, args []string) error {
	if err := a.client.Session.ValidateSession(ctx); err != nil {
		return err
	}
	return a.printJSON(a.client.Session.State().User)
}

func runCheck(ctx context.Context, a *app, args []string) error {
	if !a.client.Ping(ctx) {
		return fmt.Errorf("%s", admin.NetworkErrorMessage)
	}
	fmt.Fprintf(a.stdout, "Backend available at %s\n", a.client.BaseURL())
	return nil
}

func runStats(ctx context.Context, a *app, args []string) error {
	fs := a.flags("stats")
	timeRange := fs.String("range", admin.RangeWeek, "day, week, month or year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summary, err := a.client.Analytics.Summary(ctx, *timeRange)
	if err != nil {
		return err
	}
	return a.printJSON(summary)
}

func runActivity(ctx context.Context, a *app, args []string) error {
	fs := a.flags("activity")
	timeRange := fs.String("range", admin.RangeWeek, "day, week, month or year")
	days := fs.Int("days", 7, "days to show, ending today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	points, err := a.client.Analytics.UserActivity(ctx, *timeRange)
	if err != nil {
		return err
	}

	filled, err := admin.LastDays(*days, admin.NewDate(time.Now()))(points)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tACTIVE USERS")
	for _, p := range filled {
		fmt.Fprintf(tw, "%s\t%d\n", p.Date, p.Count)
	}
	return tw.Flush()
}

func runChats(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand(args, "list", "show", "delete", "export")
	if err != nil {
		return err
	}

	fs := a.flags("chats " + sub)
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	user := fs.String("user", "", "filter by user ID")
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	format := fs.String("format", admin.FormatCSV, "export format: csv or json")
	out := fs.String("o", "", "export destination (defaults to stdout)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch sub {
	case "list":
		params := &admin.ChatListParams{Page: *page, Limit: *limit, UserID: *user, DateFrom: *from, DateTo: *to}
		var list *admin.ChatList
		if *user != "" {
			list, err = a.client.Chats.UserHistory(ctx, *user, params)
		} else {
			list, err = a.client.Chats.List(ctx, params)
		}
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSER\tMESSAGES\tLAST ACTIVE")
		for _, c := range list.Chats {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, c.UserID, len(c.Messages), c.LastActive.Format(time.RFC3339))
		}
		fmt.Fprintf(tw, "\npage %d of %d (%d chats)\n", list.Page, list.TotalPages, list.Total)
		return tw.Flush()

	case "show":
		if err := requireArgs(fs, 1, "chat ID"); err != nil {
			return err
		}
		chat, err := a.client.Chats.Get(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return a.printJSON(chat)

	case "delete":
		if err := requireArgs(fs, 1, "chat ID"); err != nil {
			return err
		}
		if err := a.client.Chats.Delete(ctx, fs.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Deleted chat %s\n", fs.Arg(0))
		return nil

	default:
		return exportTo(a, *out, func(w io.Writer) (int64, error) {
			return a.client.Chats.Export(ctx, &admin.ChatExportParams{Format: *format, UserID: *user, DateFrom: *from, DateTo: *to}, w)
		})
	}
}

func runFeedback(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand(args, "list", "show", "priority", "note", "dashboard", "export")
	if err != nil {
		return err
	}

	fs := a.flags("feedback " + sub)
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	user := fs.String("user", "", "filter by user ID")
	sentiment := fs.String("sentiment", "", "good or bad")
	priority := fs.String("priority", "", "low, medium or high")
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	days := fs.Int("days", 0, "dashboard window in days")
	compare := fs.Bool("compare", false, "compare with the previous window")
	format := fs.String("format", admin.FormatCSV, "export format: csv or json")
	out := fs.String("o", "", "export destination (defaults to stdout)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch sub {
	case "list":
		list, err := a.client.Feedback.List(ctx, &admin.FeedbackListParams{
			Page: *page, Limit: *limit, UserID: *user,
			Sentiment: *sentiment, Priority: *priority,
			DateFrom: *from, DateTo: *to,
		})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSENTIMENT\tPRIORITY\tUSER\tMESSAGE")
		for _, f := range list.Feedbacks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Sentiment, f.Priority, f.UserID, truncate(f.MessageContent, 60))
		}
		fmt.Fprintf(tw, "\npage %d of %d (%d entries)\n", list.Page, list.TotalPages, list.Total)
		return tw.Flush()

	case "show":
		if err := requireArgs(fs, 1, "feedback ID"); err != nil {
			return err
		}
		fb, err := a.client.Feedback.Get(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return a.printJSON(fb)

	case "priority":
		if err := requireArgs(fs, 2, "feedback ID and priority"); err != nil {
			return err
		}
		fb, err := a.client.Feedback.UpdatePriority(ctx, fs.Arg(0), fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Feedback %s priority set to %s\n", fb.ID, fb.Priority)
		return nil

	case "note":
		if err := requireArgs(fs, 2, "feedback ID and note"); err != nil {
			return err
		}
		fb, err := a.client.Feedback.AddNote(ctx, fs.Arg(0), strings.Join(fs.Args()[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Feedback %s now has %d notes\n", fb.ID, len(fb.Notes))
		return nil

	case "dashboard":
		dashboard, err := a.client.Feedback.Dashboard(ctx, *days, *compare)
		if err != nil {
			return err
		}
		dashboard.SentimentDistribution = admin.BreakdownPercentages(dashboard.SentimentDistribution)
		dashboard.PriorityDistribution = admin.BreakdownPercentages(dashboard.PriorityDistribution)
		return a.printJSON(dashboard)

	default:
		return exportTo(a, *out, func(w io.Writer) (int64, error) {
			return a.client.Feedback.Export(ctx, &admin.FeedbackExportParams{
				Format: *format, UserID: *user,
				Sentiment: *sentiment, Priority: *priority,
				DateFrom: *from, DateTo: *to,
			}, w)
		})
	}
}

func runFAQ(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand(args, "get", "languages", "add-category", "delete-category", "add-item", "delete-item")
	if err != nil {
		return err
	}

	fs := a.flags("faq " + sub)
	lang := fs.String("lang", "en", "FAQ language code")
	question := fs.String("q", "", "question text")
	answer := fs.String("a", "", "answer text")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var faq *admin.FAQContent
	switch sub {
	case "languages":
		langs, err := a.client.FAQ.Languages(ctx)
		if err != nil {
			return err
		}
		for _, l := range langs {
			fmt.Fprintf(a.stdout, "%s\t%s\n", l.Code, l.Name)
		}
		return nil

	case "get":
		faq, err = a.client.FAQ.Get(ctx, *lang)

	case "add-category":
		if err := requireArgs(fs, 1, "category name"); err != nil {
			return err
		}
		faq, err = a.client.FAQ.AddCategory(ctx, *lang, &admin.FAQCategory{Category: fs.Arg(0)})

	case "delete-category":
		if err := requireArgs(fs, 1, "category name"); err != nil {
			return err
		}
		faq, err = a.client.FAQ.DeleteCategory(ctx, *lang, fs.Arg(0))

	case "add-item":
		if err := requireArgs(fs, 1, "category name"); err != nil {
			return err
		}
		faq, err = a.client.FAQ.AddItem(ctx, *lang, fs.Arg(0), &admin.FAQItem{Question: *question, Answer: *answer})

	default:
		if err := requireArgs(fs, 2, "category name and item index"); err != nil {
			return err
		}
		index, convErr := strconv.Atoi(fs.Arg(1))
		if convErr != nil {
			return fmt.Errorf("invalid item index %q", fs.Arg(1))
		}
		faq, err = a.client.FAQ.DeleteItem(ctx, *lang, fs.Arg(0), index)
	}
	if err != nil {
		return err
	}
	return a.printJSON(faq)
}

func runTokens(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand(args, "get", "set")
	if err != nil {
		return err
	}

	var settings *admin.TokenSettings
	if sub == "get" {
		settings, err = a.client.Settings.TokenSettings(ctx)
	} else {
		if len(rest) != 1 {
			return fmt.Errorf("tokens set: expected the daily limit")
		}
		limit, convErr := strconv.Atoi(rest[0])
		if convErr != nil {
			return fmt.Errorf("invalid daily limit %q", rest[0])
		}
		settings, err = a.client.Settings.UpdateTokenSettings(ctx, &admin.TokenSettings{DailyTokenLimit: limit})
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Daily token limit: %d\n", settings.DailyTokenLimit)
	return nil
}

func runUsers(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand(args, "limited", "block", "unblock", "usage")
	if err != nil {
		return err
	}

	fs := a.flags("users " + sub)
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch sub {
	case "limited":
		list, err := a.client.Users.Limited(ctx, &admin.ListParams{Page: *page, Limit: *limit})
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "USER\tBLOCKED\tLIMITED")
		for _, u := range list.Users {
			fmt.Fprintf(tw, "%s\t%t\t%t\n", u.UserID, u.IsBlocked, u.IsLimited)
		}
		return tw.Flush()

	case "usage":
		if err := requireArgs(fs, 1, "user ID"); err != nil {
			return err
		}
		usage, err := a.client.Users.TokenUsage(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return a.printJSON(usage)

	default:
		if err := requireArgs(fs, 1, "user ID"); err != nil {
			return err
		}
		block := a.client.Users.Block
		if sub == "unblock" {
			block = a.client.Users.Unblock
		}
		user, err := block(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "User %s blocked: %t\n", user.UserID, user.IsBlocked)
		return nil
	}
}

func runDocuments(ctx context.Context, a *app, args []string) error {
	sub, rest, err := subcommand(args, "list", "upload", "delete")
	if err != nil {
		return err
	}

	fs := a.flags("documents " + sub)
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	description := fs.String("description", "", "document description")
	category := fs.String("category", "", "document category")
	lang := fs.String("lang", "", "document language")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch sub {
	case "list":
		list, err := a.client.Documents.List(ctx, &admin.ListParams{Page: *page, Limit: *limit})
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFILENAME\tCATEGORY\tUPLOADED")
		for _, d := range list.Documents {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Filename, d.Category, d.UploadedAt.Format(time.RFC3339))
		}
		return tw.Flush()

	case "upload":
		if err := requireArgs(fs, 1, "file path"); err != nil {
			return err
		}
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := a.client.Documents.Upload(ctx, filepath.Base(fs.Arg(0)), f, &admin.DocumentMetadata{
			Description: *description,
			Category:    *category,
			Language:    *lang,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Uploaded %s (%s)\n", filepath.Base(fs.Arg(0)), result.ID)
		return nil

	default:
		if err := requireArgs(fs, 1, "document ID"); err != nil {
			return err
		}
		if err := a.client.Documents.Delete(ctx, fs.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Deleted document %s\n", fs.Arg(0))
		return nil
	}
}

// exportTo streams an export to path, or stdout when path is empty
func exportTo(a *app, path string, export func(w io.Writer) (int64, error)) error {
	if path == "" {
		_, err := export(a.stdout)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	n, err := export(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stderr, "Wrote %d bytes to %s\n", n, path)
	return nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
