// Package app wires the run together: ingest once, match every trending
// term, persist the results and notify on matches.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jesica63/Googletrend-Tracker/internal/cache"
	"github.com/jesica63/Googletrend-Tracker/internal/config"
	"github.com/jesica63/Googletrend-Tracker/internal/feed"
	"github.com/jesica63/Googletrend-Tracker/internal/gemini"
	"github.com/jesica63/Googletrend-Tracker/internal/logger"
	"github.com/jesica63/Googletrend-Tracker/internal/mail"
	"github.com/jesica63/Googletrend-Tracker/internal/pipeline"
	"github.com/jesica63/Googletrend-Tracker/internal/ratelimit"
	"github.com/jesica63/Googletrend-Tracker/internal/retry"
	"github.com/jesica63/Googletrend-Tracker/internal/sheets"
	"github.com/jesica63/Googletrend-Tracker/internal/storage"
	"github.com/jesica63/Googletrend-Tracker/internal/trends"
)

// Run executes one full tracking pass.
func Run(cfg *config.Config) error {
	gem, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.PromptTemplate)
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}
	defer gem.Close()

	writer, err := sheets.NewWriter([]byte(cfg.CredentialsJSON), cfg.SheetID, cfg.DashboardSheet, cfg.HistorySheet)
	if err != nil {
		return fmt.Errorf("sheets writer: %w", err)
	}

	// Stage one: freeze the article corpus before any term is scored.
	logger.Info("fetching news feeds", "feeds", len(cfg.Feeds))
	ingester := feed.NewIngester(cfg.Feeds, cfg.Matcher.Blocklist)
	corpus := ingester.FetchAll()

	// Stage two: trending terms, in feed order.
	terms, err := trends.NewFetcher(cfg.TrendsURL).Fetch()
	if err != nil {
		return fmt.Errorf("trends feed: %w", err)
	}
	if len(terms) == 0 {
		log.Println("Trends feed returned no entries, skipping worksheet update.")
		return nil
	}

	p := pipeline.New(cfg.Matcher, gem, ratelimit.NewBudget(cfg.MaxGeminiRequests), cache.New())
	decisions := p.Process(corpus, terms)

	matched := pipeline.Matched(decisions)
	logger.Info("matching finished", "terms", len(terms), "matched", len(matched))

	// Local mirror first, so a Sheets outage still leaves an audit trail.
	runLog := storage.NewRunLog(cfg.RunLogPath, cfg.RunLogTTLHours)
	if err := runLog.Load(); err != nil {
		log.Printf("Warning: run log load failed: %v", err)
	}
	runLog.Append(decisions, time.Now())
	if err := runLog.Save(); err != nil {
		log.Printf("Warning: run log save failed: %v", err)
	}

	if err := writeSheets(cfg, writer, decisions); err != nil {
		return err
	}

	if len(matched) == 0 {
		log.Println("No matched terms this run, skipping email notification.")
		return nil
	}

	subject := fmt.Sprintf("GoogleTrend洞察：%d個熱門趨勢與讀者意圖分析 (ETtoday)", len(matched))
	body := mail.BuildBody(matched, cfg.SheetURL)
	notifier := mail.NewNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailSender, cfg.EmailPassword,
		cfg.EmailReceiver, retryConfig(cfg))
	if err := notifier.Send(subject, body); err != nil {
		// The match results are already persisted; a broken mailbox should
		// not turn the run into a failure.
		log.Printf("Error sending notification email: %v", err)
	}

	return nil
}

func writeSheets(cfg *config.Config, writer *sheets.Writer, decisions []pipeline.Decision) error {
	rows := make([][]interface{}, 0, len(decisions))
	for _, d := range decisions {
		rows = append(rows, sheets.Row(d))
	}

	updateTime := time.Now().Format("2006-01-02 15:04:05")
	title := fmt.Sprintf("%s (更新時間: %s)", cfg.DashboardSheet, updateTime)

	ctx := context.Background()
	rc := retryConfig(cfg)

	if err := retry.WithRetry(ctx, rc, func() error {
		return writer.WriteDashboard(title, rows)
	}); err != nil {
		return fmt.Errorf("dashboard write: %w", err)
	}

	if err := retry.WithRetry(ctx, rc, func() error {
		return writer.AppendHistory(rows)
	}); err != nil {
		return fmt.Errorf("history append: %w", err)
	}

	return nil
}

func retryConfig(cfg *config.Config) retry.Config {
	return retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}
}
