package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shanehull/trendscan/internal/ai"
	"github.com/shanehull/trendscan/internal/config"
	"github.com/shanehull/trendscan/internal/logger"
	"github.com/shanehull/trendscan/internal/notify"
	"github.com/shanehull/trendscan/internal/report"
)

var (
	niche   = flag.String("niche", "", "(-n) Market niche to analyse (empty: general trends)")
	outDir  = flag.String("out", "", "(-o) Directory to save the text report to (default: don't save)")
	timeout = flag.Duration("timeout", 3*time.Minute, "Analysis timeout (0 disables it)")

	smtpServer = flag.String("smtp-server", "", "SMTP server address (default: SMTP_SERVER or smtp.gmail.com)")
	smtpPort   = flag.Int("smtp-port", 0, "SMTP server port (default: SMTP_PORT or 587)")
	smtpUser   = flag.String("smtp-user", "", "SMTP username (email address)")
	smtpPass   = flag.String("smtp-pass", "", "SMTP password or App Password")
	toEmail    = flag.String("to-email", "", "Recipient email address")
	fromEmail  = flag.String("from-email", "", "Sender email address (default: smtp-user)")
)

func init() {
	flag.StringVar(niche, "n", "", "(-n) Market niche to analyse (shorthand)")
	flag.StringVar(outDir, "o", "", "(-o) Directory to save the text report to (shorthand)")

	flag.Usage = func() {
		flagSet := flag.CommandLine
		fmt.Printf("Usage of %s:\n", filepath.Base(os.Args[0]))

		order := []string{
			"niche",
			"out",
			"timeout",
			"smtp-server",
			"smtp-port",
			"smtp-user",
			"smtp-pass",
			"to-email",
			"from-email",
		}

		for _, name := range order {
			f := flagSet.Lookup(name)
			if f != nil {
				fmt.Printf("  -%s\n", f.Name)
				fmt.Printf("    %s\n", f.Usage)
			}
		}
	}
}

// overrideEmail applies non-empty flags on top of the environment settings.
func overrideEmail(cfg *config.Config) {
	if *smtpServer != "" {
		cfg.SMTPServer = *smtpServer
	}
	if *smtpPort != 0 {
		cfg.SMTPPort = *smtpPort
	}
	if *smtpUser != "" {
		cfg.SMTPUser = *smtpUser
	}
	if *smtpPass != "" {
		cfg.SMTPPass = *smtpPass
	}
	if *toEmail != "" {
		cfg.ToEmail = *toEmail
	}
	if *fromEmail != "" {
		cfg.FromEmail = *fromEmail
	}
}

func main() {
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("Fatal error loading configuration: %v\n", err)
		os.Exit(1)
	}
	overrideEmail(cfg)

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	gemini := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.GeminiBaseURL,
	})
	analyzer := ai.NewAnalyzer(gemini, log)

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	fmt.Printf("Starting TrendScan (%s). Niche: %q\n", gemini.Model(), *niche)

	result, err := analyzer.Analyze(ctx, *niche)
	if err != nil {
		fmt.Printf("Analysis failed: %s\n", ai.ErrorMessage(err))
		os.Exit(1)
	}

	now := time.Now()
	text := report.RenderText(result, *niche, now)

	exportPath := ""
	if *outDir != "" {
		exportPath = filepath.Join(*outDir, report.FileName(*niche, now))
		if err := os.WriteFile(exportPath, []byte(text), 0o644); err != nil {
			fmt.Printf("Fatal error saving report: %v\n", err)
			os.Exit(1)
		}
	}

	notify.ReportResult(os.Stdout, result, text, exportPath)

	if !cfg.EmailEnabled() {
		return
	}

	msg, err := report.NewHTMLRenderer().Render(result, *niche, now)
	if err != nil {
		log.Errorw("failed to render email", "error", err)
		os.Exit(1)
	}

	sender := notify.NewEmailSender(notify.EmailConfig{
		SMTPServer: cfg.SMTPServer,
		SMTPPort:   cfg.SMTPPort,
		SMTPUser:   cfg.SMTPUser,
		SMTPPass:   cfg.SMTPPass,
		FromEmail:  cfg.Sender(),
		ToEmail:    cfg.ToEmail,
		Enabled:    true,
	}, log)
	if err := sender.Send(msg); err != nil {
		os.Exit(1)
	}
}
