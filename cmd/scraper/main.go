package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"go-jobsearch-automation/internal/auth"
	"go-jobsearch-automation/internal/browser"
	"go-jobsearch-automation/internal/config"
	"go-jobsearch-automation/internal/database"
	"go-jobsearch-automation/internal/dedup"
	"go-jobsearch-automation/internal/generator"
	"go-jobsearch-automation/internal/pipeline"
	"go-jobsearch-automation/internal/reporter"
	"go-jobsearch-automation/internal/scraper"
	"go-jobsearch-automation/internal/search"
)

type options struct {
	maxListings int
	maxPages    int
	headless    bool
	engine      string
	proxy       string
	anonymize   bool
	anonymous   bool
	output      string
	singleURL   string
	databaseURL string
	experience  []string
	datePosted  string
	sortOrder   string
	applyFilter bool
	timeout     time.Duration
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "scraper KEYWORDS LOCATION",
		Short: "Scrape LinkedIn job postings into structured records",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.singleURL == "" && len(args) < 2 {
				return fmt.Errorf("KEYWORDS and LOCATION are required unless --url is given")
			}
			q := search.Query{Sort: search.SortOrder(opts.sortOrder)}
			if len(args) > 0 {
				q.Keywords = args[0]
			}
			if len(args) > 1 {
				q.Location = args[1]
			}
			q.ExperienceLevels = opts.experience
			q.DatePosted = opts.datePosted
			return run(cmd.Context(), opts, q)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.IntVar(&opts.maxListings, "max-listings", 25, "maximum listings to extract (0 = unlimited)")
	flags.IntVar(&opts.maxPages, "max-pages", 0, "maximum result pages to walk (0 = unlimited)")
	flags.BoolVar(&opts.headless, "headless", true, "run the browser headless")
	flags.StringVar(&opts.engine, "browser", "chromium", "browser engine: chromium, firefox or webkit")
	flags.StringVar(&opts.proxy, "proxy", "", "proxy server (host:port, http://, or socks5://)")
	flags.BoolVar(&opts.anonymize, "anonymize", true, "randomize the browser fingerprint")
	flags.BoolVar(&opts.anonymous, "anonymous", false, "skip login and scrape public pages only")
	flags.StringVar(&opts.output, "output", "", "output directory (defaults to config)")
	flags.StringVar(&opts.singleURL, "url", "", "extract a single posting URL instead of searching")
	flags.StringVar(&opts.databaseURL, "database-url", "", "postgres url for dedup and persistence")
	flags.StringSliceVar(&opts.experience, "experience", nil, "experience levels: internship, entry_level, associate, mid_senior, director, executive")
	flags.StringVar(&opts.datePosted, "date-posted", "", "date window: any_time, past_month, past_week, past_24_hours")
	flags.StringVar(&opts.sortOrder, "sort", "", "sort order: relevant or recent")
	flags.BoolVar(&opts.applyFilter, "filter-ui", false, "also drive the in-page filter dropdowns")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Minute, "overall run timeout")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(parent context.Context, opts *options, q search.Query) error {
	//load config
	cfg := config.Load()
	if opts.output == "" {
		opts.output = cfg.OutputDir
	}
	if opts.databaseURL == "" {
		opts.databaseURL = cfg.DatabaseURL
	}

	ctx, cancel := context.WithTimeout(parent, opts.timeout)
	defer cancel()

	log.Println("🚀 Starting job search automation...")

	manager, err := browser.NewManager(browser.Options{
		Engine:    browser.Engine(opts.engine),
		Headless:  opts.headless,
		Proxy:     opts.proxy,
		Anonymize: opts.anonymize,
	})
	if err != nil {
		return err
	}

	session, err := manager.Open(ctx)
	if err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	defer session.Close()
	log.Println("✅ Browser initialized successfully!")

	//restore a previous authenticated session if cookies exist
	cookieFile := filepath.Join(cfg.CookiesPath, "cookies-linkedin.json")
	if cookies, err := browser.LoadCookies(cookieFile); err == nil && len(cookies) > 0 {
		if err := session.Context.AddCookies(cookies); err != nil {
			log.Printf("⚠️ Could not restore cookies: %v. Continuing.", err)
		} else {
			log.Printf("🍪 Loaded LinkedIn cookies (%d)", len(cookies))
		}
	}

	//init telegram bot when configured
	var notify pipeline.Notifier
	if cfg.HasTelegram() {
		bot, err := reporter.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Failed to init Telegram bot: %v. Continuing without notifications.", err)
		} else {
			notify = bot
			log.Println("🤖 Telegram Bot initialized.")
		}
	}

	//dedup store: postgres when configured, file cache otherwise
	var store dedup.Store
	var db pipeline.PostingSaver
	if opts.databaseURL != "" {
		repo, err := database.ConnectDB(ctx, opts.databaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer repo.Close()
		store = repo
		db = repo
		log.Println("🗄️ Database connected.")
	} else {
		store = dedup.NewJobCache(cfg.CachePath)
	}

	var authenticator pipeline.Authenticator
	if !opts.anonymous && cfg.HasCredentials() {
		authenticator = &auth.Authenticator{
			Username:    cfg.LinkedInUsername,
			Password:    cfg.LinkedInPassword,
			Gate:        &auth.ConsoleGate{In: os.Stdin},
			CookiesPath: cookieFile,
		}
	} else if !opts.anonymous {
		log.Println("👻 No credentials configured, running anonymously.")
	}

	var docs generator.DocumentGenerator
	if cfg.GeneratorAPIKey != "" {
		docs = generator.NewGrokClient(cfg.GeneratorAPIKey, cfg.GeneratorModel)
	}

	details := &scraper.DetailExtractor{Authenticated: authenticator != nil}

	//single-posting mode bypasses search entirely
	if opts.singleURL != "" {
		return runSingle(ctx, opts, session, authenticator, details, store, db)
	}

	navigator := &search.Navigator{Session: session}
	orchestrator := &pipeline.Orchestrator{
		Session:  session,
		Auth:     authenticator,
		Search:   &filterSearcher{Navigator: navigator, driveUI: opts.applyFilter},
		Pager:    navigator,
		Listings: &scraper.ListingExtractor{MaxListings: opts.maxListings, MaxPages: opts.maxPages},
		Details:  details,
		Store:    store,
		DB:       db,
		Docs:     docs,
		Notify:   notify,
		Query:    q,
	}

	report, err := orchestrator.Run(ctx)
	if report != nil {
		if writeErr := writeReport(opts.output, report); writeErr != nil {
			log.Printf("⚠️ Could not write output: %v", writeErr)
		}
		fmt.Printf("accepted=%d duplicates=%d failed=%d\n",
			report.Accepted, report.Duplicates, len(report.Failed))
	}
	return err
}

// filterSearcher only drives the in-page dropdowns when asked to; the URL
// parameters already carry the filters either way.
type filterSearcher struct {
	*search.Navigator
	driveUI bool
}

func (f *filterSearcher) ApplyFilters(ctx context.Context, q search.Query) {
	if f.driveUI {
		f.Navigator.ApplyFilters(ctx, q)
	}
}

func runSingle(ctx context.Context, opts *options, session *browser.Session,
	authenticator pipeline.Authenticator, details pipeline.Detailer,
	store dedup.Store, db pipeline.PostingSaver) error {

	ref, ok := scraper.ParseListingRef(opts.singleURL)
	if !ok {
		return fmt.Errorf("not a job posting url: %s", opts.singleURL)
	}

	if authenticator != nil {
		if _, err := authenticator.Login(ctx, session); err != nil {
			return err
		}
	}

	//first write wins: an already-claimed url is reported as a duplicate and
	//the stored posting is left alone
	canonical := dedup.CanonicalURL(ref.URL)
	if seen, err := store.Exists(ctx, canonical); err != nil {
		return err
	} else if seen {
		log.Printf("⏭️ already seen %s", canonical)
		report := &pipeline.Report{Duplicates: 1, Postings: []*scraper.JobPosting{}, Failed: []pipeline.FailedListing{}}
		if err := writeReport(opts.output, report); err != nil {
			return err
		}
		fmt.Printf("accepted=0 duplicates=1 failed=0\n")
		return nil
	}

	job, err := details.Extract(ctx, session, ref)
	if err != nil {
		return err
	}
	if db != nil {
		if err := db.SavePosting(ctx, job); err != nil {
			return err
		}
	}
	if _, err := store.InsertIfAbsent(ctx, canonical); err != nil {
		return err
	}

	report := &pipeline.Report{Accepted: 1, Postings: []*scraper.JobPosting{job}, Failed: []pipeline.FailedListing{}}
	if err := writeReport(opts.output, report); err != nil {
		return err
	}
	fmt.Printf("accepted=1 duplicates=0 failed=0\n")
	return nil
}

// writeReport dumps the accepted postings as a JSON array next to a summary
// file with the failure list.
func writeReport(outputDir string, report *pipeline.Report) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	stamp := time.Now().Format("20060102_150405")

	postings, err := json.MarshalIndent(report.Postings, "", "  ")
	if err != nil {
		return err
	}
	postingsPath := filepath.Join(outputDir, fmt.Sprintf("postings_%s.json", stamp))
	if err := os.WriteFile(postingsPath, postings, 0644); err != nil {
		return err
	}
	log.Printf("💾 Wrote %d postings to %s", len(report.Postings), postingsPath)

	summary, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, fmt.Sprintf("run_%s.json", stamp)), summary, 0644)
}
