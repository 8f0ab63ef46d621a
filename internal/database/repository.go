package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobsearch-automation/internal/scraper"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- DEDUP OPERATIONS ----------------

// InsertIfAbsent claims a canonical URL for this run. The WHERE NOT EXISTS
// guard makes the claim atomic: RowsAffected of zero means another run (or
// an earlier listing this run) already holds it.
func (r *Repository) InsertIfAbsent(ctx context.Context, canonicalURL string) (bool, error) {
	query := `
		INSERT INTO seen_jobs (url, first_seen_at)
		SELECT $1, NOW()
		WHERE NOT EXISTS (SELECT 1 FROM seen_jobs WHERE url = $1)`

	tag, err := r.db.Exec(ctx, query, canonicalURL)
	if err != nil {
		return false, fmt.Errorf("failed to claim url: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Exists(ctx context.Context, canonicalURL string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM seen_jobs WHERE url = $1)", canonicalURL).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check url: %w", err)
	}
	return exists, nil
}

// ---------------- POSTING OPERATIONS ----------------

// SavePosting inserts a scraped posting. First write wins: a row already
// stored for the same url is never overwritten, so operator edits to stored
// postings survive re-scrapes.
func (r *Repository) SavePosting(ctx context.Context, job *scraper.JobPosting) error {
	skills, err := json.Marshal(job.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}
	hiringTeam, err := json.Marshal(job.HiringTeam)
	if err != nil {
		return fmt.Errorf("failed to encode hiring team: %w", err)
	}
	relatedJobs, err := json.Marshal(job.RelatedJobs)
	if err != nil {
		return fmt.Errorf("failed to encode related jobs: %w", err)
	}

	query := `
		INSERT INTO job_postings (
			url, source, scraped_at, title, company, location, description,
			date_posted, date_posted_parsed, employment_type, seniority_level,
			easy_apply, apply_info, company_info, job_insights, applicant_count,
			skills, hiring_team, related_jobs
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (url) DO NOTHING`

	_, err = r.db.Exec(ctx, query,
		job.URL, job.Source, job.ScrapedAt, job.Title, job.Company, job.Location,
		job.Description, job.DatePosted, job.DatePostedParsed, job.EmploymentType,
		job.SeniorityLevel, job.EasyApply, job.ApplyInfo, job.CompanyInfo,
		job.JobInsights, job.ApplicantCount, skills, hiringTeam, relatedJobs)
	if err != nil {
		return fmt.Errorf("failed to save posting: %w", err)
	}
	return nil
}

// GetPostingByURL retrieves a stored posting.
func (r *Repository) GetPostingByURL(ctx context.Context, url string) (*scraper.JobPosting, error) {
	var (
		job         scraper.JobPosting
		skills      []byte
		hiringTeam  []byte
		relatedJobs []byte
	)
	query := `
		SELECT url, source, scraped_at, title, company, location, description,
			date_posted, date_posted_parsed, employment_type, seniority_level,
			easy_apply, apply_info, company_info, job_insights, applicant_count,
			skills, hiring_team, related_jobs
		FROM job_postings WHERE url = $1`

	err := r.db.QueryRow(ctx, query, url).Scan(
		&job.URL, &job.Source, &job.ScrapedAt, &job.Title, &job.Company, &job.Location,
		&job.Description, &job.DatePosted, &job.DatePostedParsed, &job.EmploymentType,
		&job.SeniorityLevel, &job.EasyApply, &job.ApplyInfo, &job.CompanyInfo,
		&job.JobInsights, &job.ApplicantCount, &skills, &hiringTeam, &relatedJobs)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("posting not found")
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}

	if err := json.Unmarshal(skills, &job.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := json.Unmarshal(hiringTeam, &job.HiringTeam); err != nil {
		return nil, fmt.Errorf("failed to decode hiring team: %w", err)
	}
	if err := json.Unmarshal(relatedJobs, &job.RelatedJobs); err != nil {
		return nil, fmt.Errorf("failed to decode related jobs: %w", err)
	}
	return &job, nil
}
