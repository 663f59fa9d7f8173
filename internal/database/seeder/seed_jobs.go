package seeder

import (
	"context"
	"fmt"

	"skill-compass/internal/database"
)

type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

// Run inserts a small demo corpus so recommendations work before the first
// ingest. Jobs key on (source, external id), so reruns are no-ops and real
// ingested postings are never touched.
func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs",
		"id", "title", "description", "company", "location", "source_id", "external_job_id", "created_at",
	); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "job_skills", "job_id", "skill_id"); err != nil {
		return err
	}

	var sourceID int64
	if err := db.QueryRow(ctx, `SELECT id FROM job_sources WHERE name = $1`, "Seed").Scan(&sourceID); err != nil {
		return fmt.Errorf("seed source missing, run job_sources seeder first: %w", err)
	}

	items := []struct {
		ExternalID  string
		Title       string
		Company     string
		Location    string
		Description string
		Skills      []string
	}{
		{
			ExternalID:  "seed-backend-go",
			Title:       "Backend Engineer (Go)",
			Company:     "Compass Labs",
			Location:    "Remote",
			Description: "Build Go services with PostgreSQL, Redis, and gRPC on Kubernetes.",
			Skills:      []string{"Go", "PostgreSQL", "Redis", "gRPC", "Kubernetes"},
		},
		{
			ExternalID:  "seed-backend-python",
			Title:       "Backend Engineer (Python)",
			Company:     "Compass Labs",
			Location:    "Remote",
			Description: "Develop FastAPI services over PostgreSQL with SQL-heavy reporting.",
			Skills:      []string{"Python", "FastAPI", "PostgreSQL", "SQL"},
		},
		{
			ExternalID:  "seed-frontend",
			Title:       "Frontend Engineer",
			Company:     "BrightApps",
			Location:    "Berlin, DE",
			Description: "Ship React and TypeScript interfaces backed by GraphQL APIs.",
			Skills:      []string{"React", "TypeScript", "JavaScript", "GraphQL"},
		},
		{
			ExternalID:  "seed-devops",
			Title:       "Platform Engineer",
			Company:     "CloudFront Ops",
			Location:    "Remote",
			Description: "Operate Docker, Kubernetes, Terraform, and CI/CD pipelines on AWS.",
			Skills:      []string{"Docker", "Kubernetes", "Terraform", "CI/CD", "AWS", "Linux"},
		},
		{
			ExternalID:  "seed-data",
			Title:       "Data Engineer",
			Company:     "InsightWorks",
			Location:    "Amsterdam, NL",
			Description: "Build Spark pipelines, model data in SQL, and ship Pandas analyses.",
			Skills:      []string{"Python", "Spark", "SQL", "Pandas", "Kafka"},
		},
		{
			ExternalID:  "seed-java",
			Title:       "Java Engineer",
			Company:     "Enterprise Stack",
			Location:    "London, UK",
			Description: "Maintain Spring services with MySQL and RabbitMQ messaging.",
			Skills:      []string{"Java", "Spring", "MySQL", "RabbitMQ", "REST"},
		},
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, it := range items {
		var jobID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO jobs (title, description, company, location, source_id, external_job_id)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (source_id, external_job_id) DO UPDATE SET title = EXCLUDED.title
			 RETURNING id`,
			it.Title, it.Description, it.Company, it.Location, sourceID, it.ExternalID,
		).Scan(&jobID)
		if err != nil {
			return fmt.Errorf("seed job %s: %w", it.ExternalID, err)
		}

		for _, skillName := range it.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_skills (job_id, skill_id)
				 SELECT $1, id FROM skills WHERE name = $2
				 ON CONFLICT DO NOTHING`,
				jobID, skillName,
			); err != nil {
				return fmt.Errorf("seed job skill %s/%s: %w", it.ExternalID, skillName, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
