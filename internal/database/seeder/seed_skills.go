package seeder

import (
	"context"
	"fmt"

	"skill-compass/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

// Run seeds the skill catalog the extractor and the recommendation engine
// work against. Names are canonical; alternate spellings live in the ingest
// alias table, not here.
func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	names := []string{
		"Go",
		"Python",
		"Java",
		"JavaScript",
		"TypeScript",
		"C++",
		"C#",
		"Ruby",
		"PHP",
		"SQL",
		"PostgreSQL",
		"MySQL",
		"MongoDB",
		"Redis",
		"Elasticsearch",
		"Kafka",
		"RabbitMQ",
		"Docker",
		"Kubernetes",
		"Terraform",
		"CI/CD",
		"AWS",
		"GCP",
		"Azure",
		"Linux",
		"Git",
		"React",
		"Vue",
		"Angular",
		"Node.js",
		"Django",
		"FastAPI",
		"Spring",
		"GraphQL",
		"gRPC",
		"REST",
		"Machine Learning",
		"Data Analysis",
		"Pandas",
		"Spark",
	}

	for _, name := range names {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO skills (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
