package checkpoint

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		log.Printf("timeline-engine: migrate pgcrypto: %v", err)
	}

	_, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS timelines (
          id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          project_id      TEXT NOT NULL,
          name            TEXT NOT NULL,
          current_version INT NOT NULL DEFAULT 0,
          created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `)
	if err != nil {
		log.Printf("timeline-engine: migrate timelines: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS checkpoints (
          timeline_id    uuid NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
          version        INT NOT NULL,
          parent_version INT,
          snapshot       JSONB NOT NULL,
          description    TEXT NOT NULL DEFAULT '',
          created_by     TEXT NOT NULL DEFAULT '',
          created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
          is_approved    BOOLEAN NOT NULL DEFAULT FALSE,
          op_type        TEXT,
          op_data        JSONB,
          PRIMARY KEY (timeline_id, version)
      )
    `); err != nil {
		log.Printf("timeline-engine: migrate checkpoints: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_checkpoints_timeline_created
      ON checkpoints(timeline_id, created_at DESC)
    `); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_timelines_project
      ON timelines(project_id)
    `); err != nil {
		return err
	}

	return nil
}
