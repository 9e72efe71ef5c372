package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"concurso-backend/internal/models"
)

type AttemptRepo struct {
	pool *pgxpool.Pool
}

func NewAttemptRepo(pool *pgxpool.Pool) *AttemptRepo {
	return &AttemptRepo{pool: pool}
}

// Create inserts a finished attempt. Attempts are immutable after this point.
func (r *AttemptRepo) Create(ctx context.Context, a *models.Attempt) error {
	questionsBytes, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	answersBytes, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	if a.Answers == nil {
		answersBytes = []byte("{}")
	}

	query := `INSERT INTO attempts (id, project_id, ts, questions_json, answers_json, score, mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.pool.Exec(ctx, query,
		a.ID, a.ProjectID, a.Timestamp, questionsBytes, answersBytes, a.Score, a.Mode,
	)
	return err
}

// ListAll returns every attempt, newest first. Project scoping happens in
// the analysis layer, which receives this list explicitly.
func (r *AttemptRepo) ListAll(ctx context.Context) ([]models.Attempt, error) {
	query := `SELECT id, project_id, ts, questions_json, answers_json, score, mode
		FROM attempts ORDER BY ts DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var a models.Attempt
		var questionsBytes, answersBytes []byte
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Timestamp, &questionsBytes, &answersBytes, &a.Score, &a.Mode); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questionsBytes, &a.Questions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answersBytes, &a.Answers); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *AttemptRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM attempts WHERE TRIM(project_id) = TRIM($1)", projectID)
	return err
}
