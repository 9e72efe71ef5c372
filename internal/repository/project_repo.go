package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"concurso-backend/internal/models"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

// Create appends the project at the end of the list. Position is the
// authoritative list order; "first remaining project" after a delete means
// lowest position.
func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	query := `INSERT INTO projects (id, name, color, description, position)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position), -1) + 1 FROM projects))`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Color, p.Description)
	return err
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p := &models.Project{}
	query := `SELECT id, name, color, description FROM projects WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Color, &p.Description)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	query := `SELECT id, name, color, description FROM projects ORDER BY position`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Description); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM projects").Scan(&n)
	return n, err
}

func (r *ProjectRepo) Rename(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE projects SET name = $1 WHERE id = $2", name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	return err
}
