package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"concurso-backend/internal/models"
)

// FileRepo is the blob persistence boundary: put / get-all / delete keyed by
// file id. Deletion by project id is not a repo operation; the study service
// lists, filters and deletes each entry, as the contract does not assume
// atomicity there.
type FileRepo struct {
	pool *pgxpool.Pool
}

func NewFileRepo(pool *pgxpool.Pool) *FileRepo {
	return &FileRepo{pool: pool}
}

func (r *FileRepo) Put(ctx context.Context, f *models.StudyFile) error {
	cargosBytes, _ := json.Marshal(f.AvailableCargos)
	topicsBytes, _ := json.Marshal(f.ParsedTopics)
	profileBytes, _ := json.Marshal(f.ExamProfile)

	query := `INSERT INTO files (id, project_id, name, type, status, data, page_count,
			available_cargos, selected_cargo_name, parsed_topics, exam_profile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			available_cargos = EXCLUDED.available_cargos,
			selected_cargo_name = EXCLUDED.selected_cargo_name,
			parsed_topics = EXCLUDED.parsed_topics,
			exam_profile = EXCLUDED.exam_profile`

	_, err := r.pool.Exec(ctx, query,
		f.ID, f.ProjectID, f.Name, f.Type, f.Status, f.Data, f.PageCount,
		cargosBytes, f.SelectedCargoName, topicsBytes, profileBytes,
	)
	return err
}

// List returns all file records without their blobs.
func (r *FileRepo) List(ctx context.Context) ([]models.StudyFile, error) {
	query := `SELECT id, project_id, name, type, status, page_count,
			available_cargos, selected_cargo_name, parsed_topics, exam_profile
		FROM files ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.StudyFile
	for rows.Next() {
		f, err := scanFile(rows.Scan)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

func (r *FileRepo) GetByID(ctx context.Context, id string) (*models.StudyFile, error) {
	query := `SELECT id, project_id, name, type, status, page_count,
			available_cargos, selected_cargo_name, parsed_topics, exam_profile, data
		FROM files WHERE id = $1`

	var data []byte
	row := r.pool.QueryRow(ctx, query, id)
	f, err := scanFile(func(dest ...interface{}) error {
		return row.Scan(append(dest, &data)...)
	})
	if err != nil {
		return nil, err
	}
	f.Data = data
	return f, nil
}

func (r *FileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM files WHERE id = $1", id)
	return err
}

func (r *FileRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE files SET status = $1 WHERE id = $2", status, id)
	return err
}

// UpdateAnalysis stores the outcome of an async edital or prova analysis.
func (r *FileRepo) UpdateAnalysis(ctx context.Context, f *models.StudyFile) error {
	cargosBytes, _ := json.Marshal(f.AvailableCargos)
	topicsBytes, _ := json.Marshal(f.ParsedTopics)
	profileBytes, _ := json.Marshal(f.ExamProfile)

	query := `UPDATE files SET status = $1, available_cargos = $2,
			selected_cargo_name = $3, parsed_topics = $4, exam_profile = $5
		WHERE id = $6`

	_, err := r.pool.Exec(ctx, query,
		f.Status, cargosBytes, f.SelectedCargoName, topicsBytes, profileBytes, f.ID,
	)
	return err
}

func scanFile(scan func(...interface{}) error) (*models.StudyFile, error) {
	f := &models.StudyFile{}
	var cargosBytes, topicsBytes, profileBytes []byte

	err := scan(&f.ID, &f.ProjectID, &f.Name, &f.Type, &f.Status, &f.PageCount,
		&cargosBytes, &f.SelectedCargoName, &topicsBytes, &profileBytes)
	if err != nil {
		return nil, err
	}

	if len(cargosBytes) > 0 {
		json.Unmarshal(cargosBytes, &f.AvailableCargos)
	}
	if len(topicsBytes) > 0 {
		json.Unmarshal(topicsBytes, &f.ParsedTopics)
	}
	if len(profileBytes) > 0 && string(profileBytes) != "null" {
		json.Unmarshal(profileBytes, &f.ExamProfile)
	}
	return f, nil
}
