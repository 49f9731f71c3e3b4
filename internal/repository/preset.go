package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leadpilot/leadpilot/internal/models"
)

// PresetRepository stores saved LinkedIn search configurations so operators
// can re-run a scrape without retyping keyword sets.
type PresetRepository struct {
	db *sql.DB
}

func NewPresetRepository(db *sql.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

func (r *PresetRepository) Create(name string, keywords []string, dateFilter, createdBy string) (*models.KeywordPreset, error) {
	kw, err := json.Marshal(keywords)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &models.KeywordPreset{
		ID:         uuid.New().String(),
		Name:       name,
		Keywords:   keywords,
		DateFilter: dateFilter,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = r.db.Exec(`
		INSERT INTO keyword_presets (id, name, keywords, date_filter, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(kw), p.DateFilter, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PresetRepository) Get(id string) (*models.KeywordPreset, error) {
	var p models.KeywordPreset
	var kw string
	err := r.db.QueryRow(`
		SELECT id, name, keywords, COALESCE(date_filter, '') as date_filter,
			COALESCE(created_by, '') as created_by, created_at, updated_at
		FROM keyword_presets WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &kw, &p.DateFilter, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(kw), &p.Keywords); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PresetRepository) List() ([]models.KeywordPreset, error) {
	rows, err := r.db.Query(`
		SELECT id, name, keywords, COALESCE(date_filter, '') as date_filter,
			COALESCE(created_by, '') as created_by, created_at, updated_at
		FROM keyword_presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := []models.KeywordPreset{}
	for rows.Next() {
		var p models.KeywordPreset
		var kw string
		if err := rows.Scan(&p.ID, &p.Name, &kw, &p.DateFilter, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(kw), &p.Keywords); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

func (r *PresetRepository) Update(id, name string, keywords []string, dateFilter string) error {
	kw, err := json.Marshal(keywords)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		UPDATE keyword_presets SET name = ?, keywords = ?, date_filter = ?, updated_at = ?
		WHERE id = ?`,
		name, string(kw), dateFilter, time.Now(), id,
	)
	return err
}

func (r *PresetRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM keyword_presets WHERE id = ?", id)
	return err
}
