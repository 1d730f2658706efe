package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
)

type TemplateRepositoryInterface interface {
	GetByID(id string) (*model.Template, error)
	List(offset, limit int, channel string, active *bool) ([]*model.Template, int, error)
	Create(t *model.Template) error
	Update(t *model.Template) error
	Delete(id string) error
}

type TemplateRepository struct {
	DB *sql.DB
}

const templateColumns = `id, name, type, subject, content, variables, is_active, created_by, created_at, updated_at`

func (r *TemplateRepository) GetByID(id string) (*model.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE id=$1`
	t, err := scanTemplate(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewTemplateNotFound(id)
		}
		return nil, err
	}
	return t, nil
}

func (r *TemplateRepository) List(offset, limit int, channel string, active *bool) ([]*model.Template, int, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if channel != "" {
		query += fmt.Sprintf(" AND type=$%d", argPos)
		args = append(args, channel)
		argPos++
	}
	if active != nil {
		query += fmt.Sprintf(" AND is_active=$%d", argPos)
		args = append(args, *active)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	templates := []*model.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM message_templates WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if channel != "" {
		countQuery += fmt.Sprintf(" AND type=$%d", argPosCount)
		argsCount = append(argsCount, channel)
		argPosCount++
	}
	if active != nil {
		countQuery += fmt.Sprintf(" AND is_active=$%d", argPosCount)
		argsCount = append(argsCount, *active)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return templates, total, nil
}

func (r *TemplateRepository) Create(t *model.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	variables, err := json.Marshal(t.Variables)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO message_templates (id, name, type, subject, content, variables, is_active, created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err = r.DB.Exec(query, t.ID, t.Name, string(t.Channel), t.Subject, t.Content, variables, t.IsActive, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TemplateRepository) Update(t *model.Template) error {
	variables, err := json.Marshal(t.Variables)
	if err != nil {
		return err
	}

	query := `
        UPDATE message_templates
        SET name=$1, subject=$2, content=$3, variables=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6
    `
	res, err := r.DB.Exec(query, t.Name, t.Subject, t.Content, variables, t.IsActive, t.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewTemplateNotFound(t.ID)
	}
	return nil
}

func (r *TemplateRepository) Delete(id string) error {
	res, err := r.DB.Exec(`DELETE FROM message_templates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewTemplateNotFound(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*model.Template, error) {
	var t model.Template
	var variables []byte
	if err := row.Scan(&t.ID, &t.Name, &t.Channel, &t.Subject, &t.Content, &variables, &t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if len(variables) > 0 {
		if err := json.Unmarshal(variables, &t.Variables); err != nil {
			return nil, fmt.Errorf("decode template variables: %w", err)
		}
	}
	return &t, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
