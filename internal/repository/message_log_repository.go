package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jciconnect/comms-service/internal/model"
)

type MessageLogRepositoryInterface interface {
	// Create persists one dispatch attempt. It assigns the id and createdAt.
	// Logs are append-only; there is deliberately no update or delete.
	Create(l *model.MessageLog) error
	List(offset, limit int, channel, status string) ([]*model.MessageLog, int, error)
}

type MessageLogRepository struct {
	DB *sql.DB
}

const messageLogColumns = `id, template_id, recipient_email, recipient_phone, type, subject, content, variables_used, status, error_message, sent_at, created_at`

func (r *MessageLogRepository) Create(l *model.MessageLog) error {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().UTC()

	variables, err := json.Marshal(l.VariablesUsed)
	if err != nil {
		return fmt.Errorf("encode variables_used: %w", err)
	}

	query := `
        INSERT INTO message_logs (` + messageLogColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err = r.DB.Exec(query,
		l.ID, l.TemplateID, l.RecipientEmail, l.RecipientPhone, string(l.Channel),
		l.Subject, l.Content, variables, string(l.Status), l.ErrorMessage, l.SentAt, l.CreatedAt,
	)
	return err
}

func (r *MessageLogRepository) List(offset, limit int, channel, status string) ([]*model.MessageLog, int, error) {
	query := `SELECT ` + messageLogColumns + ` FROM message_logs WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if channel != "" {
		query += fmt.Sprintf(" AND type=$%d", argPos)
		args = append(args, channel)
		argPos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := []*model.MessageLog{}
	for rows.Next() {
		l, err := scanMessageLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM message_logs WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if channel != "" {
		countQuery += fmt.Sprintf(" AND type=$%d", argPosCount)
		argsCount = append(argsCount, channel)
		argPosCount++
	}
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPosCount)
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func scanMessageLog(row rowScanner) (*model.MessageLog, error) {
	var l model.MessageLog
	var variables []byte
	if err := row.Scan(
		&l.ID, &l.TemplateID, &l.RecipientEmail, &l.RecipientPhone, &l.Channel,
		&l.Subject, &l.Content, &variables, &l.Status, &l.ErrorMessage, &l.SentAt, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(variables) > 0 {
		if err := json.Unmarshal(variables, &l.VariablesUsed); err != nil {
			return nil, fmt.Errorf("decode variables_used: %w", err)
		}
	}
	return &l, nil
}

var _ MessageLogRepositoryInterface = (*MessageLogRepository)(nil)
