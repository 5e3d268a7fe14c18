package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

const queryInsertJournalEntry = `
	INSERT INTO journal_entries (id, tenant_id, rule_id, model_code, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

const queryInsertJournalLine = `
	INSERT INTO journal_lines (id, entry_id, account_code, debit, credit, description, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// CreateEntry persists a journal entry and its lines in one transaction.
func (r *JournalRepository) CreateEntry(ctx context.Context, entry *models.JournalEntry, lines []models.JournalLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ruleID interface{}
	if entry.RuleID != "" {
		ruleID = entry.RuleID
	}

	_, err = tx.ExecContext(ctx, queryInsertJournalEntry,
		entry.ID,
		entry.TenantID,
		ruleID,
		entry.ModelCode,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	for _, line := range lines {
		_, err = tx.ExecContext(ctx, queryInsertJournalLine,
			line.ID,
			line.EntryID,
			line.AccountCode,
			line.Debit,
			line.Credit,
			line.Description,
			line.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert journal line: %w", err)
		}
	}

	return tx.Commit()
}

// GetEntryLines returns the persisted lines of one journal entry.
func (r *JournalRepository) GetEntryLines(ctx context.Context, entryID string) ([]models.JournalLine, error) {
	query := `
		SELECT id, entry_id, account_code, debit, credit, description, sort_order
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY sort_order ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		var line models.JournalLine
		var description sql.NullString

		err := rows.Scan(
			&line.ID,
			&line.EntryID,
			&line.AccountCode,
			&line.Debit,
			&line.Credit,
			&description,
			&line.SortOrder,
		)
		if err != nil {
			return nil, err
		}

		line.Description = description.String
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
