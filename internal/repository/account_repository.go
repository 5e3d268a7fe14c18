package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/engine"
	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/internal/models"
)

const queryGetAccount = `
	SELECT id, tenant_id, code, name
	FROM accounts
	WHERE tenant_id = $1 AND id = $2
`

const queryGetAccountCodes = `
	SELECT id, code
	FROM accounts
	WHERE tenant_id = $1 AND id = ANY($2)
`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetAccount returns one account, or engine.ErrAccountNotFound.
func (r *AccountRepository) GetAccount(ctx context.Context, tenantID, accountID string) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, queryGetAccount, tenantID, accountID).Scan(
		&account.ID,
		&account.TenantID,
		&account.Code,
		&account.Name,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", engine.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// GetAccountCode returns just the ledger code for an account id. This is the
// lookup the resolver issues for fixed lines missing from its cache.
func (r *AccountRepository) GetAccountCode(ctx context.Context, tenantID, accountID string) (string, error) {
	account, err := r.GetAccount(ctx, tenantID, accountID)
	if err != nil {
		return "", err
	}
	return account.Code, nil
}

// GetAccountCodes resolves a batch of account ids to codes in one query, used
// to pre-warm the resolver's cache. Unknown ids are simply absent from the map.
func (r *AccountRepository) GetAccountCodes(ctx context.Context, tenantID string, accountIDs []string) (map[string]string, error) {
	if len(accountIDs) == 0 {
		return map[string]string{}, nil
	}

	rows, err := r.db.QueryContext(ctx, queryGetAccountCodes, tenantID, pq.Array(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get account codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]string, len(accountIDs))
	for rows.Next() {
		var id, code string
		if err := rows.Scan(&id, &code); err != nil {
			return nil, err
		}
		codes[id] = code
	}

	return codes, rows.Err()
}
