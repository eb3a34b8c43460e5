package nodes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/akarpovs/filedepot/internal/common"
	"github.com/akarpovs/filedepot/internal/dbx"
	"github.com/akarpovs/filedepot/internal/server/models"
)

// nodeColumns is the single column list every SELECT shares.
const nodeColumns = `id, owner_id, name, kind, parent_id, is_public, payload_ref, created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanNode(row *sql.Row) (*models.Node, error) {
	n := &models.Node{}
	err := row.Scan(&n.ID, &n.OwnerID, &n.Name, &n.Kind, &n.ParentID,
		&n.IsPublic, &n.PayloadRef, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFound()
		}
		return nil, common.NewStorage("node_select_failed", err)
	}
	return n, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id, ownerID string) (*models.Node, error) {
	query := `
		SELECT ` + nodeColumns + ` FROM nodes
		WHERE id = $1 AND owner_id = $2
	`
	return scanNode(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// FindPublicOrOwned folds the visibility rule into the WHERE clause so a
// private foreign node is absent from the result set, not filtered after
// the fact. NULLIF keeps an anonymous (empty) caller id from failing the
// uuid cast.
func (r *PostgresRepository) FindPublicOrOwned(ctx context.Context, id, callerID string) (*models.Node, error) {
	query := `
		SELECT ` + nodeColumns + ` FROM nodes
		WHERE id = $1 AND (is_public OR owner_id = NULLIF($2, '')::uuid)
	`
	return scanNode(r.db.QueryRowContext(ctx, query, id, callerID))
}

func (r *PostgresRepository) ListByParent(ctx context.Context, ownerID, parentID string, page int) ([]*models.Node, error) {
	query := `
		SELECT ` + nodeColumns + ` FROM nodes
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, parentID, PageSize, page*PageSize)
	if err != nil {
		return nil, common.NewStorage("node_list_failed", err)
	}
	defer rows.Close()

	result := make([]*models.Node, 0, PageSize)
	for rows.Next() {
		n := &models.Node{}
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Name, &n.Kind, &n.ParentID,
			&n.IsPublic, &n.PayloadRef, &n.CreatedAt); err != nil {
			return nil, common.NewStorage("node_scan_failed", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorage("node_list_failed", err)
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, node *models.Node) (*models.Node, error) {
	query := `
		INSERT INTO nodes (owner_id, name, kind, parent_id, is_public, payload_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		node.OwnerID, node.Name, node.Kind, node.ParentID, node.IsPublic, node.PayloadRef).
		Scan(&node.ID, &node.CreatedAt)
	if err != nil {
		return nil, common.NewStorage("node_insert_failed", err)
	}
	return node, nil
}

func (r *PostgresRepository) SetVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.Node, error) {
	query := `
		UPDATE nodes SET is_public = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + nodeColumns + `
	`
	return scanNode(r.db.QueryRowContext(ctx, query, id, ownerID, isPublic))
}
