package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/platform/jsoncodec"
)

const (
	existsDocumentQuery = `SELECT EXISTS (SELECT 1 FROM cached_documents WHERE namespace = $1 AND name = $2)`
	selectDocumentQuery = `SELECT payload FROM cached_documents WHERE namespace = $1 AND name = $2`
	upsertDocumentQuery = `INSERT INTO cached_documents (namespace, name, payload)
VALUES (:namespace, :name, :payload)
ON CONFLICT (namespace, name)
DO UPDATE SET
    payload = EXCLUDED.payload,
    updated_at = NOW()`
)

type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

type documentRow struct {
	Namespace string `db:"namespace"`
	Name      string `db:"name"`
	Payload   string `db:"payload"`
}

func (r *DocumentRepository) Exists(ctx context.Context, key document.Key) (bool, error) {
	if !key.Valid() {
		return false, crerr.Newf("invalid document key %q", key)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, existsDocumentQuery, string(key.Namespace), key.Name); err != nil {
		return false, wrapQueryError(err, "exists", key)
	}
	return exists, nil
}

func (r *DocumentRepository) Read(ctx context.Context, key document.Key, target any) error {
	if !key.Valid() {
		return crerr.Newf("invalid document key %q", key)
	}

	var payload string
	if err := r.db.GetContext(ctx, &payload, selectDocumentQuery, string(key.Namespace), key.Name); err != nil {
		if isNotFound(err) {
			return crerr.Wrapf(document.ErrNotFound, "read %s", key)
		}
		return wrapQueryError(err, "read", key)
	}

	if err := jsoncodec.Unmarshal([]byte(payload), target); err != nil {
		return crerr.Wrapf(document.ErrCorrupt, "decode %s: %v", key, err)
	}
	return nil
}

func (r *DocumentRepository) Write(ctx context.Context, key document.Key, value any) error {
	if !key.Valid() {
		return crerr.Newf("invalid document key %q", key)
	}

	raw, err := jsoncodec.Marshal(value)
	if err != nil {
		return crerr.Wrapf(err, "encode %s", key)
	}

	row := documentRow{
		Namespace: string(key.Namespace),
		Name:      key.Name,
		Payload:   string(raw),
	}
	if _, err := r.db.NamedExecContext(ctx, upsertDocumentQuery, row); err != nil {
		return wrapQueryError(err, "write", key)
	}
	return nil
}

func wrapQueryError(err error, op string, key document.Key) error {
	if isUndefinedTable(err) {
		return crerr.WithHint(crerr.Wrapf(err, "%s %s", op, key), "run `migration up` to create cached_documents")
	}
	return crerr.Wrapf(err, "%s %s", op, key)
}
