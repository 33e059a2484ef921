// Package repositories provides the PostgreSQL-backed implementations of the
// protocol domain repositories. All queries are parameterised and accept a
// context for cancellation.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/protoscribe/internal/domain/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// ProtocolRepository is the PostgreSQL implementation of
// protocol.Repository.
type ProtocolRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewProtocolRepository constructs a ready-to-use ProtocolRepository.
func NewProtocolRepository(pool *pgxpool.Pool, log logging.Logger) *ProtocolRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ProtocolRepository{pool: pool, log: log.Named("protocol_repo")}
}

const protocolColumns = `id, title, filename, file_type, file_size, object_key, content, sections, word_count, status, created_at, updated_at`

func (r *ProtocolRepository) Save(ctx context.Context, p *protocol.Protocol) error {
	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal protocol sections")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO protocols (`+protocolColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			filename = EXCLUDED.filename,
			file_type = EXCLUDED.file_type,
			file_size = EXCLUDED.file_size,
			object_key = EXCLUDED.object_key,
			content = EXCLUDED.content,
			sections = EXCLUDED.sections,
			word_count = EXCLUDED.word_count,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		string(p.ID), p.Title, p.Filename, p.FileType, p.FileSize, p.ObjectKey,
		p.Content, sections, p.WordCount, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "save protocol")
	}
	return nil
}

func (r *ProtocolRepository) FindByID(ctx context.Context, id ptypes.ProtocolID) (*protocol.Protocol, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+protocolColumns+`
		FROM protocols
		WHERE id = $1`, string(id))

	p, err := scanProtocol(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeProtocolNotFound, "protocol not found: "+string(id))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "find protocol")
	}
	return p, nil
}

func (r *ProtocolRepository) List(ctx context.Context, filter protocol.ListFilter) ([]*protocol.Protocol, int64, error) {
	where := ""
	countArgs := []any{}
	if filter.Status != "" {
		where = " WHERE status = $1"
		countArgs = append(countArgs, string(filter.Status))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM protocols`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count protocols")
	}

	query := `SELECT ` + protocolColumns + ` FROM protocols` + where + ` ORDER BY created_at DESC, id DESC`
	args := countArgs
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list protocols")
	}
	defer rows.Close()

	items := make([]*protocol.Protocol, 0)
	for rows.Next() {
		p, err := scanProtocol(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan protocol row")
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate protocol rows")
	}
	return items, total, nil
}

func (r *ProtocolRepository) Delete(ctx context.Context, id ptypes.ProtocolID) error {
	// Analyses are removed by the ON DELETE CASCADE constraint.
	tag, err := r.pool.Exec(ctx, `DELETE FROM protocols WHERE id = $1`, string(id))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete protocol")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeProtocolNotFound, "protocol not found: "+string(id))
	}
	return nil
}

// scanner matches pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProtocol(row scanner) (*protocol.Protocol, error) {
	var (
		p            protocol.Protocol
		id, status   string
		sectionsJSON []byte
	)
	err := row.Scan(&id, &p.Title, &p.Filename, &p.FileType, &p.FileSize, &p.ObjectKey,
		&p.Content, &sectionsJSON, &p.WordCount, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = ptypes.ProtocolID(id)
	p.Status = ptypes.ProtocolStatus(status)
	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &p.Sections); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

