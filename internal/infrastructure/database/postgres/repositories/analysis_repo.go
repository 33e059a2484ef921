package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/protoscribe/internal/domain/protocol"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
	"github.com/turtacn/protoscribe/pkg/types/common"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// AnalysisRepository is the PostgreSQL implementation of
// protocol.AnalysisRepository.
type AnalysisRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewAnalysisRepository constructs a ready-to-use AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool, log logging.Logger) *AnalysisRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AnalysisRepository{pool: pool, log: log.Named("analysis_repo")}
}

func (r *AnalysisRepository) Save(ctx context.Context, a *protocol.Analysis) error {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal analysis result")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO analyses (id, protocol_id, type, score, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(a.ID), string(a.ProtocolID), string(a.Type), a.Score, result, a.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "save analysis")
	}
	return nil
}

func (r *AnalysisRepository) ListByProtocol(ctx context.Context, id ptypes.ProtocolID) ([]*protocol.Analysis, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, protocol_id, type, score, result, created_at
		FROM analyses
		WHERE protocol_id = $1
		ORDER BY created_at DESC`, string(id))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list analyses")
	}
	defer rows.Close()

	items := make([]*protocol.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan analysis row")
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate analysis rows")
	}
	return items, nil
}

func (r *AnalysisRepository) FindLatest(ctx context.Context, id ptypes.ProtocolID, typ ptypes.AnalysisType) (*protocol.Analysis, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, protocol_id, type, score, result, created_at
		FROM analyses
		WHERE protocol_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT 1`, string(id), string(typ))

	a, err := scanAnalysis(row)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound,
			"no analysis of type "+string(typ)+" for protocol "+string(id))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "find latest analysis")
	}
	return a, nil
}

func scanAnalysis(row scanner) (*protocol.Analysis, error) {
	var (
		a            protocol.Analysis
		id, pid, typ string
		resultJSON   []byte
	)
	if err := row.Scan(&id, &pid, &typ, &a.Score, &resultJSON, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = common.ID(id)
	a.ProtocolID = ptypes.ProtocolID(pid)
	a.Type = ptypes.AnalysisType(typ)
	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
