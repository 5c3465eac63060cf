package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-structure/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound    = errors.New("tournament not found")
	ErrConfigVersionConflict = errors.New("tournament configuration was changed concurrently")
	ErrAlreadyPublished      = errors.New("tournament structure already published")
)

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// UpdateConfig stores config if the stored version still equals expectedVersion
	// and returns the new version.
	UpdateConfig(ctx context.Context, exec SQLExecutor, id int, config json.RawMessage, expectedVersion int) (int, error)
	// MarkStructurePublished locks the structure if the stored version still equals expectedVersion.
	MarkStructurePublished(ctx context.Context, exec SQLExecutor, id, expectedVersion int, publishedAt time.Time, snapshotKey string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT
			id, name, organizer_id, status, config_json, config_version,
			structure_published_at, structure_snapshot_key, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var config []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.OrganizerID, &t.Status, &config, &t.ConfigVersion,
		&t.StructurePublishedAt, &t.StructureSnapshotKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if len(config) > 0 {
		t.Config = append(json.RawMessage(nil), config...)
	}
	return t, nil
}

func (r *postgresTournamentRepository) UpdateConfig(ctx context.Context, exec SQLExecutor, id int, config json.RawMessage, expectedVersion int) (int, error) {
	executor := r.getExecutor(exec)
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}
	query := `
		UPDATE tournaments
		SET config_json = $1, config_version = config_version + 1
		WHERE id = $2 AND config_version = $3 AND structure_published_at IS NULL
		RETURNING config_version`

	var newVersion int
	err := executor.QueryRowContext(ctx, query, string(config), id, expectedVersion).Scan(&newVersion)
	if err == nil {
		return newVersion, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, r.handleTournamentError(err)
	}

	// Nothing matched: tell a missing row from a stale version or a published structure.
	var currentVersion int
	var publishedAt *time.Time
	err = executor.QueryRowContext(ctx,
		`SELECT config_version, structure_published_at FROM tournaments WHERE id = $1`, id,
	).Scan(&currentVersion, &publishedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrTournamentNotFound
	case err != nil:
		return 0, fmt.Errorf("failed to check tournament %d config version: %w", id, err)
	case publishedAt != nil:
		return 0, ErrAlreadyPublished
	default:
		return 0, ErrConfigVersionConflict
	}
}

func (r *postgresTournamentRepository) MarkStructurePublished(ctx context.Context, exec SQLExecutor, id, expectedVersion int, publishedAt time.Time, snapshotKey string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments
		SET structure_published_at = $1, structure_snapshot_key = $2
		WHERE id = $3 AND config_version = $4 AND structure_published_at IS NULL`
	result, err := executor.ExecContext(ctx, query, publishedAt, snapshotKey, id, expectedVersion)
	if err != nil {
		return r.handleTournamentError(err)
	}
	if err := checkAffectedRows(result, ErrConfigVersionConflict); err != nil {
		if !errors.Is(err, ErrConfigVersionConflict) {
			return err
		}
		current, getErr := r.GetByID(ctx, id)
		return publishConflict(current, getErr)
	}
	return nil
}

// publishConflict explains why publishing matched no row, given the row as it is now.
func publishConflict(current *models.Tournament, getErr error) error {
	switch {
	case errors.Is(getErr, ErrTournamentNotFound):
		return ErrTournamentNotFound
	case getErr != nil:
		return fmt.Errorf("failed to check tournament publish state: %w", getErr)
	case current.StructurePublished():
		return ErrAlreadyPublished
	default:
		// the version moved on between reading the draft and publishing it
		return ErrConfigVersionConflict
	}
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "22P02", "22023": // invalid_text_representation, invalid_parameter_value
			return fmt.Errorf("invalid tournament configuration record: %w", err)
		case "40001": // serialization_failure
			return ErrConfigVersionConflict
		}
	}
	return err
}
