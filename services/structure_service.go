package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-structure/models"
	"github.com/Dosada05/tournament-structure/repositories"
	"github.com/Dosada05/tournament-structure/storage"
	"github.com/Dosada05/tournament-structure/structure"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const snapshotContentType = "application/json"

type StructureService interface {
	Rules() structure.Rules
	Preview(draft structure.Draft) (*structure.Plan, error)
	GetStructure(ctx context.Context, tournamentID int) (*StructureView, error)
	SaveStructure(ctx context.Context, actor models.Actor, tournamentID int, input SaveStructureInput) (*StructureView, error)
	PublishStructure(ctx context.Context, actor models.Actor, tournamentID int) (*StructureView, error)
}

type SaveStructureInput struct {
	Draft   structure.Draft `json:"draft"`
	Version int             `json:"version"`
}

// StructureView is what clients see of a tournament's structure.
// Plan is nil when nothing is saved yet or the stored draft no longer validates.
type StructureView struct {
	TournamentID int                 `json:"tournamentId"`
	Draft        structure.Draft     `json:"draft"`
	Plan         *structure.Plan     `json:"plan,omitempty"`
	Summary      string              `json:"summary,omitempty"`
	Errors       map[string][]string `json:"errors,omitempty"`
	Version      int                 `json:"version"`
	Published    bool                `json:"published"`
	PublishedAt  *time.Time          `json:"publishedAt,omitempty"`
	SnapshotURL  string              `json:"snapshotUrl,omitempty"`
}

// Snapshot is the document uploaded to object storage on publish.
type Snapshot struct {
	TournamentID int             `json:"tournamentId"`
	Version      int             `json:"version"`
	PublishedAt  time.Time       `json:"publishedAt"`
	Draft        structure.Draft `json:"draft"`
	Plan         *structure.Plan `json:"plan"`
	Summary      string          `json:"summary"`
}

type structureService struct {
	rules    structure.Rules
	repo     repositories.TournamentRepository
	uploader storage.FileUploader
	clock    clockwork.Clock
	logger   *slog.Logger
}

func NewStructureService(
	rules structure.Rules,
	repo repositories.TournamentRepository,
	uploader storage.FileUploader,
	clock clockwork.Clock,
	logger *slog.Logger,
) StructureService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &structureService{
		rules:    rules,
		repo:     repo,
		uploader: uploader,
		clock:    clock,
		logger:   logger,
	}
}

func (s *structureService) Rules() structure.Rules {
	return s.rules
}

func (s *structureService) Preview(draft structure.Draft) (*structure.Plan, error) {
	return s.rules.Validate(draft)
}

func (s *structureService) GetStructure(ctx context.Context, tournamentID int) (*StructureView, error) {
	t, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return s.buildView(t), nil
}

func (s *structureService) SaveStructure(ctx context.Context, actor models.Actor, tournamentID int, input SaveStructureInput) (*StructureView, error) {
	if input.Version < 0 {
		return nil, ErrInvalidConfigVersion
	}
	t, err := s.getEditableTournament(ctx, actor, tournamentID)
	if err != nil {
		return nil, err
	}

	plan, err := s.rules.Validate(input.Draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	merged, err := structure.Merge(t.Config, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to merge structure into tournament %d config: %w", tournamentID, err)
	}

	newVersion, err := s.repo.UpdateConfig(ctx, nil, tournamentID, merged, input.Version)
	if err != nil {
		return nil, handleTournamentRepoError(err, tournamentID)
	}
	t.Config = merged
	t.ConfigVersion = newVersion

	s.logger.InfoContext(ctx, "tournament structure saved",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", actor.UserID),
		slog.String("format", string(plan.Format)),
		slog.Int("version", newVersion),
	)

	return s.buildView(t), nil
}

func (s *structureService) PublishStructure(ctx context.Context, actor models.Actor, tournamentID int) (*StructureView, error) {
	t, err := s.getEditableTournament(ctx, actor, tournamentID)
	if err != nil {
		return nil, err
	}

	draft := structure.Extract(t.Config)
	if draft.Format == "" {
		return nil, ErrStructureNotSaved
	}
	plan, err := s.rules.Validate(draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructureInvalid, err)
	}

	publishedAt := s.clock.Now().UTC()
	body, err := json.Marshal(Snapshot{
		TournamentID: tournamentID,
		Version:      t.ConfigVersion,
		PublishedAt:  publishedAt,
		Draft:        plan.Draft(),
		Plan:         plan,
		Summary:      plan.Summary(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode structure snapshot: %w", err)
	}

	key := snapshotKey(tournamentID, uuid.NewString())
	if _, err := s.uploader.Upload(ctx, key, snapshotContentType, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("failed to upload structure snapshot for tournament %d: %w", tournamentID, err)
	}

	if err := s.repo.MarkStructurePublished(ctx, nil, tournamentID, t.ConfigVersion, publishedAt, key); err != nil {
		s.removeSnapshot(ctx, key)
		return nil, handleTournamentRepoError(err, tournamentID)
	}
	s.updateLatest(ctx, tournamentID, body)

	t.StructurePublishedAt = &publishedAt
	t.StructureSnapshotKey = &key

	s.logger.InfoContext(ctx, "tournament structure published",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", actor.UserID),
		slog.String("snapshot_key", key),
	)

	return s.buildView(t), nil
}

// removeSnapshot deletes the snapshot of a publish that did not go through.
func (s *structureService) removeSnapshot(ctx context.Context, key string) {
	if err := s.uploader.Delete(context.WithoutCancel(ctx), key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.WarnContext(ctx, "failed to remove orphaned structure snapshot",
			slog.String("key", key), slog.Any("error", err))
	}
}

// updateLatest mirrors a recorded publish to the stable latest.json key.
// The publish already stands at this point, so a failure is only logged.
func (s *structureService) updateLatest(ctx context.Context, tournamentID int, body []byte) {
	key := snapshotKey(tournamentID, "latest")
	if _, err := s.uploader.Upload(context.WithoutCancel(ctx), key, snapshotContentType, bytes.NewReader(body)); err != nil {
		s.logger.WarnContext(ctx, "failed to update latest structure snapshot",
			slog.String("key", key), slog.Any("error", err))
	}
}

func snapshotKey(tournamentID int, name string) string {
	return fmt.Sprintf("structures/tournament_%d/%s.json", tournamentID, name)
}

func (s *structureService) getTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleTournamentRepoError(err, tournamentID)
	}
	return t, nil
}

// getEditableTournament loads the tournament and checks that actor may still change its structure.
func (s *structureService) getEditableTournament(ctx context.Context, actor models.Actor, tournamentID int) (*models.Tournament, error) {
	t, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(t.OrganizerID) {
		return nil, ErrForbiddenOperation
	}
	if t.StructurePublished() {
		return nil, fmt.Errorf("%w: published at %s", ErrStructureLocked, t.StructurePublishedAt.Format(time.RFC3339))
	}
	if !t.Status.StructureEditable() {
		return nil, fmt.Errorf("%w: tournament is %s", ErrStructureLocked, t.Status)
	}
	return t, nil
}

func (s *structureService) buildView(t *models.Tournament) *StructureView {
	view := &StructureView{
		TournamentID: t.ID,
		Draft:        structure.Extract(t.Config),
		Version:      t.ConfigVersion,
		Published:    t.StructurePublished(),
		PublishedAt:  t.StructurePublishedAt,
	}
	if t.StructureSnapshotKey != nil && s.uploader != nil {
		view.SnapshotURL = s.uploader.GetPublicURL(*t.StructureSnapshotKey)
	}
	if view.Draft.Format == "" {
		return view
	}

	plan, err := s.rules.Validate(view.Draft)
	if err != nil {
		var verrs structure.ValidationErrors
		if errors.As(err, &verrs) {
			view.Errors = verrs.ByField()
		}
		return view
	}
	view.Plan = plan
	view.Summary = plan.Summary()
	return view
}

func handleTournamentRepoError(err error, tournamentID int) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
	case errors.Is(err, repositories.ErrConfigVersionConflict):
		return ErrConfigVersionConflict
	case errors.Is(err, repositories.ErrAlreadyPublished):
		return ErrStructureLocked
	default:
		return fmt.Errorf("tournament %d: %w", tournamentID, err)
	}
}
