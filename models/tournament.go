package models

import (
	"encoding/json"
	"time"
)

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// StructureEditable reports whether the format and bracket shape may still change.
func (s TournamentStatus) StructureEditable() bool {
	return s == StatusSoon || s == StatusRegistration
}

// Tournament is the subset of the tournaments row the structure service reads and writes.
// Config is the raw configuration record shared with billing and scheduling.
type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	OrganizerID          int              `json:"organizer_id" db:"organizer_id"`
	Status               TournamentStatus `json:"status" db:"status"`
	Config               json.RawMessage  `json:"config,omitempty" db:"config_json"`
	ConfigVersion        int              `json:"config_version" db:"config_version"`
	StructurePublishedAt *time.Time       `json:"structure_published_at,omitempty" db:"structure_published_at"`
	StructureSnapshotKey *string          `json:"-" db:"structure_snapshot_key"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
}

// StructurePublished reports whether the structure went through the one-way publish step.
func (t *Tournament) StructurePublished() bool {
	return t.StructurePublishedAt != nil
}
