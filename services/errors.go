package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrStructureLocked      = errors.New("tournament structure can no longer be changed")
	ErrStructureNotSaved    = errors.New("tournament has no saved structure")
	ErrStructureInvalid     = errors.New("saved tournament structure is no longer valid")
	ErrInvalidConfigVersion = errors.New("config version must not be negative")

	// Ошибки конфликтов
	ErrConfigVersionConflict = errors.New("tournament configuration was changed by someone else, reload and retry")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)
