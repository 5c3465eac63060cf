package models

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

// Actor is the authenticated caller, as read from the bearer token.
type Actor struct {
	UserID int      `json:"user_id"`
	Role   UserRole `json:"role"`
}

// CanManage reports whether the actor may edit a tournament owned by organizerID.
func (a Actor) CanManage(organizerID int) bool {
	return a.Role == RoleAdmin || (a.Role == RoleOrganizer && a.UserID == organizerID)
}
