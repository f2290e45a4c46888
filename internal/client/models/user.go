package models

// UserIdentity is the authenticated account as reported by the server.
// The client never synthesizes one; instances only enter the system from
// the login/register responses or the account listing.
//
// FilesCount and TotalSize are aggregates attached by the administrator
// listing endpoint; they are zero elsewhere and do not participate in
// identity equality.
type UserIdentity struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	IsAdministrator bool   `json:"is_administrator"`
	FilesCount      int64  `json:"files_count,omitempty"`
	TotalSize       int64  `json:"total_size,omitempty"`
}

// Equal reports whether two identities describe the same account state.
func (u UserIdentity) Equal(other UserIdentity) bool {
	return u.ID == other.ID &&
		u.Username == other.Username &&
		u.Email == other.Email &&
		u.FullName == other.FullName &&
		u.IsAdministrator == other.IsAdministrator
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterProfile is the account creation payload. The validate tags mirror
// the rules the server enforces, so obviously bad input is rejected before
// a network round-trip.
type RegisterProfile struct {
	Username string `json:"username" validate:"required,account_name"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,account_password"`
}
