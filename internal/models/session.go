package models

// Snapshot — копия данных пользователя на момент входа.
// Изменения профиля после входа в снимок не попадают.
type Snapshot struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

// NewSnapshot снимает копию полей пользователя для хранения в сессии.
func NewSnapshot(u *User) Snapshot {
	return Snapshot{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
	}
}
