package models

import "time"

// User is an account as returned by the backend.
type User struct {
	ID        int64     `json:"id"`
	Nom       string    `json:"nom"`
	Prenom    string    `json:"prenom"`
	Email     string    `json:"email"`
	Telephone string    `json:"telephone,omitempty"`
	Revenu    int64     `json:"revenu"`
	Role      Role      `json:"role"`
	Documents []string  `json:"documents,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	if u.Prenom == "" {
		return u.Nom
	}
	return u.Prenom + " " + u.Nom
}
