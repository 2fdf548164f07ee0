package users

import (
	"strings"
	"time"
)

// User is a signed-in identity. Email is the stable key across providers.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	GivenName  string    `json:"givenName"`
	FamilyName string    `json:"familyName"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Me is the caller-facing view served by GET /me.
type Me struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName"`
	PictureURL  string `json:"pictureUrl"`
}

// DisplayName falls back from the full name to given/family names and
// finally to the local part of the email.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.GivenName + " " + u.FamilyName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

func (u User) Me() Me {
	return Me{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		FullName:    u.FullName,
		PictureURL:  u.PictureURL,
	}
}
