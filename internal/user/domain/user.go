package domain

import "time"

type ID string

// User is the persisted identity. The password hash never leaves the
// repository/service layer; response shapes carry id and username only.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
