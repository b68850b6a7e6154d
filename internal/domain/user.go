package domain

// User represents a row of the Users table. Password holds the stored
// credential, which is a bcrypt hash unless plaintext storage is configured.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
}
