package entity

// User is the subset of the application's users table the seeder reads.
// Rows are created by the registration endpoint, never by this tool.
type User struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"not null;uniqueIndex"`
	Email    string `gorm:"not null;uniqueIndex"`
}

func (User) TableName() string {
	return "users"
}

// Credential is one provisioned account as exported in the manifest.
type Credential struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
