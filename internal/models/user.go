package models

// User is a staff account.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Username is unique, compared case-insensitively at login.
	Username string `json:"username"`

	// PasswordHash is a bcrypt hash. The JSON key is "password" for
	// compatibility with existing users.json files.
	PasswordHash string `json:"password"`

	Name string `json:"name"`

	// Role is one of admin, manager, cashier, waiter, kitchen.
	Role string `json:"role"`

	// LastLogin is stamped in TimeFormat on each successful login.
	LastLogin string `json:"last_login"`
}
