package domain

// UnknownAuthor is substituted for both author fields when an image references
// a username that has no profile.
const UnknownAuthor = "unknown"

// User is the public profile of a registered account. ID and Username are both
// the username the account was registered with.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Credential is the private login record stored next to the profile.
type Credential struct {
	ID           string `json:"-"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// UnknownUser returns the placeholder author used for dangling references.
func UnknownUser() User {
	return User{ID: UnknownAuthor, Username: UnknownAuthor}
}
