package types

// User is a registered account. The password is stored and compared in plain
// text: that is the documented contract of the system being reimplemented,
// not an oversight. Do not expose these records outside the local store.
type User struct {
	ID       string `json:"id"` // UUID assigned at registration
	Username string `json:"username"`
	Password string `json:"password"`
}

// Theme values persisted per user (or under the shared guest key).
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
