package domain

// Actor is the explicit identity attempting an operation. It is built from the
// request (X-Actor-ID header) and passed to every lifecycle call; ownership
// checks never rely on ambient session state.
type Actor struct {
	ID string `json:"id"`
}

// Identity is a directory-resolved view of an opaque account identifier.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}
