package entity

// UserLoginData is the authenticated customer taken from the access token.
type UserLoginData struct {
	ID       string
	Username string
	Email    string
}
