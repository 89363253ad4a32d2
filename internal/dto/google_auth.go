package dto

// GoogleUserInfo is the part of the Google profile used for sign-in
type GoogleUserInfo struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified_email"`
}
