package models

// Account is the principal decoded from the auth provider's token.
// Accounts live with the auth provider; only the identifier is stored
// alongside owned rows.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Nick string `json:"nick"`
}
