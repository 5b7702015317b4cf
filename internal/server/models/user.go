package models

// User is an application account. Password holds either legacy plaintext or
// the "hash.salt" form and is never serialised.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

type NewUser struct {
	Username string
	Password string
}
