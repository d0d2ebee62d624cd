package models

// Identity is who a session is logged in as. No credential material is kept.
type Identity struct {
	Email string `json:"email"`
}

// Session is a read-only snapshot of the session store.
type Session struct {
	Identity *Identity `json:"identity,omitempty"`
}

// Authenticated reports whether the session holds an identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// Email returns the identity email, or "" for an anonymous session.
func (s Session) Email() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}

// Credentials are the login and signup form fields.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks that both fields are present. Passwords are never verified.
func (c Credentials) Validate() error {
	return validateStruct("email and password are required", c)
}
