package api

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignUpResponse struct {
	User *User `json:"user"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is returned by SignIn and Refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`

	User *User `json:"user"`
}

type SignInResponse = TokenPair

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse = TokenPair

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type SignOutResponse struct{}

type MeRequest struct{}

type MeResponse struct {
	User *User `json:"user"`
}
