package dto

type Credentials struct {
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
