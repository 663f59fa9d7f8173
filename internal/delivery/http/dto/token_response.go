package dto

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func NewTokenResponse(access, refresh string) TokenResponse {
	return TokenResponse{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}
}
