package shop

import "time"

type registerInput struct {
	Body struct {
		ShopID string `json:"shop_id" minLength:"3" maxLength:"64" doc:"Shop identifier"`
		Name   string `json:"name,omitempty" doc:"Display name"`
		Secret string `json:"secret" minLength:"8" doc:"Shared shop secret"`
	}
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	ShopID string `json:"shop_id"`
	Status string `json:"status"`
}

type tokenInput struct {
	Body struct {
		ShopID string `json:"shop_id"`
		Secret string `json:"secret"`
	}
}

type tokenOutput struct {
	Body TokenResponse
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
}
