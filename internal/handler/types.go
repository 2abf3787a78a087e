package handler

import "acara-backend/internal/domain"

type registerRequest struct {
	FullName        string `json:"fullName" example:"Ann Lee"`
	UserName        string `json:"userName" example:"annlee"`
	Email           string `json:"email" example:"ann@example.com"`
	Password        string `json:"password" example:"Passw0rd"`
	ConfirmPassword string `json:"confirmPassword" example:"Passw0rd"`
}

func (r registerRequest) payload() domain.RegisterPayload {
	return domain.RegisterPayload(r)
}

type loginRequest struct {
	Identifier string `json:"identifier" example:"annlee"`
	Password   string `json:"password" example:"Passw0rd"`
}

func (r loginRequest) payload() domain.LoginPayload {
	return domain.LoginPayload(r)
}

type activationRequest struct {
	Code string `json:"code"`
}

// Response is the envelope of every JSON reply.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}
