package jwttoken

import (
	"github.com/agusdc111/arreglocuil/internal/platform/middleware"
)

// JWTServiceAdapter bridges JWTService to the middleware validator
// interface so the transport layer never imports golang-jwt types.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{ChannelID: claims.ChannelID}, nil
}
