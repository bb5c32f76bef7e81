package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles del personal. El rol viaja en el token para que el middleware RBAC no consulte la DB.
const (
	RoleAdmin         = "admin"
	RoleVendedor      = "vendedor"
	RoleTransportista = "transportista"
)

// Claims incluye los claims estándar JWT más el perfil y el rol del usuario.
// ProfileID es el id de perfiles al que apuntan vendedor_id, transportista_id y revisado_por.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	ProfileID string `json:"profile_id"`
	Role      string `json:"role"`
}

// Generate genera un token JWT firmado (HS256) para el usuario, perfil y rol indicados.
func Generate(secret, userID, profileID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		ProfileID: profileID,
		Role:      role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID, profileID y role.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (userID, profileID, role string, err error) {
	if secret == "" {
		return "", "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", "", fmt.Errorf("claims inválidos")
	}
	return claims.UserID, claims.ProfileID, claims.Role, nil
}
