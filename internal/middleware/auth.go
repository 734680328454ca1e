package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/services"
)

type contextKey string

// AdminKey holds the subject of the admin token on the request context.
const AdminKey contextKey = "admin"

// AdminAuth accepts HS256 bearer tokens signed with secret whose role claim
// is "admin".
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				services.SendErrorResponse(w, "Authorization header required", apperror.CodeAuthFailed, http.StatusUnauthorized, nil)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				services.SendErrorResponse(w, "Invalid authorization header format", apperror.CodeAuthFailed, http.StatusUnauthorized, nil)
				return
			}

			subject, role, err := validateToken(parts[1], secret)
			if err != nil {
				services.SendErrorResponse(w, "Invalid token", apperror.CodeAuthFailed, http.StatusUnauthorized, nil)
				return
			}
			if role != "admin" {
				services.SendErrorResponse(w, "Admin role required", apperror.CodeAccessDenied, http.StatusForbidden, nil)
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateToken(tokenString, secret string) (string, string, error) {
	if secret == "" {
		return "", "", errors.New("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("unexpected claims type")
	}

	subject, _ := claims.GetSubject()
	return subject, fmt.Sprintf("%v", claims["role"]), nil
}
