package api

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/model"
)

// authenticate extracts and verifies the bearer token the identity provider
// issued. The token is the hand-off: user id and role travel inside it, so no
// identity lookup happens per request.
func (a *API) authenticate(r *http.Request) (*model.AuthUser, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.New("missing authorization header")
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == header {
		return nil, errors.New("malformed authorization header")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.App.Config.JWTKey), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, errors.New("token missing subject")
	}
	rawRole, _ := claims["role"].(string)
	role, err := model.ParseRole(rawRole)
	if err != nil {
		return nil, errors.Wrap(err, "token carries unknown role")
	}

	firstName, _ := claims["firstName"].(string)
	lastName, _ := claims["lastName"].(string)

	return &model.AuthUser{
		ID:        userID,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}, nil
}
