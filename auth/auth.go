// Package auth keeps track of the signed-in user. Credentials are Google ID
// tokens whose payload is read without signature verification; they only
// identify the user to this client and grant nothing.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"housing-manager/storage"
)

// ErrInvalidToken is returned for credentials that are not a decodable JWT.
var ErrInvalidToken = errors.New("auth: invalid token format")

// User is the profile saved after sign-in.
type User struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Sub     string  `json:"sub"`
	Picture *string `json:"picture"`
}

var parser = jwt.NewParser()

// DecodeToken returns the claims of a header.payload.signature credential.
func DecodeToken(credential string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// HandleCredential decodes credential, saves the resulting user to store and
// returns it.
func HandleCredential(store storage.SessionStore, credential string) (*User, error) {
	claims, err := DecodeToken(credential)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email: stringClaim(claims, "email"),
		Name:  stringClaim(claims, "name"),
		Sub:   stringClaim(claims, "sub"),
	}
	if pic := stringClaim(claims, "picture"); pic != "" {
		user.Picture = &pic
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("auth: encode user: %w", err)
	}
	if err := store.Save(data); err != nil {
		return nil, fmt.Errorf("auth: save user: %w", err)
	}
	return user, nil
}

// SignOut forgets the current user.
func SignOut(store storage.SessionStore) error {
	return store.Clear()
}

// CurrentUser returns the saved user, or nil when nobody is signed in or the
// saved data cannot be read.
func CurrentUser(store storage.SessionStore) *User {
	data, err := store.Load()
	if err != nil || len(data) == 0 {
		return nil
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	return &user
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
