package jwtPkg

import (
	"EsimMyanmar/internal/entity"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"strings"
	"time"
)

const UserLocalsKey = "user"

var (
	ErrEmptyHeader   = errors.New("empty Authorization header")
	ErrInvalidFormat = errors.New("invalid Authorization format")
	ErrNoSecret      = errors.New("JWT secret not configured")
)

// Sign issues an HS256 access token carrying data plus exp.
func Sign(secret string, data map[string]interface{}, ttl time.Duration) (string, int64, error) {
	if secret == "" {
		return "", 0, ErrNoSecret
	}

	expiredAt := time.Now().Add(ttl).Unix()

	claims := jwt.MapClaims{}
	for k, v := range data {
		claims[k] = v
	}
	claims["exp"] = expiredAt

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return token, expiredAt, nil
}

// VerifyTokenHeader parses the bearer token of the request.
func VerifyTokenHeader(c *fiber.Ctx, secret string) (*jwt.Token, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, ErrEmptyHeader
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	accessToken = strings.TrimSpace(accessToken)
	if !ok || accessToken == "" {
		return nil, ErrInvalidFormat
	}

	return VerifyToken(accessToken, secret)
}

func VerifyToken(accessToken, secret string) (*jwt.Token, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	return jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
}

// UserFromClaims requires the id and email claims; username is optional.
func UserFromClaims(claims jwt.MapClaims) (entity.UserLoginData, error) {
	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	if id == "" || email == "" {
		return entity.UserLoginData{}, errors.New("token claims are missing required fields")
	}

	username, _ := claims["username"].(string)
	return entity.UserLoginData{ID: id, Email: email, Username: username}, nil
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	user, ok := c.Locals(UserLocalsKey).(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}
