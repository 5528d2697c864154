package authutils

import (
	"raci-approval-backend/config"
	"raci-approval-backend/models"
	dbmodels "raci-approval-backend/models/db"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenType = "refresh"

func GetToken(user dbmodels.Employee) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name":       user.Name,
		"sub":        user.ID,
		"department": user.DepartmentID,
		"role":       string(user.Role),
		"exp":        time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetRefreshToken(userID uint) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": refreshTokenType,
		"exp": time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTRefreshExpireInSec)).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

// ParseRefreshToken идентификатор пользователя из действующего refresh token
func ParseRefreshToken(tokenString string) (uint, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Conf.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, errors.Wrap(err, "некорректный refresh token")
	}
	if claims["typ"] != refreshTokenType {
		return 0, errors.New("токен не является refresh token")
	}
	userID := ClaimUint(claims, "sub")
	if userID == 0 {
		return 0, errors.New("в токене отсутствует пользователь")
	}
	return userID, nil
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

// ClaimUint числовые claims после разбора JSON приходят как float64
func ClaimUint(claims jwt.MapClaims, key string) uint {
	switch value := claims[key].(type) {
	case float64:
		if value > 0 {
			return uint(value)
		}
	case uint:
		return value
	case int:
		if value > 0 {
			return uint(value)
		}
	}
	return 0
}

func ClaimRole(claims jwt.MapClaims) models.UserRole {
	if role, ok := claims["role"].(string); ok {
		return models.UserRole(role)
	}
	return ""
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "ошибка хеширования пароля")
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
