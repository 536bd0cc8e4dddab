package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTSecret         string = "Inkcard"
	JWTExpirationTime        = time.Hour * 24 * 7
)

// UserClaims 定义了 Token 中需要包含的业务信息
type UserClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
