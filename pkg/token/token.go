package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims structure for custom claims in the session JWT
type Claims struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	DisplayName string `json:"displayname"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// ParseSessionClaims decodes the session token claims without verifying the
// signature. 簽名驗證由伺服器端負責，客戶端只讀取顯示用欄位。
func ParseSessionClaims(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
