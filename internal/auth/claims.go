package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the client reads out of an access token. The signature is
// not checked; only the server can do that.
type Claims struct {
	UserID    int64
	ExpiresAt *time.Time
	Raw       jwt.MapClaims
}

// ParseClaims decodes a JWT access token without verifying it.
func ParseClaims(token string) (*Claims, error) {
	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, raw); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	c := &Claims{Raw: raw}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		c.ExpiresAt = &t
	}
	switch v := raw["user_id"].(type) {
	case float64:
		c.UserID = int64(v)
	case string:
		c.UserID, _ = strconv.ParseInt(v, 10, 64)
	}
	return c, nil
}
