package config

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"

	audienceStaff       = "staff"
	audienceVisitorForm = "visitor_form"
)

var ErrWrongTokenKind = errors.New("token tidak sesuai peruntukan")

type JWTClaims struct {
	UserID int64  `json:"user_id"`
	Nama   string `json:"nama"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// VisitorFormClaims binds a self-service form session to the temp link it
// was opened from.
type VisitorFormClaims struct {
	LinkUUID string `json:"link_uuid"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret         []byte
	staffTTL       time.Duration
	visitorFormTTL time.Duration
	now            func() time.Time
}

func NewJWTManager(cfg JWTConfig) *JWTManager {
	return &JWTManager{
		secret:         []byte(cfg.Secret),
		staffTTL:       cfg.StaffTTL,
		visitorFormTTL: cfg.VisitorFormTTL,
		now:            time.Now,
	}
}

func (m *JWTManager) GenerateToken(userID int64, nama, email, role string) (string, error) {
	now := m.now()
	claims := JWTClaims{
		UserID: userID,
		Nama:   nama,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceStaff},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.staffTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *JWTManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := m.parse(tokenString, claims, audienceStaff); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *JWTManager) GenerateVisitorFormToken(linkUUID string, linkExpiresAt time.Time) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.visitorFormTTL)
	if linkExpiresAt.Before(exp) {
		exp = linkExpiresAt
	}
	claims := VisitorFormClaims{
		LinkUUID: linkUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceVisitorForm},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	return token, exp, err
}

func (m *JWTManager) ValidateVisitorFormToken(tokenString string) (*VisitorFormClaims, error) {
	claims := &VisitorFormClaims{}
	if err := m.parse(tokenString, claims, audienceVisitorForm); err != nil {
		return nil, err
	}
	if claims.LinkUUID == "" {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

func (m *JWTManager) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenInvalidAudience) {
			return ErrWrongTokenKind
		}
		return err
	}
	if !token.Valid {
		return jwt.ErrSignatureInvalid
	}
	return nil
}
