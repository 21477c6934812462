// Package token is the credential and token codec: one-way password
// hashing plus signed, expiring JWTs carrying the security context.
// Encoding and decoding are pure and stateless; safe for concurrent use.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/arqdesk/backoffice/internal/model"
)

// Token kinds. A refresh token is never accepted where an access token is
// required, and vice versa; the kind travels as the "type" claim.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims is the wire shape of every token this service issues. The tenant
// claims keep their legacy names (escritorio_id, perfil) so existing
// clients keep working.
type Claims struct {
	Email         string `json:"email"`
	Type          string `json:"type"`
	IsSystemAdmin bool   `json:"is_system_admin"`
	IsAdminMode   bool   `json:"is_admin_mode,omitempty"`
	OfficeID      *uint  `json:"escritorio_id,omitempty"`
	Role          string `json:"perfil,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into the user id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, model.ErrInvalidToken
	}
	return uint(id), nil
}

// Codec signs and verifies tokens with a shared HS256 key.
type Codec struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(signingKey string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Codec{
		signingKey: []byte(signingKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// EncodeAccess mints an access token from a resolved security context.
func (c *Codec) EncodeAccess(sc model.SecurityContext) (string, error) {
	claims := Claims{
		Email:         sc.Email,
		Type:          KindAccess,
		IsSystemAdmin: sc.IsSystemAdmin,
		IsAdminMode:   sc.IsAdminMode,
	}
	if !sc.IsAdminMode && sc.OfficeID != nil {
		claims.OfficeID = sc.OfficeID
		claims.Role = sc.Role.String()
	}
	return c.sign(sc.UserID, claims, c.accessTTL)
}

// EncodeRefresh mints a refresh token. Refresh tokens never carry an office
// context; the context must be re-established after every refresh.
func (c *Codec) EncodeRefresh(userID uint, email string) (string, error) {
	claims := Claims{
		Email: email,
		Type:  KindRefresh,
	}
	return c.sign(userID, claims, c.refreshTTL)
}

func (c *Codec) sign(userID uint, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return t.SignedString(c.signingKey)
}

// Decode verifies signature and expiry and checks the token kind. Every
// failure collapses into model.ErrInvalidToken; callers map it to a 401.
func (c *Codec) Decode(raw, kind string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return c.signingKey, nil
	})
	if err != nil || !t.Valid {
		return nil, model.ErrInvalidToken
	}
	if claims.Type != kind {
		return nil, model.ErrInvalidToken
	}
	return claims, nil
}

// HashPassword returns a salted bcrypt hash; never reversible.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
