package security

import (
	"GoRideShare/config"
	"GoRideShare/internal/metrics"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Срок жизни самоподписанного токена фиксирован.
const selfSignedTTL = 24 * time.Hour

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// MintSelfSigned выпускает HS256 токен с единственным claim email.
// Пустой ключ означает, что выпуск отключен: возвращается пустая строка без ошибки.
func MintSelfSigned(secretKey string, issuer string, audience string, subjectEmail string) (string, error) {
	return mintSelfSignedAt(time.Now(), secretKey, issuer, audience, subjectEmail)
}

func mintSelfSignedAt(now time.Time, secretKey string, issuer string, audience string, subjectEmail string) (string, error) {
	if secretKey == "" {
		return "", nil
	}

	claims := Claims{
		Email: subjectEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(selfSignedTTL)),
			Issuer:    issuer,
		},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return token, nil
}

// ValidateSelfSigned проверяет подпись, издателя, аудиторию и срок действия сразу.
// Любое несовпадение отклоняет токен.
func ValidateSelfSigned(secretKey string, issuer string, audience string, token string) (*Claims, error) {
	if secretKey == "" {
		return nil, errors.New("пустой ключ подписи")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		options = append(options, jwt.WithAudience(audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}, options...)
	if err != nil || parsed.Valid == false {
		return nil, fmt.Errorf("невалидный токен: %w", err)
	}

	// Пустые issuer и audience тоже сравниваются: токен с чужими значениями не принимается.
	if claims.Issuer != issuer {
		return nil, fmt.Errorf("невалидный токен: неверный издатель %q", claims.Issuer)
	}
	if audienceMatches(claims.Audience, audience) == false {
		return nil, fmt.Errorf("невалидный токен: неверная аудитория %q", []string(claims.Audience))
	}

	return claims, nil
}

func audienceMatches(claimed jwt.ClaimStrings, audience string) bool {
	if audience == "" {
		return len(claimed) == 0
	}
	return slices.Contains(claimed, audience)
}

// SelfSignedMinter выпускает и проверяет токены одним набором параметров JWT.
type SelfSignedMinter struct {
	secretKey string
	issuer    string
	audience  string
}

func NewSelfSignedMinter(cfg config.JWTConfig) *SelfSignedMinter {
	return &SelfSignedMinter{
		secretKey: cfg.SecretKey,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}
}

func (m *SelfSignedMinter) Mint(_ context.Context, subjectEmail string) (string, error) {
	token, err := MintSelfSigned(m.secretKey, m.issuer, m.audience, subjectEmail)
	switch {
	case err != nil:
		metrics.TokensMinted.WithLabelValues(config.StrategySelfSigned, "error").Inc()
	case token == "":
		metrics.TokensMinted.WithLabelValues(config.StrategySelfSigned, "disabled").Inc()
	default:
		metrics.TokensMinted.WithLabelValues(config.StrategySelfSigned, "ok").Inc()
	}
	return token, err
}

func (m *SelfSignedMinter) Validate(token string) (*Claims, error) {
	return ValidateSelfSigned(m.secretKey, m.issuer, m.audience, token)
}
