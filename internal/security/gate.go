package security

import (
	"GoRideShare/internal/model"
	"GoRideShare/internal/ports"
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	HeaderUserID        = "X-User-ID"
	HeaderDbToken       = "X-Db-Token"
	HeaderAuthorization = "Authorization"

	PolicyHeaders          = "headers"
	PolicyHeadersAndTokens = "headers_and_tokens"
)

const invalidLogicTokenMessage = "Logic token is invalid or expired, please sign in again!"

// LocalValidator проверяет logic-токен без обращения к хранилищу.
type LocalValidator interface {
	Validate(token string) (*Claims, error)
}

// HeaderGate проверяет только наличие X-User-ID и X-Db-Token.
type HeaderGate struct{}

func NewHeaderGate() *HeaderGate {
	return &HeaderGate{}
}

func (gate *HeaderGate) Policy() string {
	return PolicyHeaders
}

func (gate *HeaderGate) Evaluate(_ context.Context, header http.Header) (model.Decision, error) {
	return checkHeaders(header), nil
}

// PairingGate дополнительно требует, чтобы тройка (userId, logic, db) совпала с сохраненной парой.
type PairingGate struct {
	verifier  ports.TokenVerifier
	validator LocalValidator
}

// NewPairingGate принимает validator только при самоподписанных logic-токенах, иначе nil.
func NewPairingGate(verifier ports.TokenVerifier, validator LocalValidator) *PairingGate {
	return &PairingGate{verifier: verifier, validator: validator}
}

func (gate *PairingGate) Policy() string {
	return PolicyHeadersAndTokens
}

func (gate *PairingGate) Evaluate(ctx context.Context, header http.Header) (model.Decision, error) {
	decision := checkHeaders(header)
	if decision.IsAllowed() == false {
		return decision, nil
	}

	logicToken := BearerToken(header.Get(HeaderAuthorization))

	if gate.validator != nil {
		if _, err := gate.validator.Validate(logicToken); err != nil {
			return model.Unauthorized(invalidLogicTokenMessage), nil
		}
	}

	ok, message, err := gate.verifier.Verify(ctx, logicToken, decision.UserID, decision.DbToken)
	if err != nil {
		return model.Decision{}, fmt.Errorf("ошибка проверки токенов: %w", err)
	}
	if ok == false {
		return model.Unauthorized(message), nil
	}

	return decision, nil
}

// BearerToken убирает ведущий префикс "Bearer ". Отсутствующий заголовок дает пустую строку.
func BearerToken(authorizationHeader string) string {
	return strings.TrimPrefix(authorizationHeader, "Bearer ")
}

// checkHeaders сообщает о первом отсутствующем заголовке. Пустое значение считается присутствующим.
func checkHeaders(header http.Header) model.Decision {
	userID, ok := lookup(header, HeaderUserID)
	if ok == false {
		return model.MissingHeader(HeaderUserID)
	}

	dbToken, ok := lookup(header, HeaderDbToken)
	if ok == false {
		return model.MissingHeader(HeaderDbToken)
	}

	return model.Allowed(userID, dbToken)
}

func lookup(header http.Header, name string) (string, bool) {
	values, ok := header[http.CanonicalHeaderKey(name)]
	if ok == false || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
