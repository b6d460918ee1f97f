package model

import "fmt"

type DecisionKind int

const (
	DecisionAllowed DecisionKind = iota
	DecisionMissingHeader
	DecisionUnauthorized
)

// Decision - результат проверки запроса политикой доступа.
type Decision struct {
	Kind    DecisionKind
	Header  string
	Reason  string
	UserID  string
	DbToken string
}

func Allowed(userID string, dbToken string) Decision {
	return Decision{Kind: DecisionAllowed, UserID: userID, DbToken: dbToken}
}

func MissingHeader(name string) Decision {
	return Decision{Kind: DecisionMissingHeader, Header: name}
}

func Unauthorized(reason string) Decision {
	return Decision{Kind: DecisionUnauthorized, Reason: reason}
}

func (d Decision) IsAllowed() bool {
	return d.Kind == DecisionAllowed
}

// Message возвращает текст ответа для отклоненного запроса.
func (d Decision) Message() string {
	switch d.Kind {
	case DecisionMissingHeader:
		return fmt.Sprintf("Missing the following header: '%s'.", d.Header)
	case DecisionUnauthorized:
		return d.Reason
	default:
		return ""
	}
}

func (k DecisionKind) String() string {
	switch k {
	case DecisionAllowed:
		return "allowed"
	case DecisionMissingHeader:
		return "missing_header"
	case DecisionUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}
