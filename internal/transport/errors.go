package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind классифицирует ошибку запроса к API.
type Kind int

const (
	// KindUnexpected: прочие ошибки: неожиданный статус или некорректное тело ответа.
	KindUnexpected Kind = iota
	// KindNetwork: запрос не дошёл до сервера или ответ не был прочитан.
	KindNetwork
	// KindUnauthorized: токен отсутствует, истёк или недействителен.
	KindUnauthorized
	// KindValidation: сервер вернул ошибки по полям.
	KindValidation
	// KindNotFound: запрошенный ресурс не существует.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

var (
	// ErrNetwork сопоставляется с ошибками вида KindNetwork.
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized сопоставляется с ошибками вида KindUnauthorized.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation сопоставляется с ошибками вида KindValidation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound сопоставляется с ошибками вида KindNotFound.
	ErrNotFound = errors.New("not found")
)

const nonFieldErrors = "non_field_errors"

// Error описывает нормализованную ошибку обращения к API.
type Error struct {
	Kind       Kind
	StatusCode int
	// Detail содержит общее сообщение сервера (поле "detail").
	Detail string
	// Fields содержит ошибки по полям запроса.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "; %s: %s", k, strings.Join(e.Fields[k], ", "))
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибку с сентинелами пакета через errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// KindOf возвращает вид ошибки API или KindUnexpected для прочих ошибок.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// FieldErrors возвращает ошибки по полям, если они есть.
func FieldErrors(err error) map[string][]string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

func newStatusError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = KindUnauthorized
	case http.StatusNotFound:
		e.Kind = KindNotFound
	case http.StatusBadRequest:
		e.Kind = KindValidation
	default:
		e.Kind = KindUnexpected
	}

	e.Detail, e.Fields = parseErrorBody(body)
	if e.Kind == KindValidation && len(e.Fields) == 0 && e.Detail == "" {
		e.Kind = KindUnexpected
	}
	if e.Detail == "" && len(e.Fields) == 0 {
		e.Detail = http.StatusText(status)
	}
	return e
}

// parseErrorBody разбирает тело ошибки вида {"detail": "..."} или {"field": ["..."]}.
func parseErrorBody(body []byte) (string, map[string][]string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var list []string
		if json.Unmarshal(body, &list) == nil && len(list) > 0 {
			return "", map[string][]string{nonFieldErrors: list}
		}
		return "", nil
	}

	var detail string
	if v, ok := raw["detail"]; ok {
		_ = json.Unmarshal(v, &detail)
		delete(raw, "detail")
	}

	var fields map[string][]string
	for name, v := range raw {
		msgs := decodeMessages(v)
		if len(msgs) == 0 {
			continue
		}
		if fields == nil {
			fields = make(map[string][]string, len(raw))
		}
		fields[name] = msgs
	}

	return detail, fields
}

func decodeMessages(v json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(v, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}
