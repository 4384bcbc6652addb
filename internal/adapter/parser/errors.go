package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedRoot возвращается, если корневой элемент документа не rss.
	ErrUnexpectedRoot = errors.New("unexpected root element")
	// ErrStructuralMismatch возвращается, если курсор стоит не на ожидаемом теге.
	ErrStructuralMismatch = errors.New("structural mismatch")
	// ErrMalformedDate возвращается для pubDate в неподдерживаемом формате.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedXML оборачивает ошибки токенизатора и обрыв документа.
	ErrMalformedXML = errors.New("malformed xml")
)

// DecodeError описывает место, где декодирование ленты было прервано.
// Err всегда один из sentinel-ошибок пакета (или оборачивает его),
// поэтому вызывающий код проверяет вид ошибки через errors.Is.
type DecodeError struct {
	Op       string
	Expected string
	Got      string
	Line     int
	Column   int
	Err      error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("parser.%s: %v", e.Op, e.Err)
	if e.Expected != "" || e.Got != "" {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.Got)
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at %d:%d", e.Line, e.Column)
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind возвращает короткое имя вида ошибки разбора для метрик и логов.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnexpectedRoot):
		return "unexpected_root"
	case errors.Is(err, ErrStructuralMismatch):
		return "structural_mismatch"
	case errors.Is(err, ErrMalformedDate):
		return "malformed_date"
	case errors.Is(err, ErrMalformedXML):
		return "malformed_xml"
	default:
		return "other"
	}
}
