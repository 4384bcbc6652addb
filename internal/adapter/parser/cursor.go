package parser

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

type eventKind int

const (
	eventStart eventKind = iota
	eventEnd
	eventText
	eventEOF
)

func (k eventKind) String() string {
	switch k {
	case eventStart:
		return "start-tag"
	case eventEnd:
		return "end-tag"
	case eventText:
		return "text"
	default:
		return "end-of-document"
	}
}

// cursor - однонаправленный указатель по потоку токенов XML-документа.
// Работает поверх RawToken, поэтому префиксы пространств имен остаются
// частью имени тега (media:thumbnail), а парность тегов проверяет парсер.
type cursor struct {
	dec     *xml.Decoder
	pending xml.Token

	kind  eventKind
	name  string
	attrs []xml.Attr
	text  []byte
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func newCursor(r io.Reader) *cursor {
	dec := xml.NewDecoder(skipBOM(r))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity
	return &cursor{dec: dec}
}

// skipBOM отбрасывает метку порядка байтов UTF-8 в начале документа:
// encoding/xml отдает ее как текст перед корневым элементом.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// next переходит к следующему событию: открывающий тег, закрывающий тег,
// текст или конец документа. Комментарии, инструкции обработки и DOCTYPE
// пропускаются, соседние фрагменты текста (включая CDATA) склеиваются.
func (c *cursor) next() error {
	c.attrs = nil
	c.text = c.text[:0]
	c.name = ""
	for {
		tok, err := c.read()
		if errors.Is(err, io.EOF) {
			c.kind = eventEOF
			return nil
		}
		if err != nil {
			return c.fail("next", "", "", fmt.Errorf("%w: %w", ErrMalformedXML, err))
		}
		switch t := tok.(type) {
		case xml.StartElement:
			c.kind = eventStart
			c.name = tagName(t.Name)
			c.attrs = t.Attr
			return nil
		case xml.EndElement:
			c.kind = eventEnd
			c.name = tagName(t.Name)
			return nil
		case xml.CharData:
			c.kind = eventText
			c.text = append(c.text, t...)
			return c.collectText()
		}
	}
}

// collectText дочитывает текст до первого токена, не являющегося текстом,
// и откладывает этот токен до следующего вызова next.
func (c *cursor) collectText() error {
	for {
		tok, err := c.read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return c.fail("next", "", "", fmt.Errorf("%w: %w", ErrMalformedXML, err))
		}
		switch t := tok.(type) {
		case xml.CharData:
			c.text = append(c.text, t...)
		case xml.Comment, xml.ProcInst, xml.Directive:
		default:
			c.pending = tok
			return nil
		}
	}
}

func (c *cursor) read() (xml.Token, error) {
	if c.pending != nil {
		tok := c.pending
		c.pending = nil
		return tok, nil
	}
	tok, err := c.dec.RawToken()
	if err != nil {
		return nil, err
	}
	// CharData ссылается на внутренний буфер декодера.
	if cd, ok := tok.(xml.CharData); ok {
		return cd.Copy(), nil
	}
	return tok, nil
}

// nextTag переходит к следующему тегу, пропуская пробельный текст.
// Непробельный текст или конец документа считаются нарушением структуры.
func (c *cursor) nextTag() error {
	if err := c.next(); err != nil {
		return err
	}
	if c.kind == eventText && len(bytes.TrimSpace(c.text)) == 0 {
		if err := c.next(); err != nil {
			return err
		}
	}
	if c.kind != eventStart && c.kind != eventEnd {
		return c.fail("nextTag", "tag", c.describe(), ErrStructuralMismatch)
	}
	return nil
}

// require проверяет, что курсор стоит на событии kind с именем name.
func (c *cursor) require(kind eventKind, name string) error {
	if c.kind != kind || c.name != name {
		return c.fail("require", kind.String()+" "+name, c.describe(), ErrStructuralMismatch)
	}
	return nil
}

// attr возвращает значение атрибута по буквальному имени.
func (c *cursor) attr(name string) (string, bool) {
	for _, a := range c.attrs {
		if tagName(a.Name) == name {
			return a.Value, true
		}
	}
	return "", false
}

func (c *cursor) describe() string {
	switch c.kind {
	case eventStart, eventEnd:
		return c.kind.String() + " " + c.name
	default:
		return c.kind.String()
	}
}

// truncated вызывается, когда документ закончился внутри элемента.
func (c *cursor) truncated(op, inside string) error {
	return c.fail(op, "end-tag "+inside, c.describe(), fmt.Errorf("%w: %w", ErrMalformedXML, io.ErrUnexpectedEOF))
}

func (c *cursor) fail(op, expected, got string, err error) error {
	line, col := c.dec.InputPos()
	return &DecodeError{
		Op:       op,
		Expected: expected,
		Got:      got,
		Line:     line,
		Column:   col,
		Err:      err,
	}
}

func tagName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return strings.Join([]string{n.Space, n.Local}, ":")
}
