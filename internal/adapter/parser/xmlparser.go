package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"rssreader/internal/domain"
	"rssreader/internal/metrics"
)

const (
	tagRSS         = "rss"
	tagChannel     = "channel"
	tagItem        = "item"
	tagThumbnail   = "media:thumbnail"
	tagTitle       = "title"
	tagLink        = "link"
	tagDescription = "description"
	tagPubDate     = "pubDate"
)

// XMLParser разбирает RSS 2.0 в список новостей за один проход по документу.
// Состояние разбора хранится в курсоре, который создается на каждый вызов,
// поэтому один XMLParser можно использовать из нескольких горутин.
type XMLParser struct {
	log          *slog.Logger
	thumbnail    ThumbnailFilter
	lenientDates bool
}

func NewXMLParser(log *slog.Logger, opts ...Option) *XMLParser {
	p := &XMLParser{
		log:       log,
		thumbnail: WidthEquals(DefaultThumbnailWidth),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decode разбирает полный XML-документ, переданный строкой.
func (p *XMLParser) Decode(xmlText string) ([]domain.NewsItem, error) {
	return p.decode(strings.NewReader(xmlText))
}

// Parse реализует метод интерфейса FeedParser.
func (p *XMLParser) Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.decode(reader)
}

func (p *XMLParser) decode(r io.Reader) ([]domain.NewsItem, error) {
	c := newCursor(r)
	items, err := p.readDocument(c)
	if err != nil {
		p.log.Error(
			"Error decoding feed",
			slog.String("component", "parser"),
			slog.String("kind", Kind(err)),
			slog.Any("error", err),
		)
		metrics.RecordDecodeError(Kind(err))
		return nil, err
	}
	return items, nil
}

func (p *XMLParser) readDocument(c *cursor) ([]domain.NewsItem, error) {
	if err := c.nextTag(); err != nil {
		// До корня нет ни одного тега: текст или конец документа.
		var decErr *DecodeError
		if errors.As(err, &decErr) && errors.Is(err, ErrStructuralMismatch) {
			decErr.Expected = "start-tag " + tagRSS
			decErr.Err = ErrUnexpectedRoot
		}
		return nil, err
	}
	if c.kind != eventStart || c.name != tagRSS {
		return nil, c.fail("readDocument", "start-tag "+tagRSS, c.describe(), ErrUnexpectedRoot)
	}
	return p.readFeed(c)
}

func (p *XMLParser) readFeed(c *cursor) ([]domain.NewsItem, error) {
	if err := c.require(eventStart, tagRSS); err != nil {
		return nil, err
	}
	for {
		if err := c.next(); err != nil {
			return nil, err
		}
		switch c.kind {
		case eventEOF:
			return nil, c.truncated("readFeed", tagRSS)
		case eventEnd:
			if err := c.require(eventEnd, tagRSS); err != nil {
				return nil, err
			}
			return []domain.NewsItem{}, nil
		case eventStart:
			if c.name == tagChannel {
				return p.readChannel(c)
			}
			if err := skip(c); err != nil {
				return nil, err
			}
		}
	}
}

func (p *XMLParser) readChannel(c *cursor) ([]domain.NewsItem, error) {
	if err := c.require(eventStart, tagChannel); err != nil {
		return nil, err
	}
	items := []domain.NewsItem{}
	for {
		if err := c.next(); err != nil {
			return nil, err
		}
		switch c.kind {
		case eventEOF:
			return nil, c.truncated("readChannel", tagChannel)
		case eventEnd:
			if err := c.require(eventEnd, tagChannel); err != nil {
				return nil, err
			}
			return items, nil
		case eventStart:
			if c.name != tagItem {
				if err := skip(c); err != nil {
					return nil, err
				}
				continue
			}
			item, err := p.readItem(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}
}

func (p *XMLParser) readItem(c *cursor) (domain.NewsItem, error) {
	var item domain.NewsItem
	if err := c.require(eventStart, tagItem); err != nil {
		return item, err
	}
	for {
		if err := c.next(); err != nil {
			return item, err
		}
		switch c.kind {
		case eventEOF:
			return item, c.truncated("readItem", tagItem)
		case eventEnd:
			return item, c.require(eventEnd, tagItem)
		case eventText:
			continue
		}

		var err error
		switch c.name {
		case tagThumbnail:
			var image string
			var ok bool
			if image, ok, err = p.readImage(c); ok {
				item.Image = image
			}
		case tagTitle:
			item.Title, err = readText(c, tagTitle)
		case tagLink:
			item.Link, err = readText(c, tagLink)
		case tagDescription:
			item.Description, err = readText(c, tagDescription)
		case tagPubDate:
			err = p.readDate(c, &item)
		default:
			err = skip(c)
		}
		if err != nil {
			return item, err
		}
	}
}

// readImage возвращает url миниатюры и признак того, что она прошла фильтр.
func (p *XMLParser) readImage(c *cursor) (string, bool, error) {
	if err := c.require(eventStart, tagThumbnail); err != nil {
		return "", false, err
	}
	thumb := Thumbnail{}
	thumb.URL, _ = c.attr("url")
	thumb.Width, _ = c.attr("width")
	thumb.Height, _ = c.attr("height")
	accepted := p.thumbnail(thumb)
	if err := c.nextTag(); err != nil {
		return "", false, err
	}
	if err := c.require(eventEnd, tagThumbnail); err != nil {
		return "", false, err
	}
	return thumb.URL, accepted, nil
}

func (p *XMLParser) readDate(c *cursor, item *domain.NewsItem) error {
	raw, err := readRawText(c, tagPubDate)
	if err != nil {
		return err
	}
	date, err := ParseDate(raw)
	if err == nil {
		item.PublishedAt = date
		return nil
	}
	if p.lenientDates {
		p.log.Warn("could not parse item pubDate, leaving it empty",
			slog.String("component", "parser"),
			slog.String("pubDate", raw),
			slog.String("item_title", item.Title),
		)
		item.PublishedAt = nil
		return nil
	}
	return c.fail("readDate", "", "", err)
}

func readText(c *cursor, name string) (string, error) {
	text, err := readRawText(c, name)
	return strings.TrimSpace(text), err
}

// readRawText читает непосредственное текстовое содержимое элемента name.
// Элемент без текста дает пустую строку, вложенный элемент - нарушение структуры.
func readRawText(c *cursor, name string) (string, error) {
	if err := c.require(eventStart, name); err != nil {
		return "", err
	}
	if err := c.next(); err != nil {
		return "", err
	}
	var text string
	if c.kind == eventText {
		text = string(c.text)
		if err := c.nextTag(); err != nil {
			return "", err
		}
	}
	if err := c.require(eventEnd, name); err != nil {
		return "", err
	}
	return text, nil
}

// skip пропускает текущий элемент вместе со всем поддеревом.
func skip(c *cursor) error {
	if c.kind != eventStart {
		return c.fail("skip", eventStart.String(), c.describe(), ErrStructuralMismatch)
	}
	name := c.name
	depth := 1
	for depth != 0 {
		if err := c.next(); err != nil {
			return err
		}
		switch c.kind {
		case eventStart:
			depth++
		case eventEnd:
			depth--
		case eventEOF:
			return c.truncated("skip", name)
		}
	}
	return nil
}
