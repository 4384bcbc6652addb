package parser

// DefaultThumbnailWidth - ширина миниатюры, которую отдает лента ABC News
// в нужном для списка разрешении.
const DefaultThumbnailWidth = "992"

// Thumbnail - атрибуты элемента media:thumbnail.
type Thumbnail struct {
	URL    string
	Width  string
	Height string
}

// ThumbnailFilter решает, подходит ли миниатюра для поля Image.
type ThumbnailFilter func(Thumbnail) bool

// WidthEquals принимает миниатюры, у которых атрибут width буквально равен width.
func WidthEquals(width string) ThumbnailFilter {
	return func(t Thumbnail) bool {
		return t.Width == width
	}
}

// Option настраивает XMLParser.
type Option func(*XMLParser)

// WithThumbnailFilter заменяет правило выбора миниатюры.
func WithThumbnailFilter(f ThumbnailFilter) Option {
	return func(p *XMLParser) {
		if f != nil {
			p.thumbnail = f
		}
	}
}

// WithLenientDates включает мягкий режим: некорректный pubDate
// не прерывает разбор ленты, а оставляет дату новости пустой.
func WithLenientDates() Option {
	return func(p *XMLParser) {
		p.lenientDates = true
	}
}
