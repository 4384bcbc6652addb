package domain

import "time"

// NewsItem представляет одну новость из RSS-ленты.
// PublishedAt равен nil, если дата отсутствует в ленте.
type NewsItem struct {
	Image       string
	Title       string
	Link        string
	PublishedAt *time.Time
	Description string
}

// HasImage сообщает, была ли выбрана миниатюра для новости.
func (n NewsItem) HasImage() bool { return n.Image != "" }
