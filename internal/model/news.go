package model

import "time"

// News is a row in the `biz_news` table.
type News struct {
	ID          uint64     // biz_news.id
	Title       string     // biz_news.title
	Content     string     // biz_news.content
	AuthorID    uint64     // biz_news.author_id (0 when authorless)
	IsPublished bool       // biz_news.is_published
	PublishedAt *time.Time // biz_news.published_at (nullable)
	ViewCount   int64      // biz_news.view_count
	CreatedAt   time.Time  // biz_news.created_at
	UpdatedAt   time.Time  // biz_news.updated_at
}
