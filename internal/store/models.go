package store

import "time"

// Topic is one catalog row describing an uploaded piece of study content and
// its artifact links. Rows are created by the teacher upload flow and never
// updated or deleted afterwards; artifact URLs stay null when the
// corresponding upload failed.
type Topic struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Class        string    `gorm:"column:class;not null;index" json:"class"`
	Subject      string    `gorm:"column:subject;not null;index" json:"subject"`
	Chapter      string    `gorm:"column:chapter" json:"chapter"`
	Topic        string    `gorm:"column:topic;not null" json:"topic"`
	Summary      string    `gorm:"column:summary" json:"summary"`
	PDFURL       *string   `gorm:"column:pdf_url" json:"pdf_url"`
	NotesURL     *string   `gorm:"column:notes_url" json:"notes_url"`
	SegmentsURL  *string   `gorm:"column:segments_url" json:"segments_url"`
	ThumbnailURL *string   `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Topic) TableName() string {
	return "topics"
}

// TopicFilter narrows a catalog listing. Class and Subject are exact matches
// combined with AND; Search is a case-insensitive substring match over the
// topic, chapter and subject columns.
type TopicFilter struct {
	Class    string
	Subject  string
	Search   string
	Page     int
	PageSize int
}
