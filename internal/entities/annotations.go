package entities

import (
	"time"
)

type AnalysisType string

const (
	AnalysisTypeFactCheck  AnalysisType = "fact_check"
	AnalysisTypeDiscussion AnalysisType = "discussion"
	AnalysisTypeComment    AnalysisType = "comment"
)

// Known reports whether the type is one of the recognised analysis types.
// Unrecognised types are still stored; stats aggregation buckets them
// separately (see annotations.Stats.Other).
func (t AnalysisType) Known() bool {
	switch t {
	case AnalysisTypeFactCheck, AnalysisTypeDiscussion, AnalysisTypeComment:
		return true
	}
	return false
}

// Highlight is a user-selected span of text anchored to a book chapter.
// Highlights are immutable after creation; they are removed automatically
// when their last analysis is deleted.
type Highlight struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BookID        string     `gorm:"index;size:256" json:"book_id"`
	ChapterIndex  int        `gorm:"index" json:"chapter_index"`
	SelectedText  string     `gorm:"type:text" json:"selected_text"`
	ContextBefore string     `gorm:"size:500" json:"context_before,omitempty"`
	ContextAfter  string     `gorm:"size:500" json:"context_after,omitempty"`
	Analyses      []Analysis `gorm:"foreignKey:HighlightID" json:"analyses,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Analysis is an AI-generated or user-authored annotation attached to a
// highlight. Only the Response field of "comment" analyses is editable.
type Analysis struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	HighlightID  uint         `gorm:"index" json:"highlight_id"`
	AnalysisType AnalysisType `gorm:"size:50" json:"analysis_type"`
	Prompt       string       `gorm:"type:text" json:"prompt"`
	Response     string       `gorm:"type:text" json:"response"`
	Highlight    Highlight    `gorm:"foreignKey:HighlightID" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Progress tracks the reading position for a single book. At most one row
// exists per book id; writes upsert.
type Progress struct {
	BookID         string    `gorm:"primaryKey;size:256" json:"book_id"`
	ChapterIndex   int       `json:"chapter_index"`
	ScrollPosition int       `json:"scroll_position"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Highlight) TableName() string {
	return "highlights"
}

func (Analysis) TableName() string {
	return "ai_analyses"
}

func (Progress) TableName() string {
	return "reading_progress"
}
