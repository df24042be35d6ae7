package annotations

import (
	"github.com/lectern-app/lectern/internal/entities"
)

// AnnotationRow is one row of the flattened book-wide view: a highlight
// paired with one of its analyses. Analysis is nil for highlights that have
// no analyses yet, which still produce exactly one row.
type AnnotationRow struct {
	Highlight entities.Highlight
	Analysis  *entities.Analysis
}

// Stats aggregates flattened rows by analysis type. Types outside the
// recognised set fall into Other but still count toward Total.
type Stats struct {
	Total      int `json:"total"`
	FactCheck  int `json:"fact_check"`
	Discussion int `json:"discussion"`
	Comment    int `json:"comment"`
	Other      int `json:"other,omitempty"`
}

// FlattenForBook builds the one-row-per-highlight-and-analysis presentation
// of a book's annotations. Row order follows highlight creation time, newest
// first.
func (r *Repository) FlattenForBook(bookID string) ([]AnnotationRow, error) {
	highlights, err := r.GetBookAnnotations(bookID)
	if err != nil {
		return nil, err
	}

	rows := make([]AnnotationRow, 0, len(highlights))
	for _, h := range highlights {
		if len(h.Analyses) == 0 {
			rows = append(rows, AnnotationRow{Highlight: h})
			continue
		}
		for i := range h.Analyses {
			rows = append(rows, AnnotationRow{Highlight: h, Analysis: &h.Analyses[i]})
		}
	}
	return rows, nil
}

// GetStatsForBook counts flattened rows per analysis type. Highlights with
// no analyses contribute to Total only.
func (r *Repository) GetStatsForBook(bookID string) (Stats, error) {
	rows, err := r.FlattenForBook(bookID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(rows)}
	for _, row := range rows {
		if row.Analysis == nil {
			continue
		}
		switch row.Analysis.AnalysisType {
		case entities.AnalysisTypeFactCheck:
			stats.FactCheck++
		case entities.AnalysisTypeDiscussion:
			stats.Discussion++
		case entities.AnalysisTypeComment:
			stats.Comment++
		default:
			stats.Other++
		}
	}
	return stats, nil
}
