package corrections

import (
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/utils/rfctime"
)

type TextRequest struct {
	Text string `json:"text"`
}

type BatchRequest struct {
	Texts []string `json:"texts"`
}

type Result struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
}

type BatchResult struct {
	Results []Result `json:"results"`
}

type Correction struct {
	Id            int64           `json:"id"`
	UserId        *int64          `json:"user_id"`
	OriginalText  string          `json:"original_text"`
	CorrectedText string          `json:"corrected_text"`
	CreatedAt     rfctime.RFC3339 `json:"created_at"`
	UpdatedAt     rfctime.RFC3339 `json:"updated_at"`
}

func (c *Correction) Equal(o *Correction) bool {
	if c == nil || o == nil {
		return c == nil && o == nil
	}
	if (c.UserId == nil) != (o.UserId == nil) {
		return false
	}
	if c.UserId != nil && *c.UserId != *o.UserId {
		return false
	}
	return c.Id == o.Id &&
		c.OriginalText == o.OriginalText &&
		c.CorrectedText == o.CorrectedText &&
		c.CreatedAt.Equal(&o.CreatedAt) &&
		c.UpdatedAt.Equal(&o.UpdatedAt)
}

func ComposeCorrection(c kdb.Correction) Correction {
	return Correction{
		Id:            c.Id,
		UserId:        c.UserId,
		OriginalText:  c.OriginalText,
		CorrectedText: c.CorrectedText,
		CreatedAt:     rfctime.RFC3339(c.CreatedAt),
		UpdatedAt:     rfctime.RFC3339(c.UpdatedAt),
	}
}

// ComposeCorrections converts records keeping their order. It never returns nil.
func ComposeCorrections(cs []kdb.Correction) []Correction {
	out := make([]Correction, 0, len(cs))
	for _, c := range cs {
		out = append(out, ComposeCorrection(c))
	}
	return out
}

type CorrectionList struct {
	Corrections []Correction `json:"corrections"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	PerPage     int          `json:"per_page"`
}
