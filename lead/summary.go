package lead

import (
	"sort"
	"time"
)

// Lead is a scored prospective client as shown on the broker dashboard.
type Lead struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Score       Score       `json:"score"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
}

type Summary struct {
	Total        int     `json:"total"`
	Hot          int     `json:"hot"`
	Warm         int     `json:"warm"`
	Cold         int     `json:"cold"`
	AverageScore float64 `json:"average_score"`
}

func Summarize(leads []Lead) Summary {
	var s Summary
	if len(leads) == 0 {
		return s
	}

	sum := 0
	for _, l := range leads {
		switch l.Score.Qualification {
		case Hot:
			s.Hot++
		case Warm:
			s.Warm++
		default:
			s.Cold++
		}
		sum += l.Score.TotalScore
	}
	s.Total = len(leads)
	s.AverageScore = float64(sum) / float64(len(leads))
	return s
}

// Rank orders leads by total score, highest first. Equal scores keep their
// input order.
func Rank(leads []Lead) []Lead {
	out := append([]Lead(nil), leads...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.TotalScore > out[j].Score.TotalScore
	})
	return out
}
