package services

import (
	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
)

type ResultRow struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	TotalScore  int       `json:"total_score"`
	Rank        int       `json:"rank"`
	Group       string    `json:"group"`
}

type ResultPair struct {
	PairID       uuid.UUID `json:"pair_id"`
	GiverName    string    `json:"giver_name"`
	ReceiverName string    `json:"receiver_name"`
}

type MyResult struct {
	Rank       int       `json:"rank"`
	TotalScore int       `json:"total_score"`
	Group      string    `json:"group"`
	Pair       *PairView `json:"pair,omitempty"`
}

type RoundResults struct {
	RoundID uuid.UUID    `json:"round_id"`
	Year    int          `json:"year"`
	Month   int          `json:"month"`
	Results []ResultRow  `json:"results"`
	Pairs   []ResultPair `json:"pairs"`
	Me      *MyResult    `json:"me,omitempty"`
}

// Results is the read-only projection of a published round: the persisted
// final ranking, the exchange pairs, and the caller's own slice of both.
// Never available before results_published.
func (s *RoundService) Results(roundID, userID uuid.UUID) (*RoundResults, error) {
	rnd, err := s.Get(roundID)
	if err != nil {
		return nil, err
	}
	if rnd.Status != models.RoundStatusResultsPublished {
		return nil, apperr.RoundState("results_not_published", "results are not published yet")
	}

	var results []models.RoundResult
	if err := s.db.Where("round_id = ?", roundID).Order("rank ASC").Find(&results).Error; err != nil {
		return nil, err
	}

	var pairs []models.ExchangePair
	if err := s.db.Where("round_id = ?", roundID).Find(&pairs).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(results)+len(pairs)*2)
	for _, r := range results {
		ids = append(ids, r.UserID)
	}
	for _, p := range pairs {
		ids = append(ids, p.GiverUserID, p.ReceiverUserID)
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var users []models.User
		if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.DisplayName
		}
	}

	out := &RoundResults{RoundID: roundID, Year: rnd.Year, Month: rnd.Month,
		Results: make([]ResultRow, 0, len(results)), Pairs: make([]ResultPair, 0, len(pairs))}

	for _, r := range results {
		out.Results = append(out.Results, ResultRow{
			UserID:      r.UserID,
			DisplayName: names[r.UserID],
			TotalScore:  r.TotalScore,
			Rank:        r.Rank,
			Group:       r.ResultGroup,
		})
		if r.UserID == userID {
			out.Me = &MyResult{Rank: r.Rank, TotalScore: r.TotalScore, Group: r.ResultGroup}
		}
	}

	for _, p := range pairs {
		out.Pairs = append(out.Pairs, ResultPair{
			PairID:       p.ID,
			GiverName:    names[p.GiverUserID],
			ReceiverName: names[p.ReceiverUserID],
		})
		if out.Me != nil && (p.GiverUserID == userID || p.ReceiverUserID == userID) {
			out.Me.Pair = &PairView{
				ExchangePair: p,
				GiverName:    names[p.GiverUserID],
				ReceiverName: names[p.ReceiverUserID],
			}
		}
	}

	return out, nil
}
