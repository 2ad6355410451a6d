package usecase

import "context"

// ExternalRanking is one golfer's skill estimate from the external rankings
// provider. Lower WorldRank means a stronger golfer.
type ExternalRanking struct {
	GolferAPIID   string
	Name          string
	WorldRank     int
	SkillEstimate float64
}

// RankingsProvider is the black-box source of golfer skill estimates.
type RankingsProvider interface {
	FetchRankings(ctx context.Context) (map[string]ExternalRanking, error)
}
