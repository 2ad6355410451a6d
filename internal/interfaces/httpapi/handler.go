package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/platform/logging"
	"github.com/pgctour/api/internal/usecase"
)

type Handler struct {
	leaderboardService *usecase.LeaderboardService
	groupingService    *usecase.GroupingService
	standingsService   *usecase.StandingsService
	playoffService     *usecase.PlayoffService
	refreshService     *usecase.RefreshService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	leaderboardService *usecase.LeaderboardService,
	groupingService *usecase.GroupingService,
	standingsService *usecase.StandingsService,
	playoffService *usecase.PlayoffService,
	refreshService *usecase.RefreshService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leaderboardService: leaderboardService,
		groupingService:    groupingService,
		standingsService:   standingsService,
		playoffService:     playoffService,
		refreshService:     refreshService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetTournamentLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentLeaderboard")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	forceRefresh := queryFlag(r, "refresh")

	board, err := h.leaderboardService.BuildLeaderboard(ctx, tournamentID, forceRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "build leaderboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(ctx, board))
}

func (h *Handler) GetTournamentGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentGroups")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	groups, unranked, err := h.groupingService.BuildGroups(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "build groups failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]groupDTO, 0, len(groups))
	for _, g := range groups {
		items = append(items, groupToDTO(ctx, g))
	}

	writeSuccess(ctx, w, http.StatusOK, groupsDTO{
		TournamentID:  strings.TrimSpace(tournamentID),
		Groups:        items,
		UnrankedCount: unranked,
	})
}

func (h *Handler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStandings")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	forceRefresh := queryFlag(r, "refresh")

	standings, err := h.standingsService.BuildSeasonStandings(ctx, seasonID, forceRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "build season standings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tourStandingsDTO, 0, len(standings))
	for _, ts := range standings {
		items = append(items, tourStandingsToDTO(ctx, ts))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSeasonPlayoffs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonPlayoffs")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	forceRefresh := queryFlag(r, "refresh")

	playoffs, err := h.playoffService.BuildPlayoffs(ctx, seasonID, forceRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "build playoffs failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tourPlayoffsDTO, 0, len(playoffs))
	for _, tp := range playoffs {
		items = append(items, tourPlayoffsToDTO(ctx, tp))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func queryFlag(r *http.Request, name string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name)))
	return value == "true" || value == "1"
}

type groupsDTO struct {
	TournamentID  string     `json:"tournamentId"`
	Groups        []groupDTO `json:"groups"`
	UnrankedCount int        `json:"unrankedCount"`
}

type groupDTO struct {
	Name    string      `json:"name"`
	Golfers []golferDTO `json:"golfers"`
}

type golferDTO struct {
	APIID     string  `json:"apiId"`
	Name      string  `json:"name"`
	Position  *string `json:"position"`
	R1        *int    `json:"r1"`
	R2        *int    `json:"r2"`
	R3        *int    `json:"r3"`
	R4        *int    `json:"r4"`
	Score     int     `json:"score"`
	MadeCut   bool    `json:"madeCut"`
	WorldRank *int    `json:"worldRank"`
}

type tourDTO struct {
	ID           string `json:"id"`
	SeasonID     string `json:"seasonId"`
	Name         string `json:"name"`
	ShortForm    string `json:"shortForm"`
	PlayoffSpots []int  `json:"playoffSpots"`
}

type leaderboardDTO struct {
	TournamentID string         `json:"tournamentId"`
	Source       string         `json:"source"`
	State        string         `json:"state"`
	Reason       string         `json:"reason,omitempty"`
	Boards       []tourBoardDTO `json:"boards"`
	Diagnostics  []string       `json:"diagnostics,omitempty"`
}

type tourBoardDTO struct {
	Tour      tourDTO      `json:"tour"`
	TeamCount int          `json:"teamCount"`
	Teams     []teamRowDTO `json:"teams"`
}

type teamRowDTO struct {
	TeamID      string      `json:"teamId"`
	TourCardID  string      `json:"tourCardId"`
	DisplayName string      `json:"displayName"`
	Position    *string     `json:"position"`
	Score       int         `json:"score"`
	Points      int         `json:"points"`
	Earnings    int64       `json:"earnings"`
	MadeCut     bool        `json:"madeCut"`
	Golfers     []golferDTO `json:"golfers"`
}

type tourStandingsDTO struct {
	Tour  tourDTO           `json:"tour"`
	Cards []cardStandingDTO `json:"cards"`
}

type cardStandingDTO struct {
	Rank        int    `json:"rank"`
	TourCardID  string `json:"tourCardId"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
	Earnings    int64  `json:"earnings"`
	Wins        int    `json:"wins"`
	TopTens     int    `json:"topTens"`
	CutsMade    int    `json:"cutsMade"`
	Appearances int    `json:"appearances"`
}

type tourPlayoffsDTO struct {
	Tour        tourDTO           `json:"tour"`
	Fields      []playoffFieldDTO `json:"fields"`
	Unqualified []cardStandingDTO `json:"unqualified"`
}

type playoffFieldDTO struct {
	Name  string           `json:"name"`
	Spots int              `json:"spots"`
	Slots []playoffSlotDTO `json:"slots"`
}

type playoffSlotDTO struct {
	Position int             `json:"position"`
	Standing cardStandingDTO `json:"standing"`
}

func tourToDTO(v tour.Tour) tourDTO {
	return tourDTO{
		ID:           v.ID,
		SeasonID:     v.SeasonID,
		Name:         v.Name,
		ShortForm:    v.ShortForm,
		PlayoffSpots: append([]int(nil), v.PlayoffSpots...),
	}
}

func golferToDTO(v golfer.Golfer) golferDTO {
	return golferDTO{
		APIID:     v.APIID,
		Name:      v.Name,
		Position:  v.Position,
		R1:        v.R1,
		R2:        v.R2,
		R3:        v.R3,
		R4:        v.R4,
		Score:     v.Score,
		MadeCut:   v.MadeCut,
		WorldRank: v.WorldRank,
	}
}

func groupToDTO(ctx context.Context, v usecase.Group) groupDTO {
	ctx, span := startSpan(ctx, "httpapi.groupToDTO")
	defer span.End()

	golfers := make([]golferDTO, 0, len(v.Golfers))
	for _, g := range v.Golfers {
		golfers = append(golfers, golferToDTO(g))
	}
	return groupDTO{Name: v.Name, Golfers: golfers}
}

func teamRowToDTO(v usecase.TeamRow) teamRowDTO {
	golfers := make([]golferDTO, 0, len(v.Golfers))
	for _, g := range v.Golfers {
		golfers = append(golfers, golferToDTO(g))
	}
	return teamRowDTO{
		TeamID:      v.Team.ID,
		TourCardID:  v.TourCard.ID,
		DisplayName: v.TourCard.DisplayName,
		Position:    v.Team.Position,
		Score:       v.Team.Score,
		Points:      v.Team.Points,
		Earnings:    v.Team.Earnings,
		MadeCut:     v.Team.MadeCut,
		Golfers:     golfers,
	}
}

func leaderboardToDTO(ctx context.Context, v usecase.Leaderboard) leaderboardDTO {
	ctx, span := startSpan(ctx, "httpapi.leaderboardToDTO")
	defer span.End()

	boards := make([]tourBoardDTO, 0, len(v.Boards))
	for _, board := range v.Boards {
		teams := make([]teamRowDTO, 0, len(board.Teams))
		for _, row := range board.Teams {
			teams = append(teams, teamRowToDTO(row))
		}
		boards = append(boards, tourBoardDTO{
			Tour:      tourToDTO(board.Tour),
			TeamCount: board.TeamCount,
			Teams:     teams,
		})
	}

	return leaderboardDTO{
		TournamentID: v.TournamentID,
		Source:       string(v.Source),
		State:        string(v.State),
		Reason:       v.Reason,
		Boards:       boards,
		Diagnostics:  append([]string(nil), v.Diagnostics...),
	}
}

func cardStandingToDTO(v usecase.CardStanding) cardStandingDTO {
	return cardStandingDTO{
		Rank:        v.Rank,
		TourCardID:  v.TourCard.ID,
		DisplayName: v.TourCard.DisplayName,
		Points:      v.Points,
		Earnings:    v.Earnings,
		Wins:        v.Wins,
		TopTens:     v.TopTens,
		CutsMade:    v.CutsMade,
		Appearances: v.Appearances,
	}
}

func tourStandingsToDTO(ctx context.Context, v usecase.TourStandings) tourStandingsDTO {
	ctx, span := startSpan(ctx, "httpapi.tourStandingsToDTO")
	defer span.End()

	cards := make([]cardStandingDTO, 0, len(v.Cards))
	for _, card := range v.Cards {
		cards = append(cards, cardStandingToDTO(card))
	}
	return tourStandingsDTO{Tour: tourToDTO(v.Tour), Cards: cards}
}

func tourPlayoffsToDTO(ctx context.Context, v usecase.TourPlayoffs) tourPlayoffsDTO {
	ctx, span := startSpan(ctx, "httpapi.tourPlayoffsToDTO")
	defer span.End()

	fields := make([]playoffFieldDTO, 0, len(v.Fields))
	for _, field := range v.Fields {
		slots := make([]playoffSlotDTO, 0, len(field.Slots))
		for _, slot := range field.Slots {
			slots = append(slots, playoffSlotDTO{
				Position: slot.Position,
				Standing: cardStandingToDTO(slot.Standing),
			})
		}
		fields = append(fields, playoffFieldDTO{
			Name:  field.Name,
			Spots: field.Spots,
			Slots: slots,
		})
	}

	unqualified := make([]cardStandingDTO, 0, len(v.Unqualified))
	for _, standing := range v.Unqualified {
		unqualified = append(unqualified, cardStandingToDTO(standing))
	}

	return tourPlayoffsDTO{
		Tour:        tourToDTO(v.Tour),
		Fields:      fields,
		Unqualified: unqualified,
	}
}
