package memory

import (
	"time"

	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/team"
	"github.com/pgctour/api/internal/domain/tier"
	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/domain/tournament"
)

const (
	SeasonID2026 = "pgc-2026"

	TourIDPGC        = "pgc-tour-2026"
	TourIDChallenger = "challenger-tour-2026"
)

func ptrStr(v string) *string { return &v }
func ptrInt(v int) *int       { return &v }

func SeedTours() []tour.Tour {
	return []tour.Tour{
		{
			ID:           TourIDPGC,
			SeasonID:     SeasonID2026,
			Name:         "PGC Tour",
			ShortForm:    "PGC",
			PlayoffSpots: []int{30, 40},
		},
		{
			ID:           TourIDChallenger,
			SeasonID:     SeasonID2026,
			Name:         "Challenger Tour",
			ShortForm:    "CHL",
			PlayoffSpots: []int{15},
		},
	}
}

func SeedTiers() []tier.Tier {
	return []tier.Tier{
		{
			ID:       "tier-standard-2026",
			SeasonID: SeasonID2026,
			Name:     tier.NameStandard,
			Payouts:  []int64{90000, 54000, 34000, 24000, 20000, 18000, 16500, 15500, 14500, 13500},
			Points:   []int{500, 300, 190, 135, 110, 100, 90, 85, 80, 75},
		},
		{
			ID:       "tier-elevated-2026",
			SeasonID: SeasonID2026,
			Name:     tier.NameElevated,
			Payouts:  []int64{180000, 108000, 68000, 48000, 40000, 36000, 33000, 31000, 29000, 27000},
			Points:   []int{700, 420, 270, 190, 155, 140, 126, 119, 112, 105},
		},
		{
			ID:       "tier-major-2026",
			SeasonID: SeasonID2026,
			Name:     tier.NameMajor,
			Payouts:  []int64{360000, 216000, 136000, 96000, 80000, 72000, 66000, 62000, 58000, 54000},
			Points:   []int{1000, 600, 380, 270, 220, 200, 180, 170, 160, 150},
		},
	}
}

func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			ID:        "trn-coastal-open",
			SeasonID:  SeasonID2026,
			TierID:    "tier-standard-2026",
			Name:      "Coastal Open",
			CourseRef: "harbour-town",
			StartDate: time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "trn-pinehurst-invitational",
			SeasonID:  SeasonID2026,
			TierID:    "tier-elevated-2026",
			Name:      "Pinehurst Invitational",
			CourseRef: "pinehurst-no2",
			StartDate: time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "trn-autumn-championship",
			SeasonID:  SeasonID2026,
			TierID:    "tier-major-2026",
			Name:      "Autumn Championship",
			CourseRef: "whistling-straits",
			StartDate: time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedTourCards() []tourcard.TourCard {
	return []tourcard.TourCard{
		{ID: "card-harrington", MemberID: "m-harrington", TourID: TourIDPGC, SeasonID: SeasonID2026, DisplayName: "Harrington"},
		{ID: "card-okafor", MemberID: "m-okafor", TourID: TourIDPGC, SeasonID: SeasonID2026, DisplayName: "Okafor"},
		{ID: "card-svendsen", MemberID: "m-svendsen", TourID: TourIDPGC, SeasonID: SeasonID2026, DisplayName: "Svendsen"},
		{ID: "card-ito", MemberID: "m-ito", TourID: TourIDChallenger, SeasonID: SeasonID2026, DisplayName: "Ito"},
		{ID: "card-marchetti", MemberID: "m-marchetti", TourID: TourIDChallenger, SeasonID: SeasonID2026, DisplayName: "Marchetti"},
	}
}

func SeedGolfers() []golfer.Golfer {
	trn := "trn-coastal-open"
	return []golfer.Golfer{
		{APIID: "dg-10091", TournamentID: trn, Name: "Marcus Vale", Position: ptrStr("1"), R1: ptrInt(67), R2: ptrInt(68), R3: ptrInt(66), R4: ptrInt(69), Score: -14, MadeCut: true, WorldRank: ptrInt(4)},
		{APIID: "dg-10144", TournamentID: trn, Name: "Tom Ridgeway", Position: ptrStr("T2"), R1: ptrInt(68), R2: ptrInt(69), R3: ptrInt(67), R4: ptrInt(68), Score: -12, MadeCut: true, WorldRank: ptrInt(11)},
		{APIID: "dg-10208", TournamentID: trn, Name: "Sam Whitfield", Position: ptrStr("T2"), R1: ptrInt(66), R2: ptrInt(70), R3: ptrInt(68), R4: ptrInt(68), Score: -12, MadeCut: true, WorldRank: ptrInt(23)},
		{APIID: "dg-10333", TournamentID: trn, Name: "Erik Lindholm", Position: ptrStr("T8"), R1: ptrInt(70), R2: ptrInt(69), R3: ptrInt(69), R4: ptrInt(70), Score: -6, MadeCut: true, WorldRank: ptrInt(37)},
		{APIID: "dg-10417", TournamentID: trn, Name: "Diego Fuentes", Position: ptrStr("24"), R1: ptrInt(71), R2: ptrInt(70), R3: ptrInt(72), R4: ptrInt(70), Score: -1, MadeCut: true, WorldRank: ptrInt(52)},
		{APIID: "dg-10502", TournamentID: trn, Name: "Henri Dubois", Position: ptrStr("CUT"), R1: ptrInt(74), R2: ptrInt(75), Score: 7, WorldRank: ptrInt(88)},
		{APIID: "dg-10599", TournamentID: trn, Name: "Jack Morrow", Position: ptrStr("WD"), R1: ptrInt(76), Score: 5, WorldRank: ptrInt(120)},
		{APIID: "dg-10644", TournamentID: trn, Name: "Ben Castellano", Position: ptrStr("T8"), R1: ptrInt(69), R2: ptrInt(70), R3: ptrInt(71), R4: ptrInt(68), Score: -6, MadeCut: true},
	}
}

func SeedTeams() []team.Team {
	trn := "trn-coastal-open"
	return []team.Team{
		{
			ID: "team-harrington-coastal", TourCardID: "card-harrington", TournamentID: trn,
			GolferIDs: []string{"dg-10091", "dg-10144", "dg-10333", "dg-10417"},
			Position:  ptrStr("1"), Score: -33, Points: 500, Earnings: 90000, MadeCut: true,
		},
		{
			ID: "team-okafor-coastal", TourCardID: "card-okafor", TournamentID: trn,
			GolferIDs: []string{"dg-10208", "dg-10333", "dg-10417", "dg-10644"},
			Position:  ptrStr("2"), Score: -25, Points: 300, Earnings: 54000, MadeCut: true,
		},
		{
			ID: "team-svendsen-coastal", TourCardID: "card-svendsen", TournamentID: trn,
			GolferIDs: []string{"dg-10502", "dg-10599", "dg-10644", "dg-10417"},
			Position:  ptrStr("CUT"), Score: 10, Points: 0, Earnings: 0,
		},
		{
			ID: "team-ito-coastal", TourCardID: "card-ito", TournamentID: trn,
			GolferIDs: []string{"dg-10144", "dg-10208", "dg-10091", "dg-10644"},
			Position:  ptrStr("1"), Score: -30, Points: 500, Earnings: 90000, MadeCut: true,
		},
		{
			ID: "team-marchetti-coastal", TourCardID: "card-marchetti", TournamentID: trn,
			GolferIDs: []string{"dg-10333", "dg-10417", "dg-10502", "dg-10599"},
			Position:  ptrStr("5"), Score: -4, Points: 110, Earnings: 20000, MadeCut: true,
		},
	}
}

// SeedSeasonByTournament maps every seeded tournament to its season, used by
// the team repository's season-wide listing.
func SeedSeasonByTournament() map[string]string {
	out := make(map[string]string)
	for _, item := range SeedTournaments() {
		out[item.ID] = item.SeasonID
	}
	return out
}
