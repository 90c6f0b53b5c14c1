package domain

import "sort"

// LeaderboardSize is the number of rows Aggregate returns.
const LeaderboardSize = 3

// ResultRow is a member with the points it collected across all ballots.
type ResultRow struct {
	Member
	TotalScore int `json:"totalScore"`
}

// Results is the leaderboard plus the number of ballots it was computed from.
type Results struct {
	Results    []ResultRow `json:"results"`
	TotalVotes int         `json:"totalVotes"`
}

// Aggregate sums the points of every ballot per member and returns the top
// LeaderboardSize members by total. Members nobody voted for score 0, points
// for ids missing from members are dropped, and equal totals keep the order
// of members.
func Aggregate(members []Member, ballots []Ballot) Results {
	totals := make(map[string]int, len(members))
	for _, m := range members {
		totals[m.ID] = 0
	}

	for _, b := range ballots {
		for _, e := range b.Scores {
			if _, ok := totals[e.MemberID]; !ok {
				continue
			}
			totals[e.MemberID] += e.Points
		}
	}

	rows := make([]ResultRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, ResultRow{Member: m, TotalScore: totals[m.ID]})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalScore > rows[j].TotalScore
	})

	if len(rows) > LeaderboardSize {
		rows = rows[:LeaderboardSize]
	}

	return Results{Results: rows, TotalVotes: len(ballots)}
}
