package domain

import "time"

// UnknownMemberName is recorded when a ballot scores an id that is not registered.
const UnknownMemberName = "Unknown"

// LogEntry is one (ballot, member, score) row kept for the audit view. The
// member name is copied at submission time and does not follow later edits.
type LogEntry struct {
	VoteID     string    `json:"voteId"`
	VoterName  string    `json:"voterName"`
	MemberID   string    `json:"memberId"`
	MemberName string    `json:"memberName"`
	Score      int       `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// DeriveLogEntries builds one entry per positive score of ballot, in the
// ballot's score order.
func DeriveLogEntries(ballot Ballot, members []Member) []LogEntry {
	byID := indexMembers(members)

	entries := make([]LogEntry, 0, len(ballot.Scores))
	for _, e := range ballot.Scores {
		if e.Points <= 0 {
			continue
		}
		name := UnknownMemberName
		if m, ok := byID[e.MemberID]; ok {
			name = m.Name
		}
		entries = append(entries, LogEntry{
			VoteID:     ballot.ID,
			VoterName:  ballot.VoterName,
			MemberID:   e.MemberID,
			MemberName: name,
			Score:      e.Points,
			Timestamp:  ballot.Timestamp,
		})
	}
	return entries
}
