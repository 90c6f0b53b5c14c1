package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// PointBudget is the number of points a voter can spread across members.
const PointBudget = 100

// Ballot is one voter's point allocation. Ballots are never updated.
type Ballot struct {
	ID        string    `json:"id"`
	VoterName string    `json:"voterName"`
	Timestamp time.Time `json:"timestamp"`
	Scores    Scores    `json:"scores"`
}

// ScoreEntry assigns points to one member.
type ScoreEntry struct {
	MemberID string
	Points   int
}

// Scores is an ordered member id to points mapping. It is encoded as a JSON
// object and keeps the key order it was decoded with.
type Scores []ScoreEntry

// Total sums every entry.
func (s Scores) Total() int {
	total := 0
	for _, e := range s {
		total += e.Points
	}
	return total
}

// Get returns the points assigned to memberID, or 0.
func (s Scores) Get(memberID string) int {
	for _, e := range s {
		if e.MemberID == memberID {
			return e.Points
		}
	}
	return 0
}

// Set assigns points to memberID, appending it when absent.
func (s Scores) Set(memberID string, points int) Scores {
	for i := range s {
		if s[i].MemberID == memberID {
			s[i].Points = points
			return s
		}
	}
	return append(s, ScoreEntry{MemberID: memberID, Points: points})
}

func (s Scores) clone() Scores {
	out := make(Scores, len(s))
	copy(out, s)
	return out
}

func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.MemberID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Points)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order. Values that are not
// numbers count as 0, fractional numbers are truncated and a repeated key
// overwrites the earlier value in place.
func (s *Scores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("scores must be a JSON object")
	}

	out := Scores{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = out.Set(key, pointsFromJSON(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

func pointsFromJSON(raw json.RawMessage) int {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return clampInt64(i)
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return clampInt64(int64(math.Trunc(f)))
}

func clampInt64(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}

// ValidateBallot checks a submission before it is stored. The voter name must
// not be blank and the points must be non-negative, sum to more than zero and
// stay within PointBudget.
func ValidateBallot(voterName string, scores Scores) error {
	if strings.TrimSpace(voterName) == "" {
		return fmt.Errorf("%w: voter name is required", ErrInvalidBallot)
	}
	for _, e := range scores {
		if e.Points < 0 {
			return fmt.Errorf("%w: negative points for member %s", ErrInvalidBallot, e.MemberID)
		}
	}
	total := scores.Total()
	if total == 0 {
		return fmt.Errorf("%w: at least one member must receive points", ErrInvalidBallot)
	}
	if total > PointBudget {
		return fmt.Errorf("%w: %d points exceed the budget of %d", ErrInvalidBallot, total, PointBudget)
	}
	return nil
}
