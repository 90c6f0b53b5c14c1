package domain

// ApplyScore returns a copy of current with memberID set to proposed points.
// The value is clamped to [0, PointBudget] and then lowered to whatever budget
// the other members leave, so the result never sums above PointBudget.
func ApplyScore(current Scores, memberID string, proposed int) Scores {
	proposed = clamp(proposed, 0, PointBudget)

	otherTotal := 0
	for _, e := range current {
		if e.MemberID != memberID {
			otherTotal += e.Points
		}
	}

	if otherTotal+proposed > PointBudget {
		proposed = max(PointBudget-otherTotal, 0)
	}

	return current.clone().Set(memberID, proposed)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
