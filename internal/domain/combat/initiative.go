package combat

import "sort"

// RankParticipants recomputes turn-order ranks from the recorded initiative
// rolls. Total order: passed before failed, then lower roll first, then
// participant id. Participants without a roll keep the unranked sentinel.
func (c *Combat) RankParticipants() {
	rolled := make([]Participant, 0, len(c.Players)+len(c.Adversaries))
	for _, p := range c.Participants() {
		if p.Initiative() == nil {
			p.SetTurnRank(UnrankedRank)
			continue
		}
		rolled = append(rolled, p)
	}

	sort.Slice(rolled, func(i, j int) bool {
		a, b := rolled[i].Initiative(), rolled[j].Initiative()
		if a.Passed != b.Passed {
			return a.Passed
		}
		if a.Roll != b.Roll {
			return a.Roll < b.Roll
		}
		return rolled[i].Ref() < rolled[j].Ref()
	})

	for rank, p := range rolled {
		p.SetTurnRank(rank)
	}
}
