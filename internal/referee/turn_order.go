package referee

import "github.com/mauv0809/osu-autoref/internal/match"

// banOwner returns the team that owns ban slot n (zero based) of the ban order.
// The owner is derived from the slot index and the anchor instead of being
// toggled, so a turn lost to the timer does not shift later slots.
func banOwner(order string, first match.Side, n int) match.Side {
	if order == "" || !first.Valid() {
		return first
	}
	if order[n%len(order)] == 'A' {
		return first
	}
	return first.Other()
}

// anchorFor returns the first banner that makes side the owner of slot n.
func anchorFor(order string, side match.Side, n int) match.Side {
	if order == "" || order[n%len(order)] == 'A' {
		return side
	}
	return side.Other()
}

// nextCyclePhase decides between banning and picking from the counts alone.
func (r *Referee) nextCyclePhase() Phase {
	st := r.state
	if st.BansRemaining <= 0 {
		return Picking
	}
	if r.settings.splitBans() && st.BansDone >= r.settings.SplitBansBefore && st.PicksDone < r.settings.SplitPicksBetween {
		return Picking
	}
	return Banning
}
