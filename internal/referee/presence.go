package referee

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/osu-autoref/internal/lobby"
	"github.com/mauv0809/osu-autoref/internal/match"
)

func (r *Referee) onPlayerJoined(e lobby.PlayerJoined) {
	st := r.state
	name := match.NormalizeName(e.Name)
	side := r.rosterSide(e.Name)
	if _, seen := st.Players[name]; !seen && side.Valid() {
		st.PlayersPresent++
	}
	st.Players[name] = side
	log.Info("Player joined", "player", e.Name, "slot", e.Slot, "team", side, "present", st.PlayersPresent)

	if side.Valid() {
		if e.Side != side {
			r.check("ChangeTeam", r.lobby.ChangeTeam(e.Name, side))
		}
	} else {
		log.Warn("Couldn't figure out team", "player", e.Name)
	}

	if r.settings.Operator != "" && name == match.NormalizeName(r.settings.Operator) {
		r.check("SetHost", r.lobby.SetHost(e.Name))
	}

	if st.AutoReferee && st.Phase == WaitingForStart && !st.TiebreakerPending {
		log.Info("Player joined and auto is enabled. Starting timer.")
		r.printScore()
		r.promptReady()
	}
}

func (r *Referee) onPlayerLeft(e lobby.PlayerLeft) {
	st := r.state
	name := match.NormalizeName(e.Name)
	if side, ok := st.Players[name]; ok {
		delete(st.Players, name)
		if side.Valid() {
			st.PlayersPresent--
		}
	}
	log.Info("Player left", "player", e.Name, "present", st.PlayersPresent)

	if st.Phase != Playing {
		return
	}
	log.Warn("Player left during match!", "player", e.Name)
	if !st.AutoReferee {
		return
	}
	if r.withinLeniency() {
		r.check("AbortMatch", r.lobby.AbortMatch())
		r.say("Match aborted due to player leaving.")
		r.setPhase(WaitingForStart)
	}
}
