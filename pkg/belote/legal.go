package belote

// PlayableCards 座位当前可以出的牌，不是该座位出牌时返回 nil
func PlayableCards(gs GameState, seat int) Cards {
	if gs.Phase != PhasePlaying || seat != gs.CurrentPlayer || seat < 0 || seat >= Seats {
		return nil
	}
	return gs.Players[seat].Playable(gs.CurrentTrick)
}

// LegalBids 能压过当前叫牌的可选叫分
func LegalBids(gs GameState, seat int) []BidPoints {
	if gs.Phase != PhaseBidding || seat != gs.CurrentPlayer {
		return nil
	}
	var out []BidPoints
	for _, p := range BidSteps() {
		if gs.CurrentBid == nil || p.Beats(gs.CurrentBid.Points) {
			out = append(out, p)
		}
	}
	return out
}

// LegalActions 座位当前可执行的全部动作
// 顺序固定：不叫、加倍、再加倍、叫牌（分值升序，花色按建牌顺序）、出牌（手牌顺序）
func LegalActions(gs GameState, seat int) []Action {
	if seat < 0 || seat >= Seats {
		return nil
	}
	id := gs.Players[seat].ID

	switch gs.Phase {
	case PhaseBidding:
		if seat != gs.CurrentPlayer {
			return nil
		}
		actions := []Action{PassAction(id)}
		if gs.checkContre(id) == nil {
			actions = append(actions, ContreAction(id))
		}
		if gs.checkSurContre(id) == nil {
			actions = append(actions, SurContreAction(id))
		}
		for _, p := range LegalBids(gs, seat) {
			for _, suit := range Suits {
				actions = append(actions, BidAction(id, suit, p))
			}
		}
		return actions
	case PhasePlaying:
		cards := PlayableCards(gs, seat)
		actions := make([]Action, 0, len(cards))
		for _, c := range cards {
			actions = append(actions, PlayAction(id, c))
		}
		return actions
	default:
		return nil
	}
}
