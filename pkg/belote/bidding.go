package belote

// checkTurn 校验阶段和行动顺序，返回玩家座位
func (gs *GameState) checkTurn(playerID string, phase Phase) (int, error) {
	if gs.Phase != phase {
		return -1, ErrWrongPhase
	}
	seat := gs.Seat(playerID)
	if seat < 0 {
		return -1, ErrPlayerNotFound
	}
	if seat != gs.CurrentPlayer {
		return -1, ErrNotYourTurn
	}
	return seat, nil
}

func (gs *GameState) checkBid(playerID string, suit Suit, points BidPoints) error {
	if _, err := gs.checkTurn(playerID, PhaseBidding); err != nil {
		return err
	}
	if !suit.Valid() {
		return ErrInvalidSuit
	}
	if gs.CurrentBid != nil && !points.Beats(gs.CurrentBid.Points) {
		return ErrBidTooLow
	}
	return nil
}

func (gs *GameState) applyBid(playerID string, suit Suit, points BidPoints) {
	bid := Bid{PlayerID: playerID, Suit: suit, Points: points}
	gs.Bids = append(gs.Bids, bid)
	gs.CurrentBid = &bid
	gs.ConsecutivePasses = 0
	gs.CurrentPlayer = nextSeat(gs.CurrentPlayer)
}

// applyPass 返回 true 表示四家都不叫，需要重新发牌
func (gs *GameState) applyPass() (redeal bool) {
	passes := gs.ConsecutivePasses + 1

	if passes == Seats && gs.CurrentBid == nil {
		return true
	}

	gs.ConsecutivePasses = passes
	gs.CurrentPlayer = nextSeat(gs.CurrentPlayer)

	// 叫牌后连续三家不叫，叫牌结束
	if passes == Seats-1 && gs.CurrentBid != nil {
		gs.Phase = PhasePlaying
		gs.Trump = gs.CurrentBid.Suit
		gs.Leader = gs.CurrentPlayer
	}
	return false
}

func (gs *GameState) checkContre(playerID string) error {
	seat, err := gs.checkTurn(playerID, PhaseBidding)
	if err != nil {
		return err
	}
	if gs.CurrentBid == nil {
		return ErrNoCurrentBid
	}
	if gs.Players[seat].Team == gs.BidderTeam() {
		return ErrSameTeam
	}
	if gs.CurrentBid.Contre {
		return ErrAlreadyContred
	}
	return nil
}

func (gs *GameState) applyContre() {
	gs.CurrentBid.Contre = true
	gs.ConsecutivePasses = 0
	gs.CurrentPlayer = nextSeat(gs.CurrentPlayer)
}

func (gs *GameState) checkSurContre(playerID string) error {
	seat, err := gs.checkTurn(playerID, PhaseBidding)
	if err != nil {
		return err
	}
	if gs.CurrentBid == nil {
		return ErrNoCurrentBid
	}
	if gs.Players[seat].Team != gs.BidderTeam() {
		return ErrOtherTeam
	}
	if !gs.CurrentBid.Contre {
		return ErrNotContred
	}
	if gs.CurrentBid.SurContre {
		return ErrAlreadySurContred
	}
	return nil
}

func (gs *GameState) applySurContre() {
	gs.CurrentBid.SurContre = true
	gs.ConsecutivePasses = 0
	gs.CurrentPlayer = nextSeat(gs.CurrentPlayer)
}
