package belote

// Scores 两队累计分
type Scores struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Add 给队伍加分
func (s *Scores) Add(team Team, points int) {
	switch team {
	case Team1:
		s.Team1 += points
	case Team2:
		s.Team2 += points
	}
}

// Of 队伍分数
func (s Scores) Of(team Team) int {
	if team == Team2 {
		return s.Team2
	}
	return s.Team1
}

// TeamTricks 两队赢得的墩
type TeamTricks struct {
	Team1 []Cards `json:"team1"`
	Team2 []Cards `json:"team2"`
}

// Add 归档一墩
func (t *TeamTricks) Add(team Team, trick Cards) {
	switch team {
	case Team1:
		t.Team1 = append(t.Team1, trick)
	case Team2:
		t.Team2 = append(t.Team2, trick)
	}
}

// Count 已完成的墩数
func (t TeamTricks) Count() int {
	return len(t.Team1) + len(t.Team2)
}

// Of 队伍赢得的墩
func (t TeamTricks) Of(team Team) []Cards {
	if team == Team2 {
		return t.Team2
	}
	return t.Team1
}

// GameState 一手牌的完整状态
type GameState struct {
	ID                string        `json:"id"`
	Players           [Seats]Player `json:"players"`
	CurrentTrick      Cards         `json:"currentTrick"`
	Leader            int           `json:"leader"` // 当前一墩的首家座位
	Trump             Suit          `json:"trump"`
	Scores            Scores        `json:"scores"`
	CurrentPlayer     int           `json:"currentPlayer"`
	Phase             Phase         `json:"phase"`
	Bids              []Bid         `json:"bids"`
	CurrentBid        *Bid          `json:"currentBid"`
	ConsecutivePasses int           `json:"consecutivePasses"`
	Tricks            TeamTricks    `json:"tricks"`
}

// Clone 深拷贝
func (gs GameState) Clone() GameState {
	out := gs
	for i := range out.Players {
		out.Players[i].Hand = gs.Players[i].Hand.Clone()
	}
	out.CurrentTrick = gs.CurrentTrick.Clone()
	if gs.Bids != nil {
		out.Bids = make([]Bid, len(gs.Bids))
		copy(out.Bids, gs.Bids)
	}
	if gs.CurrentBid != nil {
		bid := *gs.CurrentBid
		out.CurrentBid = &bid
	}
	out.Tricks = TeamTricks{
		Team1: cloneTricks(gs.Tricks.Team1),
		Team2: cloneTricks(gs.Tricks.Team2),
	}
	return out
}

func cloneTricks(tricks []Cards) []Cards {
	if tricks == nil {
		return nil
	}
	out := make([]Cards, len(tricks))
	for i, t := range tricks {
		out[i] = t.Clone()
	}
	return out
}

// Seat 玩家座位，找不到返回 -1
func (gs GameState) Seat(playerID string) int {
	for i, p := range gs.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Current 当前行动的玩家
func (gs *GameState) Current() *Player {
	return &gs.Players[gs.CurrentPlayer]
}

// BidderTeam 当前叫牌所属队伍
func (gs GameState) BidderTeam() Team {
	if gs.CurrentBid == nil {
		return TeamNone
	}
	seat := gs.Seat(gs.CurrentBid.PlayerID)
	if seat < 0 {
		return TeamNone
	}
	return gs.Players[seat].Team
}

// CardsInPlay 手牌、当前一墩、已完成墩的所有牌
func (gs GameState) CardsInPlay() Cards {
	cards := make(Cards, 0, DeckSize)
	for _, p := range gs.Players {
		cards = append(cards, p.Hand...)
	}
	cards = append(cards, gs.CurrentTrick...)
	for _, t := range gs.Tricks.Team1 {
		cards = append(cards, t...)
	}
	for _, t := range gs.Tricks.Team2 {
		cards = append(cards, t...)
	}
	return cards
}

// AllHandsEmpty 所有玩家都已出完
func (gs GameState) AllHandsEmpty() bool {
	for _, p := range gs.Players {
		if p.HandCount() > 0 {
			return false
		}
	}
	return true
}

// IsFinished
func (gs GameState) IsFinished() bool {
	return gs.Phase == PhaseFinished
}

func nextSeat(seat int) int {
	return (seat + 1) % Seats
}
