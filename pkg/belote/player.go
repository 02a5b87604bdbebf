package belote

// Player 玩家信息
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hand     Cards  `json:"hand"`
	Team     Team   `json:"team"`
	Position int    `json:"position"`
}

// NewPlayer 创建玩家，队伍由座位奇偶决定
func NewPlayer(id, name string, position int) Player {
	return Player{
		ID:       id,
		Name:     name,
		Team:     TeamOf(position),
		Position: position,
	}
}

// TeamOf 座位所属队伍，偶数座位为一队
func TeamOf(seat int) Team {
	if seat%2 == 0 {
		return Team1
	}
	return Team2
}

// HandCount 手牌数量
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// Playable 当前一墩中可以出的牌，有首花色必须跟
func (p *Player) Playable(trick Cards) Cards {
	if len(trick) == 0 {
		return p.Hand.Clone()
	}
	lead := trick[0].Suit
	if p.Hand.HasSuit(lead) {
		return p.Hand.OfSuit(lead)
	}
	return p.Hand.Clone()
}
