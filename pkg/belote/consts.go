package belote

import (
	"errors"
	"fmt"
)

// Suit 牌的花色
type Suit uint8

const (
	SuitNone Suit = iota // 无将
	SuitHearts
	SuitDiamonds
	SuitClubs
	SuitSpades
)

// Suits 四种花色，按建牌顺序
var Suits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

var suitNames = [...]string{"", "hearts", "diamonds", "clubs", "spades"}

var suitSymbols = [...]string{"?", "♥", "♦", "♣", "♠"}

func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return fmt.Sprintf("suit(%d)", s)
}

// Valid 是否为四种花色之一
func (s Suit) Valid() bool {
	return s >= SuitHearts && s <= SuitSpades
}

func (s Suit) MarshalText() ([]byte, error) {
	if s != SuitNone && !s.Valid() {
		return nil, fmt.Errorf("belote: invalid suit %d", s)
	}
	return []byte(suitNames[s]), nil
}

func (s *Suit) UnmarshalText(data []byte) error {
	for i, name := range suitNames {
		if name == string(data) {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("belote: unknown suit %q", data)
}

// Rank 牌的点数
type Rank uint8

const (
	RankNone Rank = iota
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
)

// Ranks 八种点数
var Ranks = [8]Rank{Rank7, Rank8, Rank9, Rank10, RankJ, RankQ, RankK, RankA}

var rankNames = [...]string{"", "7", "8", "9", "10", "J", "Q", "K", "A"}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return fmt.Sprintf("rank(%d)", r)
}

func (r Rank) Valid() bool {
	return r >= Rank7 && r <= RankA
}

func (r Rank) MarshalText() ([]byte, error) {
	if r != RankNone && !r.Valid() {
		return nil, fmt.Errorf("belote: invalid rank %d", r)
	}
	return []byte(rankNames[r]), nil
}

func (r *Rank) UnmarshalText(data []byte) error {
	for i, name := range rankNames {
		if name == string(data) {
			*r = Rank(i)
			return nil
		}
	}
	return fmt.Errorf("belote: unknown rank %q", data)
}

// Phase 牌局阶段
type Phase uint8

const (
	PhaseNone     Phase = iota // 尚未发牌
	PhaseBidding               // 叫牌
	PhasePlaying               // 出牌
	PhaseFinished              // 已结束
)

var phaseNames = [...]string{"", "bidding", "playing", "finished"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

func (p Phase) MarshalText() ([]byte, error) {
	if int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("belote: invalid phase %d", p)
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(data []byte) error {
	for i, name := range phaseNames {
		if name == string(data) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("belote: unknown phase %q", data)
}

// Team 队伍，座位 0、2 为一队，1、3 为二队
type Team uint8

const (
	TeamNone Team = iota
	Team1
	Team2
)

const (
	Seats        = 4
	HandSize     = 8
	DeckSize     = Seats * HandSize
	TrickSize    = Seats
	TricksInHand = HandSize
)

// 拒绝原因
var (
	ErrWrongPhase        = errors.New("action not allowed in this phase")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInvalidSuit       = errors.New("invalid suit")
	ErrBidTooLow         = errors.New("bid does not beat the current bid")
	ErrNoCurrentBid      = errors.New("no bid on the table")
	ErrSameTeam          = errors.New("cannot contre your own team")
	ErrOtherTeam         = errors.New("only the bidding team can surcontre")
	ErrAlreadyContred    = errors.New("bid already contred")
	ErrNotContred        = errors.New("bid not contred")
	ErrAlreadySurContred = errors.New("bid already surcontred")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrMustFollowSuit    = errors.New("must follow the lead suit")
	ErrUnknownAction     = errors.New("unknown action")
)
