package belote

import "fmt"

// ActionKind 动作类型
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionDeal
	ActionBid
	ActionPass
	ActionContre
	ActionSurContre
	ActionPlay
)

var actionNames = [...]string{"", "deal", "bid", "pass", "contre", "surcontre", "play"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("action(%d)", k)
}

func (k ActionKind) MarshalText() ([]byte, error) {
	if int(k) >= len(actionNames) {
		return nil, fmt.Errorf("belote: invalid action kind %d", k)
	}
	return []byte(actionNames[k]), nil
}

func (k *ActionKind) UnmarshalText(data []byte) error {
	for i, name := range actionNames {
		if name == string(data) {
			*k = ActionKind(i)
			return nil
		}
	}
	return fmt.Errorf("belote: unknown action kind %q", data)
}

// Action 任意参与者（真人或机器人）提交的动作
type Action struct {
	Kind     ActionKind `json:"kind"`
	PlayerID string     `json:"playerId,omitempty"`
	Suit     Suit       `json:"suit,omitempty"`
	Points   BidPoints  `json:"points"`
	Card     *Card      `json:"card,omitempty"`
}

func DealAction() Action {
	return Action{Kind: ActionDeal}
}

func BidAction(playerID string, suit Suit, points BidPoints) Action {
	return Action{Kind: ActionBid, PlayerID: playerID, Suit: suit, Points: points}
}

func PassAction(playerID string) Action {
	return Action{Kind: ActionPass, PlayerID: playerID}
}

func ContreAction(playerID string) Action {
	return Action{Kind: ActionContre, PlayerID: playerID}
}

func SurContreAction(playerID string) Action {
	return Action{Kind: ActionSurContre, PlayerID: playerID}
}

func PlayAction(playerID string, card Card) Action {
	return Action{Kind: ActionPlay, PlayerID: playerID, Card: &card}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionBid:
		return fmt.Sprintf("bid %s %s", a.Points, a.Suit)
	case ActionPlay:
		if a.Card == nil {
			return "play ?"
		}
		return "play " + a.Card.String()
	default:
		return a.Kind.String()
	}
}
