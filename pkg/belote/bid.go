package belote

import (
	"bytes"
	"fmt"
	"strconv"
)

// CapotPoints 与数字叫分比较时 capot 的等价分值
const CapotPoints = 170

const (
	MinBidPoints  = 80
	MaxBidPoints  = 160
	BidPointsStep = 10
)

var capotLiteral = []byte(`"capot"`)

// BidPoints 叫分，数字或 capot
type BidPoints struct {
	capot bool
	n     int
}

// Points 数字叫分
func Points(n int) BidPoints {
	return BidPoints{n: n}
}

// Capot 全胜叫分
func Capot() BidPoints {
	return BidPoints{capot: true}
}

func (p BidPoints) IsCapot() bool {
	return p.capot
}

// Value 比较用的分值，capot 为 CapotPoints
func (p BidPoints) Value() int {
	if p.capot {
		return CapotPoints
	}
	return p.n
}

// Beats 是否严格大于另一个叫分
func (p BidPoints) Beats(o BidPoints) bool {
	return p.Value() > o.Value()
}

func (p BidPoints) String() string {
	if p.capot {
		return "capot"
	}
	return strconv.Itoa(p.n)
}

func (p BidPoints) MarshalJSON() ([]byte, error) {
	if p.capot {
		return capotLiteral, nil
	}
	return strconv.AppendInt(nil, int64(p.n), 10), nil
}

func (p *BidPoints) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, capotLiteral) {
		*p = Capot()
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("belote: bid points must be a number or \"capot\": %w", err)
	}
	*p = Points(n)
	return nil
}

// Bid 一次叫牌
type Bid struct {
	PlayerID  string    `json:"playerId"`
	Suit      Suit      `json:"suit"`
	Points    BidPoints `json:"points"`
	Contre    bool      `json:"contre"`
	SurContre bool      `json:"surContre"`
}

// BidSteps 可选叫分：80 到 160，每档 10 分，最后是 capot
func BidSteps() []BidPoints {
	steps := make([]BidPoints, 0, (MaxBidPoints-MinBidPoints)/BidPointsStep+2)
	for n := MinBidPoints; n <= MaxBidPoints; n += BidPointsStep {
		steps = append(steps, Points(n))
	}
	return append(steps, Capot())
}
