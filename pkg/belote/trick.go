package belote

const trumpBonus = 100

// compareValue 一墩中用于比较大小的分值
// 将牌 = 将牌分值 + 100，首花色 = 普通分值，其它牌 = -1 不可能赢
func compareValue(c Card, lead, trump Suit) int {
	if trump != SuitNone && c.Suit == trump {
		return TrumpValue(c.Rank) + trumpBonus
	}
	if c.Suit == lead {
		return NormalValue(c.Rank)
	}
	return -1
}

// TrickWinner 返回赢家相对首家的位置 0-3，牌数不是 4 时返回 -1
func TrickWinner(trick Cards, trump Suit) int {
	if len(trick) != TrickSize {
		return -1
	}

	lead := trick[0].Suit
	winner := 0
	best := compareValue(trick[0], lead, trump)
	for i := 1; i < len(trick); i++ {
		// 同分时先出的牌保留这一墩
		v := compareValue(trick[i], lead, trump)
		if v > best {
			best = v
			winner = i
		}
	}
	return winner
}

// TrickPoints 一墩的分值，没有末墩奖励
func TrickPoints(trick Cards, trump Suit) int {
	return trick.Points(trump)
}
