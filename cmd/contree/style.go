package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/play/contree/pkg/belote"
	"github.com/play/contree/pkg/sim"
)

func seatPanel(gs belote.GameState, seat int) pterm.Panel {
	p := gs.Players[seat]
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTopPadding(1).WithBottomPadding(1)

	title := pterm.LightCyan(fmt.Sprintf("|%s|", p.Name))
	if seat == gs.CurrentPlayer && !gs.IsFinished() {
		title = pterm.LightYellow(fmt.Sprintf("|%s *|", p.Name))
	}
	var b strings.Builder
	b.WriteString(pterm.Sprintfln("id: %s  team: %d", p.ID, p.Team))
	if len(p.Hand) == 0 {
		b.WriteString(pterm.Gray("no cards"))
	} else {
		b.WriteString(p.Hand.String())
	}
	return pterm.Panel{Data: pbox.WithTitle(title).WithTitleTopCenter().Sprint(b.String())}
}

func boardPanel(gs belote.GameState) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)

	var b strings.Builder
	b.WriteString(pterm.Sprintfln("phase: %s", gs.Phase))
	if bid := gs.CurrentBid; bid != nil {
		mult := ""
		switch {
		case bid.SurContre:
			mult = " surcontre"
		case bid.Contre:
			mult = " contre"
		}
		b.WriteString(pterm.Sprintfln("contract: %s %s by %s%s", bid.Points, bid.Suit, bid.PlayerID, mult))
	}
	b.WriteString(pterm.Sprintfln("tricks: %d/%d", gs.Tricks.Count(), belote.TricksInHand))
	if len(gs.CurrentTrick) > 0 {
		b.WriteString(pterm.Sprintfln("on table: %s", gs.CurrentTrick.String()))
	}
	b.WriteString(fmt.Sprintf("team1 %s  team2 %s",
		pterm.LightGreen(gs.Scores.Team1), pterm.LightGreen(gs.Scores.Team2)))
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|BOARD|")).WithTitleTopCenter().Sprint(b.String())}
}

// printState 四个座位加中间的牌面信息
func printState(gs belote.GameState) error {
	return pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{seatPanel(gs, 0), seatPanel(gs, 1)},
		{boardPanel(gs)},
		{seatPanel(gs, 3), seatPanel(gs, 2)},
	}).Render()
}

func printSummary(s sim.Summary) error {
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(pterm.TableData{
		{"hands", "steps", "redeals", "capots", "contres", "team1", "team2"},
		{
			fmt.Sprint(s.Hands), fmt.Sprint(s.Steps), fmt.Sprint(s.Redeals),
			fmt.Sprint(s.Capots), fmt.Sprint(s.Contres),
			fmt.Sprint(s.Team1), fmt.Sprint(s.Team2),
		},
	}).Render()
}
