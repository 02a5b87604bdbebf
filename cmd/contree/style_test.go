package main

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/play/contree/pkg/belote"
)

func TestPanels(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	g := belote.New(belote.WithSeed(3), belote.WithNames([belote.Seats]string{"Ana", "Bo", "Cy", "Di"}))
	gs := g.Deal()
	is := assert.New(t)

	seat := seatPanel(gs, 2).Data
	is.Contains(seat, "Cy")
	is.Contains(seat, gs.Players[2].Hand[0].String())

	is.NoError(g.SetBid(gs.Players[0].ID, belote.SuitClubs, belote.Points(90)))
	board := boardPanel(g.State()).Data
	is.Contains(board, "phase: bidding")
	is.Contains(board, "contract: 90 clubs")
	is.Contains(board, "tricks: 0/8")
}
