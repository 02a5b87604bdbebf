package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/play/contree/pkg/belote"
	"github.com/play/contree/pkg/bot"
	"github.com/play/contree/pkg/worker"
)

// HandPoints 一手牌有将时的总分
const HandPoints = 152

// 失败时附带的最近动作数
const tailActions = 20

var ErrStepLimit = errors.New("sim: step limit reached")

// Options 自对弈参数
type Options struct {
	MaxSteps     int
	BidChance    float64
	ContreChance float64
}

func DefaultOptions() Options {
	return Options{MaxSteps: 1000, BidChance: 0.3, ContreChance: 0.05}
}

// Result 一手牌的结果
type Result struct {
	Seed    uint64
	GameID  string
	Steps   int
	Redeals int
	Bid     belote.Bid
	Scores  belote.Scores
}

type record struct {
	step   int
	phase  belote.Phase
	seat   int
	action belote.Action
}

// RunHand 四个随机机器人打完一手牌，每个动作后检查不变量
func RunHand(seed uint64, opts Options) (Result, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultOptions().MaxSteps
	}
	g := belote.New(belote.WithSeed(seed))
	state := g.Deal()

	bots := [belote.Seats]*bot.Random{}
	for i := range bots {
		bots[i] = bot.NewRandom(seed*belote.Seats+uint64(i), opts.BidChance, opts.ContreChance)
	}

	res := Result{Seed: seed}
	var records []record
	fail := func(step int, reason string) error {
		return failure(seed, step, state, records, reason)
	}

	for step := 0; step < opts.MaxSteps; step++ {
		if state.IsFinished() {
			break
		}
		seat := state.CurrentPlayer
		if seat < 0 || seat >= belote.Seats {
			return res, fail(step, fmt.Sprintf("current player %d out of range", seat))
		}
		action, ok := bots[seat].Decide(state, seat)
		if !ok {
			return res, fail(step, "bot has no action")
		}
		if err := g.Apply(action); err != nil {
			return res, fail(step, fmt.Sprintf("apply %v: %v", action, err))
		}
		records = append(records, record{step: step, phase: state.Phase, seat: seat, action: action})

		next := g.State()
		if next.ID != state.ID {
			res.Redeals++
		}
		if err := checkTransition(state, next); err != nil {
			state = next
			return res, fail(step, err.Error())
		}
		state = next
		res.Steps = step + 1
	}

	if !state.IsFinished() {
		return res, fmt.Errorf("%w: %w", ErrStepLimit, fail(res.Steps, "hand not finished"))
	}
	if err := checkFinished(state); err != nil {
		return res, fail(res.Steps, err.Error())
	}

	res.GameID = state.ID
	res.Scores = state.Scores
	res.Bid = *state.CurrentBid
	return res, nil
}

// checkTransition 检查一个被接受的动作前后的状态
func checkTransition(prev, next belote.GameState) error {
	if err := checkState(next); err != nil {
		return err
	}
	if prev.ID != next.ID {
		// 重新发牌
		if next.Phase != belote.PhaseBidding || next.CurrentBid != nil {
			return fmt.Errorf("redeal left phase %v", next.Phase)
		}
		return nil
	}
	if prev.Phase == belote.PhasePlaying && next.Trump != prev.Trump {
		return fmt.Errorf("trump changed from %v to %v during play", prev.Trump, next.Trump)
	}
	if next.Scores.Team1 < prev.Scores.Team1 || next.Scores.Team2 < prev.Scores.Team2 {
		return fmt.Errorf("scores decreased: %+v -> %+v", prev.Scores, next.Scores)
	}
	if len(next.Bids) < len(prev.Bids) {
		return errors.New("bid log shrank")
	}
	return nil
}

func checkState(gs belote.GameState) error {
	cards := gs.CardsInPlay()
	if len(cards) != belote.DeckSize {
		return fmt.Errorf("card count mismatch: %d", len(cards))
	}
	seen := make(map[belote.Card]bool, belote.DeckSize)
	for _, c := range cards {
		if seen[c] {
			return fmt.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if n := len(gs.CurrentTrick); n >= belote.TrickSize {
		return fmt.Errorf("invalid trick size %d", n)
	}
	if gs.CurrentPlayer < 0 || gs.CurrentPlayer >= belote.Seats {
		return fmt.Errorf("current player %d out of range", gs.CurrentPlayer)
	}
	if gs.Phase == belote.PhasePlaying || gs.Phase == belote.PhaseFinished {
		if gs.CurrentBid == nil || gs.Trump != gs.CurrentBid.Suit {
			return fmt.Errorf("trump %v does not match the contract", gs.Trump)
		}
	}
	for _, team := range []belote.Team{belote.Team1, belote.Team2} {
		won := 0
		for _, t := range gs.Tricks.Of(team) {
			won += belote.TrickPoints(t, gs.Trump)
		}
		if won != gs.Scores.Of(team) {
			return fmt.Errorf("team%d score %d, tricks worth %d", team, gs.Scores.Of(team), won)
		}
	}
	return nil
}

func checkFinished(gs belote.GameState) error {
	if n := gs.Tricks.Count(); n != belote.TricksInHand {
		return fmt.Errorf("finished with %d tricks", n)
	}
	if total := gs.Scores.Team1 + gs.Scores.Team2; total != HandPoints {
		return fmt.Errorf("points %d, want %d", total, HandPoints)
	}
	return nil
}

func failure(seed uint64, step int, gs belote.GameState, records []record, reason string) error {
	start := max(len(records)-tailActions, 0)
	var b strings.Builder
	for _, r := range records[start:] {
		fmt.Fprintf(&b, "[s%d p%d %v] %v\n", r.step, r.seat, r.phase, r.action)
	}
	return fmt.Errorf("seed=%d game=%s step=%d phase=%v reason=%s\nlast actions:\n%s",
		seed, gs.ID, step, gs.Phase, reason, b.String())
}

// Summary 多手牌的汇总
type Summary struct {
	Hands   int
	Steps   int
	Redeals int
	Capots  int
	Contres int
	Team1   int
	Team2   int
}

func (s *Summary) add(r Result) {
	s.Hands++
	s.Steps += r.Steps
	s.Redeals += r.Redeals
	s.Team1 += r.Scores.Team1
	s.Team2 += r.Scores.Team2
	if r.Bid.Points.IsCapot() {
		s.Capots++
	}
	if r.Bid.Contre {
		s.Contres++
	}
}

// RunMany 在 worker 池上并发运行 seeds 中的每一手牌
// 所有失败合并为一个错误返回，Summary 只统计成功的手牌
func RunMany(ctx context.Context, seeds []uint64, concurrency int, opts Options) (Summary, error) {
	wp := worker.NewWorkerPool(concurrency)

	var (
		mu      sync.Mutex
		summary Summary
	)
	var submitErr error
	for _, seed := range seeds {
		_, err := wp.Do(ctx, func(ctx context.Context) error {
			res, err := RunHand(seed, opts)
			if err != nil {
				log.Ctx(ctx).Error().Err(err).Uint64("seed", seed).Msg("self-play failed")
				return err
			}
			mu.Lock()
			summary.add(res)
			mu.Unlock()
			return nil
		})
		if err != nil {
			submitErr = err
			break
		}
	}

	err := errors.Join(wp.Wait(), submitErr)
	log.Ctx(ctx).Info().Int("hands", summary.Hands).Int("redeals", summary.Redeals).
		Int("team1", summary.Team1).Int("team2", summary.Team2).Msg("self-play finished")
	return summary, err
}

// Seeds 从 first 开始的 n 个连续种子
func Seeds(first uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = first + uint64(i)
	}
	return seeds
}
