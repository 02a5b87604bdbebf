package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/play/contree/pkg/belote"
	"github.com/play/contree/pkg/bot"
	"github.com/play/contree/pkg/compile"
	"github.com/play/contree/pkg/config"
	"github.com/play/contree/pkg/extension"
	"github.com/play/contree/pkg/logger"
	"github.com/play/contree/pkg/pubsub"
	"github.com/play/contree/pkg/ratelimit"
	"github.com/play/contree/pkg/redlock"
	"github.com/play/contree/pkg/sim"
	"github.com/play/contree/pkg/table"
)

const usage = `usage: contree <command> [flags]

commands:
  sim      run bot self-play and check the rules engine invariants
  table    play a bot game on a Redis backed table
  version  print build information
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd := os.Args[1]
	if cmd == "version" {
		compile.Print(os.Stdout)
		return
	}

	fs := config.Flags("contree " + cmd)
	if err := fs.Parse(os.Args[2:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logger.Setup(cfg.Log, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	compile.Log()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	switch cmd {
	case "sim":
		err = runSim(ctx, cfg)
	case "table":
		err = runTable(ctx, cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		os.Exit(1)
	}
}

func runSim(ctx context.Context, cfg *config.Config) error {
	opts := sim.Options{
		MaxSteps:     cfg.Sim.MaxSteps,
		BidChance:    cfg.Bot.BidChance,
		ContreChance: cfg.Bot.ContreChance,
	}
	summary, err := sim.RunMany(ctx, sim.Seeds(cfg.Sim.Seed, cfg.Sim.Seeds), cfg.Sim.Concurrency, opts)
	log.Info().Int("hands", summary.Hands).Int("steps", summary.Steps).Int("redeals", summary.Redeals).
		Int("capots", summary.Capots).Int("contres", summary.Contres).
		Int("team1", summary.Team1).Int("team2", summary.Team2).Msg("simulation summary")
	if cfg.Log.Format == "console" {
		if perr := printSummary(summary); perr != nil {
			log.Warn().Err(perr).Msg("render summary")
		}
	}
	return err
}

func runTable(ctx context.Context, cfg *config.Config) error {
	var (
		rdb *redis.Client
		ps  *pubsub.PubSub
	)
	exts := extension.NewManager()
	exts.Register(
		extension.Func{
			ExtName: "redis",
			OnLoad: func(ctx context.Context) error {
				rdb = redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				return rdb.Ping(ctx).Err()
			},
			OnExit: func() { _ = rdb.Close() },
		},
		extension.Func{
			ExtName: "pubsub",
			OnLoad: func(context.Context) error {
				ps = pubsub.New(rdb, pubsub.WithQueueSize(cfg.Table.QueueSize), pubsub.WithRecovery())
				return nil
			},
			OnExit: func() { _ = ps.Close() },
		},
	)
	if err := exts.LoadAll(ctx); err != nil {
		return err
	}
	defer exts.ExitAll()

	locker, err := redlock.NewRedLock(rdb, redlock.WithTtl(cfg.Table.LockTTL))
	if err != nil {
		return err
	}
	store := table.NewStore(rdb, table.WithTTL(cfg.Table.TTL), table.WithCache(cfg.Table.CacheSize, cfg.Table.CacheTTL))
	svc := table.NewService(store, locker,
		table.WithPubSub(ps),
		table.WithLimiter(ratelimit.NewKeyed(cfg.RateLimit, rdb)),
		table.WithGameOptions(belote.WithSeed(cfg.Sim.Seed)),
	)

	snap, err := svc.Create(ctx)
	if err != nil {
		return err
	}
	if _, err := svc.SetExtra(ctx, snap.TableID, "host", compile.Id()); err != nil {
		return err
	}

	sub, err := pubsub.Subscribe(ctx, ps, table.Topic(snap.TableID), func(ctx context.Context, ev table.Event) {
		log.Info().Str("table", ev.TableID).Int64("version", ev.Version).Stringer("action", ev.Action).
			Str("player", ev.Action.PlayerID).Stringer("phase", ev.Phase).
			Int("team1", ev.Scores.Team1).Int("team2", ev.Scores.Team2).Bool("redealt", ev.Redealt).Msg("table event")
	}, pubsub.WithConcurrency(cfg.Table.Concurrent))
	if err != nil {
		return err
	}
	sub.Loop()

	d := bot.NewDriver(svc.Seat(snap.TableID), bot.WithDelay(cfg.Bot.Delay), bot.WithAllSeats(func(seat int) bot.Strategy {
		return bot.NewRandom(cfg.Sim.Seed*belote.Seats+uint64(seat), cfg.Bot.BidChance, cfg.Bot.ContreChance)
	}))
	if err := d.Run(ctx); err != nil {
		return err
	}

	final, err := svc.Get(ctx, snap.TableID)
	if err != nil {
		return err
	}
	bid := final.State.CurrentBid
	log.Info().Str("table", final.TableID).Str("game", final.State.ID).
		Stringer("trump", final.State.Trump).Stringer("contract", bid.Points).Str("bidder", bid.PlayerID).
		Int("team1", final.State.Scores.Team1).Int("team2", final.State.Scores.Team2).Msg("hand finished")
	if cfg.Log.Format == "console" {
		return printState(final.State)
	}
	return nil
}
