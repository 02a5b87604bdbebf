package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/play/contree/pkg/ratelimit"
)

// EnvPrefix 环境变量前缀，例如 CONTREE_REDIS_ADDR
const EnvPrefix = "CONTREE"

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console 或 json
	Traced bool   `mapstructure:"traced"` // 打开后输出每个被接受的动作
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Table struct {
	TTL        time.Duration `mapstructure:"ttl"`
	CacheSize  int           `mapstructure:"cache_size"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	LockTTL    time.Duration `mapstructure:"lock_ttl"`
	QueueSize  int           `mapstructure:"queue_size"`
	Concurrent int           `mapstructure:"concurrent"` // 事件处理并发数
}

type Bot struct {
	Delay        time.Duration `mapstructure:"delay"`
	BidChance    float64       `mapstructure:"bid_chance"`
	ContreChance float64       `mapstructure:"contre_chance"`
}

type Sim struct {
	Seeds       int    `mapstructure:"seeds"`
	Concurrency int    `mapstructure:"concurrency"`
	MaxSteps    int    `mapstructure:"max_steps"`
	Seed        uint64 `mapstructure:"-"` // 由 cast 解析，可以是字符串
}

type Config struct {
	Log       Log              `mapstructure:"log"`
	Redis     Redis            `mapstructure:"redis"`
	Table     Table            `mapstructure:"table"`
	Bot       Bot              `mapstructure:"bot"`
	Sim       Sim              `mapstructure:"sim"`
	RateLimit ratelimit.Config `mapstructure:"ratelimit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.traced", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("table.ttl", 24*time.Hour)
	v.SetDefault("table.cache_size", 1024)
	v.SetDefault("table.cache_ttl", time.Minute)
	v.SetDefault("table.lock_ttl", 3*time.Second)
	v.SetDefault("table.queue_size", 1000)
	v.SetDefault("table.concurrent", 1)

	v.SetDefault("bot.delay", time.Second)
	v.SetDefault("bot.bid_chance", 0.3)
	v.SetDefault("bot.contre_chance", 0.05)

	v.SetDefault("sim.seeds", 100)
	v.SetDefault("sim.concurrency", 8)
	v.SetDefault("sim.max_steps", 1000)
	v.SetDefault("sim.seed", 1)

	d := ratelimit.DefaultConfig()
	v.SetDefault("ratelimit.count", d.Count)
	v.SetDefault("ratelimit.duration", d.Duration)
	v.SetDefault("ratelimit.redis", false)
}

// Flags 命令行参数，名称与配置键对应
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (yaml, json or toml)")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "console", "log output: console or json")
	fs.String("redis", "localhost:6379", "redis address")
	fs.Int("seeds", 100, "number of hands to simulate")
	fs.Int("concurrency", 8, "simulation workers")
	fs.String("seed", "1", "first simulation seed")
	fs.Duration("delay", time.Second, "delay between bot moves")
	fs.Float64("bid-chance", 0.3, "probability that a bot bids instead of passing")
	return fs
}

var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-format":  "log.format",
	"redis":       "redis.addr",
	"seeds":       "sim.seeds",
	"concurrency": "sim.concurrency",
	"seed":        "sim.seed",
	"delay":       "bot.delay",
	"bid-chance":  "bot.bid_chance",
}

// Load 按 默认值 < 配置文件 < 环境变量 < 命令行 的优先级合并配置
// fs 须已完成 Parse，可以为 nil
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", flag, err)
				}
			}
		}
		if file, _ := fs.GetString("config"); file != "" {
			v.SetConfigFile(file)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", file, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	seed, err := cast.ToUint64E(v.Get("sim.seed"))
	if err != nil {
		return nil, fmt.Errorf("config: sim.seed: %w", err)
	}
	cfg.Sim.Seed = seed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	var errs []error
	if c.Sim.Seeds < 0 {
		errs = append(errs, errors.New("sim.seeds must not be negative"))
	}
	if c.Sim.Concurrency < 1 {
		errs = append(errs, errors.New("sim.concurrency must be at least 1"))
	}
	if c.Bot.BidChance < 0 || c.Bot.BidChance > 1 {
		errs = append(errs, fmt.Errorf("bot.bid_chance %v out of [0,1]", c.Bot.BidChance))
	}
	if c.Bot.ContreChance < 0 || c.Bot.ContreChance > 1 {
		errs = append(errs, fmt.Errorf("bot.contre_chance %v out of [0,1]", c.Bot.ContreChance))
	}
	if c.Bot.Delay < 0 {
		errs = append(errs, errors.New("bot.delay must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
