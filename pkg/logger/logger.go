package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/play/contree/pkg/compile"
	"github.com/play/contree/pkg/config"
)

// Setup 配置全局 zerolog，w 为 nil 时输出到 stderr
// traced 打开时级别至少为 trace，牌局会记录每个被接受的动作
func Setup(cfg config.Log, w io.Writer) error {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Traced {
		level = zerolog.TraceLevel
	}

	switch cfg.Format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	case "json":
	default:
		return fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.New(w).With().Timestamp().Str("app", compile.Name).Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}
