package extension

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Extension 进程依赖的外部资源（Redis 连接、事件订阅等）
type Extension interface {
	Name() string
	Load(ctx context.Context) error
	Exit()
}

// Func 用函数构造扩展
type Func struct {
	ExtName string
	OnLoad  func(ctx context.Context) error
	OnExit  func()
}

func (f Func) Name() string { return f.ExtName }

func (f Func) Load(ctx context.Context) error {
	if f.OnLoad == nil {
		return nil
	}
	return f.OnLoad(ctx)
}

func (f Func) Exit() {
	if f.OnExit != nil {
		f.OnExit()
	}
}

// Manager 按注册顺序加载，按相反顺序退出
type Manager struct {
	mu         sync.Mutex
	registered []Extension
	loaded     []Extension
}

func NewManager() *Manager {
	return &Manager{}
}

// Register 注册扩展，nil 忽略
func (m *Manager) Register(exts ...Extension) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ext := range exts {
		if ext == nil {
			log.Warn().Msg("attempted to register a nil extension")
			continue
		}
		m.registered = append(m.registered, ext)
		log.Trace().Str("extension", ext.Name()).Msg("extension registered")
	}
}

func exitReverse(exts []Extension) {
	for i := len(exts) - 1; i >= 0; i-- {
		exts[i].Exit()
		log.Debug().Str("extension", exts[i].Name()).Msg("extension exited")
	}
}

// LoadAll 依次加载，任一失败时回滚本次已加载的扩展并返回错误
// 已加载的扩展只在全部成功后才替换
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var loaded []Extension
	for _, ext := range m.registered {
		if err := ext.Load(ctx); err != nil {
			log.Error().Err(err).Str("extension", ext.Name()).Msg("failed to load extension")
			exitReverse(loaded)
			return fmt.Errorf("load extension %q: %w", ext.Name(), err)
		}
		loaded = append(loaded, ext)
		log.Debug().Str("extension", ext.Name()).Msg("extension loaded")
	}
	m.loaded = loaded
	return nil
}

// ExitAll 反向退出已加载的扩展
func (m *Manager) ExitAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	exitReverse(m.loaded)
	m.loaded = nil
}

// Loaded 已加载扩展的名称
func (m *Manager) Loaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.loaded))
	for _, ext := range m.loaded {
		names = append(names, ext.Name())
	}
	return names
}
