package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Provider 持有进程内共享的 Engine 实例，首个调用方触发加载并承担成本，
// 后续调用方直接复用。并发的首次调用通过 singleflight 合并为一次加载，
// 不会出现重复读盘。
//
// 运行期不支持热重载；Reset 显式清空缓存后，下一个调用方重新加载。
type Provider struct {
	load func(ctx context.Context) (*Engine, error)

	group  singleflight.Group
	mu     sync.RWMutex
	engine *Engine
}

// NewProvider 创建 Provider。load 只在需要时被调用，失败不缓存，
// 下一个调用方会重试。
func NewProvider(load func(ctx context.Context) (*Engine, error)) *Provider {
	return &Provider{load: load}
}

// Get 返回共享的 Engine，必要时先加载。
func (p *Provider) Get(ctx context.Context) (*Engine, error) {
	p.mu.RLock()
	e := p.engine
	p.mu.RUnlock()
	if e != nil {
		return e, nil
	}

	v, err, _ := p.group.Do("engine", func() (any, error) {
		p.mu.RLock()
		cached := p.engine
		p.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		loaded, err := p.load(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.engine = loaded
		p.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Engine), nil
}

// Reset 清空缓存的 Engine。唯一的重载机制，下一次 Get 重新加载。
func (p *Provider) Reset() {
	p.mu.Lock()
	p.engine = nil
	p.mu.Unlock()
}
