package testsupport

import (
	"context"
	"log/slog"
	"sync"

	"videnc/internal/config"
	"videnc/internal/stats"
)

// FakeEngine is an in-memory engine.Engine that counts lifecycle calls.
// EncodeFunc, when set, runs inside Encode against the live recorder.
type FakeEngine struct {
	CreateErr    error
	ConfigureErr error
	DestroyErr   error
	EncodeFunc   func(ctx context.Context, rec stats.Recorder) error

	mu         sync.Mutex
	creates    int
	configures int
	encodes    int
	destroys   int
	cfg        *config.Config
}

func (f *FakeEngine) Create(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	return f.CreateErr
}

func (f *FakeEngine) Configure(cfg *config.Config, _ *slog.Logger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configures++
	f.cfg = cfg
	return f.ConfigureErr
}

func (f *FakeEngine) Encode(ctx context.Context, rec stats.Recorder) error {
	f.mu.Lock()
	f.encodes++
	fn := f.EncodeFunc
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, rec)
}

func (f *FakeEngine) Destroy() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroys++
	return f.DestroyErr
}

// Calls returns the create, configure, encode, and destroy counts.
func (f *FakeEngine) Calls() (creates, configures, encodes, destroys int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.configures, f.encodes, f.destroys
}

// Config returns the configuration passed to Configure.
func (f *FakeEngine) Config() *config.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}
