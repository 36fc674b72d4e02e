package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/samsaffron/term-chat/internal/config"
)

// Dispatcher resolves a model key to its provider adapter and opens a stream.
type Dispatcher struct {
	registry  *Registry
	logger    *slog.Logger
	mu        sync.RWMutex
	providers map[config.ProviderType]ChatProvider
}

// NewDispatcher creates a dispatcher over registry with the given adapters.
func NewDispatcher(registry *Registry, logger *slog.Logger, providers ...ChatProvider) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{
		registry:  registry,
		logger:    logger,
		providers: make(map[config.ProviderType]ChatProvider),
	}
	for _, p := range providers {
		d.Register(p)
	}
	return d
}

// Register installs p as the adapter for its provider type, replacing any previous one.
func (d *Dispatcher) Register(p ChatProvider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.providers[p.Type()] = p
}

// Registry returns the model table the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Stream opens a response stream for history using the model named by modelKey.
//
// An unknown key or unregistered provider type is returned as an error. Once
// the adapter is selected, every failure (setup or mid-stream) is delivered as
// a single error fragment that ends the stream.
func (d *Dispatcher) Stream(ctx context.Context, history History, credential, modelKey string) (Stream, error) {
	desc, err := d.registry.Resolve(modelKey)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	provider, ok := d.providers[desc.Provider]
	d.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedProviderError{Provider: desc.Provider}
	}

	log := d.logger.With("model", desc.Key, "provider", string(desc.Provider))
	log.Debug("opening stream", "turns", len(history))

	inner, err := provider.StreamChat(ctx, ChatRequest{
		Model:      desc.WireID,
		History:    history.Clone(),
		Credential: credential,
	})
	if err != nil {
		log.Warn("stream setup failed", "error", err)
		return &failedStream{frag: ErrorFragment(err)}, nil
	}
	return &guardedStream{inner: inner, log: log}, nil
}

// guardedStream converts inner errors into one terminal error fragment.
type guardedStream struct {
	inner Stream
	log   *slog.Logger
	done  atomic.Bool
}

func (s *guardedStream) Recv() (Fragment, error) {
	if s.done.Load() {
		return Fragment{}, io.EOF
	}
	frag, err := s.inner.Recv()
	switch {
	case errors.Is(err, io.EOF):
		s.done.Store(true)
		s.log.Debug("stream finished")
		return Fragment{}, io.EOF
	case err != nil:
		s.done.Store(true)
		_ = s.inner.Close()
		s.log.Warn("stream failed", "error", err)
		return ErrorFragment(err), nil
	case frag.IsError():
		s.done.Store(true)
		_ = s.inner.Close()
		return frag, nil
	}
	return frag, nil
}

func (s *guardedStream) Close() error {
	s.done.Store(true)
	return s.inner.Close()
}

// failedStream yields a single error fragment.
type failedStream struct {
	frag Fragment
	sent atomic.Bool
}

func (s *failedStream) Recv() (Fragment, error) {
	if !s.sent.CompareAndSwap(false, true) {
		return Fragment{}, io.EOF
	}
	return s.frag, nil
}

func (s *failedStream) Close() error {
	s.sent.Store(true)
	return nil
}
