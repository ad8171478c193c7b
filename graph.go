package flo

import (
	"errors"
	"fmt"
	"sync"
)

// Logger is a global interface for flo loggers
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

var defaultLogger silentLogger

// Graph serializes edits and rendering of nodes wired together. Nodes
// don't know about the graph: it's the caller's responsibility to do every
// edit of nodes rendered by the graph through it.
type Graph struct {
	uid  string
	name string
	mu   sync.Mutex
	log  Logger
}

// Option provides a way to set functional parameters to graph.
type Option func(g *Graph)

// New creates a new graph and applies provided options.
func New(options ...Option) *Graph {
	g := &Graph{
		uid: newUID(),
		log: defaultLogger,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// WithLogger sets logger to Graph. If this option is not provided, silent logger is used.
func WithLogger(logger Logger) Option {
	return func(g *Graph) {
		g.log = logger
	}
}

// WithName sets name to Graph.
func WithName(n string) Option {
	return func(g *Graph) {
		g.name = n
	}
}

// ID returns unique id of the graph.
func (g *Graph) ID() string {
	return g.uid
}

// Name returns graph name.
func (g *Graph) Name() string {
	return g.name
}

// ConnectSound connects src to in. The previous source of in is replaced.
// Nil src is rejected with ErrNotConnected, DisconnectSound removes the
// source.
func (g *Graph) ConnectSound(in SoundInput, src Source) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	base := in.soundInputBase()
	if src == nil {
		return &ConnectionError{Op: "connect sound", Dst: base.String(), Err: ErrNotConnected}
	}
	if err := base.SetSource(src); err != nil {
		return &ConnectionError{
			Op:  "connect sound",
			Dst: base.String(),
			Src: src.soundSource().String(),
			Err: err,
		}
	}
	g.log.Debug(fmt.Sprintf("%v: connected sound %v to %v", g, src.soundSource(), base))
	return nil
}

// DisconnectSound disconnects the source of in.
func (g *Graph) DisconnectSound(in SoundInput) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	base := in.soundInputBase()
	err := ErrNotConnected
	if base.Source() != nil {
		err = base.SetSource(nil)
	}
	if err != nil {
		return &ConnectionError{Op: "disconnect sound", Dst: base.String(), Err: err}
	}
	g.log.Debug(fmt.Sprintf("%v: disconnected sound %v", g, base))
	return nil
}

// ConnectNumber connects src to in. The previous source of in is replaced.
// Nil src is rejected like in ConnectSound.
func (g *Graph) ConnectNumber(in *NumberInput, src NumberSource) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if src == nil {
		return &ConnectionError{Op: "connect number", Dst: in.String(), Err: ErrNotConnected}
	}
	if err := in.SetSource(src); err != nil {
		return &ConnectionError{
			Op:  "connect number",
			Dst: in.String(),
			Src: src.numberNode().String(),
			Err: err,
		}
	}
	g.log.Debug(fmt.Sprintf("%v: connected number %v to %v", g, src.numberNode(), in))
	return nil
}

// DisconnectNumber disconnects the source of in.
func (g *Graph) DisconnectNumber(in *NumberInput) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in.Source() == nil {
		return &ConnectionError{Op: "disconnect number", Dst: in.String(), Err: ErrNotConnected}
	}
	in.disconnect()
	g.log.Debug(fmt.Sprintf("%v: disconnected number %v", g, in))
	return nil
}

// Edit executes fn while no rendering or other edit is in flight. It's
// used for edits without a dedicated graph method, such as adding keys.
func (g *Graph) Edit(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
}

// Destroy severs all edges of the source.
func (g *Graph) Destroy(src Source) {
	g.mu.Lock()
	defer g.mu.Unlock()
	src.soundSource().Destroy()
	g.log.Debug(fmt.Sprintf("%v: destroyed %v", g, src.soundSource()))
}

// Render pulls the next chunk from result. A structural violation during
// rendering leaves the chunk silent and is returned as an error, so the
// audio callback never outputs garbage.
func (g *Graph) Render(r *SoundResult, c *Chunk) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer func() {
		if v := recover(); v != nil {
			c.Silence()
			err = fmt.Errorf("%v: render %v: %v", g, r, v)
		}
	}()
	r.NextChunk(c)
	return nil
}

// Reset restarts time of everything rendered by result.
func (g *Graph) Reset(r *SoundResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r.Reset()
	g.log.Debug(fmt.Sprintf("%v: reset %v", g, r))
}

// Evaluate returns the value of a global number destination.
func (g *Graph) Evaluate(r *NumberResult) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return r.Evaluate()
}

func (g *Graph) String() string {
	if g.name == "" {
		return g.uid
	}
	return g.name
}

// IsRejected returns true if err is a rejected connection.
func IsRejected(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
