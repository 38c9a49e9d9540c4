// Package render turns collections into rows a chunk at a time so large
// tables never stall the event loop.
package render

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Defaults used when no option overrides them.
const (
	DefaultChunkSize = 50
	DefaultDelay     = 16 * time.Millisecond
)

// Sink receives rendered rows in order.
type Sink[T any] interface {
	// Reset drops every row from the previous pass.
	Reset()
	// Append adds a chunk of items after the existing rows.
	Append(items []T)
	Len() int
}

// ChunkMsg asks the renderer identified by ID to render its next chunk.
// Messages from an older generation are ignored.
type ChunkMsg struct {
	ID  string
	Gen uint64
}

// Config tunes chunking.
type Config struct {
	ChunkSize int
	Delay     time.Duration
}

// Option configures a Renderer.
type Option func(*Config)

// WithChunkSize sets how many items render per step.
func WithChunkSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ChunkSize = n
		}
	}
}

// WithDelay sets the pause between chunks.
func WithDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.Delay = d
		}
	}
}

// Renderer feeds items into a sink in chunks scheduled as tea.Ticks.
type Renderer[T any] struct {
	sink   Sink[T]
	id     string
	items  []T
	config Config
	pos    int
	gen    uint64
}

// New creates a renderer. id must be unique among the renderers of one
// program since it routes ChunkMsgs.
func New[T any](id string, sink Sink[T], opts ...Option) *Renderer[T] {
	config := Config{ChunkSize: DefaultChunkSize, Delay: DefaultDelay}
	for _, opt := range opts {
		opt(&config)
	}
	return &Renderer[T]{id: id, sink: sink, config: config}
}

// ID returns the renderer's routing id.
func (r *Renderer[T]) ID() string {
	return r.id
}

// Generation returns the current pass number.
func (r *Renderer[T]) Generation() uint64 {
	return r.gen
}

// Start begins a new pass over items. Any pass still in flight is abandoned,
// the sink is cleared and the first chunk renders before Start returns.
func (r *Renderer[T]) Start(items []T) tea.Cmd {
	r.gen++
	r.items = items
	r.pos = 0
	r.sink.Reset()
	r.step()
	return r.schedule()
}

// Update renders the next chunk when msg belongs to the current pass.
func (r *Renderer[T]) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(ChunkMsg)
	if !ok || m.ID != r.id || m.Gen != r.gen || r.Done() {
		return nil
	}
	r.step()
	return r.schedule()
}

// Drain renders every remaining chunk synchronously.
func (r *Renderer[T]) Drain() {
	for !r.Done() {
		r.step()
	}
}

// Done reports whether the current pass has rendered every item.
func (r *Renderer[T]) Done() bool {
	return r.pos >= len(r.items)
}

// Progress returns the rendered and total item counts of the current pass.
func (r *Renderer[T]) Progress() (rendered, total int) {
	return r.pos, len(r.items)
}

func (r *Renderer[T]) step() {
	if r.Done() {
		return
	}
	end := min(r.pos+r.config.ChunkSize, len(r.items))
	r.sink.Append(r.items[r.pos:end])
	r.pos = end
}

func (r *Renderer[T]) schedule() tea.Cmd {
	if r.Done() {
		return nil
	}
	id, gen := r.id, r.gen
	return tea.Tick(r.config.Delay, func(time.Time) tea.Msg {
		return ChunkMsg{ID: id, Gen: gen}
	})
}
