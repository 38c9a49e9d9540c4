package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func newIntSink() *TableSink[int, int] {
	return NewTableSink(func(i int) table.Row {
		return table.Row{strconv.Itoa(i)}
	}, func(i int) int { return i + 100 })
}

// pump delivers chunk messages for the renderer's current pass until done,
// recording the sink length after each step.
func pump(r *Renderer[int], sink Sink[int]) []int {
	counts := []int{sink.Len()}
	for !r.Done() {
		r.Update(ChunkMsg{ID: r.ID(), Gen: r.Generation()})
		counts = append(counts, sink.Len())
	}
	return counts
}

func TestRenderer_ChunksInOrder(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		chunkSize int
		wantSteps int
	}{
		{name: "empty", n: 0, chunkSize: 50, wantSteps: 1},
		{name: "single chunk", n: 10, chunkSize: 50, wantSteps: 1},
		{name: "exact multiple", n: 100, chunkSize: 50, wantSteps: 2},
		{name: "remainder", n: 123, chunkSize: 50, wantSteps: 3},
		{name: "chunk of one", n: 5, chunkSize: 1, wantSteps: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newIntSink()
			r := New[int]("tx", sink, WithChunkSize(tt.chunkSize), WithDelay(0))

			cmd := r.Start(items(tt.n))
			assert.Equal(t, min(tt.n, tt.chunkSize), sink.Len(), "first chunk renders synchronously")
			assert.Equal(t, tt.n > tt.chunkSize, cmd != nil)

			counts := pump(r, sink)
			assert.Len(t, counts, tt.wantSteps)
			for i := 1; i < len(counts); i++ {
				assert.GreaterOrEqual(t, counts[i], counts[i-1], "row count never shrinks within a pass")
			}

			require.Equal(t, tt.n, sink.Len())
			for i, row := range sink.Rows() {
				assert.Equal(t, strconv.Itoa(i), row[0])
				id, ok := sink.IDAt(i)
				require.True(t, ok)
				assert.Equal(t, i+100, id)
			}
		})
	}
}

func TestRenderer_RestartDiscardsOldPass(t *testing.T) {
	sink := newIntSink()
	r := New[int]("tx", sink, WithChunkSize(10), WithDelay(0))

	r.Start(items(100))
	oldGen := r.Generation()
	r.Update(ChunkMsg{ID: "tx", Gen: oldGen})
	require.Equal(t, 20, sink.Len())

	r.Start(items(15))
	assert.Equal(t, 10, sink.Len(), "restart clears the sink before the first chunk")

	assert.Nil(t, r.Update(ChunkMsg{ID: "tx", Gen: oldGen}))
	assert.Equal(t, 10, sink.Len(), "messages from the old pass are ignored")

	assert.Nil(t, r.Update(ChunkMsg{ID: "goals", Gen: r.Generation()}))
	assert.Equal(t, 10, sink.Len(), "messages for other renderers are ignored")

	pump(r, sink)
	assert.Equal(t, 15, sink.Len())
}

func TestRenderer_TickDeliversChunkMsg(t *testing.T) {
	sink := newIntSink()
	r := New[int]("budget", sink, WithChunkSize(2), WithDelay(time.Millisecond))

	cmd := r.Start(items(3))
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, ChunkMsg{ID: "budget", Gen: 1}, msg)
	assert.Nil(t, r.Update(msg))
	assert.True(t, r.Done())
}

func TestRenderer_Drain(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf, func(i int) string { return fmt.Sprintf("row %d", i) })
	r := New[int]("cli", sink, WithChunkSize(3))

	r.Start(items(10))
	r.Drain()

	rendered, total := r.Progress()
	assert.Equal(t, 10, rendered)
	assert.Equal(t, 10, total)
	assert.Equal(t, 10, sink.Len())
	assert.NoError(t, sink.Err())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "row 0", lines[0])
	assert.Equal(t, "row 9", lines[9])
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	r := New[int]("x", newIntSink(), WithChunkSize(0), WithDelay(-time.Second))
	assert.Equal(t, DefaultChunkSize, r.config.ChunkSize)
	assert.Equal(t, DefaultDelay, r.config.Delay)
}

func TestTableSink_IDAtOutOfRange(t *testing.T) {
	sink := newIntSink()
	_, ok := sink.IDAt(0)
	assert.False(t, ok)
}
