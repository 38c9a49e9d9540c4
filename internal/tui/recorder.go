package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder writes every message and the frame it produced to a temporary
// directory, for debugging layouts that only break in a real terminal.
// Messages go to frames.jsonl; each frame is saved as NNNN-<section>.txt.
type Recorder struct {
	file   *os.File
	log    *slog.Logger
	dir    string
	frames int
}

// NewRecorder creates a TUI state recorder. A disabled recorder, or one
// whose directory cannot be created, records nothing.
func NewRecorder(enabled bool) *Recorder {
	if !enabled {
		return &Recorder{}
	}

	dir, err := os.MkdirTemp("", "finan-record-")
	if err != nil {
		return &Recorder{}
	}
	f, err := os.Create(filepath.Join(dir, "frames.jsonl")) // #nosec G304
	if err != nil {
		return &Recorder{}
	}

	r := &Recorder{
		file: f,
		log:  slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})),
		dir:  dir,
	}
	r.log.Info("recording started", "dir", dir)
	return r
}

// Enabled reports whether frames are being written.
func (r *Recorder) Enabled() bool {
	return r.log != nil
}

// Dir returns the recording directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// RecordState saves the view of m after it handled msg.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	if !r.Enabled() {
		return
	}
	r.frames++

	view := m.View()
	name := fmt.Sprintf("%04d-%s.txt", r.frames, m.section)
	if err := os.WriteFile(filepath.Join(r.dir, name), []byte(view), 0o600); err != nil {
		r.log.Error("failed to save frame", "frame", name, "error", err)
	}

	r.log.Debug("frame",
		"n", r.frames,
		"at", time.Now().Format("15:04:05.000"),
		"msg_type", fmt.Sprintf("%T", msg),
		"section", string(m.section),
		"mode", int(m.mode),
		"ready", m.ready,
		"auth_required", m.authRequired,
		"charts", m.charts.Mounted(),
		"transactions", m.transactions.Len(),
		"budget", m.budget.Len(),
		"goals", m.goals.Len(),
		"file", name)
}

// Close flushes and closes the recording.
func (r *Recorder) Close() {
	if r.file == nil {
		return
	}
	r.log.Info("recording complete", "frames", r.frames)
	_ = r.file.Close()
}

// recording feeds every update of the dashboard through a Recorder.
type recording struct {
	rec   *Recorder
	model Model
}

func (r recording) Init() tea.Cmd {
	return r.model.Init()
}

func (r recording) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := r.model.Update(msg)
	r.model = next.(Model)
	r.rec.RecordState(r.model, msg)
	return r, cmd
}

func (r recording) View() string {
	return r.model.View()
}
