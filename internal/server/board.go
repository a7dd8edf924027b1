package server

import (
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
)

// Snapshot is the read-only view of the interaction state served to clients.
type Snapshot struct {
	Mode          gesture.Mode     `json:"mode"`
	Selected      gesture.OptionID `json:"selected_option"`
	LastIntensity int              `json:"intensity"`
	Feedback      string           `json:"feedback,omitempty"`
	Options       []gesture.Option `json:"options"`
	Hands         int              `json:"hands"`
	Frame         uint64           `json:"frame"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Board holds the latest snapshot and annotated frame. The frame loop writes
// it; HTTP handlers only read it.
type Board struct {
	mu   sync.RWMutex
	snap Snapshot
	jpeg []byte
	seq  uint64

	viewers atomic.Int32
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Observe records the state after a frame. The frame is JPEG-encoded only
// while a stream client is connected. Must be called from the goroutine that
// owns frame.
func (b *Board) Observe(s gesture.State, hands int, frame *gocv.Mat) {
	var jpeg []byte
	if frame != nil && b.viewers.Load() > 0 {
		if buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame); err == nil {
			jpeg = append([]byte(nil), buf.GetBytes()...)
			buf.Close()
		}
	}
	b.Update(s, hands, jpeg)
}

// Update stores a snapshot of s. A nil jpeg keeps the previous frame.
func (b *Board) Update(s gesture.State, hands int, jpeg []byte) {
	options := make([]gesture.Option, len(s.Options))
	copy(options, s.Options)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	b.snap = Snapshot{
		Mode:          s.Mode,
		Selected:      s.Selected,
		LastIntensity: s.LastIntensity,
		Feedback:      s.Feedback,
		Options:       options,
		Hands:         hands,
		Frame:         b.seq,
		UpdatedAt:     time.Now(),
	}
	if jpeg != nil {
		b.jpeg = jpeg
	}
}

// Snapshot returns the latest snapshot.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// JPEG returns the latest encoded frame and its sequence number.
func (b *Board) JPEG() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}

func (b *Board) watch() func() {
	b.viewers.Add(1)
	return func() { b.viewers.Add(-1) }
}
