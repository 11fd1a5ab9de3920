package voice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// RecorderState is the recording state.
type RecorderState int

const (
	RecorderIdle RecorderState = iota
	RecorderRecording
	RecorderStopped
	RecorderSent
	RecorderCancelled
)

func (s RecorderState) String() string {
	switch s {
	case RecorderIdle:
		return "idle"
	case RecorderRecording:
		return "recording"
	case RecorderStopped:
		return "stopped"
	case RecorderSent:
		return "sent"
	case RecorderCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Capture reads audio from a microphone.
type Capture interface {
	Start() error
	// Stop ends the capture and returns the encoded audio.
	Stop() (data []byte, contentType string, err error)
}

// Recording is a finished capture.
type Recording struct {
	Data        []byte
	ContentType string
	Duration    time.Duration
}

// FileName returns the upload name of the recording.
func (r Recording) FileName(at time.Time) string {
	ext := "webm"
	if _, sub, ok := strings.Cut(r.ContentType, "/"); ok && sub != "" {
		ext, _, _ = strings.Cut(sub, ";")
	}
	return fmt.Sprintf("voice-%d.%s", at.UnixMilli(), ext)
}

// Sender posts a recording as a voice message.
type Sender interface {
	SendVoice(ctx context.Context, rec Recording) error
}

// Recorder drives a recording:
// idle -> recording -> stopped -> sent | cancelled.
// A sent or cancelled recorder may start again.
type Recorder struct {
	mu      sync.Mutex
	capture Capture
	clock   clockwork.Clock
	state   RecorderState
	started time.Time
	rec     *Recording
}

// NewRecorder creates an idle recorder.
func NewRecorder(capture Capture, clock clockwork.Clock) *Recorder {
	return &Recorder{capture: capture, clock: clock}
}

func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed returns the running or final duration.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RecorderRecording:
		return r.clock.Since(r.started)
	case RecorderStopped:
		return r.rec.Duration
	}
	return 0
}

// Start begins capturing.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RecorderIdle, RecorderSent, RecorderCancelled:
	default:
		return ErrInvalidTransition
	}
	if err := r.capture.Start(); err != nil {
		return fmt.Errorf("voice.Start: %w", err)
	}
	r.state, r.started, r.rec = RecorderRecording, r.clock.Now(), nil
	return nil
}

// Stop ends capturing and keeps the recording for Send.
func (r *Recorder) Stop() (Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != RecorderRecording {
		return Recording{}, ErrInvalidTransition
	}
	data, contentType, err := r.capture.Stop()
	if err != nil {
		r.state = RecorderIdle
		return Recording{}, fmt.Errorf("voice.Stop: %w", err)
	}
	rec := Recording{Data: data, ContentType: contentType, Duration: r.clock.Since(r.started)}
	r.rec, r.state = &rec, RecorderStopped
	return rec, nil
}

// Send hands the recording to sender. On failure the recording is kept so
// the user can retry or cancel.
func (r *Recorder) Send(ctx context.Context, sender Sender) error {
	r.mu.Lock()
	if r.state != RecorderStopped {
		r.mu.Unlock()
		return ErrInvalidTransition
	}
	rec := *r.rec
	r.mu.Unlock()

	if err := sender.SendVoice(ctx, rec); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RecorderStopped {
		r.state, r.rec = RecorderSent, nil
	}
	return nil
}

// Cancel discards a running or stopped recording.
func (r *Recorder) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RecorderRecording:
		_, _, _ = r.capture.Stop()
	case RecorderStopped:
	default:
		return ErrInvalidTransition
	}
	r.state, r.rec = RecorderCancelled, nil
	return nil
}
