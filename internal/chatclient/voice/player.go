// Package voice holds the state machines of voice message playback and
// recording. Audio I/O itself is behind the Source and Capture interfaces.
package voice

import (
	"errors"
	"log/slog"
	"net/url"
	"sync"
)

// PlayerState is the playback state.
type PlayerState int

const (
	StateLoading PlayerState = iota
	StateReady
	StatePlaying
	StatePaused
	StateError
)

func (s PlayerState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	}
	return "unknown"
}

// MsgInvalidURL is shown when there is nothing to play.
const MsgInvalidURL = "Audio-URL fehlt oder ist ungültig"

// Media error codes as reported by audio elements.
const (
	MediaErrAborted         = 1
	MediaErrNetwork         = 2
	MediaErrDecode          = 3
	MediaErrSrcNotSupported = 4
)

// ClassifyMediaError maps a media error code to a user message.
func ClassifyMediaError(code int) string {
	switch code {
	case MediaErrAborted:
		return "Wiedergabe wurde abgebrochen"
	case MediaErrNetwork:
		return "Netzwerkfehler beim Laden der Audiodatei"
	case MediaErrDecode:
		return "Audiodatei konnte nicht dekodiert werden"
	case MediaErrSrcNotSupported:
		return "Audioformat wird nicht unterstützt"
	}
	return "Audiodatei konnte nicht geladen werden"
}

// MediaError is returned by a Source that failed with a media error code.
type MediaError struct {
	Code int
}

func (e *MediaError) Error() string { return ClassifyMediaError(e.Code) }

// Source plays one audio resource.
type Source interface {
	Play() error
	Pause() error
	Close() error
}

// SourceFactory opens a Source for a URL.
type SourceFactory func(fileURL string) (Source, error)

// ErrInvalidTransition is returned for operations not allowed in the
// current state.
var ErrInvalidTransition = errors.New("voice: invalid state transition")

// Player drives playback of a voice message:
// loading -> ready -> (playing <-> paused) | error.
// Error is terminal until Retry.
type Player struct {
	mu        sync.Mutex
	fileURL   string
	factory   SourceFactory
	log       *slog.Logger
	src       Source
	state     PlayerState
	message   string
	retries   int
	converted bool
}

// NewPlayer creates a player for fileURL. An empty or non-http(s) URL puts
// the player straight into the error state; the factory is never called.
func NewPlayer(fileURL string, factory SourceFactory, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Player{fileURL: fileURL, factory: factory, log: logger, state: StateLoading}
	if !validURL(fileURL) {
		p.state, p.message = StateError, MsgInvalidURL
	}
	return p
}

func validURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// State returns the current state.
func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ErrorMessage returns the user message of the error state.
func (p *Player) ErrorMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message
}

// Retries returns how often Retry re-ran the load.
func (p *Player) Retries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retries
}

// Load opens the source. Only valid in the loading state.
func (p *Player) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateLoading {
		return ErrInvalidTransition
	}
	return p.loadLocked()
}

func (p *Player) loadLocked() error {
	src, err := p.factory(p.fileURL)
	if err != nil {
		var me *MediaError
		code := 0
		if errors.As(err, &me) {
			code = me.Code
		}
		p.failLocked(code)
		return err
	}
	p.src = src
	p.state = StateReady
	return nil
}

// Play starts or resumes playback.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateReady && p.state != StatePaused {
		return ErrInvalidTransition
	}
	if err := p.src.Play(); err != nil {
		p.failFromErr(err)
		return err
	}
	p.state = StatePlaying
	return nil
}

// Pause pauses playback.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying {
		return ErrInvalidTransition
	}
	if err := p.src.Pause(); err != nil {
		p.failFromErr(err)
		return err
	}
	p.state = StatePaused
	return nil
}

// Ended returns a finished playback to ready.
func (p *Player) Ended() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StatePlaying {
		p.state = StateReady
	}
}

// Fail moves the player into the error state for a media error code.
func (p *Player) Fail(code int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failLocked(code)
}

func (p *Player) failFromErr(err error) {
	var me *MediaError
	if errors.As(err, &me) {
		p.failLocked(me.Code)
		return
	}
	p.failLocked(0)
}

func (p *Player) failLocked(code int) {
	if p.src != nil {
		_ = p.src.Close()
		p.src = nil
	}
	p.state = StateError
	p.message = ClassifyMediaError(code)
	p.log.Warn("voice playback failed", slog.Int("code", code), slog.String("url", p.fileURL))
}

// Retry re-runs the load after an error. An invalid URL stays in error.
func (p *Player) Retry() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateError {
		return ErrInvalidTransition
	}
	if !validURL(p.fileURL) {
		return ErrInvalidTransition
	}
	p.retries++
	p.state, p.message = StateLoading, ""
	return p.loadLocked()
}

// TryFormatConversion is a one-time hook for converting unsupported
// recordings. Conversion is not implemented; it reports whether this was the
// first attempt.
func (p *Player) TryFormatConversion() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.converted {
		return false
	}
	p.converted = true
	p.log.Info("voice format conversion requested", slog.String("url", p.fileURL))
	return true
}

// DownloadURL is the raw download fallback shown in the error state.
func (p *Player) DownloadURL() string {
	return p.fileURL
}

// Close releases the source.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return nil
	}
	err := p.src.Close()
	p.src = nil
	return err
}
