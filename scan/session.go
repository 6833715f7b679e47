package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abraxas-365/lectora/eventbus"
	"github.com/Abraxas-365/lectora/logx"
	"github.com/Abraxas-365/lectora/ocr"
	"github.com/Abraxas-365/lectora/speech"
	"github.com/Abraxas-365/lectora/store"
	"github.com/Abraxas-365/lectora/summarize"
)

// State is the session's processing state
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// Event types published by the session
const (
	EventScanProgress = "scan.progress"
	EventScanState    = "scan.state"
	EventSpeechState  = "speech.state"
)

// ProgressPayload is the data of a scan.progress event
type ProgressPayload struct {
	Percent int `json:"percent"`
}

// StatePayload is the data of a scan.state event
type StatePayload struct {
	State State `json:"state"`
}

// SpeechPayload is the data of a speech.state event
type SpeechPayload struct {
	Playing bool `json:"playing"`
	Paused  bool `json:"paused"`
}

// Deps are the collaborators a session needs
type Deps struct {
	OCR        *ocr.Client
	Summarizer *summarize.Client
	Library    *Library
	History    *History
	Settings   *SettingsService
	Speaker    *speech.Speaker
	Store      *store.Store
	Bus        *eventbus.Bus
}

// Snapshot is a point-in-time view of the session for frontends
type Snapshot struct {
	State          State   `json:"state"`
	Progress       int     `json:"progress"`
	Text           string  `json:"text"`
	Summary        string  `json:"summary,omitempty"`
	Confidence     float32 `json:"confidence,omitempty"`
	Editing        bool    `json:"editing"`
	SaveDialog     bool    `json:"saveDialog"`
	HistoryBrowser bool    `json:"historyBrowser"`
	HistoryID      string  `json:"historyId,omitempty"`
}

// Session drives one scan through its lifecycle:
//
//	Idle -> Processing -> {Success, Failed}
//
// From Success the text buffer can be viewed or edited, and the
// SaveDialog and HistoryBrowser overlays toggle independently of each
// other and of editing. A failed scan can be retried with the same
// image. All OCR progress is routed through the client's progress
// callback and republished on the event bus.
type Session struct {
	deps Deps

	mu             sync.Mutex
	state          State
	progress       int
	buffer         string
	summary        string
	confidence     float32
	editing        bool
	saveDialog     bool
	historyBrowser bool
	image          []byte
	scanType       Type
	historyID      string
	generation     int
	cancel         context.CancelFunc
}

// NewSession creates an idle session
func NewSession(deps Deps) *Session {
	return &Session{
		deps:  deps,
		state: StateIdle,
	}
}

// Snapshot returns the current session view
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:          s.state,
		Progress:       s.progress,
		Text:           s.buffer,
		Summary:        s.summary,
		Confidence:     s.confidence,
		Editing:        s.editing,
		SaveDialog:     s.saveDialog,
		HistoryBrowser: s.historyBrowser,
		HistoryID:      s.historyID,
	}
}

// State returns the current processing state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Text returns the current text buffer
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Process runs OCR on a captured image and applies the result to the
// session. Only one scan may be in flight at a time. Empty extracted
// text is still a success; text existence is not judged at this layer.
func (s *Session) Process(ctx context.Context, image []byte, scanType Type) error {
	s.mu.Lock()
	if s.state == StateProcessing {
		s.mu.Unlock()
		return Errors.New(ErrScanInProgress)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.generation++
	generation := s.generation
	s.cancel = cancel
	s.state = StateProcessing
	s.progress = 0
	s.buffer = ""
	s.summary = ""
	s.confidence = 0
	s.editing = false
	s.image = image
	s.scanType = scanType
	s.mu.Unlock()

	s.publishState(StateProcessing)

	item, err := s.deps.History.Add(ctx, scanType, scanTitle(scanType))
	if err != nil {
		logx.Warn("could not record history entry: %v", err)
	} else {
		s.mu.Lock()
		s.historyID = item.ID
		s.mu.Unlock()
	}

	result, ocrErr := s.deps.OCR.ExtractText(runCtx, image, func(percent int) {
		s.setProgress(generation, percent)
	})

	// A cancelled run must not mutate the session: the result belongs
	// to a scan nobody is waiting for anymore.
	s.mu.Lock()
	if runCtx.Err() != nil || generation != s.generation {
		s.mu.Unlock()
		logx.Debug("discarding late OCR result for superseded scan")
		return runCtx.Err()
	}

	if ocrErr != nil {
		s.state = StateFailed
		historyID := s.historyID
		s.mu.Unlock()

		s.publishState(StateFailed)
		if historyID != "" {
			if err := s.deps.History.MarkFailed(ctx, historyID); err != nil {
				logx.Warn("could not mark history entry failed: %v", err)
			}
		}
		return ocrErr
	}

	s.state = StateSuccess
	s.buffer = result.Text
	s.confidence = result.Confidence
	historyID := s.historyID
	s.mu.Unlock()

	s.publishState(StateSuccess)
	if historyID != "" {
		if err := s.deps.History.MarkSuccess(ctx, historyID, result.Text, result.Confidence); err != nil {
			logx.Warn("could not mark history entry successful: %v", err)
		}
	}

	settings, err := s.deps.Settings.Load(ctx)
	if err != nil {
		logx.Warn("could not load settings after scan: %v", err)
		return nil
	}
	if settings.AutoSave && result.Text != "" {
		if _, err := s.deps.Library.Save(ctx, autoSaveTitle(), result.Text); err != nil {
			logx.Warn("auto-save failed: %v", err)
		}
	}
	return nil
}

// Retry re-runs OCR with the image of the failed scan
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateFailed {
		s.mu.Unlock()
		return Errors.New(ErrInvalidState).WithDetail("state", string(s.state))
	}
	if len(s.image) == 0 {
		s.mu.Unlock()
		return Errors.New(ErrNoImage)
	}
	image := s.image
	scanType := s.scanType
	s.state = StateIdle
	s.mu.Unlock()

	return s.Process(ctx, image, scanType)
}

// Cancel abandons the in-flight scan. The late OCR result, if any, is
// discarded instead of being applied to the session.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	if s.state == StateProcessing {
		s.state = StateIdle
		s.progress = 0
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.publishState(StateIdle)
}

func (s *Session) setProgress(generation, percent int) {
	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.progress = percent
	s.mu.Unlock()

	if s.deps.Bus != nil {
		s.deps.Bus.Publish(eventbus.NewEvent(EventScanProgress, ProgressPayload{Percent: percent}))
	}
}

func (s *Session) publishState(state State) {
	if s.deps.Bus != nil {
		s.deps.Bus.Publish(eventbus.NewEvent(EventScanState, StatePayload{State: state}))
	}
}

// StartEditing switches the successful scan into edit mode
func (s *Session) StartEditing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuccess {
		return Errors.New(ErrInvalidState).WithDetail("state", string(s.state))
	}
	s.editing = true
	return nil
}

// StopEditing leaves edit mode. The buffer keeps its edits; nothing is
// persisted until an explicit Save.
func (s *Session) StopEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = false
}

// SetText replaces the editable buffer
func (s *Session) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuccess {
		return Errors.New(ErrInvalidState).WithDetail("state", string(s.state))
	}
	s.buffer = text
	return nil
}

// OpenSaveDialog shows the save overlay
func (s *Session) OpenSaveDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveDialog = true
}

// CloseSaveDialog hides the save overlay
func (s *Session) CloseSaveDialog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveDialog = false
}

// OpenHistoryBrowser shows the history overlay
func (s *Session) OpenHistoryBrowser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyBrowser = true
}

// CloseHistoryBrowser hides the history overlay
func (s *Session) CloseHistoryBrowser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyBrowser = false
}

// Save persists the current buffer under the given title and closes the
// save dialog. Validation failures leave the session state unchanged.
func (s *Session) Save(ctx context.Context, title string) (SavedText, error) {
	s.mu.Lock()
	text := s.buffer
	s.mu.Unlock()

	item, err := s.deps.Library.Save(ctx, title, text)
	if err != nil {
		return SavedText{}, err
	}

	s.mu.Lock()
	s.saveDialog = false
	s.mu.Unlock()
	return item, nil
}

// Summarize produces a summary of the current buffer. The buffer itself
// is never replaced; the summary is recorded alongside it.
func (s *Session) Summarize(ctx context.Context, opts ...summarize.Option) (string, error) {
	s.mu.Lock()
	text := s.buffer
	s.mu.Unlock()

	summary, err := s.deps.Summarizer.Summarize(ctx, text, opts...)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
	return summary, nil
}

// Speak reads the current buffer aloud using the persisted voice
// settings. It fails when speech is disabled in settings.
func (s *Session) Speak(ctx context.Context) error {
	settings, err := s.deps.Settings.Load(ctx)
	if err != nil {
		return err
	}
	if !settings.SpeechEnabled {
		return Errors.New(ErrSpeechDisabled)
	}

	s.mu.Lock()
	text := s.buffer
	s.mu.Unlock()

	err = s.deps.Speaker.Speak(ctx, text,
		speech.WithPitch(settings.Pitch),
		speech.WithRate(settings.Rate),
		speech.WithLanguage(settings.Language),
	)
	if err != nil {
		return err
	}
	s.publishSpeechState()
	return nil
}

// PauseSpeaking pauses playback. Resuming restarts the utterance from
// the beginning; see speech.Speaker.
func (s *Session) PauseSpeaking() error {
	if err := s.deps.Speaker.Pause(); err != nil {
		return err
	}
	s.publishSpeechState()
	return nil
}

// ResumeSpeaking restarts the paused utterance from the beginning
func (s *Session) ResumeSpeaking(ctx context.Context) error {
	if err := s.deps.Speaker.Resume(ctx); err != nil {
		return err
	}
	s.publishSpeechState()
	return nil
}

// StopSpeaking stops playback
func (s *Session) StopSpeaking() error {
	if err := s.deps.Speaker.Stop(); err != nil {
		return err
	}
	s.publishSpeechState()
	return nil
}

func (s *Session) publishSpeechState() {
	if s.deps.Bus == nil {
		return
	}
	s.deps.Bus.Publish(eventbus.NewEvent(EventSpeechState, SpeechPayload{
		Playing: s.deps.Speaker.IsPlaying(),
		Paused:  s.deps.Speaker.IsPaused(),
	}))
}

// Export writes the current buffer to a timestamped text file in the
// data directory and returns the path
func (s *Session) Export(ctx context.Context) (string, error) {
	s.mu.Lock()
	text := s.buffer
	s.mu.Unlock()

	if text == "" {
		return "", Errors.New(ErrNothingToExport)
	}

	name := fmt.Sprintf("extracted_text_%d.txt", time.Now().UnixMilli())
	return s.deps.Store.ExportFile(ctx, name, []byte(text))
}

// LoadSaved loads a saved text back into the session for viewing
func (s *Session) LoadSaved(ctx context.Context, id string) error {
	item, err := s.deps.Library.Get(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateSuccess
	s.buffer = item.Text
	s.summary = ""
	s.confidence = 0
	s.editing = false
	s.historyBrowser = false
	s.mu.Unlock()

	s.publishState(StateSuccess)
	return nil
}

func scanTitle(scanType Type) string {
	return fmt.Sprintf("%s scan %s", scanType, time.Now().Format("2006-01-02 15:04"))
}

func autoSaveTitle() string {
	return fmt.Sprintf("Scan %s", time.Now().Format("2006-01-02 15:04:05"))
}
