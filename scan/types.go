// Package scan is the processing pipeline behind the scanner: it takes
// a captured image through OCR, keeps the extracted text in an editable
// buffer, and fans out to summarization, persistence and speech.
package scan

// Type classifies what kind of capture produced a history entry
type Type string

const (
	TypeDocument Type = "document"
	TypeQR       Type = "qr"
	TypeBarcode  Type = "barcode"
	TypeVoice    Type = "voice"
)

// Status tracks a history entry through its OCR run
type Status string

const (
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// SavedText is one saved document in the library. Timestamps are epoch
// milliseconds. IDs are unique for the lifetime of the collection.
type SavedText struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// HistoryItem records one scan attempt. Status starts as processing and
// moves to success or failed when the OCR run resolves.
type HistoryItem struct {
	ID            string  `json:"id"`
	Type          Type    `json:"type"`
	Title         string  `json:"title"`
	Preview       string  `json:"preview"`
	Timestamp     int64   `json:"timestamp"`
	Status        Status  `json:"status"`
	ExtractedText string  `json:"extractedText,omitempty"`
	Confidence    float32 `json:"confidence,omitempty"`
}

// Settings is the process-wide settings singleton. It is persisted as
// one JSON document and overwritten wholesale on any change.
type Settings struct {
	AutoSave       bool    `json:"autoSave"`
	SpeechEnabled  bool    `json:"speechEnabled"`
	DarkMode       bool    `json:"darkMode"`
	Notifications  bool    `json:"notifications"`
	HapticFeedback bool    `json:"hapticFeedback"`
	AutoCapture    bool    `json:"autoCapture"`
	Pitch          float64 `json:"pitch"`
	Rate           float64 `json:"rate"`
	Language       string  `json:"language"`
}

// DefaultSettings returns the settings used before anything is persisted
func DefaultSettings() Settings {
	return Settings{
		AutoSave:       false,
		SpeechEnabled:  true,
		DarkMode:       false,
		Notifications:  true,
		HapticFeedback: true,
		AutoCapture:    false,
		Pitch:          1.0,
		Rate:           1.0,
		Language:       "en-US",
	}
}
