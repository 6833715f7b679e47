package speech

// Options contains voice parameters for one utterance
type Options struct {
	// Pitch in [0.5, 2.0], 1.0 is the engine default
	Pitch float64

	// Rate in [0.5, 2.0], 1.0 is the engine default
	Rate float64

	// Language is a BCP 47 tag such as "en-US"
	Language string
}

// Option is a function type to modify Options
type Option func(*Options)

// WithPitch sets the voice pitch
func WithPitch(pitch float64) Option {
	return func(o *Options) {
		o.Pitch = pitch
	}
}

// WithRate sets the speaking rate
func WithRate(rate float64) Option {
	return func(o *Options) {
		o.Rate = rate
	}
}

// WithLanguage sets the utterance language
func WithLanguage(language string) Option {
	return func(o *Options) {
		o.Language = language
	}
}

// Clamp forces pitch and rate into [0.5, 2.0]
func (o *Options) Clamp() {
	o.Pitch = clamp(o.Pitch, 0.5, 2.0)
	o.Rate = clamp(o.Rate, 0.5, 2.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DefaultOptions returns the default voice parameters
func DefaultOptions() *Options {
	return &Options{
		Pitch:    1.0,
		Rate:     1.0,
		Language: "en-US",
	}
}
