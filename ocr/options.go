package ocr

// Options contains options for OCR operations
type Options struct {
	// Language specifies the expected language in the image (ISO code)
	Language string

	// Engine selects the provider-side OCR engine (1 or 2)
	Engine int

	// DetectOrientation automatically rotates the image if needed
	DetectOrientation bool

	// Scale upscales low-resolution images before recognition
	Scale bool

	// OverlayRequired requests word bounding boxes from the provider
	OverlayRequired bool

	// Filetype hints the image format of the payload
	Filetype string
}

// Option is a function type to modify Options
type Option func(*Options)

// WithLanguage sets the expected language
func WithLanguage(language string) Option {
	return func(o *Options) {
		o.Language = language
	}
}

// WithEngine selects the provider-side OCR engine
func WithEngine(engine int) Option {
	return func(o *Options) {
		o.Engine = engine
	}
}

// WithDetectOrientation enables automatic image orientation detection
func WithDetectOrientation(detect bool) Option {
	return func(o *Options) {
		o.DetectOrientation = detect
	}
}

// WithScale enables upscaling of low-resolution images
func WithScale(scale bool) Option {
	return func(o *Options) {
		o.Scale = scale
	}
}

// WithOverlay requests word bounding boxes from the provider
func WithOverlay(overlay bool) Option {
	return func(o *Options) {
		o.OverlayRequired = overlay
	}
}

// WithFiletype hints the image format of the payload
func WithFiletype(filetype string) Option {
	return func(o *Options) {
		o.Filetype = filetype
	}
}

// DefaultOptions returns the default OCR options
func DefaultOptions() *Options {
	return &Options{
		Language:          "eng",
		Engine:            1,
		DetectOrientation: true,
		Scale:             true,
		OverlayRequired:   false,
		Filetype:          "JPG",
	}
}
