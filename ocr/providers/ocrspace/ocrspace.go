// Package ocrspace implements the ocr.Provider interface against the
// OCR.space parse API.
package ocrspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/Abraxas-365/lectora/ocr"
)

// DefaultEndpoint is the public OCR.space parse endpoint
const DefaultEndpoint = "https://api.ocr.space/parse/image"

// dataURLPrefix is prepended to raw base64 payloads that lack one
const dataURLPrefix = "data:image/jpeg;base64,"

// Provider implements ocr.Provider against OCR.space
type Provider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// ProviderOption configures the provider
type ProviderOption func(*Provider)

// WithEndpoint overrides the parse endpoint
func WithEndpoint(endpoint string) ProviderOption {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// New creates a new OCR.space provider
func New(apiKey string, opts ...ProviderOption) *Provider {
	p := &Provider{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// parseResponse mirrors the OCR.space response payload
type parseResponse struct {
	IsErroredOnProcessing bool           `json:"IsErroredOnProcessing"`
	ErrorMessage          flexibleString `json:"ErrorMessage"`
	ParsedResults         []parsedResult `json:"ParsedResults"`
}

type parsedResult struct {
	ParsedText        string         `json:"ParsedText"`
	FileParseExitCode int            `json:"FileParseExitCode"`
	ErrorMessage      flexibleString `json:"ErrorMessage"`
}

// flexibleString decodes a JSON string or array of strings; the API uses
// both shapes for ErrorMessage depending on the failure
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = flexibleString(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		if len(many) > 0 {
			*f = flexibleString(many[0])
		}
		return nil
	}

	return fmt.Errorf("unexpected ErrorMessage shape: %s", string(data))
}

// ExtractText sends the image to OCR.space and returns the parsed text.
// Progress checkpoints: 10 after validation, 20 after the form is encoded,
// 40 when the request is issued, 70 on response, 90 after decoding,
// 100 on success.
func (p *Provider) ExtractText(ctx context.Context, imageBase64 []byte, onProgress ocr.ProgressFunc, opts ...ocr.Option) (ocr.Result, error) {
	options := ocr.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	report := func(percent int) {
		if onProgress != nil {
			onProgress(percent)
		}
	}

	if len(imageBase64) == 0 {
		return ocr.Result{}, ocr.Errors.New(ocr.ErrEmptyImage)
	}
	report(10)

	payload := imageBase64
	if !bytes.HasPrefix(payload, []byte("data:")) {
		payload = append([]byte(dataURLPrefix), payload...)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"base64Image":       string(payload),
		"language":          options.Language,
		"isOverlayRequired": strconv.FormatBool(options.OverlayRequired),
		"detectOrientation": strconv.FormatBool(options.DetectOrientation),
		"scale":             strconv.FormatBool(options.Scale),
		"OCREngine":         strconv.Itoa(options.Engine),
		"filetype":          options.Filetype,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return ocr.Result{}, errWrap(err, "failed to encode request form")
		}
	}
	if err := form.Close(); err != nil {
		return ocr.Result{}, errWrap(err, "failed to encode request form")
	}
	report(20)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return ocr.Result{}, errWrap(err, "failed to build OCR request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("apikey", p.apiKey)
	report(40)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return ocr.Result{}, ocr.Errors.NewWithCause(ocr.ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	report(70)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ocr.Result{}, ocr.Errors.New(ocr.ErrRequestFailed).
			WithDetail("status", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ocr.Result{}, ocr.Errors.NewWithCause(ocr.ErrRequestFailed, err)
	}

	var parsed parseResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ocr.Result{}, ocr.Errors.NewWithCause(ocr.ErrInvalidResponse, err)
	}
	report(90)

	if parsed.IsErroredOnProcessing {
		message := string(parsed.ErrorMessage)
		if message == "" {
			message = "OCR provider reported a processing error"
		}
		return ocr.Result{}, ocr.Errors.NewWithMessage(ocr.ErrProviderFailed, message)
	}

	if len(parsed.ParsedResults) == 0 {
		return ocr.Result{}, ocr.Errors.New(ocr.ErrNoResults)
	}

	first := parsed.ParsedResults[0]
	if first.FileParseExitCode != 1 {
		message := string(first.ErrorMessage)
		if message == "" {
			message = fmt.Sprintf("file parse exit code %d", first.FileParseExitCode)
		}
		return ocr.Result{}, ocr.Errors.NewWithMessage(ocr.ErrProviderFailed, message)
	}

	report(100)
	return ocr.Result{Text: first.ParsedText}, nil
}

func errWrap(err error, message string) error {
	return ocr.Errors.NewWithMessage(ocr.ErrRequestFailed, message).WithCause(err)
}
