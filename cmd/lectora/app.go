package main

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/lectora/configx"
	"github.com/Abraxas-365/lectora/eventbus"
	"github.com/Abraxas-365/lectora/ocr"
	"github.com/Abraxas-365/lectora/ocr/providers/ocrspace"
	"github.com/Abraxas-365/lectora/scan"
	"github.com/Abraxas-365/lectora/speech"
	"github.com/Abraxas-365/lectora/store"
	"github.com/Abraxas-365/lectora/summarize"
	"github.com/Abraxas-365/lectora/summarize/providers/sumanthropic"
	"github.com/Abraxas-365/lectora/summarize/providers/sumopenai"
)

// app holds the wired services behind every command
type app struct {
	config     configx.Config
	store      *store.Store
	library    *scan.Library
	history    *scan.History
	settings   *scan.SettingsService
	ocr        *ocr.Client
	summarizer *summarize.Client
	speaker    *speech.Speaker
	bus        *eventbus.Bus
	session    *scan.Session
}

func newApp(ctx context.Context) (*app, error) {
	config, err := configx.NewBuilder().
		WithDefaults(map[string]any{
			"data.dir":           "./data",
			"ocr.endpoint":       ocrspace.DefaultEndpoint,
			"summarize.provider": "openai",
			"speech.engine":      "espeak",
			"server.addr":        ":8080",
		}).
		FromDotEnv(".env").
		FromEnv("LECTORA_").
		Build()
	if err != nil {
		return nil, err
	}

	fs := store.NewLocal()
	dataDir := config.Get("data.dir").AsStringDefault("./data")
	if err := fs.CreateDir(ctx, dataDir); err != nil {
		return nil, err
	}
	st := store.New(fs, dataDir)

	ocrProvider := ocrspace.New(
		config.Get("ocr.apikey").AsString(),
		ocrspace.WithEndpoint(config.Get("ocr.endpoint").AsStringDefault(ocrspace.DefaultEndpoint)),
	)
	ocrClient := ocr.NewClient(ocrProvider)

	var summarizer summarize.Summarizer
	switch provider := config.Get("summarize.provider").AsStringDefault("openai"); provider {
	case "openai":
		summarizer = sumopenai.New(config.Get("summarize.apikey").AsString())
	case "anthropic":
		summarizer = sumanthropic.New(config.Get("summarize.apikey").AsString())
	default:
		return nil, fmt.Errorf("unknown summarize provider %q", provider)
	}
	summarizeClient := summarize.NewClient(summarizer)

	var engine speech.Engine
	switch name := config.Get("speech.engine").AsStringDefault("espeak"); name {
	case "espeak":
		engine = speech.NewEspeakEngine()
	case "say":
		engine = speech.NewSayEngine()
	case "none":
		engine = speech.NewNoopEngine()
	default:
		return nil, fmt.Errorf("unknown speech engine %q", name)
	}
	speaker := speech.NewSpeaker(engine)

	bus := eventbus.New()
	library := scan.NewLibrary(st)
	history := scan.NewHistory(st)
	settings := scan.NewSettingsService(st)

	session := scan.NewSession(scan.Deps{
		OCR:        ocrClient,
		Summarizer: summarizeClient,
		Library:    library,
		History:    history,
		Settings:   settings,
		Speaker:    speaker,
		Store:      st,
		Bus:        bus,
	})

	return &app{
		config:     config,
		store:      st,
		library:    library,
		history:    history,
		settings:   settings,
		ocr:        ocrClient,
		summarizer: summarizeClient,
		speaker:    speaker,
		bus:        bus,
		session:    session,
	}, nil
}
