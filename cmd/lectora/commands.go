package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Abraxas-365/lectora/eventbus"
	"github.com/Abraxas-365/lectora/scan"
	"github.com/Abraxas-365/lectora/server"
	"github.com/Abraxas-365/lectora/speech"
	"github.com/Abraxas-365/lectora/summarize"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var (
		scanType  string
		save      bool
		speak     bool
		doSummary bool
		export    bool
		title     string
	)

	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "Run OCR on an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			image := []byte(base64.StdEncoding.EncodeToString(raw))

			a.bus.Subscribe(scan.EventScanProgress, func(event eventbus.Event) error {
				if p, ok := event.Payload().(scan.ProgressPayload); ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "\rprocessing... %d%%", p.Percent)
				}
				return nil
			})

			if err := a.session.Process(cmd.Context(), image, scan.Type(scanType)); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr())
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr())

			text := a.session.Text()
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if doSummary {
				summary, err := a.session.Summarize(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nSummary: %s\n", summary)
			}

			if save {
				if title == "" {
					title = fmt.Sprintf("Scan %s", time.Now().Format("2006-01-02 15:04:05"))
				}
				item, err := a.session.Save(cmd.Context(), title)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved as %s (%s)\n", item.Title, item.ID)
			}

			if export {
				path, err := a.session.Export(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", path)
			}

			if speak {
				if err := a.session.Speak(cmd.Context()); err != nil {
					return err
				}
				waitForSpeech(a.speaker)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scanType, "type", string(scan.TypeDocument), "scan type: document|qr|barcode|voice")
	cmd.Flags().BoolVar(&save, "save", false, "save the extracted text")
	cmd.Flags().StringVar(&title, "title", "", "title to save under (with --save)")
	cmd.Flags().BoolVar(&speak, "speak", false, "read the extracted text aloud")
	cmd.Flags().BoolVar(&doSummary, "summarize", false, "summarize the extracted text")
	cmd.Flags().BoolVar(&export, "export", false, "export the extracted text to a .txt file")
	return cmd
}

func newSpeakCmd() *cobra.Command {
	var (
		file     string
		pitch    float64
		rate     float64
		language string
	)

	cmd := &cobra.Command{
		Use:   "speak [TEXT]",
		Short: "Read text aloud",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			var text string
			switch {
			case file != "":
				raw, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(raw)
			case len(args) == 1:
				text = args[0]
			default:
				return fmt.Errorf("pass TEXT or --file")
			}

			settings, err := a.settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pitch") {
				pitch = settings.Pitch
			}
			if !cmd.Flags().Changed("rate") {
				rate = settings.Rate
			}
			if language == "" {
				language = settings.Language
			}

			err = a.speaker.Speak(cmd.Context(), text,
				speech.WithPitch(pitch),
				speech.WithRate(rate),
				speech.WithLanguage(language),
			)
			if err != nil {
				return err
			}
			waitForSpeech(a.speaker)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read the text from a file")
	cmd.Flags().Float64Var(&pitch, "pitch", 1.0, "voice pitch [0.5, 2.0]")
	cmd.Flags().Float64Var(&rate, "rate", 1.0, "speaking rate [0.5, 2.0]")
	cmd.Flags().StringVar(&language, "language", "", "utterance language, e.g. en-US")
	return cmd
}

func waitForSpeech(speaker *speech.Speaker) {
	for speaker.IsPlaying() {
		time.Sleep(100 * time.Millisecond)
	}
}

func newSummarizeCmd() *cobra.Command {
	var (
		file      string
		model     string
		maxTokens int
	)

	cmd := &cobra.Command{
		Use:   "summarize [TEXT]",
		Short: "Summarize text with the configured LLM provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			var text string
			switch {
			case file != "":
				raw, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(raw)
			case len(args) == 1:
				text = args[0]
			default:
				return fmt.Errorf("pass TEXT or --file")
			}

			var opts []summarize.Option
			if model != "" {
				opts = append(opts, summarize.WithModel(model))
			}
			if maxTokens > 0 {
				opts = append(opts, summarize.WithMaxTokens(maxTokens))
			}

			summary, err := a.summarizer.Summarize(cmd.Context(), text, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read the text from a file")
	cmd.Flags().StringVar(&model, "model", "", "model override")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "max tokens for the summary")
	return cmd
}

func newTextsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "texts",
		Short: "Manage saved texts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved texts, newest first",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				items, err := a.library.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, item := range items {
					ts := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04")
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", item.ID, ts, item.Title)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show ID",
			Short: "Print one saved text",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				item, err := a.library.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", item.Title, item.Text)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete one saved text",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				return a.library.Delete(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every saved text",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				return a.library.Clear(cmd.Context())
			},
		},
	)
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List scan history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			items, err := a.history.List(cmd.Context(), scan.Type(filter))
			if err != nil {
				return err
			}
			for _, item := range items {
				ts := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04")
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-8s  %-10s  %s\n", item.ID, ts, item.Type, item.Status, item.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "type", "", "filter by type: document|qr|barcode|voice")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete one history entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				return a.history.Delete(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every history entry",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				return a.history.Clear(cmd.Context())
			},
		},
	)
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				settings, err := a.settings.Load(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "autoSave:       %v\n", settings.AutoSave)
				fmt.Fprintf(out, "speechEnabled:  %v\n", settings.SpeechEnabled)
				fmt.Fprintf(out, "darkMode:       %v\n", settings.DarkMode)
				fmt.Fprintf(out, "notifications:  %v\n", settings.Notifications)
				fmt.Fprintf(out, "hapticFeedback: %v\n", settings.HapticFeedback)
				fmt.Fprintf(out, "autoCapture:    %v\n", settings.AutoCapture)
				fmt.Fprintf(out, "pitch:          %.2f\n", settings.Pitch)
				fmt.Fprintf(out, "rate:           %.2f\n", settings.Rate)
				fmt.Fprintf(out, "language:       %s\n", settings.Language)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one setting and persist the whole document",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd.Context())
				if err != nil {
					return err
				}
				settings, err := a.settings.Load(cmd.Context())
				if err != nil {
					return err
				}
				if err := applySetting(&settings, args[0], args[1]); err != nil {
					return err
				}
				return a.settings.Save(cmd.Context(), settings)
			},
		},
	)
	return cmd
}

func applySetting(settings *scan.Settings, key, value string) error {
	switch key {
	case "autoSave", "speechEnabled", "darkMode", "notifications", "hapticFeedback", "autoCapture":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false", key)
		}
		switch key {
		case "autoSave":
			settings.AutoSave = b
		case "speechEnabled":
			settings.SpeechEnabled = b
		case "darkMode":
			settings.DarkMode = b
		case "notifications":
			settings.Notifications = b
		case "hapticFeedback":
			settings.HapticFeedback = b
		case "autoCapture":
			settings.AutoCapture = b
		}
	case "pitch", "rate":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s expects a number", key)
		}
		if key == "pitch" {
			settings.Pitch = f
		} else {
			settings.Rate = f
		}
	case "language":
		settings.Language = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Get("server.addr").AsStringDefault(":8080")
			}
			srv := server.New(a.session, a.library, a.history, a.settings, a.summarizer)
			return srv.ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
