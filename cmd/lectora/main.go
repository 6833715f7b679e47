package main

import (
	"os"

	"github.com/Abraxas-365/lectora/logx"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "lectora",
		Short:         "Scan-to-speech pipeline: OCR, summarize, save and read text aloud",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScanCmd(),
		newSpeakCmd(),
		newSummarizeCmd(),
		newTextsCmd(),
		newHistoryCmd(),
		newSettingsCmd(),
		newServeCmd(),
	)

	if err := root.Execute(); err != nil {
		logx.Error("%v", err)
		os.Exit(1)
	}
}
