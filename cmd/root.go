package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCMD = &cobra.Command{
	Use:   "bolsinho",
	Short: "Bolsinho personal finance assistant",
	Long: `Bolsinho is a personal finance API: an AI chat assistant with
news, stock and calculation augmentation, a cached B3 stock quote
service, and personal finance tracking.`,
}

func Execute() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
