package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculator - Ausdrucksauswertung für Terminal und Netzwerk",
	Long: `Calculator wertet arithmetische Ausdrücke mit +, -, *, / und Klammern aus.

Oberflächen:
  eval     - Ausdrücke auf der Kommandozeile auswerten
  tui      - Interaktiver Tastenfeld-Rechner
  serve    - gRPC-, WebSocket- und HTTP-Server
  history  - Verlauf der Auswertungen
  fn       - Funktionen (sin, cos, tan, abs, log, ln, exp, !, mod)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("Ausführung fehlgeschlagen", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
