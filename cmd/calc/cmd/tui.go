package cmd

import (
	"fmt"
	"os"

	"github.com/patelanuj7/calculatorapp/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Startet den interaktiven Rechner",
	Long: `Startet den Tastenfeld-Rechner im Terminal.

Tastenfeld:
  7   8   9   /
  4   5   6   *
  1   2   3   -
  0   .   =   +
  C   Mod %   !
  sin cos tan abs
  log ln  exp ^

Navigation:
  Pfeiltasten - Taste auswählen
  Enter       - Ausgewählte Taste drücken
  =           - Ausdruck auswerten
  Backspace   - Letztes Zeichen löschen
  Ctrl+L      - Anzeige leeren
  ?           - Hilfe
  Esc/Ctrl+C  - Beenden`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	history, err := a.openHistory()
	if err != nil {
		// the calculator works without a history
		a.logger("calc-tui").WarnWithErr("History nicht verfügbar", err)
	}

	if err := tui.Run(tui.Config{
		Engine:  a.engine,
		History: history,
		Logger:  a.logger("calc-tui"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "TUI Fehler: %v\n", err)
		return err
	}

	return nil
}
