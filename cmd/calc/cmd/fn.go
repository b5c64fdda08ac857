package cmd

import (
	"fmt"
	"strings"

	"github.com/patelanuj7/calculatorapp/foundation/utils/mathx"
	"github.com/spf13/cobra"
)

var fnCmd = &cobra.Command{
	Use:   "fn <funktion> <wert> [wert]",
	Short: "Wendet eine Tastenfeld-Funktion an",
	Long: `Wendet eine Funktion des Tastenfelds auf eine Zahl an.

Funktionen:
  sin, cos, tan  - Winkel in Grad
  abs            - Betrag
  log            - Zehnerlogarithmus (x > 0)
  ln             - Natürlicher Logarithmus (x > 0)
  exp            - Exponentialfunktion
  fact, !        - Fakultät (ganze Zahl >= 0, beliebige Genauigkeit)
  mod            - Rest von a / b

Beispiele:
  calc fn sin 30
  calc fn fact 25
  calc fn mod 10 3
  calc fn -- ln -1`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runFn,
}

var fnListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet die verfügbaren Funktionen",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range mathx.FunctionNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "fact")
		fmt.Fprintln(cmd.OutOrStdout(), "mod")
	},
}

func init() {
	rootCmd.AddCommand(fnCmd)
	fnCmd.AddCommand(fnListCmd)
}

func runFn(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(args[0])
	out := cmd.OutOrStdout()

	text, err := applyFn(name, args[1:])
	if err != nil {
		fmt.Fprintln(out, mathx.DisplayError(err))
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}

// applyFn evaluates one keypad function and returns the display text
func applyFn(name string, operands []string) (string, error) {
	switch name {
	case "fact", "!":
		if len(operands) != 1 {
			return "", fmt.Errorf("%w: fact erwartet genau einen Wert", mathx.ErrInvalidInput)
		}
		return mathx.FactorialString(operands[0])

	case "mod", "%":
		if len(operands) != 2 {
			return "", fmt.Errorf("%w: mod erwartet zwei Werte", mathx.ErrInvalidInput)
		}
		v, err := mathx.EvaluateModulo(operands[0] + "%" + operands[1])
		if err != nil {
			return "", err
		}
		return mathx.FormatResult(v), nil

	default:
		if len(operands) != 1 {
			return "", fmt.Errorf("%w: %s erwartet genau einen Wert", mathx.ErrInvalidInput, name)
		}
		v, err := mathx.ApplyString(name, operands[0])
		if err != nil {
			return "", err
		}
		return mathx.FormatResult(v), nil
	}
}
