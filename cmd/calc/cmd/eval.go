package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	mdwparser "github.com/patelanuj7/calculatorapp/foundation/calc/parser"
	"github.com/patelanuj7/calculatorapp/foundation/utils/mathx"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	"github.com/patelanuj7/calculatorapp/internal/server"
	coregrpc "github.com/patelanuj7/calculatorapp/pkg/core/grpc"
	"github.com/spf13/cobra"
)

var (
	evalRemote    string
	evalTimeout   time.Duration
	evalDetails   bool
	evalNoHistory bool
)

var evalCmd = &cobra.Command{
	Use:   "eval [ausdruck...]",
	Short: "Wertet Ausdrücke aus",
	Long: `Wertet einen oder mehrere Ausdrücke aus und gibt das Ergebnis mit fünf
Nachkommastellen aus. Ohne Argumente wird zeilenweise von stdin gelesen.

Fehlerhafte Ausdrücke werden als "Error" ausgegeben; die Ursache steht auf
stderr.

Beispiele:
  calc eval "2 + 3 * 4"
  calc eval "(1 + 2) * 3" "10 / 4"
  echo "7 - 10" | calc eval
  calc eval --remote localhost:9300 "6 * 7"`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalRemote, "remote", "", "Über einen Calculator-Server auswerten (host:port)")
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 10*time.Second, "Timeout für entfernte Auswertung")
	evalCmd.Flags().BoolVar(&evalDetails, "details", false, "Tokens, Postfix-Darstellung und Baumstatistik ausgeben")
	evalCmd.Flags().BoolVar(&evalNoHistory, "no-history", false, "Auswertung nicht im Verlauf speichern")
}

// evaluateFunc evaluates one expression for the eval command
type evaluateFunc func(ctx context.Context, expression string) (float64, error)

func runEval(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	evaluate, cleanup, err := evalBackend(a)
	if err != nil {
		return err
	}
	defer cleanup()

	expressions := args
	if len(expressions) == 0 {
		expressions, err = readExpressions(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, expression := range expressions {
		if !evalExpression(cmd, a, evaluate, expression) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d von %d Ausdrücken fehlgeschlagen", failed, len(expressions))
	}
	return nil
}

// evalBackend returns the remote client or the local service
func evalBackend(a *app) (evaluateFunc, func(), error) {
	if evalRemote != "" {
		clientCfg := coregrpc.DefaultClientConfig(evalRemote)
		clientCfg.Timeout = evalTimeout
		conn, err := coregrpc.Dial(clientCfg, a.logger("calc-client"))
		if err != nil {
			return nil, nil, err
		}
		client := server.NewClient(conn)
		timeout := clientCfg.Timeout
		evaluate := func(ctx context.Context, expression string) (float64, error) {
			ctx, cancel := context.WithTimeout(coregrpc.WithRequestID(ctx, uuid.New().String()), timeout)
			defer cancel()
			return client.Evaluate(ctx, expression)
		}
		return evaluate, func() { conn.Close() }, nil
	}

	var history store.HistoryStore
	if !evalNoHistory {
		var err error
		history, err = a.openHistory()
		if err != nil {
			return nil, nil, err
		}
	}

	service := server.NewService(server.ServiceConfig{
		Engine:  a.engine,
		History: history,
		Logger:  a.logger("calc-cli"),
	})
	evaluate := func(ctx context.Context, expression string) (float64, error) {
		return service.Evaluate(ctx, expression, store.SourceCLI, "")
	}
	return evaluate, func() {}, nil
}

func evalExpression(cmd *cobra.Command, a *app, evaluate evaluateFunc, expression string) bool {
	out := cmd.OutOrStdout()

	value, err := evaluate(cmd.Context(), expression)
	if err != nil {
		fmt.Fprintln(out, mathx.ErrorText)
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", expression, err)
		return false
	}

	fmt.Fprintln(out, mathx.FormatResult(value))

	if evalDetails && evalRemote == "" {
		if tokens, err := mdwparser.Tokenize(expression, a.engine.CharacterPolicy()); err == nil {
			texts := make([]string, 0, len(tokens))
			for _, tok := range tokens {
				if tok.Type != mdwparser.TokenEOF {
					texts = append(texts, tok.String())
				}
			}
			fmt.Fprintf(out, "  tokens:  %s\n", strings.Join(texts, " "))
		}
		result, err := a.engine.EvaluateDetailed(expression)
		if err == nil {
			fmt.Fprintf(out, "  postfix: %s\n", result.Postfix)
			fmt.Fprintf(out, "  nodes:   %d leaves, %d operators, depth %d\n",
				result.Stats.Leaves, result.Stats.Operators, result.Stats.Depth)
		}
	}
	return true
}

// readExpressions reads one expression per non-empty line
func readExpressions(r io.Reader) ([]string, error) {
	var expressions []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		expressions = append(expressions, line)
	}
	return expressions, scanner.Err()
}
