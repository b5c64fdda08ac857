package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/patelanuj7/calculatorapp/foundation/utils/mathx"
	"github.com/patelanuj7/calculatorapp/internal/history/store"
	"github.com/spf13/cobra"
)

var (
	historyLimit    int
	historySource   string
	historyFailures bool
	historySince    time.Duration
	historyKeep     int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Verlauf der Auswertungen",
	Long: `Zeigt und verwaltet den Verlauf der Auswertungen.

Der Verlauf wird in einer SQLite-Datenbank gespeichert (history.path in der
Config, default: ./data/history.db).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet die letzten Auswertungen",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Löscht den Verlauf",
	RunE:  runHistoryClear,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Zeigt Statistiken zum Verlauf",
	RunE:  runHistoryStats,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Zeigt einen Eintrag im Detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Behält nur die neuesten Einträge",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd, historyStatsCmd, historyPruneCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximale Anzahl Einträge")
	historyListCmd.Flags().StringVar(&historySource, "source", "", "Nur Einträge einer Quelle (cli, tui, grpc, ws, http)")
	historyListCmd.Flags().BoolVar(&historyFailures, "failures", false, "Nur fehlgeschlagene Auswertungen")
	historyListCmd.Flags().DurationVar(&historySince, "since", 0, "Nur Einträge der letzten Dauer (z.B. 1h)")

	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "Anzahl der zu behaltenden Einträge")
}

// withHistory opens the configured history store and runs fn on it
func withHistory(fn func(ctx context.Context, history store.HistoryStore) error) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	history, err := a.openHistory()
	if err != nil {
		return err
	}
	if history == nil {
		return errors.New("verlauf ist in der Config deaktiviert (history.enabled = false)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return fn(ctx, history)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withHistory(func(ctx context.Context, history store.HistoryStore) error {
		filter := store.Filter{
			Source:       store.Source(historySource),
			OnlyFailures: historyFailures,
			Limit:        historyLimit,
		}
		if historySince > 0 {
			filter.Since = time.Now().Add(-historySince)
		}

		records, err := history.List(ctx, filter)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Keine Einträge")
			return nil
		}
		printRecords(cmd.OutOrStdout(), records)
		return nil
	})
}

func printRecords(out io.Writer, records []*store.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tZEIT\tQUELLE\tAUSDRUCK\tERGEBNIS")
	for _, r := range records {
		result := mathx.FormatResult(r.Value)
		if !r.Success {
			result = fmt.Sprintf("%s (%s)", mathx.ErrorText, r.ErrorCode)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Source,
			r.Expression,
			result,
		)
	}
	w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withHistory(func(ctx context.Context, history store.HistoryStore) error {
		r, err := history.Get(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("kein Eintrag mit ID %s", args[0])
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:         %s\n", r.ID)
		fmt.Fprintf(out, "Zeit:       %s\n", r.Timestamp.Local().Format(time.RFC3339))
		fmt.Fprintf(out, "Quelle:     %s\n", r.Source)
		fmt.Fprintf(out, "Ausdruck:   %s\n", r.Expression)
		if r.Success {
			fmt.Fprintf(out, "Ergebnis:   %s\n", mathx.FormatResult(r.Value))
		} else {
			fmt.Fprintf(out, "Fehler:     %s (%s)\n", r.Error, r.ErrorCode)
		}
		if r.RequestID != "" {
			fmt.Fprintf(out, "Request-ID: %s\n", r.RequestID)
		}
		fmt.Fprintf(out, "Dauer:      %s\n", r.Duration)
		return nil
	})
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	return withHistory(func(ctx context.Context, history store.HistoryStore) error {
		n, err := history.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d Einträge gelöscht\n", n)
		return nil
	})
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	return withHistory(func(ctx context.Context, history store.HistoryStore) error {
		stats, err := history.Stats(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Einträge:        %d\n", stats.Total)
		fmt.Fprintf(out, "Fehlgeschlagen:  %d\n", stats.Failures)
		if stats.Total > 0 {
			fmt.Fprintf(out, "Erster Eintrag:  %s\n", stats.First.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Letzter Eintrag: %s\n", stats.Last.Local().Format(time.RFC3339))
		}
		return nil
	})
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if historyKeep < 0 {
		return fmt.Errorf("--keep muss >= 0 sein")
	}
	return withHistory(func(ctx context.Context, history store.HistoryStore) error {
		n, err := history.Prune(ctx, historyKeep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d Einträge entfernt\n", n)
		return nil
	})
}
