package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mdwlog "github.com/patelanuj7/calculatorapp/foundation/core/log"
	"github.com/patelanuj7/calculatorapp/internal/server"
	"github.com/patelanuj7/calculatorapp/pkg/core/config"
	"github.com/patelanuj7/calculatorapp/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	serveGRPCPort int
	serveHTTPPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den Calculator-Server",
	Long: `Startet den Calculator-Server.

Endpunkte:
  gRPC  :9300  calculator.v1.Calculator/Evaluate, grpc.health.v1, Reflection
  HTTP  :8300  /ws (WebSocket), /api/v1/evaluate, /healthz, /metrics

Änderungen an der Config-Datei werden erkannt; das Log-Level wird sofort
übernommen, andere Einstellungen nach einem Neustart.

Beispiele:
  calc serve
  calc serve --grpc-port 9400 --http-port 8400
  calc serve --config ./configs/config.example.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC-Port (überschreibt Config)")
	serveCmd.Flags().IntVar(&serveHTTPPort, "http-port", 0, "HTTP-Port (überschreibt Config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.logger("calc-server")

	history, err := a.openHistory()
	if err != nil {
		return err
	}

	results := a.resultCache()
	if results != nil {
		defer results.Close()
	}

	service := server.NewService(server.ServiceConfig{
		Engine:  a.engine,
		Policy:  a.policyKey(),
		Cache:   results,
		History: history,
		Logger:  a.logger("calc-service"),
	})

	srvCfg := server.ConfigFrom(a.config)
	if serveGRPCPort > 0 {
		srvCfg.GRPCPort = serveGRPCPort
	}
	if serveHTTPPort > 0 {
		srvCfg.HTTPPort = serveHTTPPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path := a.config.Path(); path != "" {
		if err := config.Watch(ctx, path, reloadHandler(a, logger)); err != nil {
			logger.WarnWithErr("Config-Überwachung nicht möglich", err, "path", path)
		}
	}

	fmt.Printf("Calculator-Server: gRPC :%d, HTTP :%d\n", srvCfg.GRPCPort, srvCfg.HTTPPort)

	srv := server.New(srvCfg, service, logger)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Calculator-Server beendet")
	return nil
}

// reloadHandler applies the log level of a changed configuration
func reloadHandler(a *app, logger *logging.Logger) config.ChangeHandler {
	return func(cfg *config.Config, err error) {
		if err != nil {
			logger.WarnWithErr("Config konnte nicht neu geladen werden", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			logger.WarnWithErr("Neue Config ungültig, wird ignoriert", err)
			return
		}

		if level, perr := mdwlog.ParseLevel(cfg.General.LogLevel); perr == nil && !verbose {
			a.setLevel(level)
			logger.Info("Log-Level übernommen", "level", cfg.General.LogLevel)
		}
		if cfg.Calc != a.config.Calc || cfg.Server.GRPCPort != a.config.Server.GRPCPort || cfg.Server.HTTPPort != a.config.Server.HTTPPort {
			logger.Warn("Geänderte Einstellungen werden erst nach einem Neustart wirksam")
		}
	}
}
