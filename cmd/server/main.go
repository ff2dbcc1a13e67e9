package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/krakosik/telemetry/internal/client"
	"github.com/krakosik/telemetry/internal/controller"
	"github.com/krakosik/telemetry/internal/dto"
	"github.com/krakosik/telemetry/internal/repository"
	"github.com/krakosik/telemetry/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := dto.LoadConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	cfg.ConfigureLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients := client.NewClients(cfg)

	repositories := repository.NewRepositories()
	services := service.NewServices(repositories, cfg, clients)
	controllers := controller.NewControllers(services)

	e := controller.NewEcho(controllers)
	// ends open location streams so Shutdown does not wait on them
	e.Server.RegisterOnShutdown(func() {
		if err := clients.Close(); err != nil {
			logrus.Errorf("Error closing broker: %v", err)
		}
	})

	go func() {
		logrus.Infof("Starting %s %s on %s (field set %s)", dto.ServiceName, dto.ServiceVersion, cfg.Address(), cfg.FieldSet)
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	logrus.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
}
