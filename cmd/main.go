package main

import (
	"GoRideShare/config"
	"GoRideShare/config/server"
	"GoRideShare/internal/forwarder"
	"GoRideShare/internal/google"
	"GoRideShare/internal/handler"
	"GoRideShare/internal/metrics"
	"GoRideShare/internal/security"
	"GoRideShare/internal/service"
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "путь к yaml-файлу конфигурации")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	logger := server.SetupLogger(cfg.Env)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpClient := &http.Client{Timeout: cfg.Downstream.Timeout}

	minters, err := server.SetupMinters(httpClient, cfg)
	if err != nil {
		logger.Error("ошибка конфигурации выпуска токенов", slog.String("err", err.Error()))
		os.Exit(1)
	}

	backend, err := server.SetupTokenBackend(ctx, cfg.TokenStore)
	if err != nil {
		logger.Error("не удалось подключиться к хранилищу токенов", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer backend.Close(context.Background())

	metrics.Register(prometheus.DefaultRegisterer)

	tokenStore := service.NewTokenStore(backend.Repository)
	tokenVerifier := service.NewTokenVerifier(backend.Repository)
	headerGate := security.NewHeaderGate()
	pairingGate := security.NewPairingGate(tokenVerifier, minters.LogicValidator)

	downstream := forwarder.New(httpClient, cfg.Downstream.BaseURL)
	googleClient := google.NewClient(httpClient, cfg.Google)
	authenticationService := service.NewAuthenticationService(downstream, tokenStore, minters.Logic, minters.Db, googleClient)

	timeout := cfg.Server.RequestTimeout
	handlers := handler.Handlers{
		Authentication: handler.NewAuthenticationHandler(authenticationService, timeout),
		Users:          handler.NewUserHandler(downstream, timeout),
		Posts:          handler.NewPostHandler(downstream, timeout),
		Messages:       handler.NewMessageHandler(downstream, timeout),
	}
	health := handler.NewHealthHandler(backend.Health, timeout)

	httpServer, router := server.SetupServer(cfg.Server)
	router.Use(handler.RequestLogger(logger))

	router.Get("/livez", health.Livez)
	router.Get("/healthz", health.Healthz)
	router.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(router, handlers, headerGate, pairingGate)

	runServer(ctx, httpServer, cfg.Server)
}

func runServer(ctx context.Context, httpServer *http.Server, cfg config.ServerConfig) {
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("сервер запущен", slog.String("addr", httpServer.Addr))
		serverErrors <- httpServer.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ошибка работы сервера", slog.String("err", err.Error()))
			return
		}
	case sig := <-signalChannel:
		slog.Info("получен сигнал остановки работы сервера", slog.String("signal", sig.String()))
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutDownCancel()

	if err := httpServer.Shutdown(shutDownCtx); err != nil {
		slog.Error("ошибка при остановке сервера", slog.String("err", err.Error()))
	} else {
		slog.Info("сервер успешно остановлен")
	}
}
