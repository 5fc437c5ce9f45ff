package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/i4energy/gsm-core/internal/api"
	"github.com/i4energy/gsm-core/modem"
)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port to connect to the modem")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("sim-pin", "", "SIM card PIN code (if required)")
	flag.String("mqtt-broker", "", "MQTT broker URL for event fan-out (e.g. tcp://localhost:1883), empty disables it")
	iniPath := flag.String("config", "", "Path to an optional .ini config file")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithIniFile(*iniPath), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	modemConfig, err := modem.NewConfigBuilder().
		WithATTimeout(5 * time.Second).
		WithInitTimeout(30 * time.Second).
		WithMaxRetries(5).
		WithMinSendInterval(10 * time.Second).
		WithSimPIN(config.SimPIN).
		WithDialer(modem.SerialDialer{
			PortName: config.SerialPort,
			BaudRate: config.BaudRate,
		}).
		Build()
	if err != nil {
		logger.Error("Failed to create modem config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := modem.New(ctx, modemConfig)
	if err != nil {
		logger.Error("Failed to create modem", "error", err)
		os.Exit(1)
	}

	var mqttSink *modem.MQTTEventSink
	if config.MqttBroker != "" {
		mqttSink, err = modem.NewMQTTEventSink(config.MqttBroker, config.MqttClientID, config.MqttTopic, config.MqttUser, config.MqttPass, 64, logger.With("component", "mqtt"))
		if err != nil {
			logger.Error("Failed to connect to MQTT broker", "error", err)
			os.Exit(1)
		}
		m.Subscribe(mqttSink.Listener())
		logger.Info("MQTT event fan-out enabled", "broker", config.MqttBroker, "topic", config.MqttTopic)
	}

	logger.Info("Starting SMS Gateway", "serial_port", config.SerialPort, "baud_rate", config.BaudRate)

	httpServer := &http.Server{
		Addr:    config.BindAddress,
		Handler: api.NewServer(m, logger.With("component", "api"), logLevel != slog.LevelDebug).Handler(),
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := m.Loop(groupCtx)
		if err != nil && err != context.Canceled {
			logger.Error("Modem loop exited", "error", err)
		}
		return err
	})

	group.Go(func() error {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		logger.Info("Closing HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to gracefully shutdown server", "error", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("Component exited with error", "error", err)
	}

	if mqttSink != nil {
		mqttSink.Close()
	}

	logger.Info("Closing modem connection")
	if err := m.Close(); err != nil {
		logger.Error("Failed to close modem", "error", err)
	}
}
