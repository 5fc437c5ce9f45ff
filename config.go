package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// SimPIN is the SIM card PIN code
	SimPIN string

	// MqttBroker is the tcp://host:port address of an MQTT broker to
	// publish device events to. Empty disables the MQTT sink entirely.
	MqttBroker   string
	MqttClientID string
	MqttTopic    string
	MqttUser     string
	MqttPass     string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.MqttClientID = "gsm-core"
		c.MqttTopic = "gsm-core/events"
		return nil
	}
}

// WithIniFile loads configuration from an ini file, the way
// toby1984-sms-gateway's config package loads its settings file. A missing
// path is not an error: the ini layer is optional, composed with env/flags.
func WithIniFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
		cfg, err := ini.Load(path)
		if err != nil {
			return fmt.Errorf("load ini config %q: %w", path, err)
		}

		modem := cfg.Section("modem")
		if v := modem.Key("serialPort").String(); v != "" {
			c.SerialPort = v
		}
		if v := modem.Key("baudRate").MustInt(0); v != 0 {
			c.BaudRate = v
		}
		if v := modem.Key("simPin").String(); v != "" {
			c.SimPIN = v
		}

		restapi := cfg.Section("restapi")
		if v := restapi.Key("bindAddress").String(); v != "" {
			c.BindAddress = v
		}

		common := cfg.Section("common")
		if v := common.Key("logLevel").String(); v != "" {
			c.LogLevel = v
		}

		mqtt := cfg.Section("mqtt")
		c.MqttBroker = mqtt.Key("broker").String()
		if v := mqtt.Key("clientId").String(); v != "" {
			c.MqttClientID = v
		}
		if v := mqtt.Key("topic").String(); v != "" {
			c.MqttTopic = v
		}
		c.MqttUser = mqtt.Key("user").String()
		c.MqttPass = mqtt.Key("pass").String()

		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if simPIN := os.Getenv("SIM_PIN"); simPIN != "" {
			c.SimPIN = simPIN
		}

		if broker := os.Getenv("MQTT_BROKER"); broker != "" {
			c.MqttBroker = broker
		}
		if clientID := os.Getenv("MQTT_CLIENT_ID"); clientID != "" {
			c.MqttClientID = clientID
		}
		if topic := os.Getenv("MQTT_TOPIC"); topic != "" {
			c.MqttTopic = topic
		}
		if user := os.Getenv("MQTT_USER"); user != "" {
			c.MqttUser = user
		}
		if pass := os.Getenv("MQTT_PASS"); pass != "" {
			c.MqttPass = pass
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "sim-pin":
				c.SimPIN = f.Value.String()
			case "mqtt-broker":
				c.MqttBroker = f.Value.String()
			}

		})
		return nil

	}
}
