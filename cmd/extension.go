package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/etnz/contract/config"
)

// Environment passed to extensions.
const (
	EnvDriver   = "CONTRACT_DRIVER"
	EnvDSN      = "CONTRACT_DSN"
	EnvOwner    = "CONTRACT_OWNER"
	EnvCurrency = "CONTRACT_CURRENCY"
	EnvLogLevel = "CONTRACT_LOG_LEVEL"
	EnvBrokers  = "CONTRACT_KAFKA_BROKERS"
	EnvTopic    = "CONTRACT_KAFKA_TOPIC"
)

// RunExtension attempts to find and execute an external contractctl-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The extension receives the effective configuration in its environment.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "contractctl-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		slog.Debug("extension not found", "name", name, "error", err)
		return false, 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv(cfg)...)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

func extensionEnv(cfg config.Config) []string {
	return []string{
		EnvDriver + "=" + cfg.Driver,
		EnvDSN + "=" + cfg.DSN,
		EnvOwner + "=" + cfg.Owner,
		EnvCurrency + "=" + cfg.Currency,
		EnvLogLevel + "=" + cfg.LogLevel,
		EnvBrokers + "=" + strings.Join(cfg.Kafka.Brokers, ","),
		EnvTopic + "=" + cfg.Kafka.Topic,
	}
}
