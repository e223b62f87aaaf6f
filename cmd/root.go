// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Persisted store image
	storePath string
)

var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "Hearth Home Environment Gateway",
	Long: `Hearth - Gateway firmware core for the Hearthworks home-environment
controller.

Maintains the persisted environment targets (temperature, humidity,
lighting), keeps them synchronized with the Imp cloud bridge and the
Xbee sensor array over a shared serial line, and drives the operator
front panel.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]

Any flag can also be supplied through the environment (HEARTH_PORT,
HEARTH_BAUD, ...) or a hearth.yaml config file in the working directory
or home directory. For WebSocket authentication, the password is read
from the HEARTH_PASSWORD environment variable, or prompted interactively
if not set. The --password flag is intentionally not provided to avoid
leaking credentials in shell history.`,
	Version: "1.4.0",
}

func init() {
	cobra.OnInitialize(initConfig)

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVar(&storePath, "store", "hearth.nvram", "Path of the persisted settings image")

	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("baud", rootCmd.PersistentFlags().Lookup("baud"))
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag("username", rootCmd.PersistentFlags().Lookup("username"))
	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
}

// initConfig pulls defaults from an optional config file and the
// HEARTH_* environment before any command runs. Explicit flags still
// win because viper prefers bound flag values that were changed.
func initConfig() {
	viper.SetConfigName("hearth")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()

	viper.SetEnvPrefix("HEARTH")
	viper.AutomaticEnv()

	portName = viper.GetString("port")
	baudRate = viper.GetInt("baud")
	wsURL = viper.GetString("url")
	wsUsername = viper.GetString("username")
	storePath = viper.GetString("store")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
