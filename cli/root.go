package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cloud_scanner "go-sentinel/cloud-scanner"
	"go-sentinel/compliance"
	config_scanner "go-sentinel/config-scanner"
	container_scanner "go-sentinel/container-scanner"
	"go-sentinel/engine"
	network_scanner "go-sentinel/network-scanner"
	"go-sentinel/plugin"
	tls_scanner "go-sentinel/tls-scanner"
	web_scanner "go-sentinel/web-scanner"
)

var (
	Version = "0.1.0"
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "sentinel",
		Short: "Pluggable security scanning engine",
		Long:  "sentinel runs network, web, TLS, cloud and container scanner modules against authorized targets and produces normalized findings.",
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Int("timeout", 2000, "Per-probe timeout in milliseconds")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	// Environment variable support (SENTINEL_TIMEOUT, etc.)
	viper.SetEnvPrefix("SENTINEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newExpandCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func printBanner() {
	figure.NewFigure("sentinel", "", true).Print()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sentinel %s\n", Version)
		},
	}
}

// newRegistry assembles the default module set with a shared timeout.
func newRegistry() *plugin.Registry {
	timeout := time.Duration(viper.GetInt("timeout")) * time.Millisecond
	tlsMod := &tls_scanner.Scanner{Timeout: timeout}
	return plugin.NewRegistry(
		&network_scanner.Scanner{Timeout: timeout},
		&web_scanner.Scanner{Timeout: 10 * time.Second, TLS: tlsMod},
		tlsMod,
		&cloud_scanner.Scanner{},
		&container_scanner.Scanner{Timeout: timeout},
		&config_scanner.Auditor{Timeout: timeout},
	)
}

// newEngine builds an engine over the default registry.
func newEngine(maxSessions int, opts ...engine.Option) *engine.Engine {
	return engine.New(newRegistry(), compliance.NewScorer(), maxSessions, opts...)
}
