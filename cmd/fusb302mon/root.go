package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oxplot/go-typec-host/tchost"
)

var (
	busName  string
	mpnName  string
	current  string
	interval time.Duration
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fusb302mon",
	Short: "Monitor a USB Type-C host port driven by an FUSB302.",
	Long: `fusb302mon drives an FUSB302 as a USB Type-C host port. It detects ` +
		`attached devices and emarked cables, powers cables over VCONN and ` +
		`reads their identity. Flag defaults are taken from the FUSB302_* ` +
		`environment variables, also loaded from a .env file if present.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// A missing .env file is fine, the environment and flags still apply.
	_ = godotenv.Load()

	f := rootCmd.PersistentFlags()
	f.StringVar(&busName, "bus", envString("FUSB302_BUS", "1"),
		"I2C bus name or number")
	f.StringVar(&mpnName, "mpn", envString("FUSB302_MPN", "FUSB302BMPX"),
		"FUSB302 part number, selects the I2C address")
	f.StringVar(&current, "current", envString("FUSB302_CURRENT", "500mA"),
		"current advertised to devices: 500mA, 1.5A or 3A")
	f.DurationVar(&interval, "interval", envDuration("FUSB302_INTERVAL", tchost.DefaultInterval),
		"port polling interval")
	f.BoolVarP(&verbose, "verbose", "v", false, "log driver debug messages")
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("ignoring %s: %v", key, err)
		return def
	}
	return d
}
