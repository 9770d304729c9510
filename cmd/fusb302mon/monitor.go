package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oxplot/go-typec-host/tchost"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print attach and detach events until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, b, err := openPort()
		if err != nil {
			return err
		}
		defer b.Close()
		if err := setupPort(f); err != nil {
			return err
		}

		m := tchost.New(f, interval)
		m.SetEventHandler(tchost.NewLogger(os.Stdout, "\n", nil))
		m.SetErrorHandler(tchost.ErrorHandlerFunc(func(err error) {
			log.Printf("update failed: %v", err)
		}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		m.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
