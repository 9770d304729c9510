package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxplot/go-typec-host/tcpcdriver/fusb302"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [control|status]...",
	Short: "Print the chip registers field by field.",
	Long: `Reads the given register banks, both by default, and prints every ` +
		`field. The chip is not reset or reconfigured.`,
	ValidArgs: []string{"control", "status"},
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		banks := []fusb302.Bank{fusb302.BankControl, fusb302.BankStatus}
		if len(args) > 0 {
			banks = banks[:0]
			for _, a := range args {
				if a == "control" {
					banks = append(banks, fusb302.BankControl)
				} else {
					banks = append(banks, fusb302.BankStatus)
				}
			}
		}

		f, b, err := openPort()
		if err != nil {
			return err
		}
		defer b.Close()

		v, r, err := f.DeviceID()
		if err != nil {
			return err
		}
		fmt.Printf("FUSB302 version %d revision %d on %s\n", v, r, b)
		for _, bank := range banks {
			if err := f.DumpRegisters(os.Stdout, bank); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
