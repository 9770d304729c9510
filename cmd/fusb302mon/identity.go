package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxplot/go-typec-host"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Read the identity of the attached emarked cable.",
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

		// The first update classifies the port and, on an active cable,
		// powers it and asks for its identity.
		if _, err := f.Update(); err != nil {
			return err
		}
		s := f.Status()
		if !s.State.ActiveCable() {
			return fmt.Errorf("no active cable attached (state %s)", s.State)
		}
		if s.Identity == nil {
			return fmt.Errorf("cable on %s did not answer Discover Identity", s.Orientation)
		}
		printIdentity(os.Stdout, s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(identityCmd)
}

func printIdentity(w io.Writer, s typec.Status) {
	id := s.Identity
	fmt.Fprintf(w, "Orientation:   %s\n", s.Orientation)
	fmt.Fprintf(w, "Device:        %t\n", s.State.DeviceAttached())
	fmt.Fprintf(w, "Vendor ID:     0x%04X\n", id.VendorID)
	fmt.Fprintf(w, "ID header:     0x%08X\n", id.IDHeader)
	fmt.Fprintf(w, "XID:           0x%08X\n", id.CertStat)
	fmt.Fprintf(w, "Product ID:    0x%04X\n", id.Product.ProductID())
	fmt.Fprintf(w, "bcdDevice:     0x%04X\n", id.Product.BCDDevice())
	c, ok := id.Cable()
	if !ok {
		return
	}
	fmt.Fprintf(w, "HW version:    %d\n", c.HardwareVersion())
	fmt.Fprintf(w, "FW version:    %d\n", c.FirmwareVersion())
	fmt.Fprintf(w, "VBUS current:  %d mA\n", c.MaxVBUSCurrent())
	fmt.Fprintf(w, "USB speed:     %d\n", c.USBSpeed())
	for i := uint8(1); i < id.ProductTypeN; i++ {
		fmt.Fprintf(w, "VDO %d:         0x%08X\n", i, id.ProductTypeVDOs[i])
	}
}
