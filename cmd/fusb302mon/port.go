package main

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/oxplot/go-typec-host"
	"github.com/oxplot/go-typec-host/tcpcdriver/fusb302"
)

const busSpeed = physic.MegaHertz

// openPort opens the I2C bus and returns a driver for the chip on it. The
// caller closes the bus.
func openPort() (*fusb302.FUSB302, i2c.BusCloser, error) {
	mpn, err := fusb302.ParseMPN(mpnName)
	if err != nil {
		return nil, nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing host drivers: %w", err)
	}
	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("opening I2C bus %q: %w", busName, err)
	}
	if err := b.SetSpeed(busSpeed); err != nil {
		b.Close()
		return nil, nil, fmt.Errorf("setting I2C bus speed: %w", err)
	}

	f := fusb302.New(b, mpn)
	if verbose {
		f.SetLogger(log.Default())
	}
	return f, b, nil
}

// setupPort resets the chip and starts host monitoring with the current
// selected on the command line.
func setupPort(f *fusb302.FUSB302) error {
	c, err := typec.ParseHostCurrent(current)
	if err != nil {
		return err
	}
	cfg := fusb302.DefaultHostConfig()
	cfg.Current = c
	return f.SetupHostMonitoring(cfg)
}
