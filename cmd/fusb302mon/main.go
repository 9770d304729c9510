// Fusb302mon watches a USB Type-C host port driven by an FUSB302 on a Linux
// I2C bus. It reports device and cable attachment, reads the identity of
// emarked cables and dumps the chip registers.
package main

import "log"

func main() {
	log.SetFlags(0)
	Execute()
}
