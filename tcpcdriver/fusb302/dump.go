package fusb302

import (
	"fmt"
	"io"
	"text/tabwriter"
)

type namedField struct {
	name  string
	field Field
}

var controlFields = []namedField{
	{"VERSION_ID", VersionID},
	{"REVISION_ID", RevisionID},
	{"PU_EN2", PUEn2},
	{"PU_EN1", PUEn1},
	{"VCONN_CC2", VConnCC2},
	{"VCONN_CC1", VConnCC1},
	{"MEAS_CC2", MeasCC2},
	{"MEAS_CC1", MeasCC1},
	{"PDWN2", PDWN2},
	{"PDWN1", PDWN1},
	{"POWERROLE", PowerRole},
	{"SPECREV", SpecRev},
	{"DATAROLE", DataRole},
	{"AUTO_CRC", AutoCRC},
	{"TXCC2", TxCC2},
	{"TXCC1", TxCC1},
	{"MEAS_VBUS", MeasVBus},
	{"MDAC", MDAC},
	{"SDAC_HYS", SDACHys},
	{"SDAC", SDAC},
	{"INT_MASK", IntMask},
	{"HOST_CUR", HostCur},
	{"AUTO_PRE", AutoPre},
	{"ENSOP2DB", EnSOP2DB},
	{"ENSOP1DB", EnSOP1DB},
	{"BIST_MODE2", BISTMode2},
	{"ENSOP2", EnSOP2},
	{"ENSOP1", EnSOP1},
	{"TOG_SAVE_PWR", TogSavePwr},
	{"TOG_RD_ONLY", TogRdOnly},
	{"WAKE_EN", WakeEn},
	{"MODE", Mode},
	{"TOGGLE", Toggle},
	{"AUTO_HARDRESET", AutoHardReset},
	{"AUTO_SOFTRESET", AutoSoftReset},
	{"N_RETRIES", NRetries},
	{"AUTO_RETRY", AutoRetry},
	{"MASK", MaskAll},
	{"PWR", Field{RegPower, 0x0F, 0}},
	{"OCP_RANGE", OCPRange},
	{"OCP_CUR", OCPCur},
	{"MASKA", MaskAAll},
	{"M_GCRCSENT", MGCRCSent},
	{"TOG_USRC_EXIT", TogUsrcExit},
}

var statusFields = []namedField{
	{"SOFTFAIL", SoftFail},
	{"RETRYFAIL", RetryFail},
	{"POWER", Power},
	{"SOFTRST", SoftRst},
	{"HARDRST", HardRst},
	{"TOGSS", TogSS},
	{"RXSOP2DB", RxSOP2DB},
	{"RXSOP1DB", RxSOP1DB},
	{"RXSOP", RxSOP},
	{"I_OCP_TEMP", IOCPTemp},
	{"I_TOGDONE", ITogDone},
	{"I_SOFTFAIL", ISoftFail},
	{"I_RETRYFAIL", IRetryFail},
	{"I_HARDSENT", IHardSent},
	{"I_TXSENT", ITxSent},
	{"I_SOFTRST", ISoftRst},
	{"I_HARDRST", IHardRst},
	{"I_GCRCSENT", IGCRCSent},
	{"VBUSOK", VBusOK},
	{"ACTIVITY", Activity},
	{"COMP", Comp},
	{"CRC_CHK", CRCChk},
	{"ALERT", Alert},
	{"WAKE", Wake},
	{"BC_LVL", BCLvl},
	{"RXSOP2", RxSOP2},
	{"RXSOP1", RxSOP1},
	{"RX_EMPTY", RxEmpty},
	{"RX_FULL", RxFull},
	{"TX_EMPTY", TxEmpty},
	{"TX_FULL", TxFull},
	{"OVRTEMP", OvrTemp},
	{"OCP", OCP},
	{"I_VBUSOK", IVBusOK},
	{"I_ACTIVITY", IActivity},
	{"I_COMP_CHNG", ICompChng},
	{"I_CRC_CHK", ICRCChk},
	{"I_ALERT", IAlert},
	{"I_WAKE", IWake},
	{"I_COLLISION", ICollision},
	{"I_BC_LVL", IBCLvl},
}

// DumpRegisters reads bank b and writes one line per field with its register
// address and value. Reading the status bank clears pending interrupts.
func (f *FUSB302) DumpRegisters(w io.Writer, b Bank) error {
	if err := f.ReadBank(b); err != nil {
		return err
	}
	return f.regs.Dump(w, b)
}

// Dump writes the mirrored fields of bank b without reading the chip.
func (m *Mirror) Dump(w io.Writer, b Bank) error {
	fields := controlFields
	if b == BankStatus {
		fields = statusFields
	}
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "%s registers:\n", b)
	for _, nf := range fields {
		v, err := m.Get(nf.field)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "  0x%02X\t%s\t%d\t(0x%02X)\n", nf.field.Reg, nf.name, v, v)
	}
	return tw.Flush()
}
