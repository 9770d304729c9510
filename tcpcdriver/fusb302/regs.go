package fusb302

// Register addresses.
const (
	// Control registers, all mirrored in BankControl.
	RegDeviceID  = 0x01 // R
	RegSwitches0 = 0x02
	RegSwitches1 = 0x03
	RegMeasure   = 0x04
	RegSlice     = 0x05
	RegControl0  = 0x06
	RegControl1  = 0x07
	RegControl2  = 0x08
	RegControl3  = 0x09
	RegMask      = 0x0A
	RegPower     = 0x0B
	RegReset     = 0x0C // W/C
	RegOCPreg    = 0x0D
	RegMaskA     = 0x0E
	RegMaskB     = 0x0F
	RegControl4  = 0x10

	// Status registers, all mirrored in BankStatus. Interrupt registers clear
	// on read.
	RegStatus0A    = 0x3C
	RegStatus1A    = 0x3D
	RegInterruptA  = 0x3E // R/C
	RegInterruptB  = 0x3F // R/C
	RegStatus0     = 0x40
	RegStatus1     = 0x41
	RegInterrupt   = 0x42 // R/C
	regFIFOs       = 0x43 // not mirrored
	controlStart   = RegDeviceID
	controlNum     = 16
	statusStart    = RegStatus0A
	statusNum      = 7
	maxBankSize    = controlNum
	maxFIFOPayload = 80
)

// Register fields. Boolean fields have OffsetNone.
var (
	// DEVICE_ID
	VersionID  = Field{RegDeviceID, 0xF0, 4}
	RevisionID = Field{RegDeviceID, 0x0F, 0}

	// SWITCHES0
	PUEn2    = Field{RegSwitches0, 1 << 7, OffsetNone}
	PUEn1    = Field{RegSwitches0, 1 << 6, OffsetNone}
	VConnCC2 = Field{RegSwitches0, 1 << 5, OffsetNone}
	VConnCC1 = Field{RegSwitches0, 1 << 4, OffsetNone}
	MeasCC2  = Field{RegSwitches0, 1 << 3, OffsetNone}
	MeasCC1  = Field{RegSwitches0, 1 << 2, OffsetNone}
	PDWN2    = Field{RegSwitches0, 1 << 1, OffsetNone}
	PDWN1    = Field{RegSwitches0, 1 << 0, OffsetNone}

	// SWITCHES1
	PowerRole = Field{RegSwitches1, 1 << 7, OffsetNone}
	SpecRev   = Field{RegSwitches1, 0x3 << 5, 5}
	DataRole  = Field{RegSwitches1, 1 << 4, OffsetNone}
	AutoCRC   = Field{RegSwitches1, 1 << 2, OffsetNone}
	TxCC2     = Field{RegSwitches1, 1 << 1, OffsetNone}
	TxCC1     = Field{RegSwitches1, 1 << 0, OffsetNone}

	// MEASURE
	MeasVBus = Field{RegMeasure, 1 << 6, OffsetNone}
	MDAC     = Field{RegMeasure, 0x3F, 0}

	// SLICE
	SDACHys = Field{RegSlice, 0x3 << 6, 6}
	SDAC    = Field{RegSlice, 0x3F, 0}

	// CONTROL0
	TxFlush = Field{RegControl0, 1 << 6, OffsetNone} // W/C
	IntMask = Field{RegControl0, 1 << 5, OffsetNone}
	HostCur = Field{RegControl0, 0x3 << 2, 2}
	AutoPre = Field{RegControl0, 1 << 1, OffsetNone}
	TxStart = Field{RegControl0, 1 << 0, OffsetNone} // W/C

	// CONTROL1
	EnSOP2DB  = Field{RegControl1, 1 << 6, OffsetNone}
	EnSOP1DB  = Field{RegControl1, 1 << 5, OffsetNone}
	BISTMode2 = Field{RegControl1, 1 << 4, OffsetNone}
	RxFlush   = Field{RegControl1, 1 << 2, OffsetNone} // W/C
	EnSOP2    = Field{RegControl1, 1 << 1, OffsetNone}
	EnSOP1    = Field{RegControl1, 1 << 0, OffsetNone}

	// CONTROL2
	TogSavePwr = Field{RegControl2, 0x3 << 6, 6}
	TogRdOnly  = Field{RegControl2, 1 << 5, OffsetNone}
	WakeEn     = Field{RegControl2, 1 << 3, OffsetNone}
	Mode       = Field{RegControl2, 0x3 << 1, 1}
	Toggle     = Field{RegControl2, 1 << 0, OffsetNone}

	// CONTROL3
	SendHardReset = Field{RegControl3, 1 << 6, OffsetNone} // W/C
	AutoHardReset = Field{RegControl3, 1 << 4, OffsetNone}
	AutoSoftReset = Field{RegControl3, 1 << 3, OffsetNone}
	NRetries      = Field{RegControl3, 0x3 << 1, 1}
	AutoRetry     = Field{RegControl3, 1 << 0, OffsetNone}

	// MASK
	MaskAll = Field{RegMask, 0xFF, 0}

	// POWER
	PwrIntOsc      = Field{RegPower, 1 << 3, OffsetNone}
	PwrMeasBlock   = Field{RegPower, 1 << 2, OffsetNone}
	PwrRecvCur     = Field{RegPower, 1 << 1, OffsetNone}
	PwrBandgapWake = Field{RegPower, 1 << 0, OffsetNone}

	// RESET
	PDReset = Field{RegReset, 1 << 1, OffsetNone}
	SWReset = Field{RegReset, 1 << 0, OffsetNone}

	// OCPREG
	OCPRange = Field{RegOCPreg, 1 << 3, OffsetNone}
	OCPCur   = Field{RegOCPreg, 0x7, 0}

	// MASKA, MASKB
	MaskAAll  = Field{RegMaskA, 0xFF, 0}
	MGCRCSent = Field{RegMaskB, 1 << 0, OffsetNone}

	// CONTROL4
	TogUsrcExit = Field{RegControl4, 1 << 0, OffsetNone}

	// STATUS0A
	SoftFail  = Field{RegStatus0A, 1 << 5, OffsetNone}
	RetryFail = Field{RegStatus0A, 1 << 4, OffsetNone}
	Power     = Field{RegStatus0A, 0x3 << 2, 2}
	SoftRst   = Field{RegStatus0A, 1 << 1, OffsetNone}
	HardRst   = Field{RegStatus0A, 1 << 0, OffsetNone}

	// STATUS1A
	TogSS    = Field{RegStatus1A, 0x7 << 3, 3}
	RxSOP2DB = Field{RegStatus1A, 1 << 2, OffsetNone}
	RxSOP1DB = Field{RegStatus1A, 1 << 1, OffsetNone}
	RxSOP    = Field{RegStatus1A, 1 << 0, OffsetNone}

	// INTERRUPTA
	IOCPTemp   = Field{RegInterruptA, 1 << 7, OffsetNone}
	ITogDone   = Field{RegInterruptA, 1 << 6, OffsetNone}
	ISoftFail  = Field{RegInterruptA, 1 << 5, OffsetNone}
	IRetryFail = Field{RegInterruptA, 1 << 4, OffsetNone}
	IHardSent  = Field{RegInterruptA, 1 << 3, OffsetNone}
	ITxSent    = Field{RegInterruptA, 1 << 2, OffsetNone}
	ISoftRst   = Field{RegInterruptA, 1 << 1, OffsetNone}
	IHardRst   = Field{RegInterruptA, 1 << 0, OffsetNone}

	// INTERRUPTB
	IGCRCSent = Field{RegInterruptB, 1 << 0, OffsetNone}

	// STATUS0
	VBusOK   = Field{RegStatus0, 1 << 7, OffsetNone}
	Activity = Field{RegStatus0, 1 << 6, OffsetNone}
	Comp     = Field{RegStatus0, 1 << 5, OffsetNone}
	CRCChk   = Field{RegStatus0, 1 << 4, OffsetNone}
	Alert    = Field{RegStatus0, 1 << 3, OffsetNone}
	Wake     = Field{RegStatus0, 1 << 2, OffsetNone}
	BCLvl    = Field{RegStatus0, 0x3, 0}

	// STATUS1
	RxSOP2  = Field{RegStatus1, 1 << 7, OffsetNone}
	RxSOP1  = Field{RegStatus1, 1 << 6, OffsetNone}
	RxEmpty = Field{RegStatus1, 1 << 5, OffsetNone}
	RxFull  = Field{RegStatus1, 1 << 4, OffsetNone}
	TxEmpty = Field{RegStatus1, 1 << 3, OffsetNone}
	TxFull  = Field{RegStatus1, 1 << 2, OffsetNone}
	OvrTemp = Field{RegStatus1, 1 << 1, OffsetNone}
	OCP     = Field{RegStatus1, 1 << 0, OffsetNone}

	// INTERRUPT
	IVBusOK    = Field{RegInterrupt, 1 << 7, OffsetNone}
	IActivity  = Field{RegInterrupt, 1 << 6, OffsetNone}
	ICompChng  = Field{RegInterrupt, 1 << 5, OffsetNone}
	ICRCChk    = Field{RegInterrupt, 1 << 4, OffsetNone}
	IAlert     = Field{RegInterrupt, 1 << 3, OffsetNone}
	IWake      = Field{RegInterrupt, 1 << 2, OffsetNone}
	ICollision = Field{RegInterrupt, 1 << 1, OffsetNone}
	IBCLvl     = Field{RegInterrupt, 1 << 0, OffsetNone}
)

// MASK register bits. A set bit masks the interrupt.
const (
	maskVBusOK    = 1 << 7
	maskActivity  = 1 << 6
	maskCompChng  = 1 << 5
	maskCRCChk    = 1 << 4
	maskAlert     = 1 << 3
	maskWake      = 1 << 2
	maskCollision = 1 << 1
	maskBCLvl     = 1 << 0
)

// Field values.
const (
	hostCurNone   = 0b00
	hostCurDefUSB = 0b01
	hostCur1A5    = 0b10
	hostCur3A     = 0b11

	nRetries3 = 0b11

	mdac1V596 = 0b100101
	mdac2V604 = 0b111101

	bcLvl0To200mV    = 0b00
	bcLvl200To660mV  = 0b01
	bcLvl660To1230mV = 0b10
	bcLvlAbove1230mV = 0b11
	bcLvlOpen        = bcLvlAbove1230mV
)
