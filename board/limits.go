package board

import (
	"time"

	"flightcode-go/types"
	"flightcode-go/x/mathx"
	"flightcode-go/x/timex"
)

// ------------------------
// Capacity limits (pooled resource classes)
// ------------------------

const (
	I2CMaxDevs              = 3
	TimerMaxDevs            = 6
	ADCSubDriverMaxInstance = 3
	HSUMMaxDevs             = 2
	PHMaxConnections        = 1
	RadioMaxDevs            = 1
	SPIMaxDevs              = 2 // SPI2 (radio) + SPI3 (expansion); SPI1 flash/baro is not pooled
)

// comRoleCount is the number of com-class roles; each holds at most one channel.
var comRoleCount = func() int {
	n := 0
	for r := types.RoleNone + 1; r < types.NumRoles; r++ {
		if r.Class() == types.ClassCom {
			n++
		}
	}
	return n
}()

var capacities = [types.NumClasses]int{
	types.ClassCom:           comRoleCount,
	types.ClassI2C:           I2CMaxDevs,
	types.ClassSPI:           SPIMaxDevs,
	types.ClassTimer:         TimerMaxDevs,
	types.ClassADCSubDriver:  ADCSubDriverMaxInstance,
	types.ClassHSUM:          HSUMMaxDevs,
	types.ClassPacketHandler: PHMaxConnections,
	types.ClassRadio:         RadioMaxDevs,
}

// CapacityOf is the compile-time limit for class c; 0 for unknown classes.
func CapacityOf(c types.Class) int {
	if c < types.NumClasses {
		return capacities[c]
	}
	return 0
}

// ------------------------
// Interrupt priorities (lower value = more urgent)
// ------------------------

const (
	IRQPrioHighest uint8 = 4  // USART etc.
	IRQPrioHigh    uint8 = 5  // SPI, ADC, I2C etc.
	IRQPrioMid     uint8 = 8  // above the RTOS
	IRQPrioLow     uint8 = 12 // below the RTOS
)

// ------------------------
// LEDs
// ------------------------

const (
	LEDHeartbeat = 0
	LEDAlarm     = 1
	LEDLink      = 2
)

// ------------------------
// Watchdog, telemetry, debug
// ------------------------

const (
	WatchdogTimeout = 250 * time.Millisecond

	TelemQueueSize = 80
	TelemStackSize = 624

	// DebugLevel gates the debug console; messages above it are dropped.
	DebugLevel = 0
)

// ------------------------
// Packet handler
// ------------------------

const (
	RSECCNParity = 4
	PHMaxPacket  = 255
	PHWindowSize = 3
)

// ------------------------
// Clocks
// ------------------------

const (
	SysClockHz  = 168_000_000
	APB1ClockHz = SysClockHz / 2
	APB2ClockHz = SysClockHz
)

// ------------------------
// Receivers
// ------------------------

const (
	RcvrMaxChannels  = 12
	GCSRcvrTimeout   = 100 * time.Millisecond
	HSUMInputsPerDev = 32
)

// Protocol is a receiver input decoder.
type Protocol uint8

const (
	ProtoPPM Protocol = iota
	ProtoPWM
	ProtoSpektrum
	ProtoSBus
	ProtoDSM
	ProtoHSUM
	numProtocols
)

var protoInputs = [numProtocols]int{
	ProtoPPM:      12,
	ProtoPWM:      8,
	ProtoSpektrum: 12,
	ProtoSBus:     16 + 2,
	ProtoDSM:      12,
	ProtoHSUM:     HSUMInputsPerDev,
}

var protoNames = [numProtocols]string{"ppm", "pwm", "spektrum", "sbus", "dsm", "hsum"}

func (p Protocol) String() string {
	if p < numProtocols {
		return protoNames[p]
	}
	return "unknown"
}

// Inputs is the number of raw inputs a decoder of protocol p produces.
func Inputs(p Protocol) int {
	if p < numProtocols {
		return protoInputs[p]
	}
	return 0
}

// Channels is the number of receiver channels p can fill, bounded by
// RcvrMaxChannels.
func Channels(p Protocol) int {
	return mathx.Clamp(Inputs(p), 0, RcvrMaxChannels)
}

// ------------------------
// Servo, ADC, USB
// ------------------------

const (
	ServoUpdateHz        = 50
	ServoInitialPosition = 0 // no pulse until settings are loaded

	ADCMaxOversampling = 2
	VRefPlus           = 3.3

	USBEnabled = true
)

// ServoPeriod is the frame interval at ServoUpdateHz.
var ServoPeriod = timex.PeriodFromHz(ServoUpdateHz)
