package config

import (
	"strings"

	"flightcode-go/types"
)

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board variant
// Val: raw YAML for that variant
//
// Pin numbers are RP2 GPIOs on the bench rig: i2c1 and i2c2 sit on the
// I2C0/I2C1 default pins, usart1 and usart6 on UART0/UART1.
// -----------------------------------------------------------------------------

const cfgSparky2 = `
board:
  variant: sparky2_v2_0
  i2c:
    - id: i2c1          # mag / pressure sensors
      sda: 8
      scl: 9
      hz: 400000
      roles: [i2c_main]
    - id: i2c2          # flexi port
      sda: 10
      scl: 11
      hz: 400000
      roles: [i2c_flexi]
  spi:
    - id: spi2
      roles: [rfm22_spi]
  radio:
    spi: spi2
    packet_handler: true
  com:
    - id: usb_hid
      role: telem_usb
    - id: usb_cdc
      role: vcp
    - id: usart1        # main port
      tx: 0
      rx: 1
      baud: 57600
      role: telem_rf
    - id: usart6        # receiver port
      tx: 4
      rx: 5
      baud: 57600
      role: gps
    - id: flash
      role: spiflash
  timers: [tim1, tim3, tim4, tim5, tim8, tim12]
  adc: [internal]
heartbeat:
  interval_ms: 125
log:
  level: info
  format: text
bridge:
  enabled: false
`

const cfgBrushedSparky = `
board:
  variant: %s
  i2c:
    - id: i2c1
      sda: 8
      scl: 9
      hz: 400000
      roles: [i2c_main]
    - id: i2c2
      sda: 10
      scl: 11
      hz: 400000
      roles: [i2c_flexi]
  com:
    - id: usb_hid
      role: telem_usb
    - id: usb_cdc
      role: vcp
    - id: usart1
      tx: 0
      rx: 1
      baud: 57600
      role: telem_rf
    - id: usart6
      tx: 4
      rx: 5
      baud: 57600
      role: gps
  timers: [tim1, tim3, tim4, tim5, tim8, tim12]
  adc: [internal]
heartbeat:
  interval_ms: 125
log:
  level: info
  format: text
bridge:
  enabled: false
`

var embeddedConfigs = map[types.Variant][]byte{
	types.Sparky2V2_0:       []byte(cfgSparky2),
	types.BrushedSparkyV0_1: brushed(types.BrushedSparkyV0_1),
	types.BrushedSparkyV0_2: brushed(types.BrushedSparkyV0_2),
}

func brushed(v types.Variant) []byte {
	return []byte(strings.Replace(cfgBrushedSparky, "%s", v.String(), 1))
}
