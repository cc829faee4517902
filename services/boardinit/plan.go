package boardinit

import (
	"flightcode-go/errcode"
	"flightcode-go/types"

	"gopkg.in/yaml.v3"
)

// Plan specifies wiring and operating parameters chosen for one boot.
// Board init consumes it to construct handles and bind roles.
type Plan struct {
	Variant types.Variant `yaml:"variant"`
	I2C     []I2CPlan     `yaml:"i2c,omitempty"`
	SPI     []SPIPlan     `yaml:"spi,omitempty"`
	Com     []ComPlan     `yaml:"com,omitempty"`
	Radio   *RadioPlan    `yaml:"radio,omitempty"`

	// Pooled instances with no handle object of their own.
	Timers []string `yaml:"timers,omitempty"` // e.g. "tim3"
	ADC    []string `yaml:"adc,omitempty"`    // ADC sub-driver names
	HSUM   []string `yaml:"hsum,omitempty"`   // com port id each decoder listens on
}

type I2CPlan struct {
	ID    string       `yaml:"id"`  // e.g. "i2c1"
	SDA   int          `yaml:"sda"` // GPIO number
	SCL   int          `yaml:"scl"` // GPIO number
	Hz    uint32       `yaml:"hz"`  // bus frequency
	Roles []types.Role `yaml:"roles"`
}

type SPIPlan struct {
	ID    string       `yaml:"id"` // e.g. "spi2"
	Roles []types.Role `yaml:"roles"`
}

type ComPlan struct {
	ID   string     `yaml:"id"`             // e.g. "usart1", "usb_hid"
	Port string     `yaml:"port,omitempty"` // host serial device; empty => provider default
	TX   int        `yaml:"tx,omitempty"`
	RX   int        `yaml:"rx,omitempty"`
	Baud uint32     `yaml:"baud,omitempty"`
	Role types.Role `yaml:"role"`
}

// RadioPlan enables the RFM22B modem and, optionally, the packet handler
// that runs over it.
type RadioPlan struct {
	SPI           string `yaml:"spi"` // id of an SPIPlan
	PacketHandler bool   `yaml:"packet_handler"`
}

// DecodePlan parses and validates a YAML plan.
func DecodePlan(b []byte) (Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Plan{}, &errcode.E{C: errcode.InvalidParams, Op: "decode_plan", Msg: err.Error(), Err: err}
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Encode renders the plan as YAML.
func (p Plan) Encode() ([]byte, error) { return yaml.Marshal(p) }

// Validate checks shape only. Capacity and variant support are enforced by
// the registry during Run so that violations surface as boot errors.
func (p Plan) Validate() error {
	const op = "validate_plan"
	if _, ok := types.ParseVariant(p.Variant.String()); !ok {
		return errcode.Wrap(errcode.InvalidParams, op, "missing variant")
	}
	ids := map[string]bool{}
	seen := func(id string) error {
		if id == "" {
			return errcode.Wrap(errcode.InvalidParams, op, "empty id")
		}
		if ids[id] {
			return errcode.Wrap(errcode.InvalidParams, op, "duplicate id "+id)
		}
		ids[id] = true
		return nil
	}
	roleClass := func(id string, r types.Role, want types.Class) error {
		if r.Class() != want {
			return errcode.Wrap(errcode.InvalidParams, op, id+": role "+r.String()+" is not "+want.String())
		}
		return nil
	}

	for _, b := range p.I2C {
		if err := seen(b.ID); err != nil {
			return err
		}
		for _, r := range b.Roles {
			if err := roleClass(b.ID, r, types.ClassI2C); err != nil {
				return err
			}
		}
	}
	spis := map[string]bool{}
	for _, s := range p.SPI {
		if err := seen(s.ID); err != nil {
			return err
		}
		spis[s.ID] = true
		for _, r := range s.Roles {
			if err := roleClass(s.ID, r, types.ClassSPI); err != nil {
				return err
			}
		}
	}
	for _, c := range p.Com {
		if err := seen(c.ID); err != nil {
			return err
		}
		if err := roleClass(c.ID, c.Role, types.ClassCom); err != nil {
			return err
		}
	}
	if p.Radio != nil && !spis[p.Radio.SPI] {
		return errcode.Wrap(errcode.InvalidParams, op, "radio: unknown spi "+p.Radio.SPI)
	}
	return nil
}
