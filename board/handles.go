package board

import (
	"io"

	"flightcode-go/errcode"
	"flightcode-go/types"

	"tinygo.org/x/drivers"
)

// I2C resolves an I2C adapter role to its bus.
func I2C(r *Registry, role types.Role) (drivers.I2C, error) {
	id, err := r.Require(role)
	if err != nil {
		return nil, err
	}
	dev, _ := r.Device(id)
	bus, ok := dev.(drivers.I2C)
	if !ok {
		return nil, errcode.Wrap(errcode.InvalidHandle, "i2c", role.String())
	}
	return bus, nil
}

// Com resolves a communication-channel role to its byte stream.
func Com(r *Registry, role types.Role) (io.ReadWriter, error) {
	id, err := r.Require(role)
	if err != nil {
		return nil, err
	}
	dev, _ := r.Device(id)
	rw, ok := dev.(io.ReadWriter)
	if !ok {
		return nil, errcode.Wrap(errcode.InvalidHandle, "com", role.String())
	}
	return rw, nil
}
