//go:build rp2040 || rp2350

package provider

func Default() Platform { return NewRP2() }
