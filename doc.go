// Package pureio provides pure Go access to Linux I2C/SMBus and SPI buses
// through their device files, with the same call surface as the python smbus
// and spidev modules.
//
// Everything is done with read(2), write(2) and ioctl(2) on /dev/i2c-N and
// /dev/spidevB.C, so there is no cgo and the library cross-compiles to any
// Linux architecture Go supports.
//
// The bus APIs live in subpackages:
//
//   - smbus: SMBus and plain I2C transactions on an adapter
//   - spi: half and full duplex transfers on a spidev node
//
// This package holds bus discovery and the errors shared by both.
//
// # I2C / SMBus
//
//	bus, err := smbus.Open(1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Close()
//
//	// Register reads use one combined transaction
//	temp, err := bus.ReadWordData(0x48, 0x00)
//
//	// Take an address a kernel driver already owns
//	bus, err = smbus.Open(1, smbus.WithForce())
//
// # SPI
//
//	dev, err := spi.Open(0, 0,
//	    spi.WithMaxSpeedHz(1_000_000),
//	    spi.WithMode(spi.Mode0),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	rx, err := dev.Transfer([]byte{0x9f, 0, 0, 0})
//
// # Bus Discovery
//
// List adapters and spidev nodes and read their sysfs metadata:
//
//	buses, err := pureio.ListI2CBuses()
//	for _, path := range buses {
//	    info, _ := pureio.GetBusInfo(path)
//	    fmt.Printf("%s: %s\n", info.Path, info.Adapter)
//	}
//
// # Error Handling
//
// Failures to open a device or select an address are reported as the
// sentinel errors below, wrapped with the path or address involved:
//
//	if errors.Is(err, pureio.ErrDeviceBusy) {
//	    // a kernel driver owns the address, retry with smbus.WithForce()
//	}
//
// Other errno values are returned wrapped as-is, so errors.Is(err, unix.EREMOTEIO)
// still works for a device that did not acknowledge.
//
// # Platform Support
//
// Linux only. Request numbers are encoded for the generic ioctl layout and for
// the PowerPC and MIPS layouts.
package pureio
