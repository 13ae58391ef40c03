package smbus

import (
	"strings"

	"github.com/allbin/go-pureio/internal/devfs"
)

// Functionality is the adapter capability mask returned by I2C_FUNCS.
type Functionality uint32

// Functionality bits from include/uapi/linux/i2c.h.
const (
	FuncI2C                 Functionality = 0x00000001
	Func10BitAddr           Functionality = 0x00000002
	FuncProtocolMangling    Functionality = 0x00000004
	FuncSMBusPEC            Functionality = 0x00000008
	FuncNoStart             Functionality = 0x00000010
	FuncSlave               Functionality = 0x00000020
	FuncSMBusBlockProcCall  Functionality = 0x00008000
	FuncSMBusQuick          Functionality = 0x00010000
	FuncSMBusReadByte       Functionality = 0x00020000
	FuncSMBusWriteByte      Functionality = 0x00040000
	FuncSMBusReadByteData   Functionality = 0x00080000
	FuncSMBusWriteByteData  Functionality = 0x00100000
	FuncSMBusReadWordData   Functionality = 0x00200000
	FuncSMBusWriteWordData  Functionality = 0x00400000
	FuncSMBusProcCall       Functionality = 0x00800000
	FuncSMBusReadBlockData  Functionality = 0x01000000
	FuncSMBusWriteBlockData Functionality = 0x02000000
	FuncSMBusReadI2CBlock   Functionality = 0x04000000
	FuncSMBusWriteI2CBlock  Functionality = 0x08000000
	FuncSMBusHostNotify     Functionality = 0x10000000
)

var funcNames = []struct {
	bit  Functionality
	name string
}{
	{FuncI2C, "I2C"},
	{Func10BitAddr, "10-bit addressing"},
	{FuncProtocolMangling, "protocol mangling"},
	{FuncSMBusPEC, "SMBus PEC"},
	{FuncNoStart, "no start"},
	{FuncSlave, "slave"},
	{FuncSMBusBlockProcCall, "SMBus block process call"},
	{FuncSMBusQuick, "SMBus quick command"},
	{FuncSMBusReadByte, "SMBus receive byte"},
	{FuncSMBusWriteByte, "SMBus send byte"},
	{FuncSMBusReadByteData, "SMBus read byte"},
	{FuncSMBusWriteByteData, "SMBus write byte"},
	{FuncSMBusReadWordData, "SMBus read word"},
	{FuncSMBusWriteWordData, "SMBus write word"},
	{FuncSMBusProcCall, "SMBus process call"},
	{FuncSMBusReadBlockData, "SMBus block read"},
	{FuncSMBusWriteBlockData, "SMBus block write"},
	{FuncSMBusReadI2CBlock, "I2C block read"},
	{FuncSMBusWriteI2CBlock, "I2C block write"},
	{FuncSMBusHostNotify, "SMBus host notify"},
}

// Has reports whether every bit of want is set.
func (f Functionality) Has(want Functionality) bool {
	return f&want == want
}

// Names lists the capabilities present in f, in kernel bit order.
func (f Functionality) Names() []string {
	var names []string
	for _, fn := range funcNames {
		if f.Has(fn.bit) {
			names = append(names, fn.name)
		}
	}
	return names
}

// Features returns every known capability with whether f has it.
func (f Functionality) Features() []Feature {
	out := make([]Feature, len(funcNames))
	for i, fn := range funcNames {
		out[i] = Feature{Name: fn.name, Bit: fn.bit, Supported: f.Has(fn.bit)}
	}
	return out
}

// Feature is one named capability of an adapter.
type Feature struct {
	Name      string
	Bit       Functionality
	Supported bool
}

func (f Functionality) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), ", ")
}

// Funcs queries the adapter functionality with I2C_FUNCS.
func (b *Bus) Funcs() (Functionality, error) {
	var f Functionality
	err := b.with(func(c conn) error {
		v, err := c.funcs()
		if err != nil {
			return devfs.Classify(err, "query functionality of %s", b.path)
		}
		f = Functionality(v)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return f, nil
}
