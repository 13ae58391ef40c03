package pureio

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BusKind tells I2C adapters and SPI chip selects apart.
type BusKind int

const (
	KindI2C BusKind = iota
	KindSPI
)

func (k BusKind) String() string {
	switch k {
	case KindI2C:
		return "i2c"
	case KindSPI:
		return "spi"
	default:
		return "unknown"
	}
}

// BusInfo describes a bus device node.
type BusInfo struct {
	Name    string // e.g. "i2c-1" or "spidev0.1"
	Path    string
	Kind    BusKind
	Bus     int
	Chip    int    // chip select, SPI only
	Adapter string // adapter name reported by sysfs, I2C only
	Driver  string // bound kernel driver, if sysfs knows it
}

var (
	devDir = "/dev"
	sysDir = "/sys"

	i2cPattern = regexp.MustCompile(`^i2c-(\d+)$`)
	spiPattern = regexp.MustCompile(`^spidev(\d+)\.(\d+)$`)
)

// ListI2CBuses returns the /dev/i2c-N device nodes, ordered by bus number.
func ListI2CBuses() ([]string, error) {
	return listDevices(devDir, i2cPattern, isCharacterDevice)
}

// ListSPIDevices returns the /dev/spidevB.C device nodes, ordered by bus and
// chip select.
func ListSPIDevices() ([]string, error) {
	return listDevices(devDir, spiPattern, isCharacterDevice)
}

func listDevices(dir string, pattern *regexp.Regexp, isDevice func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}

	type node struct {
		path string
		keys []int
	}
	var nodes []node
	for _, entry := range entries {
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if !isDevice(fullPath) {
			continue
		}
		n := node{path: fullPath}
		for _, s := range m[1:] {
			v, _ := strconv.Atoi(s)
			n.keys = append(n.keys, v)
		}
		nodes = append(nodes, n)
	}

	// Numeric order, so i2c-10 sorts after i2c-2.
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].keys, nodes[j].keys
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	paths := make([]string, len(nodes))
	for i, n := range nodes {
		paths[i] = n.path
	}
	return paths, nil
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// GetBusInfo returns information about an I2C or SPI device node.
func GetBusInfo(path string) (*BusInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(ErrDeviceNotFound, path)
	}
	if !isCharacterDevice(path) {
		return nil, errors.Wrap(ErrNotCharDevice, path)
	}
	return parseBusInfo(path, sysDir)
}

func parseBusInfo(path, sys string) (*BusInfo, error) {
	name := filepath.Base(path)
	info := &BusInfo{Name: name, Path: path}

	if m := i2cPattern.FindStringSubmatch(name); m != nil {
		info.Kind = KindI2C
		info.Bus, _ = strconv.Atoi(m[1])
		info.Adapter = readSysfsString(filepath.Join(sys, "class", "i2c-dev", name, "name"))
		info.Driver = readDriverName(filepath.Join(sys, "class", "i2c-dev", name, "device", "driver"))
		return info, nil
	}

	if m := spiPattern.FindStringSubmatch(name); m != nil {
		info.Kind = KindSPI
		info.Bus, _ = strconv.Atoi(m[1])
		info.Chip, _ = strconv.Atoi(m[2])
		info.Driver = readDriverName(filepath.Join(sys, "class", "spidev", name, "device", "driver"))
		return info, nil
	}

	return nil, errors.Errorf("%s is not an i2c or spidev device node", path)
}

func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// readDriverName resolves the driver symlink of a sysfs device.
func readDriverName(link string) string {
	target, err := os.Readlink(link)
	if err != nil {
		return ""
	}
	return filepath.Base(target)
}
