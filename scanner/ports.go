package scanner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PortRange is an inclusive range of TCP ports, e.g. 1-1000.
// Both bounds are validated at parse time; a constructed range always
// satisfies 1 <= Start <= End <= 65535.
type PortRange struct {
	Start uint16
	End   uint16
}

// ParsePortRange parses a range from its textual "start-end" form.
func ParsePortRange(spec string) (PortRange, error) {
	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return PortRange{}, errors.New("ports must be in format start-end (example: 1-1000)")
	}

	start, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return PortRange{}, errors.New("start port must be a number")
	}

	end, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return PortRange{}, errors.New("end port must be a number")
	}

	if start == 0 || end == 0 || start > 65535 || end > 65535 {
		return PortRange{}, errors.New("port range must be between 1 and 65535")
	}

	if start > end {
		return PortRange{}, errors.New("start port must be <= end port")
	}

	return PortRange{Start: uint16(start), End: uint16(end)}, nil
}

// Ports expands the range into an ascending slice of port numbers.
// Each call returns a fresh slice, so callers may mutate the result.
func (r PortRange) Ports() []uint16 {
	ports := make([]uint16, 0, r.Count())
	for p := int(r.Start); p <= int(r.End); p++ {
		ports = append(ports, uint16(p))
	}
	return ports
}

// Count returns the number of ports covered by the range.
func (r PortRange) Count() int {
	return int(r.End) - int(r.Start) + 1
}

func (r PortRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
