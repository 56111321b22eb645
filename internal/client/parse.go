package client

import (
	"fmt"
	"strconv"
	"strings"
)

// dataBytes extracts the data bytes following a "41 <pid>" reply header.
// Tolerates both spaced ("41 0C 27 10") and packed ("410C2710") formats.
func dataBytes(line, pid string) ([]byte, bool) {
	packed := strings.ToUpper(strings.NewReplacer(" ", "", "\r", "", "\n", "").Replace(line))
	header := "41" + strings.ToUpper(pid)
	idx := strings.Index(packed, header)
	if idx < 0 {
		return nil, false
	}
	hex := packed[idx+len(header):]
	var out []byte
	for i := 0; i+1 < len(hex); i += 2 {
		b, err := parseHexByte(hex[i : i+2])
		if err != nil {
			break
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func parseHexByte(s string) (byte, error) {
	var v byte
	_, err := fmt.Sscanf(s, "%02X", &v)
	if err != nil {
		_, err2 := fmt.Sscanf(s, "%02x", &v)
		if err2 != nil {
			return 0, err
		}
	}
	return v, nil
}

// RPM queries PID 010C: ((A*256)+B)/4.
func (c *Client) RPM() (int, error) {
	line, err := c.Query("010C")
	if err != nil {
		return 0, err
	}
	d, ok := dataBytes(line, "0C")
	if !ok || len(d) < 2 {
		return 0, fmt.Errorf("failed to parse RPM response %q", line)
	}
	return (int(d[0])*256 + int(d[1])) / 4, nil
}

// CoolantTemp queries PID 0105: A-40 degrees C.
func (c *Client) CoolantTemp() (float64, error) {
	line, err := c.Query("0105")
	if err != nil {
		return 0, err
	}
	d, ok := dataBytes(line, "05")
	if !ok {
		return 0, fmt.Errorf("failed to parse coolant response %q", line)
	}
	return float64(int(d[0]) - 40), nil
}

// Speed queries PID 010D: A km/h.
func (c *Client) Speed() (int, error) {
	line, err := c.Query("010D")
	if err != nil {
		return 0, err
	}
	d, ok := dataBytes(line, "0D")
	if !ok {
		return 0, fmt.Errorf("failed to parse speed response %q", line)
	}
	return int(d[0]), nil
}

// MAP queries PID 010B: A kPa.
func (c *Client) MAP() (int, error) {
	line, err := c.Query("010B")
	if err != nil {
		return 0, err
	}
	d, ok := dataBytes(line, "0B")
	if !ok {
		return 0, fmt.Errorf("failed to parse MAP response %q", line)
	}
	return int(d[0]), nil
}

// Throttle queries PID 0111: A*100/255 percent.
func (c *Client) Throttle() (float64, error) {
	line, err := c.Query("0111")
	if err != nil {
		return 0, err
	}
	d, ok := dataBytes(line, "11")
	if !ok {
		return 0, fmt.Errorf("failed to parse throttle response %q", line)
	}
	return float64(d[0]) * 100 / 255, nil
}

// Voltage queries ATRV, a reply like "14.3V".
func (c *Client) Voltage() (float64, error) {
	line, err := c.Query(CommandReadVoltage)
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(line)), "V"))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse voltage response %q: %w", line, err)
	}
	return v, nil
}
