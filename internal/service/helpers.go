package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// newID returns a time-ordered UUID for new rows
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// randomToken returns n random bytes hex-encoded, for opaque
// single-use tokens and refresh secrets
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// randomOTP returns a numeric one-time code of the given length with
// no leading zero
func randomOTP(length int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	min := new(big.Int).Div(max, big.NewInt(10))

	n, err := rand.Int(rand.Reader, new(big.Int).Sub(max, min))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return n.Add(n, min).String(), nil
}

// clientDevice is the session metadata parsed from a User-Agent header
type clientDevice struct {
	Device  string
	Browser string
	OS      string
}

// parseUserAgent extracts device/browser/OS, defaulting to "Unknown"
func parseUserAgent(rawUA string) clientDevice {
	ua := useragent.Parse(rawUA)

	device := clientDevice{
		Device:  ua.Device,
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if device.Device == "" {
		device.Device = "Unknown"
	}
	if device.Browser == "" {
		device.Browser = "Unknown"
	}
	if device.OS == "" {
		device.OS = "Unknown"
	}
	return device
}

// String renders the "device | browser | os" form used in notifications
func (d clientDevice) String() string {
	return fmt.Sprintf("%s | %s | %s", d.Device, d.Browser, d.OS)
}
