package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/mzyy94/sanenet/internal/config"
	"github.com/mzyy94/sanenet/internal/sane"
)

// loadSettings reads persisted defaults from the user config dir.
// Any failure falls back to defaults; the CLI flags still win.
func loadSettings() config.Settings {
	dir, err := os.UserConfigDir()
	if err != nil {
		return config.DefaultSettings()
	}
	store, err := config.NewStore(filepath.Join(dir, "sanenet"))
	if err != nil {
		return config.DefaultSettings()
	}
	return store.Get()
}

// connect dials the server with exponential backoff and runs the init
// handshake. Retry and socket policy live here, outside the protocol
// core. The caller must close the returned connection.
func connect(server string) (net.Conn, *sane.Session, error) {
	settings := loadSettings()
	if server == "" {
		server = envStr("SANENET_SERVER", settings.Server)
	}
	if server == "" {
		return nil, nil, fmt.Errorf("no server given: use --server, SANENET_SERVER or the settings file")
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, strconv.Itoa(sane.DefaultPort))
	}

	timeout := time.Duration(settings.ConnectTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var conn net.Conn
	dial := func() error {
		c, err := net.DialTimeout("tcp", server, timeout)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = timeout
	if err := backoff.Retry(dial, policy); err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", server, err)
	}

	session := sane.NewSession(conn)
	if _, err := session.Init(settings.ClientName); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("init handshake: %w", err)
	}
	return conn, session, nil
}

// openDevice opens the named device, the configured default, or the
// first device the server reports.
func openDevice(session *sane.Session, name string) (int32, error) {
	if name == "" {
		name = loadSettings().DefaultDevice
	}
	if name == "" {
		devices, err := session.ListDevices()
		if err != nil {
			return 0, err
		}
		if len(devices) == 0 {
			return 0, fmt.Errorf("server reports no devices")
		}
		name = devices[0].Name
	}

	res, err := session.OpenDevice(name)
	if err != nil {
		return 0, err
	}
	if res.AuthRequired {
		return 0, fmt.Errorf("device %q requires authentication (resource %q)", name, res.Resource)
	}
	return res.Handle, nil
}

// findOption fetches the descriptor list and locates an option by name.
// The returned index is the option number for control requests.
func findOption(session *sane.Session, handle int32, name string) (uint32, *sane.OptionDescriptor, error) {
	descriptors, err := session.OptionDescriptors(handle)
	if err != nil {
		return 0, nil, err
	}
	for i, d := range descriptors {
		if d != nil && d.Name == name {
			return uint32(i), d, nil
		}
	}
	return 0, nil, fmt.Errorf("device has no option named %q", name)
}

func formatValue(v sane.OptionValue) string {
	switch v := v.(type) {
	case nil:
		return "(null)"
	case sane.BoolValue:
		return strconv.FormatBool(bool(v))
	case sane.IntValue:
		return strconv.Itoa(int(v))
	case sane.FixedValue:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case sane.StringValue:
		if !v.Present {
			return "(null)"
		}
		return v.Text
	case sane.ButtonValue, sane.GroupValue:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func constraintSummary(c sane.Constraint) string {
	switch c := c.(type) {
	case sane.RangeConstraint:
		if c.Quant != 0 {
			return fmt.Sprintf(" range=%d..%d step %d", c.Min, c.Max, c.Quant)
		}
		return fmt.Sprintf(" range=%d..%d", c.Min, c.Max)
	case sane.WordListConstraint:
		return fmt.Sprintf(" values=%v", []int32(c))
	case sane.StringListConstraint:
		return " values=" + strings.Join(c, "|")
	}
	return ""
}
