package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// DeviceID records the device identifier under the key "device_id".
// If id is nil, it returns an empty Attr.
func DeviceID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("device_id", id)
}

// Fingerprint records a device fingerprint under the key "fingerprint".
func Fingerprint(fp string) slog.Attr {
	return slog.String("fingerprint", fp)
}

// ClientIP records the transport-level client address under the key "client_ip".
func ClientIP(ip string) slog.Attr {
	return slog.String("client_ip", ip)
}

// Provider records a geo data provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// Path records a request path or file path under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}
