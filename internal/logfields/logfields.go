package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument    = "document"
	KeyRenderer    = "renderer"
	KeyFlags       = "flags"
	KeyDurationMS  = "duration_ms"
	KeyBytes       = "bytes"
	KeyFingerprint = "fingerprint"
	KeyConstructs  = "constructs"
	KeyPath        = "path"
	KeyOutput      = "output"
	KeyRequestID   = "request_id"
	KeyMethod      = "method"
	KeyStatus      = "status"
	KeyUserAgent   = "user_agent"
	KeyRemoteAddr  = "remote_addr"
	KeyEvent       = "event"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(name string) slog.Attr   { return slog.String(KeyDocument, name) }
func Renderer(name string) slog.Attr   { return slog.String(KeyRenderer, name) }
func Flags(s string) slog.Attr         { return slog.String(KeyFlags, s) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func Fingerprint(fp string) slog.Attr  { return slog.String(KeyFingerprint, fp) }
func Constructs(n int) slog.Attr       { return slog.Int(KeyConstructs, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func Event(op string) slog.Attr        { return slog.String(KeyEvent, op) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
