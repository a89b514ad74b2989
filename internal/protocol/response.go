package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Ack formats the "success" response line most handlers return verbatim
// on a successful command.
func Ack() string { return "success\n" }

// Huh formats an error response. Every failure path funnels through
// here so the wire text is always `huh? <reason>\n` (§4.4, §7).
func Huh(format string, args ...any) string {
	return "huh? " + fmt.Sprintf(format, args...) + "\n"
}

// Listen and Ignore format the "listen"/"ignore" screen-visibility
// notification lines (§4.6). No code in the server sends them.
func Listen(screenID string) string  { return "listen " + screenID + "\n" }
func Ignore(screenID string) string  { return "ignore " + screenID + "\n" }

// Key formats a key event delivered to a client holding a reservation
// for it (§4.7).
func Key(name string) string { return "key " + name + "\n" }

// MenuEvent formats a menu event line (§4.8): `menuevent <type> <id>
// [payload...]`.
func MenuEvent(kind, id string, payload ...string) string {
	parts := append([]string{"menuevent", kind, id}, payload...)
	return strings.Join(parts, " ") + "\n"
}

// FormatArgs quotes an argument with spaces in it the way the server's
// own outbound lines do (double quotes, no escaping of interior
// characters beyond what Tokenize requires on the way back in).
func FormatArgs(fields ...string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, " \t") {
			parts[i] = strconv.Quote(f)
		} else {
			parts[i] = f
		}
	}
	return strings.Join(parts, " ")
}
