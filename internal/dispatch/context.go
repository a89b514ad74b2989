package dispatch

import (
	"displayd/internal/driver"
	"displayd/internal/model"
)

// ProtocolVersion and ServerVersion populate the hello greeting (§4.4,
// §6: "connect LCDproc <ver> protocol <ver> ...").
const (
	ProtocolVersion = "0.3"
	ServerVersion   = "0.5.0-go"
)

// Context is the "explicit server context" of design note §9: the
// process-wide mutable state the teacher's source kept as file-scope
// globals (display props, output driver, client list, key list, screen
// list, frame counter), bundled into one value threaded by reference
// through handlers and the main loop.
type Context struct {
	Graph        *model.Graph
	OutputDriver driver.Driver

	AutoRotate      bool
	GlobalOutput    int
	GlobalBacklight int
	GlobalHeartbeat int
	TitleSpeed      int
}

// NewContext wires a fresh Context around an existing graph and the
// loaded output driver.
func NewContext(g *model.Graph, d driver.Driver) *Context {
	return &Context{Graph: g, OutputDriver: d, AutoRotate: true, TitleSpeed: 1}
}
