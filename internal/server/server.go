// Package server ties every other package together into the running
// daemon: the TCP listener and per-connection ring buffers, the
// two-tick main loop, server-owned screens, and reload/shutdown
// sequencing (§4.2, §4.9, §5). It is the "explicit server context"
// design note's outermost layer — dispatch.Context already bundles the
// mutable graph/driver state; Server adds the network and scheduling
// machinery around it.
package server

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"displayd/internal/config"
	"displayd/internal/dispatch"
	"displayd/internal/driver"
	"displayd/internal/input"
	"displayd/internal/menu"
	"displayd/internal/model"
	"displayd/internal/protocol"
	"displayd/internal/render"
	"displayd/internal/scheduler"
)

// clientConn tracks the network side of one Client: its ring buffer and
// the net.Conn to write responses and unsolicited events back on.
type clientConn struct {
	handle model.ClientHandle
	conn   net.Conn
	rb     *ringBuffer
}

type inboundLine struct {
	handle model.ClientHandle
	line   string
}

// Server is the top-level daemon value. Config is not modified after
// construction.
type Server struct {
	Config   *config.Config
	StateDir string
	Logger   *log.Logger

	ctx      *dispatch.Context
	sched    *scheduler.Scheduler
	renderer *render.Renderer
	inputCfg input.Config

	ln   net.Listener
	lock *flock.Flock

	conns map[model.ClientHandle]*clientConn

	acceptCh chan net.Conn
	lineCh   chan inboundLine
	closedCh chan model.ClientHandle

	helloScreen   model.ScreenHandle
	goodbyeScreen model.ScreenHandle

	reloadSig chan os.Signal
	stopSig   chan os.Signal
}

// New constructs a Server from already-loaded configuration. It does
// not bind the socket or load drivers yet; call Run for that.
func New(cfg *config.Config, stateDir string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	g := model.NewGraph()
	s := &Server{
		Config:   cfg,
		StateDir: stateDir,
		Logger:   logger,
		sched:    scheduler.New(),
		renderer: &render.Renderer{},
		conns:    map[model.ClientHandle]*clientConn{},
		acceptCh: make(chan net.Conn, 16),
		lineCh:   make(chan inboundLine, 256),
		closedCh: make(chan model.ClientHandle, 16),
	}
	s.ctx = dispatch.NewContext(g, nil)
	s.ctx.AutoRotate = cfg.Server.AutoRotate
	s.ctx.TitleSpeed = cfg.Server.TitleSpeed
	s.ctx.GlobalBacklight = int(cfg.Server.Backlight)
	s.ctx.GlobalHeartbeat = int(cfg.Server.Heartbeat)
	s.inputCfg = input.Config{
		MenuKey:         cfg.Server.MenuKey,
		ToggleRotateKey: cfg.Server.ToggleRotateKey,
		PrevScreenKey:   cfg.Server.PrevScreenKey,
		NextScreenKey:   cfg.Server.NextScreenKey,
		ScrollUpKey:     cfg.Server.ScrollUpKey,
		ScrollDownKey:   cfg.Server.ScrollDownKey,
	}
	return s
}

// Run binds the listener, loads drivers, wires server-owned screens,
// acquires the single-instance lock, and blocks running the main loop
// until a termination signal arrives. It returns the exit error, if
// any (§6: "non-zero [exit code] on startup failure").
func (s *Server) Run() error {
	lock, err := acquireSingleInstance(s.StateDir)
	if err != nil {
		return err
	}
	s.lock = lock

	if err := s.loadDrivers(); err != nil {
		s.lock.Unlock()
		return err
	}

	addr := net.JoinHostPort(s.Config.Server.Bind, strconv.Itoa(s.Config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.lock.Unlock()
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.ln = ln
	s.Logger.Printf("displayd: listening on %s", addr)

	s.ctx.Graph.OnScreenAdded = s.onScreenAdded
	s.ctx.Graph.OnScreenRemoved = s.onScreenRemoved
	s.setupServerScreens()

	s.reloadSig = make(chan os.Signal, 1)
	signal.Notify(s.reloadSig, syscall.SIGHUP)
	s.stopSig = make(chan os.Signal, 1)
	signal.Notify(s.stopSig, syscall.SIGINT, syscall.SIGTERM)

	go s.acceptLoop()

	return s.mainLoop()
}

func (s *Server) loadDrivers() error {
	names := s.Config.Server.Drivers
	if len(names) == 0 {
		names = []string{"console"}
	}
	for _, raw := range names {
		name, _, err := config.SplitDriverArgs(raw)
		if err != nil {
			name = raw
		}
		d, err := driver.Load(name, s.Config.DriverGetter(name))
		if err != nil {
			s.Logger.Printf("displayd: driver %s: %v", name, err)
			continue
		}
		if s.ctx.OutputDriver == nil {
			if w, h, cw, ch, ok := driver.OutputGeometry(d); ok {
				s.ctx.OutputDriver = d
				s.ctx.Graph.Display = model.DisplayProps{Width: w, Height: h, CellWidth: cw, CellHeight: ch}
				s.renderer.Driver = d
			}
		}
	}
	if s.ctx.OutputDriver == nil {
		return fmt.Errorf("no output driver loaded")
	}
	return nil
}

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.acceptCh <- c
	}
}

func (s *Server) connReadLoop(handle model.ClientHandle, conn net.Conn) {
	buf := make([]byte, BufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			s.lineCh <- inboundLine{handle: handle, line: string(buf[:n])}
		}
		if err != nil {
			s.closedCh <- handle
			return
		}
	}
}

// mainLoop alternates the process tick (~8Hz: accept/parse/dispatch,
// key polling/routing) and the render tick (configured frame interval)
// on independent tickers, honoring reload and shutdown signals at tick
// boundaries (§5).
func (s *Server) mainLoop() error {
	processInterval := time.Second / 8
	frameInterval := time.Duration(s.Config.Server.FrameInterval) * time.Millisecond
	if frameInterval <= 0 {
		frameInterval = 125 * time.Millisecond
	}

	processTicker := time.NewTicker(processInterval)
	renderTicker := time.NewTicker(frameInterval)
	defer processTicker.Stop()
	defer renderTicker.Stop()

	rawLines := map[model.ClientHandle]*ringBuffer{}

	for {
		select {
		case <-s.reloadSig:
			s.reload()

		case <-s.stopSig:
			return s.shutdown()

		case c := <-s.acceptCh:
			client := s.ctx.Graph.AddClient()
			cc := &clientConn{handle: client.Handle, conn: c, rb: newRingBuffer()}
			s.conns[client.Handle] = cc
			rawLines[client.Handle] = cc.rb
			go s.connReadLoop(client.Handle, c)

		case h := <-s.closedCh:
			s.destroyClient(h)
			delete(rawLines, h)

		case chunk := <-s.lineCh:
			rb, ok := rawLines[chunk.handle]
			if !ok {
				continue
			}
			if truncated := rb.Append([]byte(chunk.line)); truncated {
				s.Logger.Printf("displayd: client %v line buffer full, truncating", chunk.handle)
			}

		case <-processTicker.C:
			s.processTick(rawLines)

		case <-renderTicker.C:
			s.renderTick()
		}
	}
}

func (s *Server) processTick(rawLines map[model.ClientHandle]*ringBuffer) {
	for h, rb := range rawLines {
		for _, line := range rb.DrainLines() {
			s.dispatchLine(h, line)
		}
	}
	s.pollKeys()
}

func (s *Server) dispatchLine(h model.ClientHandle, line string) {
	cc, ok := s.conns[h]
	if !ok {
		return
	}
	argv, err := protocol.Tokenize(line)
	if err != nil {
		fmt.Fprint(cc.conn, protocol.Huh("%s", err.Error()))
		return
	}
	if len(argv) == 0 {
		return
	}
	resp := dispatch.Dispatch(s.ctx, h, argv)
	if resp != "" {
		fmt.Fprint(cc.conn, resp)
	}
	if c := s.ctx.Graph.Clients.Get(h); c != nil && c.State == model.ClientGone {
		s.closedCh <- h
	}
}

func (s *Server) pollKeys() {
	ks, ok := s.ctx.OutputDriver.(driver.KeySource)
	if !ok {
		return
	}
	current := s.ctx.Graph.Screens.Get(s.sched.Current())
	act := input.Actions{
		ToggleRotate: func() { s.ctx.AutoRotate = !s.ctx.AutoRotate },
		PrevScreen:   func() { s.sched.PostToast("Prev") },
		NextScreen:   func() { s.sched.PostToast("Next") },
	}
	out := func(ch model.ClientHandle, line string) {
		if cc, ok := s.conns[ch]; ok {
			fmt.Fprint(cc.conn, line)
		}
	}
	for {
		name, ok := ks.GetKey()
		if !ok {
			return
		}
		input.Route(s.ctx.Graph, current, name, s.inputCfg, act, out)
	}
}

func (s *Server) renderTick() {
	g := s.ctx.Graph
	g.FrameCounter++
	cur := s.sched.Tick(g, s.ctx.AutoRotate)
	screen := g.Screens.Get(cur)
	if screen == nil {
		return
	}
	s.renderer.Frame(g, screen, s.ctx.GlobalBacklight, s.ctx.GlobalHeartbeat, s.sched.Toast)
}

func (s *Server) destroyClient(h model.ClientHandle) {
	s.ctx.Graph.RemoveClient(h)
	if cc, ok := s.conns[h]; ok {
		cc.conn.Close()
		delete(s.conns, h)
	}
}

func (s *Server) onScreenAdded(g *model.Graph, h model.ScreenHandle) {
	scr := g.Screens.Get(h)
	if scr == nil || scr.Owner == model.NilClient {
		return
	}
	if _, err := menu.AddItem(g, scr.Owner, "", screenMenuID(h), model.ItemAction, scr.Name); err != nil {
		s.Logger.Printf("displayd: menu entry for screen %s: %v", scr.ID, err)
	}
}

func (s *Server) onScreenRemoved(g *model.Graph, h model.ScreenHandle) {
	_ = menu.DelItem(g, screenMenuID(h))
}

func screenMenuID(h model.ScreenHandle) string {
	return fmt.Sprintf("_screen_%d", h)
}

// reload handles the reload signal by logging it. It does not re-read
// the configuration file and does not reopen drivers; it runs only
// between ticks (§5).
func (s *Server) reload() {
	s.Logger.Printf("displayd: reload signal received")
}

// shutdown runs the teardown sequence: goodbye screen, output driver
// close, client teardown (which removes each client's screens), listener
// close, lock release (§5). The menu tree and server-owned screens are
// not torn down.
func (s *Server) shutdown() error {
	s.Logger.Printf("displayd: shutting down")
	s.showGoodbye()

	if s.ctx.OutputDriver != nil {
		s.ctx.OutputDriver.Close()
	}
	for h := range s.conns {
		s.destroyClient(h)
	}
	if s.ln != nil {
		s.ln.Close()
	}
	if s.lock != nil {
		s.lock.Unlock()
	}
	return nil
}

