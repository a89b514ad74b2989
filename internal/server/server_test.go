package server

import (
	"net"
	"strings"
	"testing"

	"displayd/internal/config"
)

type stubDriver struct{ w, h, cw, ch int }

func (d *stubDriver) APIVersion() string           { return "0.1" }
func (d *stubDriver) RequiresForeground() bool      { return false }
func (d *stubDriver) AllowsMultipleInstances() bool { return true }
func (d *stubDriver) SymbolPrefix() string          { return "" }
func (d *stubDriver) Init() error                   { return nil }
func (d *stubDriver) Close() error                  { return nil }
func (d *stubDriver) Width() int                     { return d.w }
func (d *stubDriver) Height() int                    { return d.h }
func (d *stubDriver) CellWidth() int                 { return d.cw }
func (d *stubDriver) CellHeight() int                { return d.ch }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	s := New(cfg, t.TempDir(), nil)
	d := &stubDriver{w: 20, h: 4, cw: 1, ch: 1}
	s.ctx.OutputDriver = d
	s.ctx.Graph.Display.Width, s.ctx.Graph.Display.Height = 20, 4
	s.ctx.Graph.Display.CellWidth, s.ctx.Graph.Display.CellHeight = 1, 1
	s.renderer.Driver = d
	return s
}

func TestDispatchLineWritesSuccess(t *testing.T) {
	s := newTestServer(t)
	client := s.ctx.Graph.AddClient()
	server, caller := net.Pipe()
	defer server.Close()
	defer caller.Close()
	s.conns[client.Handle] = &clientConn{handle: client.Handle, conn: server, rb: newRingBuffer()}

	done := make(chan struct{})
	go func() {
		s.dispatchLine(client.Handle, "hello")
		close(done)
	}()

	buf := make([]byte, 256)
	n, err := caller.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	<-done
	got := string(buf[:n])
	if !strings.HasPrefix(got, "connect LCDproc ") {
		t.Fatalf("got %q", got)
	}
}

func TestDispatchLineUnknownCommandWritesHuh(t *testing.T) {
	s := newTestServer(t)
	client := s.ctx.Graph.AddClient()
	server, caller := net.Pipe()
	defer server.Close()
	defer caller.Close()
	s.conns[client.Handle] = &clientConn{handle: client.Handle, conn: server, rb: newRingBuffer()}

	go s.dispatchLine(client.Handle, "bogus_command\n")

	buf := make([]byte, 256)
	n, err := caller.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := string(buf[:n])
	if !strings.HasPrefix(got, "huh?") {
		t.Fatalf("got %q", got)
	}
}
