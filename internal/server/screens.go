package server

import (
	"fmt"

	"displayd/internal/model"
)

// setupServerScreens creates the server-owned hello screen shown at
// startup (§4.9). The goodbye screen is created lazily at shutdown so
// its banner lines reflect the final configuration.
func (s *Server) setupServerScreens() {
	hello := s.Config.Server.Hello
	if len(hello) == 0 {
		hello = []string{"displayd"}
	}
	scr, err := s.ctx.Graph.AddScreen(model.NilClient, "_hello_")
	if err != nil {
		s.Logger.Printf("displayd: hello screen: %v", err)
		return
	}
	scr.Priority = model.PriorityForeground
	scr.Duration = 4
	s.addBannerWidgets(scr, hello)
	s.helloScreen = scr.Handle
}

func (s *Server) showGoodbye() {
	goodbye := s.Config.Server.GoodBye
	if len(goodbye) == 0 {
		goodbye = []string{"Goodbye"}
	}
	scr, err := s.ctx.Graph.AddScreen(model.NilClient, "_goodbye_")
	if err != nil {
		return
	}
	scr.Priority = model.PriorityForeground
	s.addBannerWidgets(scr, goodbye)
	s.goodbyeScreen = scr.Handle
	s.renderer.Frame(s.ctx.Graph, scr, s.ctx.GlobalBacklight, s.ctx.GlobalHeartbeat, "")
}

func (s *Server) addBannerWidgets(scr *model.Screen, lines []string) {
	for i, line := range lines {
		if i >= s.ctx.Graph.Display.Height {
			break
		}
		w, err := s.ctx.Graph.AddWidget(scr.Handle, fmt.Sprintf("_line%d", i), model.WidgetString)
		if err != nil {
			continue
		}
		w.X, w.Y, w.Text = 1, i+1, line
	}
}
