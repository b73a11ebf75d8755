package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

// safeModel keeps a rendering or update panic from killing the program:
// the panic is logged with its stack and the model drops back to the home
// screen.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd { return s.m.Init() }

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logPanic("tui.update", r)
		s.m = s.m.resetAfterPanic()
		tm, cmd = s, nil
	}()

	inner, c := s.m.Update(msg)

	switch v := inner.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}

	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logPanic("tui.view", r)
		out = "Unexpected error (see logs)"
	}()
	return s.m.View()
}

func (s safeModel) logPanic(where string, r any) {
	s.log.Error("panic.recovered",
		"where", where,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*safeModel)(nil)
