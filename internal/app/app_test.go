package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/seatwork/internal/screen"
	"github.com/abhisek/seatwork/internal/ui/layout"
)

type stubScreen struct {
	initRan bool
	keys    int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.keys++
	}
	return s, nil
}

func (s *stubScreen) View(int, int) string { return "stub body" }
func (s *stubScreen) Title() string        { return "Stub" }

func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Z", Description: "Zap"}}
}

func (s *stubScreen) HeaderStatus() layout.HeaderStatus {
	return layout.HeaderStatus{Score: 1234, Question: 2, Total: 5}
}

func TestInitRunsInitialScreen(t *testing.T) {
	s := &stubScreen{}
	m := newAppModel(s)
	m.Init()
	if !s.initRan {
		t.Error("expected the initial screen's Init to run")
	}
}

func TestCtrlCQuits(t *testing.T) {
	s := &stubScreen{}
	m := newAppModel(s)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if s.keys != 0 {
		t.Error("ctrl+c must not reach the screen")
	}
}

func TestKeysReachScreen(t *testing.T) {
	s := &stubScreen{}
	m := newAppModel(s)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.keys != 1 {
		t.Errorf("screen saw %d keys, want 1", s.keys)
	}
}

func TestViewComposesFrame(t *testing.T) {
	m := newAppModel(&stubScreen{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	content := updated.(AppModel).render()
	for _, want := range []string{"Seatwork", "Stub", "stub body", "★ 1234", "2/5", "Zap"} {
		if !strings.Contains(content, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newAppModel(&stubScreen{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if content := updated.(AppModel).render(); !strings.Contains(content, "too small") {
		t.Errorf("content = %q, want the too-small message", content)
	}
}
