package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ascript/lang/diag"
)

func typeText(t *testing.T, m model, s string) model {
	t.Helper()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func press(t *testing.T, m model, k tea.KeyType) model {
	t.Helper()

	m, _ = m.handleKey(tea.KeyMsg{Type: k})

	return m
}

func TestModelCompletion(t *testing.T) {
	s := testSession(t)
	if _, err := s.Eval(t.Context(), "alphaBeta = 1; cfg = new { level = 2 }"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := newModel(t.Context(), s, NewHistory(""))

	m = typeText(t, m, "alphaB")
	if len(m.matches) == 0 || m.matches[0].Str != "alphaBeta" {
		t.Fatalf("expected alphaBeta as the best match, got %v", m.matches)
	}

	m = press(t, m, tea.KeyTab)
	if got := m.input.Value(); got != "alphaBeta" {
		t.Errorf("expected completed input, got %q", got)
	}

	m = press(t, m, tea.KeyCtrlC)
	if m.input.Value() != "" || m.quitting {
		t.Fatalf("expected Ctrl+C to clear the line, got %q", m.input.Value())
	}

	m = typeText(t, m, "cfg.")
	if len(m.matches) != 1 || m.matches[0].Str != "level" {
		t.Errorf("expected the members of cfg, got %v", m.matches)
	}

	if line := m.statusLine(); line == "" {
		t.Errorf("expected the candidate bar")
	}

	m = press(t, m, tea.KeyCtrlC)
	m = typeText(t, m, "Calc.add(1, ")

	call := detectFunctionCall(m.input.Value(), byteOffset(m.input.Value(), m.input.Position()))
	if call.name != "Calc.add" || call.argIndex != 1 {
		t.Errorf("expected the second argument of Calc.add, got %+v", call)
	}
}

func TestModelTabCycle(t *testing.T) {
	s := testSession(t)
	m := newModel(t.Context(), s, NewHistory(""))

	m = typeText(t, m, "Calc.")
	if len(m.matches) != 2 {
		t.Fatalf("expected 2 members, got %v", m.matches)
	}

	m = press(t, m, tea.KeyTab)
	first := m.input.Value()

	m = press(t, m, tea.KeyTab)
	second := m.input.Value()

	if first == second || !strings.HasPrefix(second, "Calc.") {
		t.Errorf("expected cycling to replace the member, got %q then %q", first, second)
	}

	m = press(t, m, tea.KeyEsc)
	if got := m.input.Value(); got != "Calc." {
		t.Errorf("expected Esc to restore the input, got %q", got)
	}

	if m.mode != modeEval {
		t.Errorf("expected to stay in eval mode while cancelling completion")
	}
}

func TestModelModes(t *testing.T) {
	s := testSession(t)
	m := newModel(t.Context(), s, NewHistory(""))

	m = typeText(t, m, "1 + 2")
	m = press(t, m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("expected an empty control prompt, got mode %d %q", m.mode, m.input.Value())
	}

	m = typeText(t, m, "he")
	if len(m.matches) == 0 || m.matches[0].Str != "help" {
		t.Errorf("expected help as the best command, got %v", m.matches)
	}

	m = press(t, m, tea.KeyEsc)
	if m.mode != modeEval || m.input.Value() != "1 + 2" {
		t.Errorf("expected the eval input back, got mode %d %q", m.mode, m.input.Value())
	}
}

func TestModelRecall(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("x = 1", modeEval)
	_ = h.Add("list", modeCtrl)
	_ = h.Add("x + 1", modeEval)

	m := newModel(t.Context(), testSession(t), h)

	m = press(t, m, tea.KeyUp)
	if m.input.Value() != "x + 1" || m.mode != modeEval {
		t.Fatalf("expected the newest entry, got %q", m.input.Value())
	}

	m = press(t, m, tea.KeyUp)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Fatalf("expected the control entry, got %q in mode %d", m.input.Value(), m.mode)
	}

	m = press(t, m, tea.KeyShiftUp)
	if m.input.Value() != "list" {
		t.Errorf("expected no older control entry, got %q", m.input.Value())
	}

	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyDown)

	if m.input.Value() != "" || m.historyIdx != h.Len() {
		t.Errorf("expected to move past the newest entry, got %q at %d", m.input.Value(), m.historyIdx)
	}
}

func TestModelRun(t *testing.T) {
	s := testSession(t)
	m := newModel(t.Context(), s, NewHistory(""))

	m = typeText(t, m, "y = 40 + 2")

	m, cmd := m.executeInput()
	if cmd == nil || m.cancel == nil {
		t.Fatalf("expected a running evaluation")
	}

	if m.history.Len() != 1 {
		t.Errorf("expected the input in history, got %d entries", m.history.Len())
	}

	// keys other than Ctrl+C are ignored while running
	m = typeText(t, m, "z")
	if m.input.Value() != "" {
		t.Errorf("expected input to be ignored, got %q", m.input.Value())
	}

	m.cancel()

	m, cmd = m.run(func(ctx context.Context) (any, error) {
		return s.Eval(ctx, "y")
	})

	next, _ := m.Update(cmd())
	if next.(model).cancel != nil {
		t.Errorf("expected the evaluation to finish")
	}

	m, cmd = m.run(func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, diag.ErrCanceled.Wrap(context.Cause(ctx))
	})

	m = press(t, m, tea.KeyCtrlC)

	done, ok := cmd().(evalDoneMsg)
	if !ok || !errors.Is(done.err, diag.ErrCanceled) {
		t.Errorf("expected a canceled evaluation, got %v", done.err)
	}

	if m.quitting {
		t.Errorf("expected Ctrl+C to interrupt rather than quit")
	}
}

func TestModelCommands(t *testing.T) {
	s := testSession(t)
	if _, err := s.Eval(t.Context(), "val answer = 42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := newModel(t.Context(), s, NewHistory(""))

	if got := m.listBindings(); !strings.Contains(got, "answer") || !strings.Contains(got, "42") {
		t.Errorf("expected the binding listed, got %q", got)
	}

	m, _ = m.executeCommand("reset")
	if got := m.listBindings(); !strings.Contains(got, "no bindings") {
		t.Errorf("expected no bindings after reset, got %q", got)
	}

	m, _ = m.executeCommand("quit")
	if !m.quitting {
		t.Errorf("expected quit to stop the session")
	}
}

func TestRenderResult(t *testing.T) {
	if got := renderResult([]any{int32(1)}, nil); !strings.Contains(got, "[1]") {
		t.Errorf("expected the formatted value, got %q", got)
	}

	s := testSession(t)

	_, err := s.Eval(t.Context(), "f = () => throw 'no; f()")
	if err == nil {
		t.Fatalf("expected an error")
	}

	got := renderResult(nil, err)
	if !strings.Contains(got, "error:") || !strings.Contains(got, "at f") {
		t.Errorf("expected the error and its stack, got %q", got)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("x", 100)

	if got := preview(long); len([]rune(got)) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected a truncated preview, got %q", got)
	}

	if got := preview(int32(7)); got != "7" {
		t.Errorf("expected 7, got %q", got)
	}
}
