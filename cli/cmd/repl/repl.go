package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
)

// evalDoneMsg carries the outcome of an evaluation run off the UI loop.
type evalDoneMsg struct {
	result any
	err    error
}

// editDoneMsg is sent when the editor produced a script that parses.
type editDoneMsg struct {
	src  string
	prog *ast.Block
}

// editCancelledMsg is sent when the user emptied the editor buffer.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help         Print this message
  list         List the bindings made in this session
  load FILE    Evaluate a script file in the session scope
  edit         Write a script in $EDITOR and evaluate it
  reset        Discard all session bindings
  clear        Clear screen
  quit         Exit REPL

Usage:
  Type an expression to evaluate it; bindings persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history of the current mode only
  Press Ctrl+C to interrupt a running evaluation
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// renderResult formats the outcome of an evaluation. A script error is
// followed by its call stack, innermost frame first.
func renderResult(v any, err error) string {
	if err == nil {
		return resultStyle.Render(lang.FormatValue(v))
	}

	var b strings.Builder

	b.WriteString(errorStyle.Render("error: " + err.Error()))

	var e *diag.Error
	if errors.As(err, &e) {
		for _, f := range e.Stack() {
			b.WriteString("\n")
			b.WriteString(hintStyle.Render("  at " + f.String()))
		}
	}

	return b.String()
}

// savedInput is the text and cursor of a mode that is not shown.
type savedInput struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	session    *Session
	history    *History
	historyIdx int

	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began

	cancel     context.CancelFunc // set while an evaluation runs
	lastSource string             // seeds the editor

	width    int
	quitting bool
	mode     inputMode
	saved    [2]savedInput
}

// Run starts an interactive session. History is kept in cacheDir, or only
// in memory when cacheDir is empty.
func Run(ctx context.Context, session *Session, cacheDir string) error {
	path := ""
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		session.logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	session.logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entries", history.Len()),
		slog.Int("bindings", len(session.Bindings())),
	)

	_, err := tea.NewProgram(newModel(ctx, session, history), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, session *Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case evalDoneMsg:
		m.cancel = nil
		m.session.logger.TraceContext(m.ctxFunc(), "repl eval result",
			slog.Bool("ok", msg.err == nil),
		)
		refreshMatches(&m, false)

		result := renderResult(msg.result, msg.err)
		if printed := m.session.drain(); printed != "" {
			result = printed + "\n" + result
		}

		return m, tea.Println(result)

	case editDoneMsg:
		m.lastSource = msg.src
		sess, prog := m.session, msg.prog

		return m.run(func(ctx context.Context) (any, error) {
			return sess.Exec(ctx, prog)
		})

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.statusLine() + "\n"
}

// statusLine is the line below the prompt: a signature hint, the completion
// bar, the history position or a usage hint.
func (m model) statusLine() string {
	input := m.input.Value()

	switch {
	case m.cancel != nil:
		return hintStyle.Render("evaluating... (Ctrl+C to interrupt)")

	case m.historyIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render(
			"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")

	case m.mode == modeEval:
		call := detectFunctionCall(input, byteOffset(input, m.input.Position()))
		if call.inCall {
			if h, ok := m.session.signatureHint(call.name, call.argIndex); ok {
				return renderSignatureHint(h, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.session.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	// The session scope belongs to the running evaluation until it is done.
	if m.cancel != nil {
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
		}

		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.recall(-1, false)

	case tea.KeyDown:
		return m.recall(1, false)

	case tea.KeyShiftUp:
		return m.recall(-1, true)

	case tea.KeyShiftDown:
		return m.recall(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Deletions and cursor motion never auto-confirm a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle steps through the completion candidates. A sole candidate is
// accepted at once.
func (m model) cycle(step int) (model, tea.Cmd) {
	n := len(m.matches)

	switch {
	case n == 0:
		return m, nil

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// byteOffset converts a rune position in s to a byte offset.
func byteOffset(s string, pos int) int {
	for i := range s {
		if pos == 0 {
			return i
		}

		pos--
	}

	return len(s)
}

// replaceCurrentWord replaces the word under the cursor with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	updated := input[:m.wordStart] + replacement + input[m.wordEnd:]
	end := m.wordStart + len(replacement)

	m.input.SetValue(updated)
	m.input.SetCursor(utf8.RuneCountInString(updated[:end]))
	m.wordEnd = end
}

// refreshMatches recomputes the completion candidates. With autoConfirm the
// completion is accepted when the typed word already equals the only
// candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// run evaluates fn off the UI loop with a context that Ctrl+C cancels.
func (m model) run(fn func(context.Context) (any, error)) (model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctxFunc())
	m.cancel = cancel
	m.matches = nil

	return m, func() tea.Msg {
		defer cancel()

		v, err := fn(ctx)

		return evalDoneMsg{result: v, err: err}
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]savedInput{}
	m.input.SetValue("")

	if err := m.history.Add(input, m.mode); err != nil {
		m.session.logger.DebugContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.session.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))
	m.lastSource = input
	sess := m.session

	m, cmd := m.run(func(ctx context.Context) (any, error) {
		return sess.Eval(ctx, input)
	})

	return m, tea.Sequence(tea.Println(formatCommand(input)), cmd)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	name, args := parts[0], parts[1:]
	echo := tea.Println(formatCtrlCommand(input))

	m.session.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.Any("args", args),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "o", "load":
		if len(args) != 1 {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("usage: load FILE")))
		}

		var (
			sess = m.session
			path = args[0]
			cmd  tea.Cmd
		)

		m, cmd = m.run(func(ctx context.Context) (any, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer f.Close()

			return sess.Load(ctx, f)
		})

		return m, tea.Sequence(echo, cmd)

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	case "r", "reset":
		m.session.Reset()
		refreshMatches(&m, false)

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen
	}

	return m, tea.Println(
		errorStyle.Render("unknown command: " + name + " (try 'help')"))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		content: m.lastSource,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.prog == nil:
			return editCancelledMsg{}
		}

		return editDoneMsg{src: cmd.src, prog: cmd.prog}
	})
}

// listBindings formats the session's bindings, one per line.
func (m model) listBindings() string {
	bindings := m.session.Bindings()
	if len(bindings) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	lines := make([]string, len(bindings))

	for i, b := range bindings {
		kw := "val"
		if b.Mutable {
			kw = "var"
		}

		lines[i] = fmt.Sprintf("  %s %s %s",
			hintStyle.Render(kw), b.Name, hintStyle.Render("= "+preview(b.Value)))
	}

	return strings.Join(lines, "\n")
}

// preview formats v, truncated to a single short line.
func preview(v any) string {
	const limit = 40

	s := strings.ReplaceAll(lang.FormatValue(v), "\n", " ")
	if utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit-3]) + "..."
	}

	return s
}

// recall moves through history by step. With sameMode, entries entered in
// the other mode are skipped. Moving past the newest entry clears the input.
func (m model) recall(step int, sameMode bool) (model, tea.Cmd) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		e, err := m.history.At(i)
		if err != nil {
			break
		}

		if sameMode && e.Mode != m.mode {
			continue
		}

		m.historyIdx = i
		if e.Mode != m.mode {
			m = m.switchToMode(e.Mode)
		}

		m.input.SetValue(e.Line)
		m.input.CursorEnd()
		refreshMatches(&m, false)

		return m, nil
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// switchToMode shows mode's input, keeping the current mode's text for when
// it is shown again.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = savedInput{text: m.input.Value(), cursor: m.input.Position()}
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	refreshMatches(&m, false)

	return m
}
