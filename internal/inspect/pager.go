package inspect

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/term"
)

// BuiltinPager is the pager name that selects the embedded viewer
const BuiltinPager = "builtin"

// Pager displays a file
type Pager interface {
	Show(path string) error
}

// NewPager returns the embedded viewer for "builtin" and an external command otherwise
func NewPager(command string) Pager {
	if command == BuiltinPager {
		return &ViewerPager{Out: os.Stdout}
	}
	return &CommandPager{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// CommandPager runs an external pager such as less
type CommandPager struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Show runs the pager with path as its last argument and waits for it to exit
func (p *CommandPager) Show(path string) error {
	args := strings.Fields(p.Command)
	if len(args) == 0 {
		return fmt.Errorf("pager command is empty")
	}

	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pager %s failed: %w", args[0], err)
	}
	return nil
}

// ViewerPager shows files in a scrollable TUI when Out is a terminal and prints them otherwise
type ViewerPager struct {
	Out io.Writer
}

// Show displays the file at path
func (p *ViewerPager) Show(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	return p.run(filepath.Base(path), lines)
}

func (p *ViewerPager) run(title string, lines []string) error {
	// If not a terminal, print and return
	out, isFile := p.Out.(*os.File)
	if !isFile || !term.IsTerminal(int(out.Fd())) {
		for _, line := range lines {
			if _, err := fmt.Fprintln(p.Out, line); err != nil {
				return err
			}
		}
		return nil
	}

	app := tview.NewApplication()

	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	textView.SetBorder(true).SetTitle(" " + title + " ")

	// Logs and diffoscope output may contain ANSI sequences
	ansiWriter := tview.ANSIWriter(textView)
	fmt.Fprint(ansiWriter, strings.Join(lines, "\n"))

	footer := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[gray]Use ↑/↓, PgUp/PgDn, Home/End to scroll. Press 'q' or 'Esc' to go back.[white]")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, true).
		AddItem(footer, 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc, tcell.KeyCtrlQ:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	if err := app.SetRoot(flex, true).SetFocus(textView).Run(); err != nil {
		return fmt.Errorf("pager execution failed: %w", err)
	}
	return nil
}
