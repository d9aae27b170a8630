package inspect

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TviewSelector shows selection lists in a full screen terminal UI
type TviewSelector struct {
	// Screen overrides the terminal screen, nil uses the real terminal
	Screen tcell.Screen
}

// SelectPackage lets the user pick a package line with the cursor starting at current
func (s *TviewSelector) SelectPackage(items []string, current int) (int, bool, error) {
	return s.choose(" Select package to inspect ", items, current)
}

// SelectOperation lets the user pick what to do with pkg
func (s *TviewSelector) SelectOperation(pkg string) (Operation, bool, error) {
	labels := make([]string, len(Operations))
	for i, op := range Operations {
		labels[i] = op.String()
	}
	index, ok, err := s.choose(fmt.Sprintf(" %s ", pkg), labels, 0)
	if err != nil || !ok {
		return 0, ok, err
	}
	return Operations[index], true, nil
}

func (s *TviewSelector) choose(title string, items []string, current int) (int, bool, error) {
	app := tview.NewApplication()
	if s.Screen != nil {
		app.SetScreen(s.Screen)
	}

	selected, ok := 0, false

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for _, item := range items {
		list.AddItem(tview.TranslateANSI(item), "", 0, nil)
	}
	if current >= 0 && current < len(items) {
		list.SetCurrentItem(current)
	}
	list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		selected, ok = index, true
		app.Stop()
	})
	list.SetDoneFunc(func() {
		app.Stop()
	})
	list.SetBorder(true).SetTitle(title)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	if err := app.SetRoot(list, true).SetFocus(list).Run(); err != nil {
		return 0, false, fmt.Errorf("selection failed: %w", err)
	}
	return selected, ok, nil
}
