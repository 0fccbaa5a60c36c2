// Package tui is a terminal front end for the catalog chat widget.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ziadkadry99/bookgraph/internal/chatwidget"
)

const helpText = `/starters   show the suggested questions again
/help       show this help
/bye        quit

Tab moves between the starters and the input.`

const (
	mainPage = "main"
	helpPage = "help"
)

// App is a running terminal chat.
type App struct {
	app          *tview.Application
	widget       *chatwidget.Controller
	pages        *tview.Pages
	conversation *tview.TextView
	starters     *tview.List
	input        *tview.TextArea
}

// New builds the terminal chat around a widget.
func New(widget *chatwidget.Controller) *App {
	a := &App{
		app:    tview.NewApplication(),
		widget: widget,
	}
	a.app.EnablePaste(true)

	a.conversation = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetChangedFunc(func() { a.app.Draw() })
	a.conversation.SetTitle("Conversation").SetBorder(true)
	a.conversation.SetScrollable(true)

	a.starters = tview.NewList().ShowSecondaryText(false)
	a.starters.SetTitle("Try asking").SetBorder(true)

	a.input = tview.NewTextArea()
	a.input.SetTitle("Question").SetBorder(true)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.conversation, 0, 1, false).
		AddItem(a.starters, 6, 0, false).
		AddItem(a.input, 5, 0, true)

	help := tview.NewModal().
		SetText(helpText).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) { a.hideHelp() })

	a.pages = tview.NewPages().
		AddPage(mainPage, layout, true, true).
		AddPage(helpPage, help, true, false)

	widget.Transcript().Subscribe(func(chatwidget.Event) {
		text := FormatTranscript(widget.Transcript().Entries())
		a.app.QueueUpdateDraw(func() {
			a.conversation.SetText(text)
			a.conversation.ScrollToEnd()
		})
	})
	return a
}

// Run loads the starters and blocks until the user quits.
func (a *App) Run(ctx context.Context) error {
	a.fillStarters(a.widget.LoadConversationStarters(ctx))

	a.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			a.app.SetFocus(a.starters)
			return nil
		case tcell.KeyEnter:
			content := strings.TrimSpace(a.input.GetText())
			a.input.SetText("", true)
			a.handleInput(ctx, content)
			return nil
		}
		return event
	})
	a.starters.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab || event.Key() == tcell.KeyEsc {
			a.app.SetFocus(a.input)
			return nil
		}
		return event
	})

	return a.app.SetRoot(a.pages, true).SetFocus(a.input).Run()
}

func (a *App) handleInput(ctx context.Context, content string) {
	switch content {
	case "":
		return
	case "/bye", "/quit", "/exit":
		a.app.Stop()
		return
	case "/help":
		a.pages.ShowPage(helpPage)
		return
	case "/starters":
		a.fillStarters(a.widget.Starters())
		a.app.SetFocus(a.starters)
		return
	}

	a.input.SetDisabled(true)
	go func() {
		a.widget.SendMessage(ctx, content)
		a.app.QueueUpdateDraw(func() { a.input.SetDisabled(false) })
	}()
}

// hideHelp dismisses the help dialog and returns focus to the input.
func (a *App) hideHelp() {
	a.pages.HidePage(helpPage)
	a.app.SetFocus(a.input)
}

func (a *App) fillStarters(starters []string) {
	a.starters.Clear()
	for _, s := range starters {
		a.starters.AddItem(s, "", 0, func() {
			a.app.SetFocus(a.input)
			a.input.SetDisabled(true)
			go func() {
				a.widget.SelectStarter(context.Background(), s)
				a.app.QueueUpdateDraw(func() { a.input.SetDisabled(false) })
			}()
		})
	}
}

// FormatTranscript renders entries as tview color-tagged text.
func FormatTranscript(entries []chatwidget.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		switch {
		case e.Typing:
			sb.WriteString("[gray]Bot is typing...[-]\n")
		case e.Sender == chatwidget.SenderUser:
			fmt.Fprintf(&sb, "[green]You:[-] %s\n", tview.Escape(e.Text))
		default:
			fmt.Fprintf(&sb, "[blue]Bot:[-] %s\n", tview.Escape(e.Text))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
