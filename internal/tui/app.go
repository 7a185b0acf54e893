package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/storyloomhq/storyloom/internal/api"
	"github.com/storyloomhq/storyloom/internal/draft"
	"github.com/storyloomhq/storyloom/internal/logger"
	"github.com/storyloomhq/storyloom/internal/session"
	"github.com/storyloomhq/storyloom/internal/tui/storywizard"
)

// Options configures the app.
type Options struct {
	Ctrl           *session.Controller
	Client         *api.Client
	Store          *draft.Store // nil disables draft persistence
	DraftID        string
	Restored       *draft.State // non-nil offers "Resume draft" on the welcome screen
	WatermarkFinal bool
	DefaultVoice   string // preselected narrator voice from config
	DefaultTheme   string // preselected visual theme from config
}

// App routes between the welcome screen, the wizard, and the library.
type App struct {
	opts    Options
	ctrl    *session.Controller
	ctx     context.Context
	program storywizard.ProgramSender

	welcome *Welcome
	wizard  *storywizard.Model
	library *Library
	toast   *Toast

	width  int
	height int
}

// NewApp creates the app model.
func NewApp(ctx context.Context, opts Options) *App {
	canResume := opts.Restored != nil && !opts.Restored.Session.IsEmpty()
	return &App{
		opts:    opts,
		ctrl:    opts.Ctrl,
		ctx:     ctx,
		welcome: NewWelcome(canResume),
		toast:   NewToast(),
	}
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	app := NewApp(ctx, opts)
	p := tea.NewProgram(app)
	app.program = p

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

// Init initializes the app. When the controller was restored onto a
// wizard step the wizard comes up immediately.
func (a *App) Init() tea.Cmd {
	if a.ctrl.Current().IsWizard() {
		return a.newWizard()
	}
	return a.welcome.Init()
}

// newWizard creates the wizard bound to the current session state.
func (a *App) newWizard() tea.Cmd {
	a.wizard = storywizard.New(a.ctx, storywizard.Options{
		Ctrl:           a.ctrl,
		Client:         a.opts.Client,
		Store:          a.opts.Store,
		DraftID:        a.opts.DraftID,
		WatermarkFinal: a.opts.WatermarkFinal,
		DefaultVoice:   a.opts.DefaultVoice,
		DefaultTheme:   a.opts.DefaultTheme,
	})
	a.wizard.SetProgram(a.program)
	cmd := a.wizard.Init()
	sizeCmd := a.wizard.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	return tea.Batch(cmd, sizeCmd)
}

// Update handles messages for the app.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.welcome.SetSize(msg.Width, msg.Height)
		if a.library != nil {
			a.library.SetSize(msg.Width, msg.Height)
		}
		if a.wizard != nil {
			cmds = append(cmds, a.wizard.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case ToastDismissMsg:
		return a, a.toast.Update(msg)

	case WelcomeChoiceMsg:
		return a.handleWelcomeChoice(msg.Choice)

	case storywizard.WizardCancelledMsg:
		a.ctrl.StartOver()
		a.wizard = nil
		return a, nil

	case storywizard.WizardDoneMsg:
		a.ctrl.StartOver()
		a.wizard = nil
		cmds = append(cmds, a.recordReset())
		if err := a.ctrl.OpenLibrary(); err == nil {
			a.library = NewLibrary(a.ctx, a.opts.Client)
			a.library.SetSize(a.width, a.height)
			cmds = append(cmds, a.library.Init())
		}
		return a, tea.Batch(cmds...)

	case LibraryClosedMsg:
		a.ctrl.CloseLibrary()
		a.library = nil
		return a, nil
	}

	// Route to the active screen
	switch a.ctrl.Current() {
	case session.StepWelcome:
		cmds = append(cmds, a.welcome.Update(msg))
	case session.StepLibrary:
		if a.library != nil {
			cmds = append(cmds, a.library.Update(msg))
		}
	default:
		if a.wizard != nil {
			cmds = append(cmds, a.wizard.Update(msg))
		}
	}

	// Surface controller notifications as toasts
	if notes := a.ctrl.DrainNotifications(); len(notes) > 0 {
		last := notes[len(notes)-1]
		cmds = append(cmds, a.toast.Show(last.Level, last.Message))
	}

	return a, tea.Batch(cmds...)
}

// handleWelcomeChoice dispatches a welcome menu selection.
func (a *App) handleWelcomeChoice(choice int) (tea.Model, tea.Cmd) {
	switch choice {
	case welcomeNewStory:
		a.ctrl.StartNew()
		return a, tea.Batch(a.recordReset(), a.newWizard())

	case welcomeResume:
		restored := a.opts.Restored
		if restored == nil {
			return a, nil
		}
		a.ctrl.Restore(restored.Session, restored.Completed, restored.Current)
		logger.Info("Resumed draft %s at step %s", restored.Draft, restored.Current)
		return a, a.newWizard()

	case welcomeLibrary:
		if err := a.ctrl.OpenLibrary(); err != nil {
			return a, nil
		}
		a.library = NewLibrary(a.ctx, a.opts.Client)
		a.library.SetSize(a.width, a.height)
		return a, a.library.Init()

	case welcomeQuit:
		return a, tea.Quit
	}
	return a, nil
}

// recordReset clears the draft log when a fresh story begins.
func (a *App) recordReset() tea.Cmd {
	if a.opts.Store == nil {
		return nil
	}
	store := a.opts.Store
	ctx := a.ctx
	draftID := a.opts.DraftID
	return func() tea.Msg {
		if err := store.RecordReset(ctx, draftID); err != nil {
			logger.Warn("Recording draft reset failed: %v", err)
		}
		return nil
	}
}

// View renders the active screen centered on an alt-screen canvas,
// with the toast drawn over it.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if a.width == 0 || a.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	var content string
	switch a.ctrl.Current() {
	case session.StepWelcome:
		content = a.welcome.View()
	case session.StepLibrary:
		if a.library != nil {
			content = a.library.View()
		}
	default:
		if a.wizard != nil {
			content = a.wizard.View()
		}
	}

	centered := lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	canvas := uv.NewScreenBuffer(a.width, a.height)
	area := uv.Rect(0, 0, a.width, a.height)
	uv.NewStyledString(centered).Draw(canvas, area)

	if a.toast.IsVisible() {
		uv.NewStyledString(a.toast.View(a.width, a.height)).Draw(canvas, area)
	}

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
