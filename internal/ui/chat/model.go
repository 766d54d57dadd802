// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lmchat/internal/app"
	"github.com/jeranaias/lmchat/internal/ui/styles"
)

// Layout defaults.
const (
	DefaultSidebarWidth = 28
	DefaultMinWidth     = 80
	DefaultMinHeight    = 24

	// maxInputLength caps a single message typed into the input bar.
	maxInputLength = 8000

	// saveFieldWidth is the visible width of the save dialog's name field.
	saveFieldWidth = 40
)

// focusArea identifies the pane that receives keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configure a new Model.
type Options struct {
	// Theme is the style set (default: dark theme)
	Theme *styles.Theme

	// State is the application state (default: empty state)
	State *app.State

	// Env carries the collaborators passed to every state update.
	Env app.Env

	// Lister, when set, is queried for models at startup.
	Lister app.ModelLister

	// Changes and Loader, when both set, reload the saved collection
	// after each change signal.
	Changes <-chan struct{}
	Loader  app.Loader

	// Markdown renders assistant replies with glamour.
	Markdown bool

	// SidebarWidth is the sidebar width in cells (default: 28)
	SidebarWidth int

	// MinWidth and MinHeight are the smallest usable window (default: 80x24)
	MinWidth  int
	MinHeight int

	// Copy writes text to the system clipboard (default: clipboard.WriteAll)
	Copy func(string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	state   *app.State
	env     app.Env
	lister  app.ModelLister
	changes <-chan struct{}
	loader  app.Loader

	theme *styles.Theme
	keys  KeyMap
	help  help.Model

	input     textinput.Model
	saveInput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model

	focus  focusArea
	cursor int

	width        int
	height       int
	sidebarWidth int
	minWidth     int
	minHeight    int

	markdown      bool
	renderer      *glamour.TermRenderer
	rendererWidth int

	copy func(string) error

	// shownMessages is the transcript length last written to the viewport.
	shownMessages int
	bubbles       *bubbleCache
}

// New creates a chat model.
func New(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ModeDark)
	}
	if opts.State == nil {
		opts.State = app.New(nil, app.Options{})
	}
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = DefaultSidebarWidth
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = DefaultMinWidth
	}
	if opts.MinHeight <= 0 {
		opts.MinHeight = DefaultMinHeight
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.PromptStyle = opts.Theme.InputPrompt
	input.CharLimit = maxInputLength
	input.Focus()

	saveInput := textinput.New()
	saveInput.Placeholder = "Conversation name"
	saveInput.Prompt = ""
	saveInput.CharLimit = 0 // names loaded from disk have no length cap
	saveInput.Width = saveFieldWidth

	spin := spinner.New()
	spin.Spinner = opts.Theme.Spinner()
	spin.Style = opts.Theme.HeaderPending

	h := help.New()
	h.ShortSeparator = " · "

	return Model{
		state:        opts.State,
		env:          opts.Env,
		lister:       opts.Lister,
		changes:      opts.Changes,
		loader:       opts.Loader,
		theme:        opts.Theme,
		keys:         DefaultKeyMap(),
		help:         h,
		input:        input,
		saveInput:    saveInput,
		viewport:     viewport.New(0, 0),
		spinner:      spin,
		focus:        focusInput,
		sidebarWidth: opts.SidebarWidth,
		minWidth:     opts.MinWidth,
		minHeight:    opts.MinHeight,
		markdown:     opts.Markdown,
		copy:         opts.Copy,
		bubbles:      &bubbleCache{},
	}
}

// Init starts the cursor blink, the model listing and the file watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		app.ListModelsCmd(m.lister),
		app.WatchCmd(m.changes, m.loader, m.state.WriteSeq()),
	)
}

// State returns the application state the model drives.
func (m Model) State() *app.State {
	return m.state
}

// TooSmall reports whether the window is below the minimum usable size.
func (m Model) TooSmall() bool {
	return m.width < m.minWidth || m.height < m.minHeight
}
