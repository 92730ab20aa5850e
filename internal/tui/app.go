// Package tui provides the interactive Bubble Tea dashboard for walletmom.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/walletmom/internal/budget"
	"github.com/theirongolddev/walletmom/internal/ledger"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"
	"github.com/theirongolddev/walletmom/internal/purchase"
	"github.com/theirongolddev/walletmom/internal/tui/components"
	"github.com/theirongolddev/walletmom/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger is what the dashboard reads and the setup form writes.
type Ledger interface {
	Document() (*ledger.Document, error)
	UpdateProfile(income, savingsGoal decimal.Decimal) error
}

// Purchases runs the analyse-then-confirm flow. *purchase.Service
// satisfies it.
type Purchases interface {
	Analyze(ctx context.Context, req purchase.Request) (*purchase.Analysis, error)
	Confirm(a *purchase.Analysis) (model.Transaction, error)
}

// History lists past decisions. *store.Journal satisfies it.
type History interface {
	Recent(limit int) ([]model.Decision, error)
}

// Options configures the dashboard.
type Options struct {
	Ledger    Ledger
	Purchases Purchases
	History   History // optional

	Provider string        // explanation provider name for the status bar
	Breaker  func() string // optional circuit breaker state

	RecentCount     int
	HistoryCount    int
	RefreshInterval time.Duration
	AskTimeout      time.Duration

	// SaveTheme persists the theme picked in the setup form. Optional.
	SaveTheme func(name string) error
	Logger    *zap.Logger
}

type dataLoadedMsg struct {
	doc       *ledger.Document
	decisions []model.Decision
	err       error
	loadTime  time.Duration
}

type analysisMsg struct {
	analysis *purchase.Analysis
	err      error
}

type confirmedMsg struct {
	tx  model.Transaction
	err error
}

type profileSavedMsg struct {
	err error
}

type refreshTickMsg struct{}

const (
	tabOverview = iota
	tabBudget
	tabAsk
	tabReview
)

type askPhase int

const (
	askEditing askPhase = iota
	askThinking
	askResult
	askFailed
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	defaultRefresh    = 30 * time.Second
	defaultAskTimeout = 45 * time.Second
	chartDays         = 14
)

// App is the root Bubble Tea model.
type App struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	// Data
	doc       *ledger.Document
	decisions []model.Decision
	loaded    bool
	loadErr   error

	// Derived on every load
	currency string
	snap     model.FinancialSnapshot
	plan     model.BudgetPlan
	split    model.Split
	planErr  error
	recent   []model.Transaction
	review   model.MonthlyReview
	daily    []model.DailySpend

	lastRefresh time.Time
	refreshing  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	flash     string
	flashErr  bool

	spinner spinner.Model

	// First-run profile form
	setupForm *huh.Form
	setupVals *ProfileValues

	// Ask tab
	askForm  *huh.Form
	askVals  *askValues
	phase    askPhase
	analysis *purchase.Analysis
	askErr   error
}

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	if opts.RecentCount <= 0 {
		opts.RecentCount = 5
	}
	if opts.HistoryCount <= 0 {
		opts.HistoryCount = 10
	}
	if opts.RefreshInterval < 5*time.Second {
		opts.RefreshInterval = defaultRefresh
	}
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = defaultAskTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:     opts,
		logger:   logger.With(zap.String("component", "tui")),
		now:      time.Now,
		spinner:  sp,
		currency: model.DefaultCurrency,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Ledger, a.opts.History, a.opts.HistoryCount),
		a.spinner.Tick,
		refreshTickCmd(a.opts.RefreshInterval),
	)
}

// recompute derives everything the tabs show from the loaded document.
func (a *App) recompute() {
	doc := a.doc
	if doc == nil {
		return
	}
	now := a.now()

	a.currency = doc.UserProfile.Currency
	if a.currency == "" {
		a.currency = model.DefaultCurrency
	}
	a.snap = pipeline.BuildSnapshot(doc.UserProfile, doc.FixedExpenses, doc.Transactions)

	a.planErr = nil
	plan, err := budget.Allocate(a.snap.Income, a.snap.TotalFixedExpenses)
	if err != nil {
		a.planErr = err
	}
	a.plan = plan
	split, err := budget.FiftyThirtyTwenty(a.snap.Income)
	if err != nil && a.planErr == nil {
		a.planErr = err
	}
	a.split = split

	a.recent = pipeline.Recent(doc.Transactions, a.opts.RecentCount)
	a.review = pipeline.Review(doc.Transactions, now)
	a.daily = pipeline.DailySpend(doc.Transactions, now.AddDate(0, 0, -(chartDays-1)), now)
}

func ledgerIsBlank(doc *ledger.Document) bool {
	return doc.UserProfile.MonthlyIncome.IsZero() &&
		len(doc.FixedExpenses) == 0 &&
		len(doc.Transactions) == 0
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(min(msg.Width, 72)).WithHeight(msg.Height)
		}
		if a.askForm != nil {
			a.askForm = a.askForm.WithWidth(a.askFormWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.switchTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case dataLoadedMsg:
		a.refreshing = false
		a.lastRefresh = a.now()
		a.logger.Debug("ledger loaded", zap.Duration("took", msg.loadTime))
		if msg.err != nil {
			a.loadErr = msg.err
			a.loaded = true
			a.logger.Error("ledger load failed", zap.Error(msg.err))
			return a, nil
		}
		a.loadErr = nil
		a.doc = msg.doc
		a.decisions = msg.decisions
		firstLoad := !a.loaded
		a.loaded = true
		a.recompute()

		if firstLoad && ledgerIsBlank(a.doc) {
			return a.startSetup()
		}
		return a, nil

	case profileSavedMsg:
		if msg.err != nil {
			a.setFlash("Could not save profile: "+msg.err.Error(), true)
		} else {
			a.setFlash("Profile saved", false)
		}
		return a, a.reload()

	case analysisMsg:
		if msg.err != nil {
			a.phase = askFailed
			a.askErr = msg.err
			a.logger.Warn("analysis failed", zap.Error(msg.err))
			return a, nil
		}
		a.phase = askResult
		a.analysis = msg.analysis
		return a, a.reload()

	case confirmedMsg:
		if msg.err != nil {
			a.setFlash("Could not log purchase: "+msg.err.Error(), true)
			return a, nil
		}
		a.setFlash("Logged "+msg.tx.Description, false)
		cmd := a.resetAsk()
		return a, tea.Batch(cmd, a.reload())

	case spinner.TickMsg:
		if !a.loaded || a.phase == askThinking {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case refreshTickMsg:
		cmds := []tea.Cmd{refreshTickCmd(a.opts.RefreshInterval)}
		if a.loaded && !a.refreshing && a.setupForm == nil {
			cmds = append(cmds, a.reload())
		}
		return a, tea.Batch(cmds...)
	}

	// Forward everything else (cursor blinks and the like) to an open form.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabAsk && a.phase == askEditing && a.askForm != nil {
		return a.updateAskForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// The purchase form owns the keyboard while editing; esc leaves the tab.
	if a.activeTab == tabAsk && a.phase == askEditing && a.askForm != nil {
		if key == "esc" {
			return a.switchTab(tabOverview)
		}
		return a.updateAskForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabAsk {
		switch a.phase {
		case askThinking:
			return a, nil
		case askResult:
			switch key {
			case "y", "Y":
				if a.analysis != nil && !a.analysis.Confirmed {
					return a, confirmCmd(a.opts.Purchases, a.analysis)
				}
				return a, nil
			case "n", "N", "esc", "enter":
				a.setFlash("Not logged", false)
				return a, a.resetAsk()
			}
		case askFailed:
			switch key {
			case "esc", "enter", "n":
				return a, a.resetAsk()
			}
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			return a, a.reload()
		}
		return a, nil
	case "left", "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a.switchTab(idx)
		}
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	if idx == tabAsk && a.askForm == nil && a.phase == askEditing {
		return a, a.resetAsk()
	}
	return a, nil
}

func (a *App) reload() tea.Cmd {
	a.refreshing = true
	return loadDataCmd(a.opts.Ledger, a.opts.History, a.opts.HistoryCount)
}

func (a *App) setFlash(s string, isErr bool) {
	a.flash = s
	a.flashErr = isErr
}

func (a App) startSetup() (tea.Model, tea.Cmd) {
	a.setupVals = &ProfileValues{}
	a.setupForm = NewProfileForm(a.currency, a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(min(a.width, 72)).WithHeight(a.height)
	}
	return a, a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		vals := a.setupVals
		a.setupForm = nil

		theme.SetActive(vals.Theme)
		if a.opts.SaveTheme != nil {
			if err := a.opts.SaveTheme(vals.Theme); err != nil {
				a.logger.Warn("saving theme failed", zap.Error(err))
			}
		}
		income, goal, err := vals.Parsed()
		if err != nil {
			a.setFlash(err.Error(), true)
			return a, nil
		}
		return a, saveProfileCmd(a.opts.Ledger, income, goal)

	case huh.StateAborted:
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) askFormWidth() int {
	return min(max(a.contentWidth()-6, 40), 72)
}

// resetAsk discards any analysis and opens a fresh purchase form.
func (a *App) resetAsk() tea.Cmd {
	a.phase = askEditing
	a.analysis = nil
	a.askErr = nil
	a.askVals = &askValues{}
	a.askForm = newAskForm(a.currency, a.askVals)
	if a.width > 0 {
		a.askForm = a.askForm.WithWidth(a.askFormWidth())
	}
	return a.askForm.Init()
}

func (a App) updateAskForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.askForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.askForm = f
	}

	switch a.askForm.State {
	case huh.StateCompleted:
		req, err := a.askVals.request()
		if err != nil {
			a.phase = askFailed
			a.askErr = err
			return a, nil
		}
		a.phase = askThinking
		a.askForm = nil
		return a, tea.Batch(a.spinner.Tick, analyzeCmd(a.opts.Purchases, req, a.opts.AskTimeout))

	case huh.StateAborted:
		return a, a.resetAsk()
	}
	return a, cmd
}

func (v *askValues) request() (purchase.Request, error) {
	cost, err := model.ParseAmount("cost", v.Cost)
	if err != nil {
		return purchase.Request{}, err
	}
	cat, err := model.ParseCategory(v.Category)
	if err != nil {
		return purchase.Request{}, err
	}
	return purchase.Request{Item: strings.TrimSpace(v.Item), Cost: cost, Category: cat}, nil
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.viewSetup()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  walletmom needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) centered(card string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(theme.Active.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ walletmom") + sub.Render(" · can I afford this?") + "\n\n" +
		a.spinner.View() + sub.Render(" Reading your ledger...")
	return a.centered(cardStyle.Render(body))
}

func (a App) viewSetup() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Render("enter next · shift+tab back · ctrl+c quit")
	return a.centered(cardStyle.Render(a.setupForm.View() + "\n" + hint))
}

func (a App) viewHelp() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	groups := []struct {
		name  string
		binds [][2]string
	}{
		{"Navigation", [][2]string{
			{"o b a v", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
		}},
		{"Ask", [][2]string{
			{"enter", "Next field / submit"},
			{"y / n", "Log the purchase / discard"},
			{"esc", "Leave the form"},
		}},
		{"General", [][2]string{
			{"r", "Reload ledger"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for _, g := range groups {
		b.WriteString(section.Render(g.name))
		b.WriteString("\n")
		for _, bind := range g.binds {
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", bind[0])), desc.Render(bind[1]))
		}
		b.WriteString("\n")
	}
	b.WriteString(dim.Render("Press any key to close"))

	return a.centered(cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	w, h, cw := a.width, a.height, a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		Provider:   a.opts.Provider,
		Refreshing: a.refreshing,
		Flash:      a.flash,
		FlashError: a.flashErr,
	}
	if a.opts.Breaker != nil {
		info.Breaker = a.opts.Breaker()
	}
	if !a.lastRefresh.IsZero() {
		info.DataAge = a.lastRefresh.Format("15:04:05")
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil:
		content = a.renderLoadError(cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabBudget:
		content = a.renderBudgetTab(cw)
	case a.activeTab == tabAsk:
		content = a.renderAskTab(cw)
	case a.activeTab == tabReview:
		content = a.renderReviewTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderLoadError(cw int) string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Danger).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body := errStyle.Render(a.loadErr.Error()) + "\n\n" +
		muted.Render("The ledger was left untouched. Fix or move the file, then press r to retry.")
	return components.FocusCard("Could not read the ledger", body, cw)
}

// tabAtX returns the tab index at column x of the tab bar, or -1.
// Hitboxes use the same widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

// ─── Commands ───────────────────────────────────────────────────

func refreshTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func loadDataCmd(l Ledger, hist History, historyCount int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		doc, err := l.Document()
		if err != nil {
			return dataLoadedMsg{err: err, loadTime: time.Since(start)}
		}
		var decisions []model.Decision
		if hist != nil {
			// history is informational; a failing journal never blocks the dashboard
			decisions, _ = hist.Recent(historyCount)
		}
		return dataLoadedMsg{doc: doc, decisions: decisions, loadTime: time.Since(start)}
	}
}

func analyzeCmd(p Purchases, req purchase.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		an, err := p.Analyze(ctx, req)
		return analysisMsg{analysis: an, err: err}
	}
}

func confirmCmd(p Purchases, an *purchase.Analysis) tea.Cmd {
	return func() tea.Msg {
		tx, err := p.Confirm(an)
		return confirmedMsg{tx: tx, err: err}
	}
}

func saveProfileCmd(l Ledger, income, goal decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		return profileSavedMsg{err: l.UpdateProfile(income, goal)}
	}
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// color so gaps between cards are not left unpainted.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
