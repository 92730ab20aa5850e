package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/walletmom/internal/advisor"
	"github.com/theirongolddev/walletmom/internal/ledger"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/purchase"
	"github.com/theirongolddev/walletmom/internal/tui/components"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fakeLedger struct {
	doc   *ledger.Document
	err   error
	saved []decimal.Decimal
}

func (f *fakeLedger) Document() (*ledger.Document, error) { return f.doc, f.err }

func (f *fakeLedger) UpdateProfile(income, goal decimal.Decimal) error {
	f.saved = []decimal.Decimal{income, goal}
	return nil
}

type fakePurchases struct {
	confirmed []string
}

func (f *fakePurchases) Analyze(_ context.Context, req purchase.Request) (*purchase.Analysis, error) {
	return &purchase.Analysis{ID: "x", Request: req, Currency: "₹"}, nil
}

func (f *fakePurchases) Confirm(a *purchase.Analysis) (model.Transaction, error) {
	a.Confirmed = true
	f.confirmed = append(f.confirmed, a.Request.Item)
	return model.Transaction{Description: a.Request.Item, Amount: a.Request.Cost}, nil
}

func sampleDoc() *ledger.Document {
	return &ledger.Document{
		UserProfile:   model.UserProfile{MonthlyIncome: d(50000), SavingsGoal: d(5000), Currency: "₹"},
		FixedExpenses: []model.FixedExpense{{Name: "Rent", Amount: d(20000)}},
		Transactions: []model.Transaction{{
			Timestamp: time.Now(), Description: "Groceries", Amount: d(1000),
			Category: model.CategoryNeeds, Kind: model.KindExpense,
		}},
	}
}

func loadedApp(t *testing.T, doc *ledger.Document) (App, *fakePurchases) {
	t.Helper()
	p := &fakePurchases{}
	a := NewApp(Options{Ledger: &fakeLedger{doc: doc}, Purchases: p, Provider: advisor.TemplateName})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 130, Height: 45})
	m, _ = m.Update(dataLoadedMsg{doc: doc})
	return m.(App), p
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 50); got != -1 {
			t.Fatalf("x past the last tab -> %d, want -1", got)
		}
	}
}

func TestLoadComputesDerivedFigures(t *testing.T) {
	a, _ := loadedApp(t, sampleDoc())

	assert.Nil(t, a.setupForm)
	assert.True(t, a.snap.FreeCashFlow.Equal(d(29000)))
	assert.False(t, a.plan.IsDeficit())
	assert.True(t, a.plan.RecommendedSavings.Equal(d(12000)))
	assert.True(t, a.split.Needs.Equal(d(25000)))
	require.Len(t, a.recent, 1)
	assert.Equal(t, 1, a.review.Transactions)
	assert.Len(t, a.daily, chartDays)
}

func TestBlankLedgerOpensSetup(t *testing.T) {
	a, _ := loadedApp(t, &ledger.Document{UserProfile: model.UserProfile{Currency: "₹"}})
	require.NotNil(t, a.setupForm)
	assert.Contains(t, ansi.Strip(a.View()), "Monthly income")

	// setup is offered once, not on every reload
	m, _ := a.Update(dataLoadedMsg{doc: sampleDoc()})
	assert.NotNil(t, m.(App).setupForm)
}

func TestProfileValuesParsed(t *testing.T) {
	v := &ProfileValues{Income: "60,000", SavingsGoal: "7500"}
	income, goal, err := v.Parsed()
	require.NoError(t, err)
	assert.True(t, income.Equal(d(60000)))
	assert.True(t, goal.Equal(d(7500)))

	_, _, err = (&ProfileValues{Income: "-1", SavingsGoal: "0"}).Parsed()
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestLoadErrorIsShownNotReset(t *testing.T) {
	a := NewApp(Options{Ledger: &fakeLedger{}})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	storageErr := &ledger.StorageError{Op: "read", Path: "/tmp/ledger.json", Err: ledger.ErrCorrupt}
	m, _ = m.Update(dataLoadedMsg{err: storageErr})

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "Could not read the ledger")
	assert.Nil(t, m.(App).setupForm)
}

func TestAskFlowConfirm(t *testing.T) {
	a, p := loadedApp(t, sampleDoc())

	m, cmd := a.Update(keyMsg("a"))
	a = m.(App)
	require.Equal(t, tabAsk, a.activeTab)
	require.NotNil(t, a.askForm)
	assert.NotNil(t, cmd)

	an := &purchase.Analysis{
		ID:       "1",
		Request:  purchase.Request{Item: "Headphones", Cost: d(2500), Category: model.CategoryWants},
		Currency: "₹",
		Assessment: model.RiskAssessment{
			Status: model.RiskSafe, Reason: "within budget", RemainingBalance: d(26500),
		},
		Advice: advisor.Advice{Text: "Go for it.", Provider: advisor.TemplateName, Status: model.RiskSafe},
	}
	a.phase = askThinking
	m, _ = a.Update(analysisMsg{analysis: an})
	a = m.(App)
	require.Equal(t, askResult, a.phase)

	out := ansi.Strip(a.View())
	assert.Contains(t, out, "SAFE")
	assert.Contains(t, out, "Headphones")
	assert.Contains(t, out, "Go for it.")

	m, cmd = a.Update(keyMsg("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, confirmedMsg{}, msg)
	assert.Equal(t, []string{"Headphones"}, p.confirmed)

	m, _ = m.Update(msg)
	a = m.(App)
	assert.Equal(t, askEditing, a.phase)
	assert.Equal(t, "Logged Headphones", a.flash)
	assert.NotNil(t, a.askForm)
}

func TestAskFlowDiscard(t *testing.T) {
	a, p := loadedApp(t, sampleDoc())
	a.activeTab = tabAsk
	a.phase = askResult
	a.analysis = &purchase.Analysis{Request: purchase.Request{Item: "TV", Cost: d(90000)}}

	m, _ := a.Update(keyMsg("n"))
	a = m.(App)
	assert.Equal(t, askEditing, a.phase)
	assert.Nil(t, a.analysis)
	assert.Empty(t, p.confirmed)
}

func TestAskFailureShowsError(t *testing.T) {
	a, _ := loadedApp(t, sampleDoc())
	a.activeTab = tabAsk
	a.phase = askThinking

	m, _ := a.Update(analysisMsg{err: errors.New("disk full")})
	a = m.(App)
	assert.Equal(t, askFailed, a.phase)
	assert.Contains(t, ansi.Strip(a.View()), "disk full")
}

func TestAskValuesRequest(t *testing.T) {
	req, err := (&askValues{Item: "  Shoes ", Cost: "1,200.50", Category: "needs"}).request()
	require.NoError(t, err)
	assert.Equal(t, "Shoes", req.Item)
	assert.True(t, req.Cost.Equal(decimal.RequireFromString("1200.50")))
	assert.Equal(t, model.CategoryNeeds, req.Category)

	_, err = (&askValues{Item: "x", Cost: "abc", Category: "Wants"}).request()
	assert.Error(t, err)
}

func TestEachTabRenders(t *testing.T) {
	a, _ := loadedApp(t, sampleDoc())

	want := map[int][]string{
		tabOverview: {"Free cash", "₹29,000", "Rent", "Groceries"},
		tabBudget:   {"Needs-First Allocation", "₹12,000.00", "50/30/20"},
		tabAsk:      {"Free cash right now"},
		tabReview:   {"Daily spending", "No purchases assessed yet."},
	}
	for tab, needles := range want {
		a.activeTab = tab
		out := ansi.Strip(a.View())
		for _, n := range needles {
			assert.Contains(t, out, n, "tab %d", tab)
		}
	}
}

func TestDeficitBudgetTab(t *testing.T) {
	doc := sampleDoc()
	doc.UserProfile.MonthlyIncome = d(30000)
	doc.FixedExpenses = []model.FixedExpense{{Name: "Rent", Amount: d(40000)}}
	a, _ := loadedApp(t, doc)
	a.activeTab = tabBudget

	out := ansi.Strip(a.View())
	assert.Contains(t, out, "Fixed costs exceed income by ₹10,000.00")
}

func TestDailyLabels(t *testing.T) {
	day := func(m time.Month, dd int) model.DailySpend {
		return model.DailySpend{Date: time.Date(2024, m, dd, 0, 0, 0, 0, time.Local)}
	}
	// newest first, as produced by the pipeline
	days := []model.DailySpend{day(time.March, 2), day(time.March, 1), day(time.February, 29), day(time.February, 28)}
	assert.Equal(t, []string{"Feb", "29", "Mar", "2"}, dailyLabels(days))
}

func TestTooNarrow(t *testing.T) {
	a := NewApp(Options{Ledger: &fakeLedger{doc: sampleDoc()}})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.View(), "Terminal too narrow")
}
