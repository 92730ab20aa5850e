package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	registry *prometheus.Registry

	income        prometheus.Gauge
	fixed         prometheus.Gauge
	variable      prometheus.Gauge
	freeCash      prometheus.Gauge
	savingsGoal   prometheus.Gauge
	monthSpent    prometheus.Gauge
	transactions  prometheus.Gauge
	polls         *prometheus.CounterVec
	assessments   *prometheus.CounterVec
	requestsTotal *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
	f := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: "walletmom", Name: name, Help: help})
	}

	return &metrics{
		registry:     reg,
		income:       gauge("monthly_income", "Monthly income from the ledger profile"),
		fixed:        gauge("fixed_expenses_total", "Sum of fixed expenses"),
		variable:     gauge("variable_expenses_total", "Sum of expense-kind transactions"),
		freeCash:     gauge("free_cash_flow", "Income minus fixed and variable expenses"),
		savingsGoal:  gauge("savings_goal", "Savings goal from the ledger profile"),
		monthSpent:   gauge("month_spent", "Expenses logged in the current calendar month"),
		transactions: gauge("transactions", "Number of logged transactions"),
		polls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "walletmom",
			Name:      "daemon_polls_total",
			Help:      "Ledger polls by result",
		}, []string{"result"}),
		assessments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "walletmom",
			Name:      "assessments_total",
			Help:      "Purchase assessments served by status",
		}, []string{"status"}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "walletmom",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and code",
		}, []string{"route", "code"}),
	}
}

func (m *metrics) observe(s Snapshot) {
	m.income.Set(s.Financial.Income.InexactFloat64())
	m.fixed.Set(s.Financial.TotalFixedExpenses.InexactFloat64())
	m.variable.Set(s.Financial.VariableExpenses.InexactFloat64())
	m.freeCash.Set(s.Financial.FreeCashFlow.InexactFloat64())
	m.savingsGoal.Set(s.Financial.SavingsGoal.InexactFloat64())
	m.monthSpent.Set(s.MonthSpent.InexactFloat64())
	m.transactions.Set(float64(s.Transactions))
}
