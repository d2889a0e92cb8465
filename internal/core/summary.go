package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DayKey returns the "YYYY-MM-DD" aggregation key for t.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MonthKey returns the "YYYY-MM" aggregation key for t.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// MatchesDateKey reports whether key is an exact prefix of the record's
// ISO-8601 date string. This is a string-prefix check, not a calendar range:
// a record matches a day or month key only when its UTC date string starts
// with that key, mirroring how the aggregation windows are defined.
func MatchesDateKey(t time.Time, key string) bool {
	return strings.HasPrefix(t.UTC().Format(time.RFC3339), key)
}

// SumWhere adds value(item) over every item the predicate accepts. An empty
// selection sums to zero; it never fails.
func SumWhere[T any](items []T, match func(T) bool, value func(T) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if match(item) {
			sum = sum.Add(value(item))
		}
	}
	return sum
}

// ProductionValue sums quantity produced times unit cost over the entries
// whose date matches the given day or month key.
func ProductionValue(entries []ProductionEntry, dateKey string) decimal.Decimal {
	return SumWhere(entries,
		func(e ProductionEntry) bool { return MatchesDateKey(e.Date, dateKey) },
		ProductionEntry.Value)
}

// SalesRevenue sums quantity sold times unit price over the entries whose
// date matches the given day or month key.
func SalesRevenue(entries []SalesExpenseEntry, dateKey string) decimal.Decimal {
	return SumWhere(entries,
		func(e SalesExpenseEntry) bool { return MatchesDateKey(e.Date, dateKey) },
		SalesExpenseEntry.SaleTotal)
}

// ExpensesTotal sums the operating expenses recorded on the entries whose
// date matches the given day or month key.
func ExpensesTotal(entries []SalesExpenseEntry, dateKey string) decimal.Decimal {
	return SumWhere(entries,
		func(e SalesExpenseEntry) bool { return MatchesDateKey(e.Date, dateKey) },
		func(e SalesExpenseEntry) decimal.Decimal { return e.Expenses })
}

// GlobalSummary is the balance report: the four headline aggregates as of a
// point in time.
type GlobalSummary struct {
	DailyProduction   decimal.Decimal `json:"dailyProduction"`
	DailySales        decimal.Decimal `json:"dailySales"`
	MonthlyProduction decimal.Decimal `json:"monthlyProduction"`
	DailyExpenses     decimal.Decimal `json:"dailyExpenses"`
	AsOf              time.Time       `json:"asOf"`
}

// BuildGlobalSummary computes the balance report for the day and month
// containing now.
func BuildGlobalSummary(productions []ProductionEntry, sales []SalesExpenseEntry, now time.Time) GlobalSummary {
	day := DayKey(now)
	return GlobalSummary{
		DailyProduction:   ProductionValue(productions, day),
		DailySales:        SalesRevenue(sales, day),
		MonthlyProduction: ProductionValue(productions, MonthKey(now)),
		DailyExpenses:     ExpensesTotal(sales, day),
		AsOf:              now,
	}
}

// MonthlyComparison holds the figures behind the two monthly charts:
// production value against sales revenue, and raw-material cost against the
// other recorded expenses.
type MonthlyComparison struct {
	Month           string          `json:"month"`
	ProductionValue decimal.Decimal `json:"productionValue"`
	SalesRevenue    decimal.Decimal `json:"salesRevenue"`
	RawMaterialCost decimal.Decimal `json:"rawMaterialCost"`
	OtherExpenses   decimal.Decimal `json:"otherExpenses"`
}

// BuildMonthlyComparison computes the comparison report for a "YYYY-MM"
// month key. Raw-material cost is the month's production value: material
// intake carries no cost of its own, so consumption is valued at the cost
// booked on production runs.
func BuildMonthlyComparison(productions []ProductionEntry, sales []SalesExpenseEntry, monthKey string) MonthlyComparison {
	value := ProductionValue(productions, monthKey)
	return MonthlyComparison{
		Month:           monthKey,
		ProductionValue: value,
		SalesRevenue:    SalesRevenue(sales, monthKey),
		RawMaterialCost: value,
		OtherExpenses:   ExpensesTotal(sales, monthKey),
	}
}
