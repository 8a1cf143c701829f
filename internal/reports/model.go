package reports

import "time"

// Dashboard is the aggregate snapshot served to the back-office landing page.
// Display fields carry locale-formatted amounts alongside the raw numbers.
type Dashboard struct {
	AsOf               time.Time `json:"as_of"`
	ReceivableTotal    float64   `json:"receivable_total"`
	StockValuation     float64   `json:"stock_valuation"`
	MonthSalesTotal    float64   `json:"month_sales_total"`
	MonthReturnsTotal  float64   `json:"month_returns_total"`
	MonthExpensesTotal float64   `json:"month_expenses_total"`
	Display            Display   `json:"display"`
}

type Display struct {
	ReceivableTotal    string `json:"receivable_total"`
	StockValuation     string `json:"stock_valuation"`
	MonthSalesTotal    string `json:"month_sales_total"`
	MonthReturnsTotal  string `json:"month_returns_total"`
	MonthExpensesTotal string `json:"month_expenses_total"`
}
