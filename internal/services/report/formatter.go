package report

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/models"
)

// Formatter renders portfolio views as markdown in a display currency.
type Formatter struct {
	Currency string
}

func (f Formatter) money(v float64) string {
	return common.FormatMoney(v, f.Currency)
}

func (f Formatter) optMoney(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return f.money(*v)
}

// Holdings renders the holdings table with market value and unrealized P&L.
func (f Formatter) Holdings(holdings []models.Holding) string {
	var sb strings.Builder
	sb.WriteString("## Holdings\n\n")
	if len(holdings) == 0 {
		sb.WriteString("No holdings.\n")
		return sb.String()
	}
	sb.WriteString("| Symbol | Name | Qty | Avg Cost | Cost Basis | Price | Value | Unrealized P&L |\n")
	sb.WriteString("|--------|------|-----|----------|------------|-------|-------|----------------|\n")
	for _, h := range holdings {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			h.Symbol, h.Name, formatQty(h.Quantity), f.money(h.AverageCost), f.money(h.CostBasis()),
			f.optMoney(h.CurrentPrice), f.optMoney(h.MarketValue), f.optMoney(h.UnrealizedPnL)))
	}
	return sb.String()
}

// Summary renders the aggregate totals.
func (f Formatter) Summary(s models.PortfolioSummary) string {
	var sb strings.Builder
	sb.WriteString("## Totals\n\n")
	sb.WriteString(fmt.Sprintf("**Market Value:** %s\n", f.money(s.MarketValue)))
	sb.WriteString(fmt.Sprintf("**Unrealized P&L:** %s\n", f.money(s.UnrealizedPnL)))
	if s.Priced < s.Holdings {
		sb.WriteString(fmt.Sprintf("\n_%d of %d holdings have no current price and are excluded from totals._\n",
			s.Holdings-s.Priced, s.Holdings))
	}
	return sb.String()
}

// Transactions renders the ledger under the given heading.
func (f Formatter) Transactions(title string, txns []models.Transaction) string {
	var sb strings.Builder
	sb.WriteString("## " + title + "\n\n")
	if len(txns) == 0 {
		sb.WriteString("No transactions.\n")
		return sb.String()
	}
	sb.WriteString("| Date | Symbol | Type | Qty | Price | Total |\n")
	sb.WriteString("|------|--------|------|-----|-------|-------|\n")
	for _, t := range txns {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			t.Date.Format("2006-01-02 15:04"), t.Symbol, t.Type, formatQty(t.Quantity),
			f.money(t.PricePerShare), f.money(t.Total)))
	}
	return sb.String()
}

// RealizedEstimates renders the estimated realized P&L of each sale.
func (f Formatter) RealizedEstimates(estimates []models.RealizedEstimate) string {
	var sb strings.Builder
	sb.WriteString("## Estimated Realized P&L\n\n")
	if len(estimates) == 0 {
		sb.WriteString("No sales.\n")
		return sb.String()
	}
	sb.WriteString("| Date | Symbol | Qty Sold | Sell Price | Avg Cost | Est. P&L |\n")
	sb.WriteString("|------|--------|----------|------------|----------|----------|\n")
	var total float64
	for _, e := range estimates {
		total += e.EstimatedPnL
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			e.Date.Format("2006-01-02"), e.Symbol, formatQty(e.QuantitySold),
			f.money(e.SellPrice), f.money(e.AverageCost), f.money(e.EstimatedPnL)))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | | | | | **%s** |\n", f.money(common.RoundMoney(total))))
	sb.WriteString("\n_Estimated against the current average cost, not the cost at the time of sale._\n")
	return sb.String()
}

// RefreshMessages renders refresh notices as a bullet list.
func (f Formatter) RefreshMessages(msgs []models.Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", strings.ToUpper(string(m.Level)), m.Text))
	}
	return sb.String()
}

// formatQty prints whole quantities without decimals.
func formatQty(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", q), "0"), ".")
}
