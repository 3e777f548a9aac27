package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// DefaultCurrency is used when no currency code is given
const DefaultCurrency = money.USD

// Formatter renders decimal amounts in one currency
type Formatter struct {
	currency money.Currency
}

// NewFormatter returns a formatter for an ISO 4217 code
func NewFormatter(code string) (*Formatter, error) {
	if code == "" {
		code = DefaultCurrency
	}
	code = strings.ToUpper(code)
	if money.GetCurrency(code) == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	// money.New resolves the full currency definition
	return &Formatter{currency: *money.New(0, code).Currency()}, nil
}

// Money formats amount in the formatter's currency, rounded to its minor unit
func (f *Formatter) Money(amount decimal.Decimal) string {
	minor := amount.Shift(int32(f.currency.Fraction)).Round(0)
	return f.currency.Formatter().Format(minor.IntPart())
}

// Allocation writes a result as an aligned table followed by its totals
func (f *Formatter) Allocation(w io.Writer, result *domain.AllocationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "SYMBOL\tQUANTITY\tUNIT PRICE\tCOST\tRETURN %\tEXPECTED RETURN\t")
	for _, line := range result.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s%%\t%s\t\n",
			line.Symbol,
			line.Quantity,
			f.Money(line.UnitPrice),
			f.Money(line.TotalCost),
			line.ExpectedReturnPct.String(),
			f.Money(line.TotalReturnValue),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal investment:  %s\nExpected return:   %s\nRemaining budget:  %s\nMethod:            %s\n",
		f.Money(result.TotalInvestment),
		f.Money(result.TotalExpectedReturnValue),
		f.Money(result.RemainingBudget),
		result.Method,
	)
	return err
}

// Assets writes a catalogue as an aligned table
func (f *Formatter) Assets(w io.Writer, assets []domain.Asset) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "SYMBOL\tPRICE\tRETURN %\t")
	for _, a := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s%%\t\n", a.Symbol, f.Money(a.Price), a.ExpectedReturn.String())
	}
	return tw.Flush()
}
