// Package demo reads the bundled sample account dataset into normalized accounts.
package demo

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/Rshep3087/lunchtogo/accounts"
)

// DefaultPrimaryCurrency is used when no profile is available.
const DefaultPrimaryCurrency = "CAD"

// ErrEmptyDataset is returned when the text has no data rows.
var ErrEmptyDataset = errors.New("CSV must have at least a header row and one data row")

const (
	colRowNumber       = "Row Number"
	colAssetLiability  = "Asset or Liability"
	colAccountType     = "Account Type"
	colAccountName     = "Account Name"
	colInstitution     = "Institution"
	colDaysSinceUpdate = "Days Since Update"
	colAccountCurrency = "Account Currency"
	colAccountBalance  = "Account Balance"
	colToBaseBalance   = "To Base Balance"
)

var typeLabels = map[string]string{
	"CASH":        "Cash",
	"INVESTMENT":  "Investment",
	"REAL ESTATE": "Real Estate",
	"CREDIT":      "Credit",
	"LOAN":        "Loan",
}

type parser struct {
	now    func() time.Time
	logger *log.Logger
}

// Option configures Parse.
type Option func(*parser)

// WithClock sets the time that "Days Since Update" is counted back from.
func WithClock(now func() time.Time) Option {
	return func(p *parser) {
		p.now = now
	}
}

// WithLogger sets where skipped rows are reported.
func WithLogger(logger *log.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

type row map[string]string

// Parse converts dataset text into accounts priced in primaryCurrency.
// Rows with the wrong number of columns are skipped.
func Parse(text, primaryCurrency string, opts ...Option) ([]accounts.Account, error) {
	p := parser{now: time.Now, logger: log.Default()}
	for _, opt := range opts {
		opt(&p)
	}

	rows, err := p.rows(text)
	if err != nil {
		return nil, err
	}

	out := make([]accounts.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, p.account(r, primaryCurrency))
	}

	return out, nil
}

func (p parser) rows(text string) ([]row, error) {
	type line struct {
		number int
		text   string
	}

	var lines []line
	for i, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, line{number: i + 1, text: l})
	}

	if len(lines) < 2 {
		return nil, ErrEmptyDataset
	}

	headers := splitLine(lines[0].text)

	rows := make([]row, 0, len(lines)-1)
	for _, l := range lines[1:] {
		values := splitLine(l.text)
		if len(values) != len(headers) {
			p.logger.Warnf("Skipping malformed CSV row %d: expected %d columns, got %d", l.number, len(headers), len(values))
			continue
		}

		r := make(row, len(headers))
		for i, h := range headers {
			r[h] = values[i]
		}
		rows = append(rows, r)
	}

	return rows, nil
}

// splitLine splits on commas outside double quotes. Quotes only toggle state and are dropped.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}

func (p parser) account(r row, primaryCurrency string) accounts.Account {
	isAsset := strings.EqualFold(r[colAssetLiability], "asset")
	class := accounts.Liability
	if isAsset {
		class = accounts.Asset
	}

	accountType := typeLabel(r[colAccountType])
	name := r[colAccountName]
	status := "active"

	a := accounts.Account{
		ID:                     "demo-" + r[colRowNumber],
		Name:                   accounts.PickName(&name, nil),
		AccountType:            accountType,
		Type:                   class,
		IsAsset:                isAsset,
		Source:                 accounts.SourceAsset,
		Status:                 &status,
		PrimaryCurrencyBalance: parseAmount(r[colToBaseBalance]),
		AccountCurrencyBalance: parseAmount(r[colAccountBalance]),
		PrimaryCurrencyCode:    strings.ToUpper(primaryCurrency),
		AccountCurrencyCode:    strings.ToUpper(r[colAccountCurrency]),
		IconKey:                accounts.IconKey(class, accountType),
	}

	if institution := r[colInstitution]; institution != "" {
		a.InstitutionName = &institution
	}

	if days, err := strconv.Atoi(strings.TrimSpace(r[colDaysSinceUpdate])); err == nil {
		updated := p.now().UTC().AddDate(0, 0, -days).Truncate(time.Millisecond)
		a.LastUpdated = &updated
		a.DaysSinceUpdate = &days
	}

	return a
}

func typeLabel(label string) string {
	if mapped, ok := typeLabels[strings.ToUpper(label)]; ok {
		return mapped
	}

	return label
}

// parseAmount keeps digits, dots and minus signs. Anything unparseable is zero.
func parseAmount(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}

	return d.InexactFloat64()
}
