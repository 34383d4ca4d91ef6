// Package format renders simulator figures for people: grouped money
// amounts, unit counts and the maximization verdict.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultTag is used when no language is configured or the configured one
// does not parse.
var DefaultTag = language.AmericanEnglish

// Formatter prints figures with the grouping rules of one locale.
type Formatter struct {
	p *message.Printer
}

// New returns a Formatter for tag.
func New(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

// ForLanguage parses a BCP 47 tag such as "en-US", falling back to DefaultTag.
func ForLanguage(lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = DefaultTag
	}
	return New(tag)
}

// Money formats v as whole dollars: "$16,000", "-$9,000".
func (f *Formatter) Money(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return f.p.Sprintf("-$%d", -n)
	}
	return f.p.Sprintf("$%d", n)
}

// Price formats v with cents: "$59.90".
func (f *Formatter) Price(v float64) string {
	sign := ""
	cents := int64(math.Round(v * 100))
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return sign + f.p.Sprintf("$%d", cents/100) + fmt.Sprintf(".%02d", cents%100)
}

// Units formats a demand figure: "1,000 units".
func (f *Formatter) Units(v float64) string {
	return f.p.Sprintf("%d units", int64(math.Round(v)))
}

// Verdict describes a maximization check result.
func (f *Formatter) Verdict(isMaximized bool, maxPrice float64) string {
	if isMaximized {
		return "Congratulations! Your price maximizes profit!"
	}
	return "Maximum profit can be achieved at " + f.Price(maxPrice)
}

// Summary is a one-line description of a price point.
func (f *Formatter) Summary(price, demand, profit float64) string {
	return fmt.Sprintf("price %s, demand %s, profit %s", f.Price(price), f.Units(demand), f.Money(profit))
}
