// Package report builds the sales and stock documents served to admins and
// renders them as Excel workbooks or PDF files.
package report

import (
	"fmt"
	"strings"
	"time"

	"go-retail-pos/internal/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindSales Kind = "sales"
	KindStock Kind = "stock"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

const (
	ContentTypePDF   = "application/pdf"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrUnknownFormat = errors.New("unknown report format")

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(s)) {
	case KindSales:
		return KindSales, true
	case KindStock:
		return KindStock, true
	}
	return "", false
}

// ParseFormat accepts pdf, excel or xlsx; empty means pdf.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "", "pdf":
		return FormatPDF, true
	case "excel", "xlsx":
		return FormatExcel, true
	}
	return "", false
}

func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "pdf"
}

func (f Format) ContentType() string {
	if f == FormatExcel {
		return ContentTypeExcel
	}
	return ContentTypePDF
}

// Meta is the header block shared by every report.
type Meta struct {
	BusinessName string    `json:"business_name"`
	Currency     string    `json:"currency"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	GeneratedAt  time.Time `json:"generated_at"`
	GeneratedBy  string    `json:"generated_by"`
}

func (m Meta) Period() string {
	return fmt.Sprintf("Period: %s to %s", m.Start.Format("January 02, 2006"), m.End.Format("January 02, 2006"))
}

func (m Meta) money(d decimal.Decimal) string {
	return FormatMoney(m.Currency, d)
}

type SalesReport struct {
	Meta
	Rows    []model.LedgerEntry `json:"rows"`
	Summary model.SalesSummary  `json:"summary"`
}

type StockReport struct {
	Meta
	Additions        []model.LedgerEntry     `json:"additions"`
	AdditionsSummary model.AdditionsSummary  `json:"additions_summary"`
	Levels           []model.ProductResponse `json:"levels"`
	Summary          StockSummary            `json:"summary"`
}

type StockSummary struct {
	ProductCount    int             `json:"product_count"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	TotalUnits      int             `json:"total_units"`
	AdditionCount   int             `json:"addition_count"`
	UnitsAdded      int             `json:"units_added"`
	LowStockCount   int             `json:"low_stock_count"`
}

// NewStockSummary totals current levels and the additions in range.
func NewStockSummary(levels []model.ProductResponse, additions model.AdditionsSummary) StockSummary {
	s := StockSummary{
		ProductCount:    len(levels),
		TotalStockValue: decimal.Zero,
		AdditionCount:   additions.EntryCount,
		UnitsAdded:      additions.TotalQuantity,
	}
	for _, p := range levels {
		s.TotalStockValue = s.TotalStockValue.Add(p.TotalValue)
		s.TotalUnits += p.QuantityInStock
		if p.IsLowStock {
			s.LowStockCount++
		}
	}
	return s
}

// StockStatus labels a product row in the stock levels table.
func StockStatus(p model.ProductResponse) string {
	switch {
	case p.QuantityInStock == 0:
		return "Out of Stock"
	case p.IsLowStock:
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// Document is a report that can render itself in every format.
type Document interface {
	Kind() Kind
	Header() Meta
	Excel() ([]byte, error)
	PDF() ([]byte, error)
}

func (r *SalesReport) Kind() Kind   { return KindSales }
func (r *SalesReport) Header() Meta { return r.Meta }
func (r *StockReport) Kind() Kind   { return KindStock }
func (r *StockReport) Header() Meta { return r.Meta }

// File is a rendered report ready to be served as an attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func Render(doc Document, format Format) (*File, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPDF:
		data, err = doc.PDF()
	case FormatExcel:
		data, err = doc.Excel()
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "render %s report as %s", doc.Kind(), format)
	}
	meta := doc.Header()
	return &File{
		Name:        FileName(doc.Kind(), meta.Start, meta.End, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// FileName is e.g. sales_report_20240101_to_20240131.pdf.
func FileName(kind Kind, start, end time.Time, format Format) string {
	return fmt.Sprintf("%s_report_%s_to_%s.%s", kind, start.Format("20060102"), end.Format("20060102"), format.Extension())
}

// FormatMoney renders d with two decimals and thousands separators.
func FormatMoney(currency string, d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String() + frac
	if currency == "" {
		return out
	}
	return currency + " " + out
}
