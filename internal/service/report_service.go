package service

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/report"
	"go-retail-pos/internal/repository"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type ReportService interface {
	SalesReport(actor model.Identity, start, end time.Time) (*report.SalesReport, error)
	StockReport(actor model.Identity, start, end time.Time) (*report.StockReport, error)
	Export(actor model.Identity, kind report.Kind, format report.Format, start, end time.Time) (*report.File, error)
}

// ReportSettings carries the branding printed on every report.
type ReportSettings struct {
	BusinessName string
	Currency     string
}

type reportService struct {
	ledger      LedgerService
	productRepo repository.ProductRepository
	settings    ReportSettings
	logger      *zap.Logger
	now         func() time.Time
}

func NewReportService(ledger LedgerService, pRepo repository.ProductRepository, settings ReportSettings, logger *zap.Logger) ReportService {
	return &reportService{
		ledger:      ledger,
		productRepo: pRepo,
		settings:    settings,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ParseDateRange reads YYYY-MM-DD bounds; the end date covers its whole day.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("start date %q must be YYYY-MM-DD", start)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("end date %q must be YYYY-MM-DD", end)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, invalid("end date %s is before start date %s", end, start)
	}
	return from, to.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func (s *reportService) meta(actor model.Identity, start, end time.Time) report.Meta {
	return report.Meta{
		BusinessName: s.settings.BusinessName,
		Currency:     s.settings.Currency,
		Start:        start,
		End:          end,
		GeneratedAt:  s.now(),
		GeneratedBy:  actor.Username,
	}
}

func (s *reportService) SalesReport(actor model.Identity, start, end time.Time) (*report.SalesReport, error) {
	if !actor.Can(model.PrivReportView) {
		return nil, forbidden("view sales report")
	}
	rng, err := s.ledger.QueryLedgerRange(start, end)
	if err != nil {
		return nil, err
	}
	return &report.SalesReport{
		Meta:    s.meta(actor, rng.Start, rng.End),
		Rows:    rng.SaleEntries(),
		Summary: rng.Sales,
	}, nil
}

func (s *reportService) StockReport(actor model.Identity, start, end time.Time) (*report.StockReport, error) {
	if !actor.Can(model.PrivReportView) {
		return nil, forbidden("view stock report")
	}
	rng, err := s.ledger.QueryLedgerRange(start, end)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	levels := model.ProductResponses(products)
	return &report.StockReport{
		Meta:             s.meta(actor, rng.Start, rng.End),
		Additions:        rng.AdditionEntries(),
		AdditionsSummary: rng.Additions,
		Levels:           levels,
		Summary:          report.NewStockSummary(levels, rng.Additions),
	}, nil
}

func (s *reportService) Export(actor model.Identity, kind report.Kind, format report.Format, start, end time.Time) (*report.File, error) {
	var (
		doc report.Document
		err error
	)
	switch kind {
	case report.KindSales:
		doc, err = s.SalesReport(actor, start, end)
	case report.KindStock:
		doc, err = s.StockReport(actor, start, end)
	default:
		return nil, invalid("unknown report type %q", kind)
	}
	if err != nil {
		return nil, err
	}

	file, err := report.Render(doc, format)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Report generated",
		zap.String("type", string(kind)),
		zap.String("format", string(format)),
		zap.String("file", file.Name),
		zap.Int("bytes", len(file.Data)),
		zap.String("actor", actor.Username))
	return file, nil
}
