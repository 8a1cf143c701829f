package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Service struct {
	repo    Repository
	printer *message.Printer
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, printer: message.NewPrinter(language.English)}
}

// Dashboard aggregates the five headline figures. The queries are independent
// so they run concurrently; the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var d Dashboard
	d.AsOf = now

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.ReceivableTotal(ctx)
		d.ReceivableTotal = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.StockValuation(ctx)
		d.StockValuation = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.SalesTotalSince(ctx, monthStart)
		d.MonthSalesTotal = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.ReturnsTotalSince(ctx, monthStart)
		d.MonthReturnsTotal = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.ExpensesTotalSince(ctx, monthStart)
		d.MonthExpensesTotal = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Display = Display{
		ReceivableTotal:    s.printer.Sprintf("%.2f", d.ReceivableTotal),
		StockValuation:     s.printer.Sprintf("%.2f", d.StockValuation),
		MonthSalesTotal:    s.printer.Sprintf("%.2f", d.MonthSalesTotal),
		MonthReturnsTotal:  s.printer.Sprintf("%.2f", d.MonthReturnsTotal),
		MonthExpensesTotal: s.printer.Sprintf("%.2f", d.MonthExpensesTotal),
	}
	return &d, nil
}
