package download

import (
	"context"
	"time"

	"github.com/pavelc4/aether-fetch/internal/messaging"
	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

// Observer is told about every finished request.
type Observer interface {
	ObserveFetch(family provider.Family, bytes int64, elapsed time.Duration, err error)
}

type Service struct {
	fetcher  *Fetcher
	observer Observer
}

func NewService(fetcher *Fetcher, observer Observer) *Service {
	return &Service{fetcher: fetcher, observer: observer}
}

// Deliver fetches req and hands the result to sink. Files the request left in
// the holding directory are removed before Deliver returns.
func (s *Service) Deliver(ctx context.Context, sink messaging.Sink, req Request) (report messaging.Report, err error) {
	start := time.Now()
	var bytes int64

	defer func() {
		if n := s.fetcher.Workspace().Release(req.ID); n > 0 {
			logger.Debug("Released holding files", "request", req.ID, "count", n)
		}
		if s.observer != nil {
			s.observer.ObserveFetch(provider.Classify(req.URL), bytes, time.Since(start), err)
		}
	}()

	res, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return messaging.Report{ChatID: req.ChatID}, err
	}
	bytes = res.Bytes()

	plan := messaging.BuildPlan(res.Items, messaging.Caption(res.Title))
	report = messaging.Dispatch(ctx, sink, req.ChatID, plan)
	return report, report.Err()
}
