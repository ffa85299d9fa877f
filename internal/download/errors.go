package download

import (
	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/internal/extractor"
	"github.com/pavelc4/aether-fetch/internal/messaging"
	"github.com/pavelc4/aether-fetch/internal/provider"
	"github.com/pavelc4/aether-fetch/internal/scrape"
)

var (
	ErrUnsupportedHost  = provider.ErrUnsupportedHost
	ErrExtractionFailed = extractor.ErrExtractionFailed
	ErrScrapeExhausted  = scrape.ErrScrapeExhausted
	ErrNoFilesProduced  = errors.New("no files produced")
	ErrDeliveryPartial  = messaging.ErrDeliveryPartial
)

type ExtractionError = extractor.ExtractionError
