package messaging

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/pavelc4/aether-fetch/pkg/logger"
)

// Sink delivers files to one chat.
type Sink interface {
	SendPhoto(ctx context.Context, item Item, caption string) error
	SendVideo(ctx context.Context, item Item, caption string) error
	SendDocument(ctx context.Context, item Item, caption string) error
	// SendAlbum sends items as one media group with caption on the first element.
	SendAlbum(ctx context.Context, items []Item, caption string) error
}

var ErrDeliveryPartial = errors.New("delivery partially failed")

type Method string

const (
	MethodAlbum    Method = "album"
	MethodPhoto    Method = "photo"
	MethodVideo    Method = "video"
	MethodDocument Method = "document"
)

type Delivery struct {
	Item   Item
	Method Method
	Err    error
}

// Report has one entry per planned item. Album items share the album call's error.
type Report struct {
	ChatID     int64
	Deliveries []Delivery
}

func (r Report) Failed() []Delivery {
	var failed []Delivery
	for _, d := range r.Deliveries {
		if d.Err != nil {
			failed = append(failed, d)
		}
	}
	return failed
}

func (r Report) Delivered() int {
	return len(r.Deliveries) - len(r.Failed())
}

// Err is nil when every item was sent.
func (r Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &DeliveryError{Failed: len(failed), Total: len(r.Deliveries), Cause: failed[0].Err}
}

type DeliveryError struct {
	Failed int
	Total  int
	Cause  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%d of %d items not delivered: %v", e.Failed, e.Total, e.Cause)
}

func (e *DeliveryError) Is(target error) bool {
	return target == ErrDeliveryPartial
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// Dispatch sends the plan: album or single first, then overflow and oversized files
// as documents. A failed send does not stop the remaining ones.
func Dispatch(ctx context.Context, sink Sink, chatID int64, plan Plan) Report {
	report := Report{ChatID: chatID}
	record := func(it Item, m Method, err error) {
		if err != nil {
			logger.Error("Failed to send media", "chat", chatID, "method", m, "file", it.Name(), "error", err)
		}
		report.Deliveries = append(report.Deliveries, Delivery{Item: it, Method: m, Err: err})
	}

	switch {
	case len(plan.Album) > 0:
		err := sink.SendAlbum(ctx, plan.Album, plan.Caption)
		for _, it := range plan.Album {
			record(it, MethodAlbum, err)
		}
	case plan.Single != nil:
		it := *plan.Single
		if it.Kind == Photo {
			record(it, MethodPhoto, sink.SendPhoto(ctx, it, plan.Caption))
		} else {
			record(it, MethodVideo, sink.SendVideo(ctx, it, plan.Caption))
		}
	}

	for _, it := range plan.Overflow {
		record(it, MethodDocument, sink.SendDocument(ctx, it, plan.Caption))
	}
	for _, it := range plan.Documents {
		record(it, MethodDocument, sink.SendDocument(ctx, it, plan.Caption))
	}

	logger.Info("Dispatch finished", "chat", chatID, "delivered", report.Delivered(), "total", len(report.Deliveries))
	return report
}
