package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"golang.org/x/sync/errgroup"

	"github.com/pavelc4/aether-fetch/internal/messaging"
	"github.com/pavelc4/aether-fetch/pkg/logger"
)

const (
	videoMIME       = "video/mp4"
	albumUploadJobs = 4
)

// MediaAPI is the part of *tg.Client the sink talks to.
type MediaAPI interface {
	MessagesSendMedia(ctx context.Context, request *tg.MessagesSendMediaRequest) (tg.UpdatesClass, error)
	MessagesUploadMedia(ctx context.Context, request *tg.MessagesUploadMediaRequest) (tg.MessageMediaClass, error)
	MessagesSendMultiMedia(ctx context.Context, request *tg.MessagesSendMultiMediaRequest) (tg.UpdatesClass, error)
}

type FileUploader interface {
	FromPath(ctx context.Context, path string) (tg.InputFileClass, error)
}

// Sink delivers files into one chat. The first message it sends replies to replyTo.
type Sink struct {
	api      MediaAPI
	uploader FileUploader
	peer     tg.InputPeerClass
	replyTo  int

	mu      sync.Mutex
	replied bool
}

func NewSink(api *tg.Client, peer tg.InputPeerClass, replyTo int) *Sink {
	return newSink(api, uploader.NewUploader(api), peer, replyTo)
}

func newSink(api MediaAPI, up FileUploader, peer tg.InputPeerClass, replyTo int) *Sink {
	return &Sink{api: api, uploader: up, peer: peer, replyTo: replyTo}
}

func (s *Sink) SendPhoto(ctx context.Context, item messaging.Item, caption string) error {
	file, err := s.upload(ctx, item)
	if err != nil {
		return err
	}
	return s.sendMedia(ctx, &tg.InputMediaUploadedPhoto{File: file}, caption)
}

func (s *Sink) SendVideo(ctx context.Context, item messaging.Item, caption string) error {
	file, err := s.upload(ctx, item)
	if err != nil {
		return err
	}
	return s.sendMedia(ctx, videoMedia(file, item), caption)
}

func (s *Sink) SendDocument(ctx context.Context, item messaging.Item, caption string) error {
	file, err := s.upload(ctx, item)
	if err != nil {
		return err
	}
	return s.sendMedia(ctx, documentMedia(file, item), caption)
}

// SendAlbum uploads every item to the server first, then sends them as one group.
func (s *Sink) SendAlbum(ctx context.Context, items []messaging.Item, caption string) error {
	if len(items) == 0 {
		return nil
	}

	multi := make([]tg.InputSingleMedia, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(albumUploadJobs)

	base := time.Now().UnixNano()
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			media, err := s.prepare(gctx, it)
			if err != nil {
				return errors.Wrapf(err, "prepare %s", it.Name())
			}
			multi[i] = tg.InputSingleMedia{RandomID: base + int64(i), Media: media}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	multi[0].Message = caption

	_, err := s.api.MessagesSendMultiMedia(ctx, &tg.MessagesSendMultiMediaRequest{
		Peer:       s.peer,
		ReplyTo:    s.reply(),
		MultiMedia: multi,
	})
	if err != nil {
		return errors.Wrap(err, "send album")
	}
	logger.Info("Successfully sent album", "items", len(items))
	return nil
}

// prepare turns a local file into a server-side photo or document usable in a media group.
func (s *Sink) prepare(ctx context.Context, item messaging.Item) (tg.InputMediaClass, error) {
	file, err := s.upload(ctx, item)
	if err != nil {
		return nil, err
	}

	var media tg.InputMediaClass = &tg.InputMediaUploadedPhoto{File: file}
	if item.Kind == messaging.Video {
		media = videoMedia(file, item)
	}

	res, err := s.api.MessagesUploadMedia(ctx, &tg.MessagesUploadMediaRequest{
		Peer:  &tg.InputPeerSelf{},
		Media: media,
	})
	if err != nil {
		return nil, errors.Wrap(err, "upload media")
	}
	return persistent(res)
}

func (s *Sink) upload(ctx context.Context, item messaging.Item) (tg.InputFileClass, error) {
	file, err := s.uploader.FromPath(ctx, item.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "upload %s", item.Name())
	}
	return file, nil
}

func (s *Sink) sendMedia(ctx context.Context, media tg.InputMediaClass, caption string) error {
	_, err := s.api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
		Peer:     s.peer,
		ReplyTo:  s.reply(),
		Media:    media,
		Message:  caption,
		RandomID: time.Now().UnixNano(),
	})
	if err != nil {
		return errors.Wrap(err, "send media")
	}
	return nil
}

// reply returns the reply header for the first send only.
func (s *Sink) reply() tg.InputReplyToClass {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replied || s.replyTo == 0 {
		return nil
	}
	s.replied = true
	return &tg.InputReplyToMessage{ReplyToMsgID: s.replyTo}
}

func videoMedia(file tg.InputFileClass, item messaging.Item) *tg.InputMediaUploadedDocument {
	return &tg.InputMediaUploadedDocument{
		File:     file,
		MimeType: videoMIME,
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeVideo{SupportsStreaming: true},
			&tg.DocumentAttributeFilename{FileName: item.Name()},
		},
	}
}

func documentMedia(file tg.InputFileClass, item messaging.Item) *tg.InputMediaUploadedDocument {
	mime := "application/octet-stream"
	if m, err := mimetype.DetectFile(item.Path); err == nil {
		mime = m.String()
	}
	return &tg.InputMediaUploadedDocument{
		File:      file,
		MimeType:  mime,
		ForceFile: true,
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeFilename{FileName: item.Name()},
		},
	}
}

func persistent(res tg.MessageMediaClass) (tg.InputMediaClass, error) {
	switch m := res.(type) {
	case *tg.MessageMediaPhoto:
		if photo, ok := m.Photo.(*tg.Photo); ok {
			return &tg.InputMediaPhoto{
				ID: &tg.InputPhoto{
					ID:            photo.ID,
					AccessHash:    photo.AccessHash,
					FileReference: photo.FileReference,
				},
			}, nil
		}
	case *tg.MessageMediaDocument:
		if doc, ok := m.Document.(*tg.Document); ok {
			return &tg.InputMediaDocument{
				ID: &tg.InputDocument{
					ID:            doc.ID,
					AccessHash:    doc.AccessHash,
					FileReference: doc.FileReference,
				},
			}, nil
		}
	}
	return nil, errors.Errorf("unexpected uploaded media %T", res)
}
