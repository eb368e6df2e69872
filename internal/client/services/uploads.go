package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/realestate/internal/client/client"
	"github.com/dmitrijs2005/realestate/internal/filex"
	"github.com/dmitrijs2005/realestate/internal/netx"
)

var (
	openImage = filex.OpenImage
	putObject = netx.UploadToPresignedURL
)

// UploadEvent reports on one upload. The last event on a channel has Done
// set and carries either URL or Err.
type UploadEvent struct {
	Index int
	Path  string
	Sent  int64
	Total int64
	Done  bool
	URL   string
	Err   error
}

// Percent is the share of bytes sent so far.
func (e UploadEvent) Percent() int {
	if e.Total <= 0 {
		return 0
	}
	return int(e.Sent * 100 / e.Total)
}

type UploadService interface {
	// Upload starts uploading the image at path and returns its events.
	// Progress events are dropped when the reader falls behind; the final
	// event is always delivered, so the reader must drain the channel.
	Upload(ctx context.Context, index int, path string) <-chan UploadEvent
	// UploadAll uploads every path concurrently, forwards each event to
	// progress and returns the public URLs in path order once all are done.
	UploadAll(ctx context.Context, paths []string, progress func(UploadEvent)) ([]string, error)
}

type uploadService struct {
	client  client.Client
	http    *http.Client
	timeout time.Duration
}

func NewUploadService(c client.Client, timeout time.Duration) UploadService {
	return &uploadService{client: c, http: &http.Client{}, timeout: timeout}
}

func (s *uploadService) Upload(ctx context.Context, index int, path string) <-chan UploadEvent {
	events := make(chan UploadEvent, 16)

	go func() {
		defer close(events)

		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		url, err := s.upload(ctx, path, func(sent, total int64) {
			ev := UploadEvent{Index: index, Path: path, Sent: sent, Total: total}
			select {
			case events <- ev:
			default:
			}
		})

		events <- UploadEvent{Index: index, Path: path, Done: true, URL: url, Err: err}
	}()

	return events
}

func (s *uploadService) upload(ctx context.Context, path string, progress netx.Progress) (string, error) {
	img, err := openImage(path)
	if err != nil {
		return "", err
	}
	defer img.Close()

	ticket, err := s.client.Presign(ctx, img.ContentType)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}

	if err := putObject(ctx, s.http, ticket.UploadURL, img.ContentType, img, img.Size, progress); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	return ticket.PublicURL, nil
}

func (s *uploadService) UploadAll(ctx context.Context, paths []string, progress func(UploadEvent)) ([]string, error) {
	urls := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	report := func(ev UploadEvent) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		progress(ev)
	}

	for i, p := range paths {
		g.Go(func() error {
			for ev := range s.Upload(gctx, i, p) {
				report(ev)
				if ev.Done {
					if ev.Err != nil {
						return ev.Err
					}
					urls[i] = ev.URL
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
