package media

import (
	"context"

	"github.com/matheus3301/whatsterm/internal/queue"
	"go.uber.org/zap"
)

// Fetcher downloads a remote file to dest.
type Fetcher interface {
	DownloadFile(ctx context.Context, fileID, dest string) error
}

// DownloadJob asks for FileID to be stored at Dest.
type DownloadJob struct {
	MessageID string
	FileID    string
	Dest      string
}

// DownloadResult is the outcome of a DownloadJob.
type DownloadResult struct {
	MessageID string
	Path      string
	Err       error
}

// Downloader serializes every download through one long-lived goroutine:
// the backend client is not safe to enter from many goroutines at once.
type Downloader struct {
	fetcher Fetcher
	jobs    *queue.Queue[DownloadJob]
	done    func(DownloadResult)
	logger  *zap.Logger

	cancel   context.CancelFunc
	finished chan struct{}
}

// NewDownloader creates a downloader. done is called from the worker
// goroutine and must not block.
func NewDownloader(fetcher Fetcher, done func(DownloadResult), logger *zap.Logger) *Downloader {
	return &Downloader{
		fetcher: fetcher,
		jobs:    queue.NewQueue[DownloadJob](),
		done:    done,
		logger:  logger,
	}
}

// Enqueue schedules a download.
func (d *Downloader) Enqueue(job DownloadJob) {
	d.jobs.Push(job)
}

// Start launches the worker.
func (d *Downloader) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.finished = make(chan struct{})
	go d.loop(ctx)
}

// Stop stops the worker and waits for the in-flight download to return.
func (d *Downloader) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	d.jobs.Close()
	<-d.finished
	d.cancel = nil
}

func (d *Downloader) loop(ctx context.Context) {
	defer close(d.finished)
	for {
		job, ok := d.jobs.Pop(ctx)
		if !ok {
			return
		}
		err := d.fetcher.DownloadFile(ctx, job.FileID, job.Dest)
		if err != nil {
			d.logger.Warn("download failed", zap.String("msg_id", job.MessageID), zap.Error(err))
		} else {
			d.logger.Debug("download finished", zap.String("msg_id", job.MessageID), zap.String("path", job.Dest))
		}
		d.done(DownloadResult{MessageID: job.MessageID, Path: job.Dest, Err: err})
	}
}
