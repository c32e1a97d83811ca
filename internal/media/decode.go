package media

import (
	"context"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/matheus3301/whatsterm/internal/queue"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DecodeJob asks for the image at Path to be decoded for MessageID.
type DecodeJob struct {
	MessageID string
	Path      string
}

// DecodeResult is the outcome of a DecodeJob.
type DecodeResult struct {
	MessageID string
	Path      string
	Bitmap    *Bitmap
	Err       error
}

// Decoder turns downloaded images into bitmaps on a fixed pool of workers.
type Decoder struct {
	picker  *Picker
	workers int
	jobs    *queue.Queue[DecodeJob]
	done    func(DecodeResult)
	logger  *zap.Logger

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewDecoder creates a decoder. done is called from worker goroutines and
// must not block.
func NewDecoder(picker *Picker, workers int, done func(DecodeResult), logger *zap.Logger) *Decoder {
	if workers < 1 {
		workers = 1
	}
	return &Decoder{
		picker:  picker,
		workers: workers,
		jobs:    queue.NewQueue[DecodeJob](),
		done:    done,
		logger:  logger,
	}
}

// Enqueue schedules a decode.
func (d *Decoder) Enqueue(job DecodeJob) {
	d.jobs.Push(job)
}

// Start launches the worker pool.
func (d *Decoder) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.group, ctx = errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		d.group.Go(func() error {
			for {
				job, ok := d.jobs.Pop(ctx)
				if !ok {
					return nil
				}
				d.done(d.decode(job))
			}
		})
	}
}

// Stop stops the workers and waits for them. Queued jobs are abandoned.
func (d *Decoder) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	d.jobs.Close()
	_ = d.group.Wait()
	d.cancel = nil
}

func (d *Decoder) decode(job DecodeJob) DecodeResult {
	res := DecodeResult{MessageID: job.MessageID, Path: job.Path}
	img, err := DecodeFile(job.Path)
	if err != nil {
		d.logger.Warn("image decode failed", zap.String("msg_id", job.MessageID), zap.String("path", job.Path), zap.Error(err))
		res.Err = err
		return res
	}
	bmp, err := d.picker.Current().Encode(img, ImageCols, ImageRows)
	if err != nil {
		res.Err = err
		return res
	}
	res.Bitmap = bmp
	return res
}

// DecodeFile reads and decodes an image file of any registered format.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, nil
}
