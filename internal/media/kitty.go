package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"
)

// Assumed pixel size of one terminal cell when scaling for kitty.
const (
	cellPixelWidth  = 10
	cellPixelHeight = 20
	kittyChunk      = 4096
)

// kittyProtocol speaks the kitty graphics protocol. It is stateful: image
// data is transmitted once per bitmap and later frames only place it.
type kittyProtocol struct{}

func (kittyProtocol) Kind() Kind { return Kitty }

func (kittyProtocol) Encode(img image.Image, maxCols, maxRows int) (*Bitmap, error) {
	b := img.Bounds()
	cols, rows := fit(b.Dx(), b.Dy(), maxCols, maxRows)
	if cols == 0 {
		return nil, ErrNotImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols*cellPixelWidth, rows*cellPixelHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Bitmap{
		Kind:        Kitty,
		Cols:        cols,
		Rows:        rows,
		id:          nextImageID.Add(1),
		png:         buf.Bytes(),
		pixelWidth:  cols * cellPixelWidth,
		pixelHeight: rows * cellPixelHeight,
	}, nil
}

// BeginFrame removes last frame's placements while keeping image data.
func (kittyProtocol) BeginFrame(s Surface) {
	s.Passthrough("\x1b_Ga=d,d=a,q=2\x1b\\")
}

func (kittyProtocol) Render(s Surface, b *Bitmap, x, y, cols, rows int) {
	rows = min(rows, b.Rows)
	cols = min(cols, b.Cols)
	if rows <= 0 || cols <= 0 {
		return
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			s.SetContent(x+c, y+r, ' ', nil, tcell.StyleDefault)
		}
	}
	if !b.transmitted {
		s.Passthrough(transmitSequence(b))
		s.AfterFlush(func() { b.transmitted = true })
	}
	// Crop the source rectangle so a clipped image keeps its scale.
	width := b.pixelWidth * cols / b.Cols
	height := b.pixelHeight * rows / b.Rows
	s.Passthrough(fmt.Sprintf("\x1b7\x1b[%d;%dH\x1b_Ga=p,i=%d,c=%d,r=%d,x=0,y=0,w=%d,h=%d,C=1,q=2\x1b\\\x1b8",
		y+1, x+1, b.id, cols, rows, width, height))
}

func transmitSequence(b *Bitmap) string {
	payload := base64.StdEncoding.EncodeToString(b.png)
	var sb strings.Builder
	for first := true; len(payload) > 0 || first; first = false {
		n := min(kittyChunk, len(payload))
		chunk := payload[:n]
		payload = payload[n:]
		more := 0
		if len(payload) > 0 {
			more = 1
		}
		if first {
			fmt.Fprintf(&sb, "\x1b_Gf=100,a=t,t=d,i=%d,q=2,m=%d;%s\x1b\\", b.id, more, chunk)
		} else {
			fmt.Fprintf(&sb, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
	}
	return sb.String()
}
