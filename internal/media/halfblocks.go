package media

import (
	"image"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"
)

// halfblockProtocol draws two pixels per cell with the upper half block:
// foreground is the top pixel, background the bottom one. It is stateless.
type halfblockProtocol struct{}

func (halfblockProtocol) Kind() Kind { return Halfblocks }

func (halfblockProtocol) Encode(img image.Image, maxCols, maxRows int) (*Bitmap, error) {
	b := img.Bounds()
	cols, rows := fit(b.Dx(), b.Dy(), maxCols, maxRows)
	if cols == 0 {
		return nil, ErrNotImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)

	cells := make([]tcell.Style, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			top := dst.RGBAAt(c, r*2)
			bot := dst.RGBAAt(c, r*2+1)
			cells[r*cols+c] = tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bot.R), int32(bot.G), int32(bot.B)))
		}
	}
	return &Bitmap{Kind: Halfblocks, Cols: cols, Rows: rows, cells: cells}, nil
}

func (halfblockProtocol) BeginFrame(Surface) {}

func (halfblockProtocol) Render(s Surface, b *Bitmap, x, y, cols, rows int) {
	rows = min(rows, b.Rows)
	cols = min(cols, b.Cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			s.SetContent(x+c, y+r, '▀', nil, b.cells[r*b.Cols+c])
		}
	}
	b.transmitted = true
}
