package meter

// Size is the width and height of a meter image in pixels.
const Size = 72

// PixelBuffer is a row-major raster with 4 bytes per pixel in A, R, G, B
// order and no row padding. A new buffer is fully transparent.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a transparent w x h buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &PixelBuffer{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

// Set overwrites the pixel at (x, y). Writes outside the buffer are dropped.
func (b *PixelBuffer) Set(x, y int, c RGBA) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i+0] = c.A
	b.Pix[i+1] = c.R
	b.Pix[i+2] = c.G
	b.Pix[i+3] = c.B
}

// At returns the pixel at (x, y), or transparent black outside the buffer.
func (b *PixelBuffer) At(x, y int) RGBA {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return RGBA{}
	}
	i := (y*b.Width + x) * 4
	return RGBA{A: b.Pix[i+0], R: b.Pix[i+1], G: b.Pix[i+2], B: b.Pix[i+3]}
}

// Bytes returns the raw ARGB bytes.
func (b *PixelBuffer) Bytes() []byte { return b.Pix }
