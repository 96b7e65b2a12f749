package screen

// fifo is a ring buffer of 2-bit colour indices.
type fifo struct {
	buf  [16]byte // two tiles
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }
func (q *fifo) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}
func (q *fifo) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// tileFetcher pulls one row (8 pixels) of a background tile into the FIFO.
// Tiles use the unsigned 0x8000 addressing.
type tileFetcher struct {
	mem  VRAM
	fifo *fifo
}

// Fetch pushes row fineY of the tile named at mapAddr.
func (f *tileFetcher) Fetch(mapAddr uint16, fineY byte) error {
	tileNum, err := f.mem.Read(mapAddr)
	if err != nil {
		return err
	}
	base := TileData + uint16(tileNum)*16 + uint16(fineY&7)*2
	lo, err := f.mem.Read(base)
	if err != nil {
		return err
	}
	hi, err := f.mem.Read(base + 1)
	if err != nil {
		return err
	}
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		_ = f.fifo.Push(ci)
	}
	return nil
}
