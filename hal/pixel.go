package hal

// RGB565 packs an 8-bit-per-channel color into rrrrrggggggbbbbb.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888 expands an RGB565 pixel back to 8 bits per channel.
func RGB888(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// PixelAt reads the RGB565 pixel at (x, y) from fb. ok is false when the
// coordinates are outside the buffer.
func PixelAt(fb Framebuffer, x, y int) (p uint16, ok bool) {
	if fb == nil || x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return 0, false
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return 0, false
	}
	return uint16(buf[off]) | uint16(buf[off+1])<<8, true
}

func fillRGB565(buf []byte, r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}
