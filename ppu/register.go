package ppu

// Field is a bit range inside a Register.
type Field struct {
	Index uint16
	Size  uint16
}

func (f Field) mask() uint16 {
	return (^(uint16(0xFFFF) << f.Size)) << f.Index
}

// Register is a packed PPU register accessed through Field descriptors.
type Register struct {
	Reg uint16
}

// SetField stores value in f, dropping any bits that do not fit.
func (r *Register) SetField(f Field, value uint16) {
	mask := f.mask()
	r.Reg = (r.Reg &^ mask) | ((value << f.Index) & mask)
}

func (r *Register) GetField(f Field) uint16 {
	return (r.Reg & f.mask()) >> f.Index
}

func (r *Register) Flag(f Field) bool {
	return r.Reg&f.mask() != 0
}

func (r *Register) SetFlag(f Field, v bool) {
	if v {
		r.SetField(f, 1)
	} else {
		r.SetField(f, 0)
	}
}

func (r *Register) SetReg(value uint16) {
	r.Reg = value
}

// PPUCTRL ($2000)
var (
	ctrlNametableX        = Field{0, 1}
	ctrlNametableY        = Field{1, 1}
	ctrlIncrementMode     = Field{2, 1}
	ctrlPatternSprite     = Field{3, 1}
	ctrlPatternBackground = Field{4, 1}
	ctrlSpriteSize        = Field{5, 1}
	ctrlEnableNMI         = Field{7, 1}
)

// PPUMASK ($2001)
var (
	maskGrayscale        = Field{0, 1}
	maskBackgroundLeft   = Field{1, 1}
	maskSpritesLeft      = Field{2, 1}
	maskRenderBackground = Field{3, 1}
	maskRenderSprites    = Field{4, 1}
)

// PPUSTATUS ($2002)
var (
	statusUnused         = Field{0, 5}
	statusSpriteOverflow = Field{5, 1}
	statusSpriteZeroHit  = Field{6, 1}
	statusVerticalBlank  = Field{7, 1}
)

// loopy v/t scroll address
var (
	loopyCoarseX    = Field{0, 5}
	loopyCoarseY    = Field{5, 5}
	loopyNametableX = Field{10, 1}
	loopyNametableY = Field{11, 1}
	loopyFineY      = Field{12, 3}
	loopyUnused     = Field{15, 1}
)

// writeLatch is the shared first/second write toggle of $2005 and $2006.
// A $2002 read puts it back to awaitingHigh.
type writeLatch uint8

const (
	awaitingHigh writeLatch = iota
	awaitingLow
)

func (w writeLatch) String() string {
	if w == awaitingLow {
		return "low"
	}
	return "high"
}
