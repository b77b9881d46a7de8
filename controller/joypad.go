package controller

import "strings"

// Button bits in the order the joypad shifts them out, A first.
type Button uint8

const (
	A      = Button(0x80)
	B      = Button(0x40)
	Select = Button(0x20)
	Start  = Button(0x10)
	Up     = Button(0x08)
	Down   = Button(0x04)
	Left   = Button(0x02)
	Right  = Button(0x01)
)

var buttonNames = []struct {
	button Button
	name   string
}{
	{A, "A"}, {B, "B"}, {Select, "Select"}, {Start, "Start"},
	{Up, "Up"}, {Down, "Down"}, {Left, "Left"}, {Right, "Right"},
}

func (b Button) String() string {
	var names []string
	for _, n := range buttonNames {
		if b&n.button != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// Joypad is a standard controller: a parallel-in serial-out shift register
// loaded while the strobe bit is high.
type Joypad struct {
	buttons Button
	shift   uint8
	strobe  bool
}

func NewJoypad() *Joypad {
	return &Joypad{}
}

// Set replaces the held buttons.
func (j *Joypad) Set(buttons Button) {
	j.buttons = buttons
	if j.strobe {
		j.shift = uint8(j.buttons)
	}
}

func (j *Joypad) Press(b Button) {
	j.Set(j.buttons | b)
}

func (j *Joypad) Release(b Button) {
	j.Set(j.buttons &^ b)
}

func (j *Joypad) Buttons() Button {
	return j.buttons
}

// Write latches the strobe from bit 0; the buttons are reloaded while it
// is high.
func (j *Joypad) Write(data uint8) {
	j.strobe = data&0x01 != 0
	if j.strobe {
		j.shift = uint8(j.buttons)
	}
}

// Read returns the next button bit. After all eight have been read an
// official pad keeps returning 1.
func (j *Joypad) Read() uint8 {
	if j.strobe {
		return (uint8(j.buttons) >> 7) & 0x01
	}
	data := (j.shift >> 7) & 0x01
	j.shift = (j.shift << 1) | 0x01
	return data
}

func (j *Joypad) Reset() {
	j.buttons = 0
	j.shift = 0
	j.strobe = false
}
