package terminal

import "time"

// Key is a decoded keypress. Plain bytes keep their raw code; decoded
// escape sequences map to values above 1000.
type Key int

const (
	KeyNull      Key = 0
	KeyCtrlC     Key = 3
	KeyEnter     Key = 13
	KeyCtrlQ     Key = 17
	KeyEsc       Key = 27
	KeyBackspace Key = 127
)

const (
	KeyArrowLeft Key = iota + 1000
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// DefaultEscapeTimeout bounds each continuation read after an ESC byte.
const DefaultEscapeTimeout = 100 * time.Millisecond

type decodeState int

const (
	stateNormal decodeState = iota
	stateEsc
	stateBracket
	stateBracketDigit
	stateSS3
	stateEscOther
)

// Decoder turns a byte stream into keys one byte at a time.
type Decoder struct {
	state decodeState
	digit byte
}

// Pending reports whether a partial escape sequence is buffered.
func (d *Decoder) Pending() bool {
	return d.state != stateNormal
}

// Feed advances the decoder by one byte and reports the key once resolved.
func (d *Decoder) Feed(b byte) (Key, bool) {
	switch d.state {
	case stateNormal:
		if b == byte(KeyEsc) {
			d.state = stateEsc
			return KeyNull, false
		}
		return Key(b), true

	case stateEsc:
		switch b {
		case '[':
			d.state = stateBracket
		case 'O':
			d.state = stateSS3
		default:
			// ESC plus two unrecognised bytes still consumes both.
			d.state = stateEscOther
		}
		return KeyNull, false

	case stateBracket:
		if b >= '0' && b <= '9' {
			d.digit = b
			d.state = stateBracketDigit
			return KeyNull, false
		}
		d.reset()
		switch b {
		case 'A':
			return KeyArrowUp, true
		case 'B':
			return KeyArrowDown, true
		}
		return KeyEsc, true

	case stateBracketDigit:
		digit := d.digit
		d.reset()
		if b == '~' {
			switch digit {
			case '5':
				return KeyPageUp, true
			case '6':
				return KeyPageDown, true
			}
		}
		return KeyEsc, true

	case stateSS3:
		d.reset()
		switch b {
		case 'r':
			return KeyArrowDown, true
		case 'x':
			return KeyArrowUp, true
		}
		return KeyEsc, true

	default:
		d.reset()
		return KeyEsc, true
	}
}

// Timeout resolves a pending sequence after a continuation read found no
// data: it really was just an ESC.
func (d *Decoder) Timeout() Key {
	d.reset()
	return KeyEsc
}

func (d *Decoder) reset() {
	d.state = stateNormal
	d.digit = 0
}

// ReadKey blocks for one keypress. The first byte is awaited indefinitely;
// each escape continuation byte is awaited for at most wait.
func ReadKey(c Conn, wait time.Duration) (Key, error) {
	var buf [1]byte
	for {
		n, err := c.ReadTimeout(buf[:], -1)
		if err != nil {
			return KeyNull, err
		}
		if n == 1 {
			break
		}
	}

	var d Decoder
	key, done := d.Feed(buf[0])
	for !done {
		n, err := c.ReadTimeout(buf[:], wait)
		if err != nil || n == 0 {
			return d.Timeout(), nil
		}
		key, done = d.Feed(buf[0])
	}
	return key, nil
}
