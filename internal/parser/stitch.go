package parser

import "strings"

type stitchState int

const (
	awaitingStart stitchState = iota
	buffering
)

// stitcher joins wrapped physical lines into one logical transaction line.
type stitcher struct {
	state stitchState
	buf   []string
	out   []string
}

// Stitch collapses transactions that wrap across several physical lines.
// A date-prefixed line opens a record; following lines are appended until
// the record carries an amount. Buffers that never see an amount are discarded.
func Stitch(lines []string) []string {
	s := &stitcher{}
	for _, line := range lines {
		s.feed(line)
	}
	s.flush()
	return s.out
}

func (s *stitcher) feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if startsWithDate(line) {
		s.flush()
		s.buf = append(s.buf[:0], line)
		s.state = buffering
		// Same-line amount: the record is already complete.
		if hasAmount(line) {
			s.flush()
		}
		return
	}

	if s.state == awaitingStart {
		return
	}

	s.buf = append(s.buf, line)
	if hasAmount(line) {
		s.flush()
	}
}

// flush emits the buffer when it holds an amount and resets to awaitingStart.
func (s *stitcher) flush() {
	if s.state == buffering {
		joined := strings.Join(s.buf, " ")
		if hasAmount(joined) {
			s.out = append(s.out, joined)
		}
	}
	s.buf = s.buf[:0]
	s.state = awaitingStart
}
