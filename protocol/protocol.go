// Package protocol reads and writes the whitespace-token wire format the
// match host speaks: an integer header once, then four six-integer pod
// lines per turn in, two target-plus-power lines per turn out.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pthm-cable/podracer/geometry"
	"github.com/pthm-cable/podracer/track"
)

// PodState is one line of per-turn pod input.
type PodState struct {
	Position       geometry.Vector
	Velocity       geometry.Vector
	FacingDeg      int
	NextCheckpoint int
}

// Reader tokenizes the input channel. It never buffers more than the
// scanner's word-split state; the protocol has no framing beyond
// whitespace.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r for whitespace-token reads.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	s.Buffer(make([]byte, 1024), 64*1024)
	return &Reader{scanner: s}
}

// token returns io.EOF unwrapped when the channel closed with no scanner
// error; callers at a turn boundary treat that as a clean shutdown, per
// the channel-closure exit policy. Any other failure (a scanner error, or
// EOF reached mid-turn) is the caller's job to wrap as input-malformed.
func (r *Reader) token() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// int reads one token and parses it, wrapping both a non-numeric token and
// any token() failure as input-malformed. Callers that can legally see a
// clean io.EOF (turn boundaries) must check for it before calling int.
func (r *Reader) int() (int, error) {
	tok, err := r.token()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("input-malformed: unexpected end of input: %w", err)
		}
		return 0, fmt.Errorf("input-malformed: reading token: %w", err)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("input-malformed: %q is not an integer: %w", tok, err)
	}
	return v, nil
}

// ReadHeader consumes the one-time track header: laps, checkpoint count,
// then that many (x, y) pairs, in order.
func (r *Reader) ReadHeader() (track.Track, error) {
	laps, err := r.int()
	if err != nil {
		return track.Track{}, err
	}
	if laps <= 0 {
		return track.Track{}, fmt.Errorf("input-malformed: laps %d is not positive", laps)
	}
	count, err := r.int()
	if err != nil {
		return track.Track{}, err
	}
	if count < 2 {
		return track.Track{}, fmt.Errorf("input-malformed: checkpointCount %d is below the minimum of 2", count)
	}

	checkpoints := make([]geometry.Vector, count)
	for i := 0; i < count; i++ {
		x, err := r.int()
		if err != nil {
			return track.Track{}, err
		}
		y, err := r.int()
		if err != nil {
			return track.Track{}, err
		}
		checkpoints[i] = geometry.Vector{X: float64(x), Y: float64(y)}
	}

	return track.New(laps, checkpoints), nil
}

// ReadTurn consumes the four per-turn pod lines: own 0, own 1, opponent 0,
// opponent 1. A clean channel closure before any token of the turn is
// read is reported as io.EOF, unwrapped, so the driver can tell a normal
// shutdown apart from malformed input; any other failure, including EOF
// reached partway through the four lines, is input-malformed.
func (r *Reader) ReadTurn() ([4]PodState, error) {
	var states [4]PodState

	firstX, err := r.token()
	if err != nil {
		if err == io.EOF {
			return states, io.EOF
		}
		return states, fmt.Errorf("input-malformed: reading token: %w", err)
	}
	x, err := strconv.Atoi(firstX)
	if err != nil {
		return states, fmt.Errorf("input-malformed: %q is not an integer: %w", firstX, err)
	}

	s0, err := r.readPodStateFields(x)
	if err != nil {
		return states, err
	}
	states[0] = s0

	for i := 1; i < len(states); i++ {
		x, err := r.int()
		if err != nil {
			return states, err
		}
		s, err := r.readPodStateFields(x)
		if err != nil {
			return states, err
		}
		states[i] = s
	}
	return states, nil
}

// readPodStateFields reads the five remaining fields of a pod line given
// its already-parsed leading x coordinate.
func (r *Reader) readPodStateFields(x int) (PodState, error) {
	var s PodState
	y, err := r.int()
	if err != nil {
		return s, err
	}
	vx, err := r.int()
	if err != nil {
		return s, err
	}
	vy, err := r.int()
	if err != nil {
		return s, err
	}
	angle, err := r.int()
	if err != nil {
		return s, err
	}
	nextCP, err := r.int()
	if err != nil {
		return s, err
	}

	s.Position = geometry.Vector{X: float64(x), Y: float64(y)}
	s.Velocity = geometry.Vector{X: float64(vx), Y: float64(vy)}
	s.FacingDeg = angle
	s.NextCheckpoint = nextCP
	return s, nil
}

// Power is a single pod's thrust command for one line of output: either a
// raw thrust value or the literal SHIELD/BOOST keyword.
type Power struct {
	Shield bool
	Boost  bool
	Thrust int
}

func (p Power) String() string {
	switch {
	case p.Shield:
		return "SHIELD"
	case p.Boost:
		return "BOOST"
	default:
		return strconv.Itoa(p.Thrust)
	}
}

// Writer emits target-plus-power lines to the output channel, buffered so
// a turn's two lines go out as a single flushed write.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w for buffered line writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteMove emits one pod's target point and repeated power column, per
// the contest's two-column-per-pod requirement.
func (w *Writer) WriteMove(target geometry.Vector, power Power) error {
	_, err := fmt.Fprintf(w.w, "%d %d %s %s\n", int(target.X), int(target.Y), power, power)
	return err
}

// Flush pushes buffered output for the turn out to the underlying writer.
// Must be called after both of a turn's WriteMove calls, before the next
// turn's input is read.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
