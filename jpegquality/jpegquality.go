// Package jpegquality estimates quality setting JPEG image was encoded with
// by comparing its quantization tables to standard IJG tables.
package jpegquality

import (
	"bytes"
	"errors"
	"io"
	"math"
)

var (
	ErrInvalidJPEG  = errors.New("invalid JPEG header")
	ErrWrongTable   = errors.New("wrong size for quantization table")
	ErrShortSegment = errors.New("short segment length")
	ErrShortDQT     = errors.New("section DQT is too short")
)

// Qualitier reports estimated quality in range 1-100.
type Qualitier interface {
	Quality() int
}

const (
	markerSOI = 0xffd8
	markerSOS = 0xffda
	markerEOI = 0xffd9
	markerDQT = 0xffdb
)

// standard tables from ITU T.81 Annex K, order does not matter here
var (
	stdLuminance = [64]int{
		16, 11, 10, 16, 24, 40, 51, 61,
		12, 12, 14, 19, 26, 58, 60, 55,
		14, 13, 16, 24, 40, 57, 69, 56,
		14, 17, 22, 29, 51, 87, 80, 62,
		18, 22, 37, 56, 68, 109, 103, 77,
		24, 35, 55, 64, 81, 104, 113, 92,
		49, 64, 78, 87, 103, 121, 120, 101,
		72, 92, 95, 98, 112, 100, 103, 99,
	}
	stdChrominance = [64]int{
		17, 18, 24, 47, 99, 99, 99, 99,
		18, 21, 26, 66, 99, 99, 99, 99,
		24, 26, 56, 99, 99, 99, 99, 99,
		47, 66, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	}
)

func tableSum(t *[64]int) (sum int) {
	for _, v := range t {
		sum += v
	}
	return sum
}

type jpegReader struct {
	rs io.ReadSeeker
	q  int
}

// New reads JPEG headers from rs (starting from its beginning) until the
// first quantization table section.
func New(rs io.ReadSeeker) (Qualitier, error) {
	jr := &jpegReader{rs: rs}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if jr.readMarker() != markerSOI {
		return nil, ErrInvalidJPEG
	}
	q, err := jr.readQuality()
	if err != nil {
		return nil, err
	}
	jr.q = q
	return jr, nil
}

func NewWithBytes(data []byte) (Qualitier, error) {
	return New(bytes.NewReader(data))
}

func (jr *jpegReader) Quality() int {
	return jr.q
}

// readMarker returns next two bytes as big endian marker, 0 on read failure.
func (jr *jpegReader) readMarker() int {
	var buf [2]byte
	if _, err := io.ReadFull(jr.rs, buf[:]); err != nil {
		return 0
	}
	return int(buf[0])<<8 | int(buf[1])
}

func (jr *jpegReader) readQuality() (int, error) {
	for {
		mark := jr.readMarker()
		switch {
		case mark == 0:
			return 0, io.ErrUnexpectedEOF
		case mark>>8 != 0xff:
			return 0, ErrInvalidJPEG
		case mark == markerSOS || mark == markerEOI:
			// no tables before image data
			return 0, ErrShortDQT
		}

		length := jr.readMarker()
		if length == 0 {
			return 0, io.ErrUnexpectedEOF
		}
		length -= 2
		if length < 0 {
			return 0, ErrShortSegment
		}
		if mark != markerDQT {
			if _, err := jr.rs.Seek(int64(length), io.SeekCurrent); err != nil {
				return 0, err
			}
			continue
		}

		buf := make([]byte, length)
		if _, err := io.ReadFull(jr.rs, buf); err != nil {
			return 0, ErrShortDQT
		}
		return estimate(buf)
	}
}

// estimate inverts IJG quality scaling: table entries are standard ones
// multiplied by scale/100 where scale is 5000/q below 50 and 200-2q above.
func estimate(dqt []byte) (int, error) {
	var actual, standard int
	for len(dqt) > 0 {
		precision, index := dqt[0]>>4, dqt[0]&0x0f
		size := 64
		if precision != 0 {
			size = 128
		}
		if len(dqt) < size+1 {
			return 0, ErrWrongTable
		}
		table := dqt[1 : size+1]
		dqt = dqt[size+1:]

		var std *[64]int
		switch index {
		case 0:
			std = &stdLuminance
		case 1:
			std = &stdChrominance
		default:
			continue
		}
		for i := range 64 {
			if precision != 0 {
				actual += int(table[2*i])<<8 | int(table[2*i+1])
			} else {
				actual += int(table[i])
			}
		}
		standard += tableSum(std)
	}
	if standard == 0 {
		return 0, ErrShortDQT
	}

	scale := float64(actual) * 100 / float64(standard)
	var q float64
	if scale <= 100 {
		q = (200 - scale) / 2
	} else {
		q = 5000 / scale
	}
	return min(max(int(math.Round(q)), 1), 100), nil
}
