package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/asthra-lang/asthra-core/internal/diag"
)

// Hand-rolled length-prefixed primitive encoders, mirroring
// internal/tunascript/ast.go's encBinaryInt/encBinaryString convention: every
// value is a fixed-width length header followed by its raw bytes, so
// decoding never has to guess where one field ends and the next begins.

func encBinaryString(s string) []byte {
	data := make([]byte, 8+len(s))
	binary.BigEndian.PutUint64(data, uint64(len(s)))
	copy(data[8:], s)
	return data
}

func decBinaryString(data []byte) (string, int, error) {
	if len(data) < 8 {
		return "", 0, fmt.Errorf("cache: truncated string length header")
	}
	n := int(binary.BigEndian.Uint64(data))
	if len(data) < 8+n {
		return "", 0, fmt.Errorf("cache: truncated string body (want %d bytes)", n)
	}
	return string(data[8 : 8+n]), 8 + n, nil
}

func encBinaryBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("cache: truncated bool")
	}
	return data[0] != 0, 1, nil
}

func encBinaryInt(n int) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, uint64(int64(n)))
	return data
}

func decBinaryInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("cache: truncated int")
	}
	return int(int64(binary.BigEndian.Uint64(data))), 8, nil
}

// MarshalBinary encodes e as Ok, diagnostic count, each diagnostic's JSON
// fields, then the IR text.
func (e Entry) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, encBinaryBool(e.Ok)...)
	data = append(data, encBinaryInt(len(e.Diagnostics))...)
	for _, d := range e.Diagnostics {
		data = append(data, encBinaryString(d.Severity)...)
		data = append(data, encBinaryString(d.Code)...)
		data = append(data, encBinaryString(d.File)...)
		data = append(data, encBinaryInt(d.Line)...)
		data = append(data, encBinaryInt(d.Col)...)
		data = append(data, encBinaryInt(d.Length)...)
		data = append(data, encBinaryString(d.Message)...)
		data = append(data, encBinaryInt(len(d.Notes))...)
		for _, note := range d.Notes {
			data = append(data, encBinaryString(note)...)
		}
	}
	data = append(data, encBinaryString(e.IRText)...)
	return data, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into e.
func (e *Entry) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	e.Ok, n, err = decBinaryBool(data)
	if err != nil {
		return err
	}
	data = data[n:]

	count, n, err := decBinaryInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	e.Diagnostics = make([]diag.JSON, 0, count)
	for i := 0; i < count; i++ {
		var d diag.JSON
		d.Severity, n, err = decBinaryString(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Code, n, err = decBinaryString(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.File, n, err = decBinaryString(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Line, n, err = decBinaryInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Col, n, err = decBinaryInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Length, n, err = decBinaryInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Message, n, err = decBinaryString(data)
		if err != nil {
			return err
		}
		data = data[n:]

		noteCount, n, err := decBinaryInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Notes = make([]string, 0, noteCount)
		for j := 0; j < noteCount; j++ {
			var note string
			note, n, err = decBinaryString(data)
			if err != nil {
				return err
			}
			data = data[n:]
			d.Notes = append(d.Notes, note)
		}

		e.Diagnostics = append(e.Diagnostics, d)
	}

	e.IRText, _, err = decBinaryString(data)
	if err != nil {
		return err
	}
	return nil
}
