package arcodec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// HTKHeader is the 12-byte header of an HTK parameter file. Fields are
// stored little-endian.
type HTKHeader struct {
	Frames      int32 // number of rows
	Period100ns int32 // row period in units of 100ns
	RowBytes    int16 // bytes per row, 4 per float32 column
	Kind        int16
}

// Columns returns the number of float32 values per row.
func (h HTKHeader) Columns() int {
	return int(h.RowBytes) / 4
}

// WriteHTK writes rows as an HTK USER table. All rows must have the same
// length.
func WriteHTK(out io.Writer, period100ns int32, rows [][]float64) error {
	w := bufio.NewWriter(out)
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	if cols*4 > 1<<15-1 {
		return fmt.Errorf("%w: %d columns do not fit an HTK row", ErrShape, cols)
	}

	hdr := HTKHeader{
		Frames:      int32(len(rows)),
		Period100ns: period100ns,
		RowBytes:    int16(cols * 4),
		Kind:        HTK_USER,
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("write htk header: %w", err)
	}

	buf := make([]float32, cols)
	for i, row := range rows {
		if len(row) != cols {
			return fmt.Errorf("%w: htk row %d has %d columns, want %d", ErrShape, i, len(row), cols)
		}
		for j, v := range row {
			buf[j] = float32(v)
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return fmt.Errorf("write htk row %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write htk: %w", err)
	}
	return nil
}

// ReadHTK reads an HTK table written by WriteHTK.
func ReadHTK(in io.Reader) (HTKHeader, [][]float64, error) {
	r := bufio.NewReader(in)
	var hdr HTKHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return hdr, nil, fmt.Errorf("read htk header: %w", err)
	}
	if hdr.Frames < 0 || hdr.RowBytes < 0 || hdr.RowBytes%4 != 0 ||
		(hdr.RowBytes == 0 && hdr.Frames > 0) {
		return hdr, nil, fmt.Errorf("%w: htk header %+v", ErrShape, hdr)
	}

	// rows grow as they arrive; the header count is not trusted for sizing
	cols := hdr.Columns()
	buf := make([]float32, cols)
	var rows [][]float64
	for i := 0; i < int(hdr.Frames); i++ {
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return hdr, nil, fmt.Errorf("read htk row %d: %w", i, err)
		}
		row := make([]float64, cols)
		for j, v := range buf {
			row[j] = float64(v)
		}
		rows = append(rows, row)
	}
	return hdr, rows, nil
}
