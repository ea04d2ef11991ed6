package isapi

import (
	"encoding/binary"
	"fmt"
	"math"
)

// maxMatrixDim caps accepted matrix dimensions. The largest Hikvision
// thermal sensors are 640x512; anything past this is a corrupt frame,
// not a bigger camera.
const maxMatrixDim = 4096

// NewTempMatrix decodes little-endian temperature cells into a Celsius
// matrix. A temperatureDataLength of 2 means int16 cells in Kelvin,
// recovered as raw/scale + offset - 273.15; a length of 4 means float32
// cells already in Celsius.
func NewTempMatrix(data []byte, meta Metadata) (*TempMatrix, error) {
	w, h := meta.JpegPicWidth, meta.JpegPicHeight
	if w <= 0 || h <= 0 || w > maxMatrixDim || h > maxMatrixDim {
		return nil, fmt.Errorf("isapi: invalid matrix size %dx%d", w, h)
	}
	cells := make([]float32, w*h)

	switch meta.TemperatureDataLength {
	case 2:
		if len(data) < w*h*2 {
			return nil, fmt.Errorf("isapi: temperature data %d bytes, need %d", len(data), w*h*2)
		}
		if meta.Scale == 0 {
			return nil, fmt.Errorf("isapi: 16-bit temperature data without a scale")
		}
		for i := range cells {
			raw := int16(binary.LittleEndian.Uint16(data[i*2:]))
			cells[i] = float32(float64(raw)/meta.Scale + meta.Offset - 273.15)
		}
	case 4:
		if len(data) < w*h*4 {
			return nil, fmt.Errorf("isapi: temperature data %d bytes, need %d", len(data), w*h*4)
		}
		for i := range cells {
			cells[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	default:
		return nil, fmt.Errorf("isapi: unsupported temperatureDataLength %d", meta.TemperatureDataLength)
	}

	return &TempMatrix{Width: w, Height: h, cells: cells}, nil
}

// At returns the Celsius temperature of the cell at column x, row y.
func (m *TempMatrix) At(x, y int) float32 {
	return m.cells[y*m.Width+x]
}

// Stats summarizes the whole frame.
func (m *TempMatrix) Stats() Stats {
	return m.statsOver(0, 0, m.Width, m.Height)
}

// RegionStats summarizes each requested region. A region whose origin
// lies outside the matrix, or which is empty after clamping to the
// matrix bounds, is skipped. Positions in the result are relative to
// the region's clamped origin.
func (m *TempMatrix) RegionStats(regions []Region) []Stats {
	out := make([]Stats, 0, len(regions))
	for _, reg := range regions {
		if reg.X >= m.Width || reg.Y >= m.Height || reg.X < 0 || reg.Y < 0 {
			continue
		}
		x2 := reg.X + reg.W
		if x2 > m.Width {
			x2 = m.Width
		}
		y2 := reg.Y + reg.H
		if y2 > m.Height {
			y2 = m.Height
		}
		if x2 <= reg.X || y2 <= reg.Y {
			continue
		}
		out = append(out, m.statsOver(reg.X, reg.Y, x2, y2))
	}
	return out
}

func (m *TempMatrix) statsOver(x1, y1, x2, y2 int) Stats {
	s := Stats{Max: m.At(x1, y1), Min: m.At(x1, y1)}
	var sum float64
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			v := m.At(x, y)
			if v > s.Max {
				s.Max, s.MaxX, s.MaxY = v, x-x1, y-y1
			}
			if v < s.Min {
				s.Min, s.MinX, s.MinY = v, x-x1, y-y1
			}
			sum += float64(v)
		}
	}
	s.Mean = float32(sum / float64((x2-x1)*(y2-y1)))
	return s
}
