package isapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"

	"github.com/MaomaoMAo-17/hikvision-thermal-parser/multipart"
)

// maxImageLen caps the announced size of a JPEG part. Frames from real
// cameras are well under a megabyte.
const maxImageLen = 32 << 20

// BoundaryFromContentType extracts the multipart boundary parameter
// from a Content-Type header value.
func BoundaryFromContentType(ct string) (string, error) {
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("isapi: parse content type %q: %w", ct, err)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", fmt.Errorf("isapi: no boundary in content type %q", ct)
	}
	return boundary, nil
}

// validate rejects metadata whose announced sizes could not describe a
// real frame. Runs before any buffer is sized from the wire values.
func (m Metadata) validate() error {
	if m.JpegPicLen < 0 || m.JpegPicLen > maxImageLen {
		return fmt.Errorf("isapi: metadata: jpegPicLen %d out of range", m.JpegPicLen)
	}
	if m.JpegPicWidth <= 0 || m.JpegPicHeight <= 0 ||
		m.JpegPicWidth > maxMatrixDim || m.JpegPicHeight > maxMatrixDim {
		return fmt.Errorf("isapi: metadata: matrix size %dx%d out of range", m.JpegPicWidth, m.JpegPicHeight)
	}
	if m.TemperatureDataLength != 2 && m.TemperatureDataLength != 4 {
		return fmt.Errorf("isapi: metadata: unsupported temperatureDataLength %d", m.TemperatureDataLength)
	}
	if want := m.JpegPicWidth * m.JpegPicHeight * m.TemperatureDataLength; m.P2PDataLen != want {
		return fmt.Errorf("isapi: metadata: p2pDataLen %d, want %d for a %dx%d matrix of %d-byte cells",
			m.P2PDataLen, want, m.JpegPicWidth, m.JpegPicHeight, m.TemperatureDataLength)
	}
	return nil
}

// DecodeSnapshot decodes a four-part thermometry body: JSON metadata,
// the thermal JPEG, the raw temperature grid, and the visible-light
// JPEG. The metadata announces the sizes of parts two and three; parts
// one and four run until their boundary.
func DecodeSnapshot(r io.Reader, boundary string) (*Snapshot, error) {
	mr := multipart.NewReader(r, boundary)

	// Part 1: metadata, length unknown, drained to the boundary.
	part, err := mr.NextPart()
	if err != nil {
		return nil, fmt.Errorf("isapi: metadata part: %w", err)
	}
	raw, err := part.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("isapi: metadata part: %w", err)
	}
	var envelope struct {
		JpegPictureWithAppendData Metadata `json:"JpegPictureWithAppendData"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("isapi: decode metadata: %w", err)
	}
	meta := envelope.JpegPictureWithAppendData
	if err := meta.validate(); err != nil {
		return nil, err
	}

	// Part 2: thermal JPEG of the announced length.
	part, err = mr.NextPart()
	if err != nil {
		return nil, fmt.Errorf("isapi: thermal image part: %w", err)
	}
	thermal := make([]byte, meta.JpegPicLen)
	if _, err := io.ReadFull(part, thermal); err != nil {
		return nil, fmt.Errorf("isapi: thermal image part: %w", err)
	}

	// Part 3: the temperature grid. Body reads may come up short of the
	// request, so collect until the announced total is in.
	part, err = mr.NextPart()
	if err != nil {
		return nil, fmt.Errorf("isapi: temperature part: %w", err)
	}
	grid := make([]byte, meta.P2PDataLen)
	if _, err := io.ReadFull(part, grid); err != nil {
		return nil, fmt.Errorf("isapi: temperature part: %w", err)
	}
	matrix, err := NewTempMatrix(grid, meta)
	if err != nil {
		return nil, err
	}

	// Part 4: visible-light JPEG, length unknown.
	part, err = mr.NextPart()
	if err != nil {
		return nil, fmt.Errorf("isapi: visible image part: %w", err)
	}
	visible, err := part.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("isapi: visible image part: %w", err)
	}

	return &Snapshot{
		Metadata:    meta,
		ThermalJPEG: thermal,
		VisibleJPEG: visible,
		Matrix:      matrix,
	}, nil
}
