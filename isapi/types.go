package isapi

import (
	"net/http"
)

type (
	// Client talks to a Hikvision thermal camera over ISAPI. The camera
	// challenges requests with digest authentication; the underlying
	// transport answers the challenge.
	Client struct {
		baseURL string
		httpc   *http.Client
	}

	// Metadata is the JpegPictureWithAppendData object carried in the
	// JSON part of a thermometry response. It announces the sizes of
	// the binary parts that follow and, for 16-bit grids, the scaling
	// needed to recover degrees.
	Metadata struct {
		JpegPicWidth          int     `json:"jpegPicWidth"`
		JpegPicHeight         int     `json:"jpegPicHeight"`
		JpegPicLen            int     `json:"jpegPicLen"`
		TemperatureDataLength int     `json:"temperatureDataLength"`
		P2PDataLen            int     `json:"p2pDataLen"`
		Scale                 float64 `json:"scale"`
		Offset                float64 `json:"offset"`
	}

	// Snapshot is one decoded thermometry frame.
	Snapshot struct {
		Metadata    Metadata
		ThermalJPEG []byte
		VisibleJPEG []byte
		Matrix      *TempMatrix
	}

	// TempMatrix is a Width x Height grid of Celsius temperatures.
	TempMatrix struct {
		Width  int
		Height int
		cells  []float32
	}

	// Region selects a rectangle of the matrix by origin and size, in
	// cell coordinates.
	Region struct {
		X, Y, W, H int
	}

	// Stats summarizes a matrix or a rectangle of it. Positions are
	// relative to the summarized rectangle.
	Stats struct {
		Max  float32
		MaxX int
		MaxY int
		Min  float32
		MinX int
		MinY int
		Mean float32
	}
)
