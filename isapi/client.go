package isapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/icholy/digest"

	"github.com/MaomaoMAo-17/hikvision-thermal-parser/hdr"
)

const snapshotPath = "/ISAPI/Thermal/channels/%d/thermometry/jpegPicWithAppendData?format=json"

// NewClient returns a Client for the camera at baseURL, e.g.
// "http://192.168.1.64", using the given digest credentials.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Transport: &digest.Transport{Username: username, Password: password},
		},
	}
}

// Snapshot fetches and decodes one thermometry frame from the given
// thermal channel. The response body is decoded as it streams; no part
// is buffered beyond its own size.
func (c *Client) Snapshot(ctx context.Context, channel int) (*Snapshot, error) {
	url := c.baseURL + fmt.Sprintf(snapshotPath, channel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("isapi: snapshot: unexpected status %s", resp.Status)
	}
	boundary, err := BoundaryFromContentType(resp.Header.Get(hdr.ContentType))
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(resp.Body, boundary)
}
