package spots

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "go-tourist-spots/1.0"

// OverpassElement is a single feature returned by an overlay query. Ways and
// relations carry a centroid in Center instead of Lat/Lon.
type OverpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat,omitempty"`
	Lon    float64           `json:"lon,omitempty"`
	Center *OverpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type OverpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type overpassResponse struct {
	Elements []OverpassElement `json:"elements"`
}

// OverpassClient posts Overpass QL to the interpreter endpoint.
type OverpassClient struct {
	client *resty.Client
}

func NewOverpassClient(baseURL string) *OverpassClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent)

	return &OverpassClient{client: client}
}

// Query executes one overlay query. The timeout applies to the HTTP request;
// the QL itself is expected to carry a matching [timeout:] directive.
func (c *OverpassClient) Query(ctx context.Context, ql string, timeout time.Duration) ([]OverpassElement, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var result overpassResponse
	resp, err := c.client.R().
		SetContext(reqCtx).
		SetFormData(map[string]string{"data": ql}).
		SetResult(&result).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return result.Elements, nil
}
