package flights

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

// HTTPProvider fetches offers from an external flight API. It is wired in
// when mock flights are disabled in the config.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *HTTPProvider) Search(ctx context.Context, params domain.FlightSearchParams) ([]domain.FlightOffer, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode search params")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build flight search request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "flight search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Newf("flight API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Offers []domain.FlightOffer `json:"offers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errs.Wrap(err, "failed to decode flight search response")
	}
	return payload.Offers, nil
}

var _ Provider = (*HTTPProvider)(nil)
