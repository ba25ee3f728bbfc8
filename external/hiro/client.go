package hiro

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"github.com/stxrain/go-stx-rain/entities"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const maxBodySize = 8 << 20

// Client reads the Hiro extended API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	txLimit    int
	unanchored bool
}

func NewClient(httpClient *http.Client, baseURL string, txLimit int, unanchored bool) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		txLimit:    txLimit,
		unanchored: unanchored,
	}
}

// GetTransactions returns the most recent transactions, including unanchored ones if configured.
func (c *Client) GetTransactions(ctx context.Context) ([]entities.HiroTx, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(c.txLimit))
	query.Set("unanchored", strconv.FormatBool(c.unanchored))

	var page entities.HiroTxPage
	err := c.getJSON(ctx, "/extended/v1/tx", query, &page)
	if err != nil {
		return nil, errors.Wrap(err, "getting transactions")
	}
	if page.Results == nil {
		return []entities.HiroTx{}, nil
	}
	return page.Results, nil
}

func (c *Client) GetLatestBlockHeight(ctx context.Context) (uint64, error) {
	query := url.Values{}
	query.Set("limit", "1")

	var page entities.HiroBlockPage
	err := c.getJSON(ctx, "/extended/v1/block", query, &page)
	if err != nil {
		return 0, errors.Wrap(err, "getting latest block")
	}
	if len(page.Results) == 0 {
		return 0, entities.ErrNoBlock
	}
	return page.Results[0].Height, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodySize))
		return errors.Wrapf(entities.ErrUpstreamStatus, "status code [%d]", res.StatusCode)
	}

	err = json.NewDecoder(io.LimitReader(res.Body, maxBodySize)).Decode(target)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrMalformedPayload, err)
	}
	return nil
}
