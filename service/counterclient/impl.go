package counterclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/delivery"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/domain"
	"github.com/x-xyz/goguard/domain/counter"
)

type counterResponse struct {
	Data struct {
		ID    string `json:"id"`
		Value int64  `json:"value"`
	} `json:"data"`
	Status delivery.JsonResponseStatus `json:"status"`
}

type client struct {
	client  http.Client
	cfg     ClientCfg
	baseURL string
	id      string
}

// NewClient connects to a counterd instance and returns it as a counter
// service. The remote counter's id is fetched once here.
func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (counter.Usecase, error) {
	c := &client{
		client:  cfg.HttpClient,
		cfg:     *cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}

	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/counter")
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": c.baseURL,
			"err": err,
		}).Error("describe counter failed")
		return nil, err
	}
	c.id = resp.Data.ID
	return c, nil
}

func (c *client) Ref() *counter.Ref {
	return counter.NewRef(c.id)
}

func (c *client) check(ref *counter.Ref) error {
	if !ref.Valid() || ref.ID() != c.id {
		return xerrors.Errorf("counter %q: %w", ref.ID(), domain.ErrInvalidReference)
	}
	return nil
}

func (c *client) Decrement(ctx bCtx.Ctx, ref *counter.Ref) error {
	if err := c.check(ref); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/counter/%s/decrement", c.baseURL, ref.ID())
	if _, err := c.do(ctx, http.MethodPost, url); err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.do failed")
		return err
	}
	return nil
}

func (c *client) Load(ctx bCtx.Ctx, ref *counter.Ref) (int64, error) {
	if err := c.check(ref); err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/counter/%s", c.baseURL, ref.ID())
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.do failed")
		return 0, err
	}
	return resp.Data.Value, nil
}

func (c *client) do(ctx bCtx.Ctx, method, url string) (*counterResponse, error) {
	if c.cfg.Timeout > 0 {
		var cancel func()
		ctx, cancel = bCtx.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(nil))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, xerrors.Errorf("%s: %w", strings.TrimSpace(string(body)), domain.ErrInvalidReference)
	default:
		return nil, xerrors.Errorf("status %d: %w", resp.StatusCode, ErrStatusCodeNotOk)
	}

	var r counterResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
