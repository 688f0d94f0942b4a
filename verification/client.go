package verification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const DefaultVerifyTimeout = 10 * time.Second

// VerifyResult is the normalized outcome of a verify callout. Transport
// failures, non-200 responses and malformed bodies all surface as
// Success=false with a reason; callers never see transport-level errors.
type VerifyResult struct {
	Success   bool
	Decrypted string
	Err       string
}

// Client wraps the external decrypt endpoint. The endpoint is untrusted:
// its response is only ever compared against the locally-held challenge
// code. The client never retries; resubmission is the caller's call.
type Client struct {
	site   string
	encsec string
	hc     *http.Client
}

func NewClient(site, encsec string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &Client{
		site:   strings.TrimSuffix(site, "/"),
		encsec: encsec,
		hc:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Verify(ctx context.Context, submitted string) VerifyResult {
	// Unset configuration fails closed, never open.
	if c.site == "" || c.encsec == "" {
		return VerifyResult{Err: "verify endpoint is not configured"}
	}
	form := url.Values{}
	form.Set("action", "decrypt")
	form.Set("encsec", c.encsec)
	form.Set("code", submitted)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.site+"/verify", strings.NewReader(form.Encode()))
	if err != nil {
		return VerifyResult{Err: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.hc.Do(req)
	if err != nil {
		return VerifyResult{Err: "verify endpoint unreachable"}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return VerifyResult{Err: fmt.Sprintf("verify endpoint returned status %v", resp.StatusCode)}
	}
	var body struct {
		Success   bool   `json:"success"`
		Decrypted string `json:"decrypted"`
	}
	if err := jsoniter.NewDecoder(resp.Body).Decode(&body); err != nil {
		return VerifyResult{Err: "malformed response from verify endpoint"}
	}
	if !body.Success {
		return VerifyResult{Err: "the verify endpoint rejected the submission"}
	}
	return VerifyResult{Success: true, Decrypted: body.Decrypted}
}
