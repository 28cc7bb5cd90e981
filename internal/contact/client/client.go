// Package client provides the HTTP client for the listings API endpoints that resolve
// agent contact numbers and deliver enquiries.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/logger"
	"listing_portal_backend/platform/phone"
)

const (
	viewNumberPath  = "/api/contact/view-number"
	sendMessagePath = "/api/contact/send-message"

	// StatusSent is the messaging endpoint's success marker.
	StatusSent = "sent"

	enquirySource    = "3"
	enquiryRequestID = "-1"
	maxBodyBytes     = 64 << 10
)

// ResolveRequest identifies the visitor asking for an entity's numbers.
type ResolveRequest struct {
	Name     string
	Phone    string
	EntityID string
}

// EnquiryForm is the content of an email enquiry.
type EnquiryForm struct {
	Email    string
	Message  string
	Phone    string
	Name     string
	EntityID string
}

// Client is the HTTP client for the listings API contact endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appName    string
	log        *logger.Logger
}

// New creates a client from upstream configuration.
func New(cfg config.UpstreamConfig, log *logger.Logger) *Client {
	timeout := cfg.GetUpstreamTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewWithHTTPClient(cfg.GetUpstreamBaseURL(), cfg.GetUpstreamAppName(), &http.Client{Timeout: timeout}, log)
}

// NewWithHTTPClient creates a client with an explicit http.Client.
func NewWithHTTPClient(baseURL, appName string, httpClient *http.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		appName:    appName,
		log:        log,
	}
}

type viewNumberResponse struct {
	DisplayNumber  string `json:"stph2"`
	WhatsAppNumber string `json:"stph3"`
}

type sendMessageResponse struct {
	Mess string `json:"mess"`
}

// ResolveContactNumber asks the listings API for the numbers of an entity on behalf of a visitor.
func (c *Client) ResolveContactNumber(ctx context.Context, req ResolveRequest) (domain.RevealedNumbers, error) {
	const op = "resolve contact number"

	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("phone", req.Phone)
	form.Set("lid", req.EntityID)
	form.Set("app", c.appName)

	var resp viewNumberResponse
	if err := c.postForm(ctx, op, viewNumberPath, form, &resp); err != nil {
		return domain.RevealedNumbers{}, err
	}

	numbers := domain.RevealedNumbers{DisplayNumber: resp.DisplayNumber, WhatsAppNumber: resp.WhatsAppNumber}
	if !numbers.Complete() {
		return domain.RevealedNumbers{}, &ServiceError{Op: op, Reason: "response without numbers"}
	}

	c.log.WithContext(ctx).Debug("contact number resolved",
		"entityId", req.EntityID,
		"visitorPhone", phone.Mask(req.Phone),
	)
	return numbers, nil
}

// SendEnquiry delivers an email enquiry and returns the status reported by the API.
// Any status other than "sent" is a ServiceError.
func (c *Client) SendEnquiry(ctx context.Context, enquiry EnquiryForm) (string, error) {
	const op = "send enquiry"

	form := url.Values{}
	form.Set("rfifrom", enquiry.Email)
	form.Set("rfimessage", enquiry.Message)
	form.Set("rfifromph", enquiry.Phone)
	form.Set("nurfiname", enquiry.Name)
	form.Set("rfilid", enquiry.EntityID)
	form.Set("rfisrc", enquirySource)
	form.Set("reqid", enquiryRequestID)
	form.Set("app", c.appName)

	var resp sendMessageResponse
	if err := c.postForm(ctx, op, sendMessagePath, form, &resp); err != nil {
		return "", err
	}
	if resp.Mess != StatusSent {
		return resp.Mess, &ServiceError{Op: op, Reason: fmt.Sprintf("status %q", resp.Mess)}
	}
	return resp.Mess, nil
}

func (c *Client) postForm(ctx context.Context, op, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The caller gave up; nothing to retry.
			return ctxErr
		}
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Success - continue to decode
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &NetworkError{Op: op, StatusCode: resp.StatusCode}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithContext(ctx).Warn("listings api rejected request", "op", op, "status", resp.StatusCode)
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Reason: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return &NetworkError{Op: op, Err: err}
		}
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Reason: "decode response", Err: err}
	}
	return nil
}
