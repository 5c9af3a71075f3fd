package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/olyox/partner-cli/pkg/api"
)

// Client is the HTTP client for the Olyox partner backends. The product is
// served from two bases: the web API (referral checks, registration) and the
// app API (login, OTP, profile).
type Client struct {
	httpClient *http.Client
	webBaseURL string
	appBaseURL string
	deviceID   string
}

// NewClient creates a new API client
func NewClient(webBaseURL, appBaseURL string) *Client {
	return &Client{
		webBaseURL: webBaseURL,
		appBaseURL: appBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Carry the Authorization header across redirects
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetDeviceID attaches a device identifier sent with every request
func (c *Client) SetDeviceID(id string) {
	c.deviceID = id
}

// CheckBhID verifies a referral code against the server
func (c *Client) CheckBhID(ctx context.Context, bh string) (*api.CheckBhResponse, error) {
	var resp api.CheckBhResponse
	req := api.CheckBhRequest{Bh: bh}
	err := c.doRequest(ctx, http.MethodPost, c.webBaseURL+"/api/v1/check-bh-id", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("check bh id request failed: %w", err)
	}
	return &resp, nil
}

// RegisterPartner submits a new partner registration
func (c *Client) RegisterPartner(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	err := c.doRequest(ctx, http.MethodPost, c.webBaseURL+"/api/v1/register_vendor", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// VerifyOtp exchanges an OTP for a session token
func (c *Client) VerifyOtp(ctx context.Context, bhID, otp string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	req := api.VerifyOtpRequest{BhID: bhID, Otp: otp}
	err := c.doRequest(ctx, http.MethodPost, c.appBaseURL+"/heavy/heavy-vehicle-verify-otp", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("verify otp request failed: %w", err)
	}
	return &resp, nil
}

// ResendOtp asks the server to issue a fresh OTP
func (c *Client) ResendOtp(ctx context.Context, bhID string) (*api.AckResponse, error) {
	var resp api.AckResponse
	req := api.ResendOtpRequest{BhID: bhID}
	err := c.doRequest(ctx, http.MethodPost, c.appBaseURL+"/heavy/heavy-vehicle-resend-otp", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("resend otp request failed: %w", err)
	}
	return &resp, nil
}

// RequestLoginOtp starts the login flow for a registered partner
func (c *Client) RequestLoginOtp(ctx context.Context, bhID, msgType string) (*api.AckResponse, error) {
	var resp api.AckResponse
	req := api.LoginRequest{BhID: bhID, MsgType: msgType}
	err := c.doRequest(ctx, http.MethodPost, c.appBaseURL+"/heavy/heavy-vehicle-login", "", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// GetProfile fetches the partner profile for the bearer token
func (c *Client) GetProfile(ctx context.Context, token string) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	err := c.doRequest(ctx, http.MethodGet, c.appBaseURL+"/heavy/heavy-vehicle-profile", token, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("get profile request failed: %w", err)
	}
	return &resp, nil
}

// GetBhDetails fetches the referral/membership details for a BH ID
func (c *Client) GetBhDetails(ctx context.Context, bhID string) (*api.BhDetailsResponse, error) {
	var resp api.BhDetailsResponse
	url := fmt.Sprintf("%s/api/v1/bh-details/%s", c.webBaseURL, bhID)
	err := c.doRequest(ctx, http.MethodGet, url, "", nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("get bh details request failed: %w", err)
	}
	return &resp, nil
}

// UpdateProfile submits partner-editable profile fields
func (c *Client) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.AckResponse, error) {
	var resp api.AckResponse
	err := c.doRequest(ctx, http.MethodPost, c.appBaseURL+"/heavy/heavy-vehicle-profile-update", token, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &resp, nil
}

// doRequest performs an HTTP request against an absolute URL.
// Non-2xx responses are decoded into *Error so callers can branch on the
// structured code.
func (c *Client) doRequest(ctx context.Context, method, url, token string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
		} else {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
