package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	apiUrl     string
	apiKey     string
	httpClient *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		apiUrl: strings.TrimSuffix(config.ApiUrl, "/"),
		apiKey: config.ApiKey,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

func (c *Client) SendPayment(ctx context.Context, req *SendPaymentRequest) (*SendPaymentResponse, error) {
	response := &SendPaymentResponse{}
	err := c.post(ctx, "/v2/SendPayment", req, response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, paymentId string) (*PaymentStatusResponse, error) {
	response := &PaymentStatusResponse{}
	payload := map[string]string{
		"Key":     paymentId,
		"KeyType": "PaymentId",
	}
	err := c.post(ctx, "/v2/GetPaymentStatus", payload, response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) Payout(ctx context.Context, req *PayoutRequest) (*PayoutResponse, error) {
	response := &PayoutResponse{}
	err := c.post(ctx, "/v2/Suppliers/Payout", req, response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, result interface{}) error {
	body := new(bytes.Buffer)
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiUrl+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway request %s failed with status %d: %s", path, resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

var _ PaymentClient = (*Client)(nil)
