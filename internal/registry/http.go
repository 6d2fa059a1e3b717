package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WalletPath is the registration endpoint relative to the base URL.
const WalletPath = "/api/wallet"

type walletRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type walletResponse struct {
	User   User `json:"user"`
	Wallet struct {
		Address string `json:"address"`
	} `json:"wallet"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// HTTPClient talks to a remote registry over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Registry = (*HTTPClient)(nil)

// NewHTTPClient returns a client for baseURL. A nil client uses a default
// with a 10 second timeout.
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *HTTPClient) RegisterOrFetchUser(ctx context.Context, address string) (User, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return User{}, err
	}

	body, err := json.Marshal(walletRequest{WalletAddress: addr})
	if err != nil {
		return User{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+WalletPath, bytes.NewReader(body))
	if err != nil {
		return User{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		_ = json.Unmarshal(data, &er)
		if resp.StatusCode == http.StatusBadRequest {
			return User{}, fmt.Errorf("%w: %s", ErrInvalidAddress, er.Error.Code)
		}
		return User{}, fmt.Errorf("%w: status %d %s", ErrUnavailable, resp.StatusCode, er.Error.Message)
	}

	var wr walletResponse
	if err := json.Unmarshal(data, &wr); err != nil {
		return User{}, fmt.Errorf("%w: bad response: %v", ErrUnavailable, err)
	}
	if wr.User.ID == "" {
		return User{}, fmt.Errorf("%w: response without user", ErrUnavailable)
	}
	return wr.User, nil
}

// Handler serves WalletPath on top of a Registry, matching what
// HTTPClient expects.
func Handler(reg Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+WalletPath, func(w http.ResponseWriter, r *http.Request) {
		var req walletRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
			return
		}
		user, err := reg.RegisterOrFetchUser(r.Context(), req.WalletAddress)
		if errors.Is(err, ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid wallet address.")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not create user record.")
			return
		}

		var resp walletResponse
		resp.User = user
		resp.Wallet.Address = user.Address
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var er errorResponse
	er.Error.Code = code
	er.Error.Message = message
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}
