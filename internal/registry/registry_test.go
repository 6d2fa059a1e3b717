package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

func openTestRegistry(t *testing.T, opts ...Option) *SQLiteRegistry {
	t.Helper()
	r, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "registry.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNormalizeAddress(t *testing.T) {
	got, err := NormalizeAddress("0x9858effd232b4033e47d90003d41ec34ecaeda94")
	require.NoError(t, err)
	assert.Equal(t, testAddress, got)

	for _, bad := range []string{
		"",
		"9858EfFD232B4033E47d90003D41EC34EcaEda94",
		"0x9858EfFD232B4033E47d90003D41EC34EcaEda9",
		"0x9858EfFD232B4033E47d90003D41EC34EcaEda9z",
	} {
		_, err := NormalizeAddress(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestUserIsNew(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	u := User{CreatedAt: created}

	assert.True(t, u.IsNew(created))
	assert.True(t, u.IsNew(created.Add(4*time.Second)))
	assert.True(t, u.IsNew(created.Add(NewUserWindow)))
	assert.False(t, u.IsNew(created.Add(NewUserWindow+time.Millisecond)))
	assert.False(t, u.IsNew(created.Add(-time.Second)))
}

func TestSQLiteRegistry_Idempotent(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	r := openTestRegistry(t, WithClock(clock))
	ctx := context.Background()

	first, err := r.RegisterOrFetchUser(ctx, testAddress)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, testAddress, first.Address)
	assert.Equal(t, DefaultReputation, first.ReputationScore)
	assert.True(t, first.CreatedAt.Equal(now))
	assert.True(t, first.IsNew(now.Add(time.Second)))

	now = now.Add(time.Hour)
	second, err := r.RegisterOrFetchUser(ctx, "0x9858effd232b4033e47d90003d41ec34ecaeda94")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.False(t, second.IsNew(now))
}

func TestSQLiteRegistry_Concurrent(t *testing.T) {
	r := openTestRegistry(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := r.RegisterOrFetchUser(ctx, testAddress)
			ids[i], errs[i] = u.ID, err
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestSQLiteRegistry_InvalidAddress(t *testing.T) {
	r := openTestRegistry(t)
	_, err := r.RegisterOrFetchUser(context.Background(), "0xnope")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestSQLiteRegistry_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	ctx := context.Background()

	r, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	first, err := r.RegisterOrFetchUser(ctx, testAddress)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer r.Close()
	second, err := r.RegisterOrFetchUser(ctx, testAddress)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestHTTPClient_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(Handler(openTestRegistry(t)))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", srv.Client())
	ctx := context.Background()

	first, err := c.RegisterOrFetchUser(ctx, testAddress)
	require.NoError(t, err)
	assert.Equal(t, testAddress, first.Address)
	assert.Equal(t, DefaultReputation, first.ReputationScore)
	assert.True(t, first.IsNew(time.Now()))

	second, err := c.RegisterOrFetchUser(ctx, testAddress)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestHTTPClient_Errors(t *testing.T) {
	t.Run("invalid address is rejected locally", func(t *testing.T) {
		c := NewHTTPClient("http://127.0.0.1:1", nil)
		_, err := c.RegisterOrFetchUser(context.Background(), "bad")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "db down")
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL, srv.Client()).RegisterOrFetchUser(context.Background(), testAddress)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTPClient(url, nil).RegisterOrFetchUser(context.Background(), testAddress)
		assert.True(t, errors.Is(err, ErrUnavailable))
	})

	t.Run("empty user", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user":{}}`))
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL, srv.Client()).RegisterOrFetchUser(context.Background(), testAddress)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestHandler_BadRequest(t *testing.T) {
	h := Handler(openTestRegistry(t))

	for _, body := range []string{`{`, `{"walletAddress":"0x123"}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, WalletPath, strings.NewReader(body))
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
