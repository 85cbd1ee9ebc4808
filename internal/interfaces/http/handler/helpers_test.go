package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopcraft/storefront/internal/domain/catalog"
	"github.com/shopcraft/storefront/internal/domain/identity"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// seedSource serves the seed catalog with product 8 out of stock.
type seedSource struct {
	products []catalog.Product
}

func newSeedSource() *seedSource {
	products := catalog.SeedProducts()
	products[7].InStock = false
	return &seedSource{products: products}
}

func (s *seedSource) ListProducts(context.Context) ([]catalog.Product, error) {
	return append([]catalog.Product(nil), s.products...), nil
}

func (s *seedSource) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *seedSource) FindByIDs(_ context.Context, ids []int64) ([]catalog.Product, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []catalog.Product
	for _, p := range s.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// memoryUsers is an identity.UserRepository kept in a map.
type memoryUsers struct {
	mu     sync.Mutex
	byID   map[int64]*identity.User
	nextID int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int64]*identity.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *identity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == user.Username {
			return shared.ErrAlreadyExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id int64) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
