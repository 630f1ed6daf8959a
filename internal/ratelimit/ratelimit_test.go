package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_AllowWithinBurst(t *testing.T) {
	r := New(1, 2, time.Minute, 10)
	defer r.Close()

	assert.True(t, r.Allow("10.0.0.1"))
	assert.True(t, r.Allow("10.0.0.1"))
	assert.False(t, r.Allow("10.0.0.1"), "third request should exceed the burst")

	// other clients have their own bucket
	assert.True(t, r.Allow("10.0.0.2"))
}

func TestRegistry_IdleClientsExpire(t *testing.T) {
	r := New(1, 1, 50*time.Millisecond, 10)
	defer r.Close()

	r.Allow("10.0.0.1")
	assert.Equal(t, 1, r.Size())

	assert.Eventually(t, func() bool { return r.Size() == 0 }, time.Second, 10*time.Millisecond)
}

func TestRegistry_MaxSize(t *testing.T) {
	maxSize := 3
	r := New(10, 10, time.Minute, maxSize)
	defer r.Close()

	for i := 0; i < maxSize+2; i++ {
		r.Allow(fmt.Sprintf("10.0.0.%d", i))
	}

	assert.Equal(t, maxSize, r.Size())
}

func TestRegistry_Middleware(t *testing.T) {
	r := New(1, 1, time.Minute, 10)
	defer r.Close()

	handler := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/filemanager", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req.RemoteAddr = "192.0.2.1:5678"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "same host on another port shares the bucket")
}
