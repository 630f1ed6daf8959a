package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(operationsTotal.WithLabelValues("mkdir", "error"))
	RecordOperation("mkdir", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(operationsTotal.WithLabelValues("mkdir", "error")))

	before = testutil.ToFloat64(operationsTotal.WithLabelValues("mkdir", "ok"))
	RecordOperation("mkdir", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(operationsTotal.WithLabelValues("mkdir", "ok")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordHTTPRequest("GET", "/filemanager", http.StatusOK, 5*time.Millisecond)
	RecordUpload(2, 128)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "filedeck_http_requests_total")
	assert.Contains(t, w.Body.String(), "filedeck_uploaded_bytes_total")
}
