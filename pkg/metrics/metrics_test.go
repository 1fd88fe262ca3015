package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestFromContext_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	// Recording without an application is a no-op
	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
}

func TestInjectApplication_NilApp(t *testing.T) {
	var called bool
	handler := InjectApplication(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, FromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestTraceMethodCall_NoTransaction(t *testing.T) {
	tracer := TraceMethodCall(context.Background(), "metrics", "Test")
	assert.Nil(t, tracer)

	// A nil tracer is safe to use
	tracer.AddAttribute("key", "value")
	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("failure"))
	tracer.End()
}

func TestFormatLogMessage(t *testing.T) {
	logger := logrus.New()

	entry := logrus.NewEntry(logger)
	entry.Message = "plain"
	assert.Equal(t, "plain", formatLogMessage(entry))

	entry = logger.WithFields(logrus.Fields{
		"method":        "stake",
		logrus.ErrorKey: errors.New("rpc unavailable"),
	})
	entry.Message = "failure building action"
	assert.Equal(t, `message="failure building action", error="rpc unavailable", data={"method":"stake"}`, formatLogMessage(entry))

	entry = logger.WithField("type", "actions/service")
	entry.Message = "done"
	assert.Equal(t, `message="done", error=<nil>, data={"type":"actions/service"}`, formatLogMessage(entry))
}
