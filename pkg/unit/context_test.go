package unit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	now := time.Now()
	ctx := WithRequestID(context.Background(), "req_1")
	ctx = WithTraceID(ctx, "trc_1")
	ctx = WithStartTime(ctx, now)

	assert.Equal(t, "req_1", GetRequestID(ctx))
	assert.Equal(t, "trc_1", GetTraceID(ctx))
	assert.True(t, now.Equal(GetStartTime(ctx)))
}

func TestContextValues_Missing(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTraceID(ctx))
	assert.True(t, GetStartTime(ctx).IsZero())
}

func TestGenerateIDs(t *testing.T) {
	rid := GenerateRequestID()
	tid := GenerateTraceID()

	assert.True(t, strings.HasPrefix(rid, "req_"))
	assert.True(t, strings.HasPrefix(tid, "trc_"))
	assert.NotEqual(t, rid, GenerateRequestID())
}
