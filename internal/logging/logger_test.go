package logging

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(l Logger) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l.out = log.New(&buf, "", 0)
	return l, &buf
}

func TestLogger_Fields(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc123")
	l, buf := capture(New(ctx))

	l.With("kit_id", "k-1", "dangling").Warn("describe kit", errors.New("boom"))
	assert.Equal(t, "[warn] request_id=abc123 kit_id=k-1 op=\"describe kit\" error=boom\n", buf.String())
}

func TestLogger_WithDoesNotMutate(t *testing.T) {
	base, buf := capture(New(context.Background()))
	_ = base.With("uid", "alice")

	base.Infof("sync", "n=%d", 2)
	assert.Equal(t, "[info] request_id=- op=\"sync\" n=2\n", buf.String())
}
