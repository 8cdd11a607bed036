// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer

	Setup(&buf, false)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	logrus.Debug("hidden")
	assert.Empty(t, buf.String())

	Setup(&buf, true)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	logrus.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestForCarriesQuery(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true)

	ctx := WithQuery(context.Background(), "TITLE(graphs)")
	For(ctx).Info("sending")
	assert.Contains(t, buf.String(), `query="TITLE(graphs)"`)

	buf.Reset()
	For(context.Background()).Info("plain")
	assert.NotContains(t, buf.String(), "query=")
}

func TestTrack(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true)

	done := Track(context.Background(), "scopus search")
	done()
	assert.Contains(t, buf.String(), "scopus search completed")
	assert.Contains(t, buf.String(), "duration=")
}
