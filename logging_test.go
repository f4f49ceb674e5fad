package particlefield

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingModule_SessionPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	app := NewApp().UseModules(LoggingModule{Prefix: "field", Out: &out, ErrOut: &errOut})

	session, ok := Resource[Session](app)
	require.True(t, ok)
	_, err := uuid.Parse(session.ID)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "[field "+session.ID[:8]+"] INFO: session "+session.ID)

	app.Logger().Warnf("resize %dx%d", 0, 0)
	assert.Contains(t, errOut.String(), "WARN: resize 0x0")
}

func TestDefaultLogger_DebugGate(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger(&out, &out, "", false)

	l.Debugf("hidden")
	assert.Empty(t, out.String())

	l.SetDebug(true)
	l.Debugf("shown %d", 1)
	assert.Contains(t, out.String(), "DEBUG: shown 1")
}
