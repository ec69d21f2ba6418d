package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/sveduch/sveduch/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	std := log.New(&buf, "", 0)
	lgr := NewRollbarLogger(std, &core.Config{Env: "TEST", TestMode: true, Debug: false})

	lgr.Info("pupil archived", map[string]interface{}{"pupil": 7, "date": "20.06.2024"})
	lgr.Debug("hidden")
	lgr.Error("import failed", errors.New("boom"))

	assert.Equal(t,
		"[INFO] pupil archived date=20.06.2024 pupil=7\n[ERROR] import failed error=\"boom\"\n",
		buf.String())
}
