package observe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("d", nil)
	l.Info("i", Fields{"k": "v"})
	l.Warn("w", nil)
	l.Error("e", nil)
}

func TestLogrusLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	backend := logrus.New()
	backend.SetOutput(&buf)
	backend.SetLevel(logrus.DebugLevel)
	backend.SetFormatter(&logrus.JSONFormatter{})

	l := NewLogrusLogger(backend)
	l.Info("fleet check complete", Fields{"healthy": 3, "total": 5})

	out := buf.String()
	if !strings.Contains(out, "fleet check complete") {
		t.Errorf("log output missing message: %s", out)
	}
	if !strings.Contains(out, `"healthy":3`) || !strings.Contains(out, `"total":5`) {
		t.Errorf("log output missing fields: %s", out)
	}
}

func TestLogrusLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	backend := logrus.New()
	backend.SetOutput(&buf)
	backend.SetLevel(logrus.WarnLevel)

	l := NewLogrusLogger(backend)
	l.Debug("hidden", nil)
	l.Info("hidden too", nil)
	l.Warn("visible", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-threshold lines leaked: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestNewLogrusLogger_NilUsesStandard(t *testing.T) {
	if NewLogrusLogger(nil) == nil {
		t.Fatal("nil backend should fall back to the standard logger")
	}
}
