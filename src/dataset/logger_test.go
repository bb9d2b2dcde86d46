package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger.Out
	savedLevel := baseLogger.GetLevel()
	baseLogger.SetOutput(&buf)
	t.Cleanup(func() {
		baseLogger.SetOutput(saved)
		baseLogger.SetLevel(savedLevel)
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "[Afghanistan 2015] hiv_aids=0.1 (100.0% of rows coerced) life_expectancy=65.0"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% of rows coerced)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!f(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestSetLogLevel_FiltersBelowThreshold(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("warning")
	if GetLogLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %v", GetLogLevel())
	}
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestSetLogLevel_IgnoresUnknown(t *testing.T) {
	captureLogs(t)
	SetLogLevel("debug")
	SetLogLevel("chatty")
	if GetLogLevel() != logrus.DebugLevel {
		t.Fatalf("unknown level must not change the current one, got %v", GetLogLevel())
	}
}
