package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		DebugLevel: zapcore.DebugLevel,
		"verbose":  defaultZapLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGetIsSingleton(t *testing.T) {
	a := Get(InfoLevel, FormatJSON)
	b := Get(DebugLevel, FormatConsole)
	if a != b {
		t.Fatalf("expected the same logger instance")
	}
	if a.SugaredLogger == nil {
		t.Fatalf("expected initialized sugared logger")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Infow("ignored", "k", "v")
	if l == Get(InfoLevel, FormatConsole) {
		t.Fatalf("nop logger must not be the singleton")
	}
}
