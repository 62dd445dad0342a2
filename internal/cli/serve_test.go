package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-studyguide/internal/config"
	"github.com/alnah/go-studyguide/internal/generate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serveEnv returns a mocked Env whose config enables CORS for a frontend.
func serveEnv(opts ...testEnvOption) (*Env, *syncBuffer, *testMocks) {
	env, _, stderr, mocks := testEnv(opts...)
	mocks.configLoader.LoadFunc = func() (config.Config, error) {
		return config.Config{LogMode: "silent", FrontendURL: "http://localhost:5173"}, nil
	}
	return env, stderr, mocks
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	env, stderr, mocks := serveEnv()
	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	if err := runServe(testCmd(ctx), env, "127.0.0.1:0", ""); err != nil {
		t.Fatalf("runServe() unexpected error: %v", err)
	}
	if !strings.Contains(stderr.String(), "Listening on 127.0.0.1:0") {
		t.Errorf("stderr = %q, want listening notice", stderr.String())
	}
	if strings.Contains(stderr.String(), "Warning") {
		t.Errorf("stderr = %q, want no warning with both keys set", stderr.String())
	}
	if !mocks.providers.fallback.Closed() {
		t.Error("fallback client should be closed after shutdown")
	}
}

func TestRunServe_StartsWithoutCredentials(t *testing.T) {
	t.Parallel()

	env, stderr, mocks := serveEnv(withTestGetenv(staticEnv(nil)))
	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	if err := runServe(testCmd(ctx), env, "127.0.0.1:0", ""); err != nil {
		t.Fatalf("runServe() unexpected error: %v", err)
	}
	if !strings.Contains(stderr.String(), generate.EnvGroqAPIKey) {
		t.Errorf("stderr = %q, want missing-credentials warning", stderr.String())
	}
	if mocks.providers.primary.configured || mocks.providers.fallback.configured {
		t.Error("providers should be unconfigured without keys")
	}
}

func TestRunServe_ListenError(t *testing.T) {
	t.Parallel()

	env, _, _ := serveEnv()

	err := runServe(testCmd(t.Context()), env, "127.0.0.1:-1", "")
	if err == nil || !strings.Contains(err.Error(), "listen") {
		t.Errorf("runServe() error = %v, want listen failure", err)
	}
}

func TestServeCmd_RejectsBadLanguage(t *testing.T) {
	t.Parallel()

	env, _, _ := serveEnv()
	cmd := ServeCmd(env)
	cmd.SetArgs([]string{"--lang", "klingon"})
	cmd.SetOut(&syncBuffer{})
	cmd.SetErr(&syncBuffer{})

	if err := cmd.ExecuteContext(t.Context()); err == nil {
		t.Error("serve --lang klingon expected error, got nil")
	}
}
