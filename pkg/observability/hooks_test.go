package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnEvent("drag_move", time.Millisecond, nil)
	e.OnLayout(12, 3, time.Millisecond)

	a := NoopAPIHooks{}
	a.OnRequest(ctx, "POST", "/save-structure/")
	a.OnResponse(ctx, "POST", "/save-structure/", 200, time.Second)
	a.OnError(ctx, "GET", "/validate-structure/42/", nil)

	d := NoopDraftHooks{}
	d.OnDraftLoad(ctx, "file", false)
	d.OnDraftSave(ctx, "redis", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Error("API() should return NoopAPIHooks by default")
	}
	if _, ok := Drafts().(NoopDraftHooks); !ok {
		t.Error("Drafts() should return NoopDraftHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customAPI := &testAPIHooks{}
	SetAPIHooks(customAPI)
	if API() != customAPI {
		t.Error("SetAPIHooks should set custom hooks")
	}

	customDrafts := &testDraftHooks{}
	SetDraftHooks(customDrafts)
	if Drafts() != customDrafts {
		t.Error("SetDraftHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	NewLogHooks(logger).Register()

	Engine().OnEvent("delete", 0, errors.New("nothing selected"))
	API().OnResponse(context.Background(), "POST", "/save-structure/", 200, 0)
	Drafts().OnDraftSave(context.Background(), "file", 42)

	out := buf.String()
	for _, want := range []string{"event rejected", "nothing selected", "api response", "draft save"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testEngineHooks struct{ NoopEngineHooks }
type testAPIHooks struct{ NoopAPIHooks }
type testDraftHooks struct{ NoopDraftHooks }
