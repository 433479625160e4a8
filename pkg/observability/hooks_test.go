package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopCheckHooks{}
	c.OnCheckStart(ctx, "requirements.txt")
	c.OnLicenseResolved(ctx, "python", "flask", "BSD-3-Clause", time.Second, nil)
	c.OnCheckComplete(ctx, "requirements.txt", 3, time.Second, nil)

	cc := NoopCacheHooks{}
	cc.OnCacheHit(ctx, "pypi")
	cc.OnCacheMiss(ctx, "npm")
	cc.OnCacheSet(ctx, "pypi", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "pypi.org", "/pypi/flask/json")
	h.OnResponse(ctx, "GET", "pypi.org", "/pypi/flask/json", 200, time.Second)
	h.OnError(ctx, "GET", "pypi.org", "/pypi/flask/json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Check().(NoopCheckHooks); !ok {
		t.Error("Check() should return NoopCheckHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customCheck := &testCheckHooks{}
	SetCheckHooks(customCheck)
	if Check() != customCheck {
		t.Error("SetCheckHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Check().(NoopCheckHooks); !ok {
		t.Error("Reset() should restore NoopCheckHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testCheckHooks{}
	SetCheckHooks(custom)

	SetCheckHooks(nil)

	if Check() != custom {
		t.Error("SetCheckHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testCheckHooks struct{ NoopCheckHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
