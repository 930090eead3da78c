package webfetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedboat/jsrt/fetch"
)

// syncLoop runs callbacks inline, on the calling goroutine. The real
// eventloop.EventLoop instead hands them to the runtime's owning
// goroutine; a test only needs the thread-safety contract to be honored
// in spirit, not literally, since goja.New() here is single-threaded.
type syncLoop struct {
	rt *goja.Runtime
}

func (s *syncLoop) RunOnLoop(fn func(*goja.Runtime)) {
	fn(s.rt)
}

func TestHeadersGetSetHas(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	require.NoError(t, rt.GlobalObject().Set("Headers", rt.ToValue(headersConstructor(rt))))

	v, err := rt.RunString(`
		var h = new Headers({"Content-Type": "text/plain"});
		h.set("X-Custom", "1");
		[h.get("content-type"), h.has("x-custom"), h.get("missing")];
	`)
	require.NoError(t, err)
	arr := v.Export().([]interface{})
	assert.Equal(t, "text/plain", arr[0])
	assert.Equal(t, true, arr[1])
	assert.Nil(t, arr[2])
}

func TestFetchResolvesResponse(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("hi there"))
	}))
	defer srv.Close()

	rt := goja.New()
	loop := &syncLoop{rt: rt}
	f := New(fetch.NewCore(), loop)
	require.NoError(t, f.Install(rt))

	script := `
		var statusSeen, bodySeen;
		fetch("` + srv.URL + `").then(function(resp) {
			statusSeen = resp.status;
			return resp.text();
		}).then(function(body) {
			bodySeen = body;
		});
	`
	_, err := rt.RunString(script)
	require.NoError(t, err)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		v, _ := rt.RunString("typeof bodySeen !== 'undefined'")
		if v.ToBoolean() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	v, err := rt.RunString("[statusSeen, bodySeen]")
	require.NoError(t, err)
	arr := v.Export().([]interface{})
	assert.EqualValues(t, 200, arr[0])
	assert.Equal(t, "hi there", arr[1])
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	loop := &syncLoop{rt: rt}
	f := New(fetch.NewCore(), loop)
	require.NoError(t, f.Install(rt))

	_, err := rt.RunString(`
		var caught = false;
		fetch("not a url").catch(function() { caught = true; });
	`)
	require.NoError(t, err)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		v, _ := rt.RunString("caught")
		if v.ToBoolean() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	v, err := rt.RunString("caught")
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())
}
