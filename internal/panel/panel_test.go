package panel

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wingman/internal/coordinator"
	"wingman/internal/events"
)

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", nil)
	assert.Error(t, err)
	_, err = New("://", nil)
	assert.Error(t, err)
}

func TestStateWithoutRuntime(t *testing.T) {
	p, err := New("http://localhost:3000", nil)
	require.NoError(t, err)

	assert.False(t, p.IsVisible())
	assert.False(t, p.IsPinned())
	assert.Equal(t, coordinator.Degraded, p.AppMode())
	assert.NoError(t, p.CreateWindow())

	p.Show()
	p.SetPinned(true)
	p.SetAppMode(coordinator.Online)
	assert.True(t, p.IsVisible())
	assert.True(t, p.IsPinned())
	assert.Equal(t, coordinator.Online, p.AppMode())

	assert.True(t, p.OnBeforeClose(context.Background()))
	assert.False(t, p.IsVisible())
}

func TestSetAppMode_EmitsModeEvent(t *testing.T) {
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	var got []events.PanelEvent
	events.SetCustomEmitter(func(_ context.Context, name string, evt events.PanelEvent) {
		if name == events.ModeChanged {
			got = append(got, evt)
		}
	})

	p, err := New("http://localhost:3000", nil)
	require.NoError(t, err)
	p.SetAppMode(coordinator.Online)
	p.SetAppMode(coordinator.Degraded)

	require.Len(t, got, 2)
	assert.Equal(t, "online", got[0].Mode)
	assert.Equal(t, "degraded", got[1].Mode)
	assert.Equal(t, events.EventWarn, got[1].Type)
}

func TestShow_WakesOnlyWhenRevealed(t *testing.T) {
	p, err := New("http://localhost:3000", nil)
	require.NoError(t, err)

	p.Show()
	select {
	case <-p.Wakes():
	default:
		t.Fatal("showing a hidden panel should queue a wake")
	}

	p.Show()
	select {
	case <-p.Wakes():
		t.Fatal("showing a visible panel should not queue a wake")
	default:
	}

	p.Hide()
	p.Show()
	assert.Len(t, p.Wakes(), 1)
}

func TestRequestWake_Coalesces(t *testing.T) {
	p, err := New("http://localhost:3000", nil)
	require.NoError(t, err)

	p.RequestWake()
	p.RequestWake()
	<-p.Wakes()
	select {
	case <-p.Wakes():
		t.Fatal("second wake should have been coalesced")
	default:
	}
}

func TestHandler_DegradedServesOfflinePage(t *testing.T) {
	p, err := New("http://localhost:3000", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wingman is offline")
	assert.Contains(t, rec.Header().Get("content-type"), "text/html")
}

func TestHandler_OnlineProxiesToWebApp(t *testing.T) {
	web := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "web:"+r.URL.Path)
	}))
	defer web.Close()

	p, err := New(web.URL, nil)
	require.NoError(t, err)
	p.SetAppMode(coordinator.Online)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "web:/settings", rec.Body.String())
}

func TestHandler_ProxyFailureServesOfflinePage(t *testing.T) {
	web := httptest.NewServer(http.NotFoundHandler())
	deadURL := web.URL
	web.Close()

	p, err := New(deadURL, nil)
	require.NoError(t, err)
	p.SetAppMode(coordinator.Online)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wingman is offline")
}

func TestSetBaseURL(t *testing.T) {
	p, err := New("http://localhost:3000", nil)
	require.NoError(t, err)

	p.SetBaseURL("https://wingman.example.com")
	assert.Equal(t, "https://wingman.example.com", p.BaseURL())

	p.SetBaseURL("not a url")
	assert.Equal(t, "https://wingman.example.com", p.BaseURL())
}
