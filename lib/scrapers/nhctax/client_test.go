package nhctax

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nhctax-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// portalFixture simulates the ASP.NET search endpoint: GET serves the
// form page, POST serves whatever the test queues up.
type portalFixture struct {
	gets  int64
	posts int64

	postHandler func(n int64, w http.ResponseWriter, r *http.Request)
}

func (f *portalFixture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		atomic.AddInt64(&f.gets, 1)
		w.Write([]byte(formPage))
		return
	}
	n := atomic.AddInt64(&f.posts, 1)
	f.postHandler(n, w, r)
}

func newTestClient(t *testing.T, fixture *portalFixture) *Client {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/nhctax")
	t.Cleanup(cleanup)

	server := httptest.NewServer(fixture)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseUrl:        server.URL,
		RequestTimeout: 5 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Millisecond,
		RetryBackoff:   2.0,
		MaxResults:     500,
	})
	require.NoError(t, err)
	return client
}

func TestClientSearch(t *testing.T) {
	fixture := &portalFixture{
		postHandler: func(n int64, w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "vs-123", r.PostForm.Get("__VIEWSTATE"))
			require.Equal(t, "ev-456", r.PostForm.Get("__EVENTVALIDATION"))
			require.Equal(t, "owner", r.URL.Query().Get("mode"))
			if n == 1 {
				require.Equal(t, "SMITH", r.PostForm.Get("ctl00$cphPage$txtOwner"))
			}
			w.Write([]byte(resultsPageTwoRows))
		},
	}
	client := newTestClient(t, fixture)

	records, truncated, err := client.Search(context.Background(), ModeOwner, "SMITH")
	require.NoError(t, err)
	require.False(t, truncated)
	require.Len(t, records, 2)
	require.Equal(t, "R01234-567", records[0].ParcelID)

	// token primed once, reused on the second search
	_, _, err = client.Search(context.Background(), ModeOwner, "JONES")
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&fixture.gets))
	require.Equal(t, int64(2), atomic.LoadInt64(&fixture.posts))
}

func TestClientSearchZeroRows(t *testing.T) {
	fixture := &portalFixture{
		postHandler: func(_ int64, w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(noResultsPage))
		},
	}
	client := newTestClient(t, fixture)

	records, truncated, err := client.Search(context.Background(), ModeParcel, "999999")
	require.NoError(t, err)
	require.False(t, truncated)
	require.Empty(t, records)
}

func TestClientSearchTokenRejection(t *testing.T) {
	fixture := &portalFixture{
		postHandler: func(n int64, w http.ResponseWriter, r *http.Request) {
			if n == 1 {
				w.Write([]byte(sessionExpiredPage))
				return
			}
			w.Write([]byte(resultsPageTwoRows))
		},
	}
	client := newTestClient(t, fixture)

	records, _, err := client.Search(context.Background(), ModeOwner, "SMITH")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// exactly one forced refresh: initial prime plus one re-prime
	require.Equal(t, int64(2), atomic.LoadInt64(&fixture.gets))
	require.Equal(t, int64(2), atomic.LoadInt64(&fixture.posts))
}

func TestClientSearchUpstreamDown(t *testing.T) {
	fixture := &portalFixture{
		postHandler: func(_ int64, w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	}
	client := newTestClient(t, fixture)

	_, _, err := client.Search(context.Background(), ModeOwner, "SMITH")
	var upstream *UpstreamUnavailableError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, 3, upstream.Attempts)
	require.Equal(t, int64(3), atomic.LoadInt64(&fixture.posts))
}

func TestClientSearchMaintenancePage(t *testing.T) {
	fixture := &portalFixture{
		postHandler: func(_ int64, w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(maintenancePage))
		},
	}
	client := newTestClient(t, fixture)

	_, _, err := client.Search(context.Background(), ModeOwner, "SMITH")
	require.ErrorIs(t, err, ErrExtractionFailed)
	// layout failures are not retried
	require.Equal(t, int64(1), atomic.LoadInt64(&fixture.posts))
}

func TestClientSearchInputValidation(t *testing.T) {
	fixture := &portalFixture{
		postHandler: func(_ int64, w http.ResponseWriter, r *http.Request) {
			t.Error("no network call expected")
		},
	}
	client := newTestClient(t, fixture)

	_, _, err := client.Search(context.Background(), ModeOwner, "   ")
	require.ErrorIs(t, err, ErrInputValidation)

	_, _, err = client.Search(context.Background(), SearchMode("bogus"), "SMITH")
	require.ErrorIs(t, err, ErrInputValidation)

	require.Equal(t, int64(0), atomic.LoadInt64(&fixture.gets))
}

func TestClientFetchDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pt/datalets/datalet.aspx", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailPage))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseUrl:       server.URL,
		RetryAttempts: 1,
	})
	require.NoError(t, err)

	attributes, err := client.FetchDetail(context.Background(), server.URL+"/pt/datalets/datalet.aspx?parid=R01234")
	require.NoError(t, err)
	require.Equal(t, "SMITH JOHN", attributes["owner_name"])
}

func TestClientProbeStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statusOkPage))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	status, err := client.ProbeStatus(context.Background())
	require.NoError(t, err)
	require.True(t, status.Available)
	require.Equal(t, 200, status.StatusCode)
	require.False(t, status.MaintenanceMode)
	require.Greater(t, status.ResponseTime, time.Duration(0))
}
