package submit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formkit/pkg/submit"
)

func payloadWith(t *testing.T, name, value string) *submit.Payload {
	t.Helper()
	p := submit.NewPayload()
	p.Set(name, value)
	return p
}

func TestClientPostsJSONTree(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	res, err := submit.NewClient().Do(context.Background(), submit.Request{
		URL:     srv.URL,
		Payload: payloadWith(t, "address[city]", "Berlin"),
	})
	require.NoError(t, err)
	require.Equal(t, submit.ResultEnvelope, res.Kind)
	require.NotNil(t, res.Envelope)

	address := received["address"].(map[string]any)
	require.Equal(t, "Berlin", address["city"])
}

func TestClientSwitchesToMultipartWithFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "report", r.FormValue("title"))
		_, header, err := r.FormFile("attachment")
		require.NoError(t, err)
		require.Equal(t, "report.pdf", header.Filename)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := payloadWith(t, "title", "report")
	p.AddFile(submit.FilePart{Field: "attachment", Name: "report.pdf", Content: []byte("%PDF")})

	res, err := submit.NewClient().Do(context.Background(), submit.Request{URL: srv.URL, Payload: p})
	require.NoError(t, err)
	require.Equal(t, submit.ResultEnvelope, res.Kind)
}

func TestClientInterpretsRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/records/42", http.StatusSeeOther)
	}))
	defer srv.Close()

	res, err := submit.NewClient().Do(context.Background(), submit.Request{
		URL:     srv.URL,
		Payload: payloadWith(t, "name", "Ada"),
	})
	require.NoError(t, err)
	require.Equal(t, submit.ResultRedirect, res.Kind)
	require.Equal(t, "/records/42", res.Location)
}

func TestClientInterpretsDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
		_, _ = w.Write([]byte("a,b\n"))
	}))
	defer srv.Close()

	res, err := submit.NewClient().Do(context.Background(), submit.Request{
		URL:     srv.URL,
		Payload: submit.NewPayload(),
	})
	require.NoError(t, err)
	require.Equal(t, submit.ResultDownload, res.Kind)
	require.Equal(t, "export.csv", res.Filename)
}

func TestClientSurfacesRawError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	res, err := submit.NewClient().Do(context.Background(), submit.Request{
		URL:     srv.URL,
		Payload: submit.NewPayload(),
	})
	require.NoError(t, err)
	require.Equal(t, submit.ResultError, res.Kind)
	require.Equal(t, http.StatusBadGateway, res.Status)
	require.Equal(t, "boom", res.Body)
}

func TestClientTreatsHTMLBodyAsFragment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<section>done</section>"))
	}))
	defer srv.Close()

	res, err := submit.NewClient().Do(context.Background(), submit.Request{
		URL:     srv.URL,
		Payload: submit.NewPayload(),
	})
	require.NoError(t, err)
	require.Equal(t, submit.ResultFragment, res.Kind)
	require.Equal(t, "<section>done</section>", res.Fragment)
}

func TestClientRejectsBadRequests(t *testing.T) {
	c := submit.NewClient()
	_, err := c.Do(context.Background(), submit.Request{Payload: submit.NewPayload()})
	require.Error(t, err)

	_, err = c.Do(context.Background(), submit.Request{URL: "http://localhost:0", Method: "DELETE", Payload: submit.NewPayload()})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unsupported method "DELETE"`)
}
