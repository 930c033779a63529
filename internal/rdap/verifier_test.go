package rdap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainscout-dev/domainscout/internal/check"
)

// rdapServer fakes a registry RDAP endpoint with scripted per-domain
// responses.
func rdapServer(t *testing.T, responses map[string]func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		domain := strings.TrimPrefix(r.URL.Path, "/domain/")
		respond, ok := responses[domain]
		if !ok {
			t.Errorf("unexpected RDAP query for %q", domain)
			w.WriteHeader(http.StatusTeapot)
			return
		}
		respond(w)
	}))
}

func ok(body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(body))
	}
}

func notFound() func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusNotFound)
	}
}

func directoryFor(srv *httptest.Server, tlds ...string) Directory {
	dir := make(Directory)
	for _, tld := range tlds {
		dir[tld] = srv.URL + "/"
	}
	return dir
}

func TestVerifyClassifications(t *testing.T) {
	srv := rdapServer(t, map[string]func(w http.ResponseWriter){
		"taken.io":    ok(`{"status": ["active"]}`),
		"locked.io":   ok(`{"status": ["client delete prohibited", "client transfer prohibited"]}`),
		"held.io":     ok(`{"status": ["server reserved"]}`),
		"bare.io":     ok(`{}`),
		"emptyst.io":  ok(`{"status": []}`),
		"free.io":     notFound(),
		"broken.io":   ok(`not json at all`),
		"flaky.io":    func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) },
	})
	defer srv.Close()

	domains := []string{"taken.io", "locked.io", "held.io", "bare.io", "emptyst.io", "free.io", "broken.io", "flaky.io"}
	input := make([]check.Result, 0, len(domains))
	for _, d := range domains {
		input = append(input, check.Result{Domain: d, Status: check.StatusPossiblyAvailable})
	}

	out, err := Verify(context.Background(), input, Options{
		Directory: directoryFor(srv, "io"),
	})
	require.NoError(t, err)
	require.Len(t, out, len(input))

	byDomain := make(map[string]check.Status)
	for _, r := range out {
		byDomain[r.Domain] = r.Status
	}

	assert.Equal(t, check.StatusRegistered, byDomain["taken.io"])
	assert.Equal(t, check.StatusRegistered, byDomain["locked.io"])
	// Reserved collapses to registered at the result level.
	assert.Equal(t, check.StatusRegistered, byDomain["held.io"])
	// A 200 is evidence of existence even without a status array.
	assert.Equal(t, check.StatusRegistered, byDomain["bare.io"])
	assert.Equal(t, check.StatusRegistered, byDomain["emptyst.io"])
	assert.Equal(t, check.StatusPossiblyAvailable, byDomain["free.io"])
	assert.Equal(t, check.StatusUnknown, byDomain["broken.io"])
	assert.Equal(t, check.StatusUnknown, byDomain["flaky.io"])
}

func TestVerifyConnectionFailureYieldsUnknown(t *testing.T) {
	out, err := Verify(context.Background(), []check.Result{
		{Domain: "gone.io", Status: check.StatusPossiblyAvailable},
	}, Options{
		Directory: Directory{"io": "http://127.0.0.1:1/"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, check.StatusUnknown, out[0].Status)
}

func TestVerifyIdentityWithoutPossiblyAvailable(t *testing.T) {
	input := []check.Result{
		{Domain: "a.com", Status: check.StatusRegistered},
		{Domain: "b.com", Status: check.StatusUnknown},
	}

	out, err := Verify(context.Background(), input, Options{
		LoadDirectory: func(context.Context) (Directory, error) {
			t.Fatal("bootstrap must not be loaded when nothing is possibly available")
			return nil, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestVerifyNoAuthorityPassthrough(t *testing.T) {
	out, err := Verify(context.Background(), []check.Result{
		{Domain: "weird.zz", Status: check.StatusPossiblyAvailable},
	}, Options{
		Directory: Directory{"io": "https://rdap.nic.io/"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, check.StatusPossiblyAvailable, out[0].Status)
}

func TestVerifyBootstrapFailurePropagates(t *testing.T) {
	_, err := Verify(context.Background(), []check.Result{
		{Domain: "any.io", Status: check.StatusPossiblyAvailable},
	}, Options{
		LoadDirectory: func(context.Context) (Directory, error) {
			return nil, fmt.Errorf("fetch rdap bootstrap: boom")
		},
	})
	assert.Error(t, err)
}

func TestVerifyPreservesCardinalityAcrossPartitions(t *testing.T) {
	srv := rdapServer(t, map[string]func(w http.ResponseWriter){
		"free.io":  notFound(),
		"taken.io": ok(`{"status": ["active"]}`),
	})
	defer srv.Close()

	input := []check.Result{
		{Domain: "reg.com", Status: check.StatusRegistered},
		{Domain: "odd.com", Status: check.StatusUnknown},
		{Domain: "orphan.zz", Status: check.StatusPossiblyAvailable},
		{Domain: "free.io", Status: check.StatusPossiblyAvailable},
		{Domain: "taken.io", Status: check.StatusPossiblyAvailable},
	}

	out, err := Verify(context.Background(), input, Options{
		Directory: directoryFor(srv, "io"),
	})
	require.NoError(t, err)
	require.Len(t, out, len(input))

	seen := make(map[string]check.Status)
	for _, r := range out {
		_, dup := seen[r.Domain]
		require.False(t, dup, "duplicate result for %s", r.Domain)
		seen[r.Domain] = r.Status
	}
	assert.Equal(t, check.StatusRegistered, seen["reg.com"])
	assert.Equal(t, check.StatusUnknown, seen["odd.com"])
	assert.Equal(t, check.StatusPossiblyAvailable, seen["orphan.zz"])
	assert.Equal(t, check.StatusPossiblyAvailable, seen["free.io"])
	assert.Equal(t, check.StatusRegistered, seen["taken.io"])
}

func TestVerifyCallbackFiresOnlyForQueriedDomains(t *testing.T) {
	srv := rdapServer(t, map[string]func(w http.ResponseWriter){
		"free.io": notFound(),
	})
	defer srv.Close()

	var outcomes []Outcome
	_, err := Verify(context.Background(), []check.Result{
		{Domain: "reg.com", Status: check.StatusRegistered},
		{Domain: "orphan.zz", Status: check.StatusPossiblyAvailable},
		{Domain: "free.io", Status: check.StatusPossiblyAvailable},
	}, Options{
		Directory: directoryFor(srv, "io"),
		OnOutcome: func(o Outcome) { outcomes = append(outcomes, o) },
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 1)
	assert.Equal(t, "free.io", outcomes[0].Domain)
	assert.Equal(t, ClassAvailable, outcomes[0].Classification)
	assert.Equal(t, check.StatusPossiblyAvailable, outcomes[0].Status)
}

func TestVerifyCancelledContextSkipsCallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := []check.Result{
		{Domain: "a.io", Status: check.StatusPossiblyAvailable},
		{Domain: "b.io", Status: check.StatusPossiblyAvailable},
	}

	out, err := Verify(ctx, input, Options{
		Directory: Directory{"io": "https://rdap.nic.io/"},
		OnOutcome: func(o Outcome) {
			t.Errorf("callback fired for %s, which was never queried", o.Domain)
		},
	})
	require.NoError(t, err)

	// Cardinality holds and the unqueried domains come back unknown.
	require.Len(t, out, len(input))
	for _, r := range out {
		assert.Equal(t, check.StatusUnknown, r.Status)
	}
}
