package seeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kevFeedBody = `{
  "count": 2,
  "vulnerabilities": [
    {
      "cveID": "CVE-2024-0001",
      "vendorProject": "VendorA",
      "product": "GatewayOne",
      "vulnerabilityName": "GatewayOne RCE",
      "dateAdded": "2024-05-01",
      "shortDescription": "Remote code execution in the admin portal.",
      "requiredAction": "Apply vendor patch."
    },
    {
      "cveID": "CVE-2024-0002",
      "vendorProject": "VendorB",
      "product": "MailRelay",
      "vulnerabilityName": "MailRelay auth bypass",
      "dateAdded": "2024-06-15",
      "shortDescription": "Authentication bypass.",
      "requiredAction": "Upgrade to 3.2."
    }
  ]
}`

func TestRandomVulnerability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(kevFeedBody))
	}))
	defer srv.Close()

	client := NewKEVClient(srv.URL, 0)
	seed, err := client.RandomVulnerability(context.Background())
	require.NoError(t, err)

	assert.Contains(t, []string{"CVE-2024-0001", "CVE-2024-0002"}, seed.CVEID)
	assert.NotEmpty(t, seed.VendorProject)
	assert.NotEmpty(t, seed.ShortDescription)
}

func TestRandomVulnerabilityFallsBackToLongDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"vulnerabilities":[{"cveID":"CVE-2024-0003","description":"Only the long field."}]}`))
	}))
	defer srv.Close()

	client := NewKEVClient(srv.URL, 0)
	seed, err := client.RandomVulnerability(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Only the long field.", seed.ShortDescription)
}

func TestRandomVulnerabilityErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "empty vulnerability list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"count":0,"vulnerabilities":[]}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>maintenance</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewKEVClient(srv.URL, 0)
			_, err := client.RandomVulnerability(context.Background())
			require.Error(t, err)
		})
	}
}

func TestRandomVulnerabilityTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(kevFeedBody))
	}))
	defer srv.Close()

	client := NewKEVClient(srv.URL, 20*time.Millisecond)
	_, err := client.RandomVulnerability(context.Background())
	require.Error(t, err)
}
