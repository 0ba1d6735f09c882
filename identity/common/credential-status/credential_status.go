// Package credentialstatus checks revocation against Bitstring Status List
// credentials published at statusListCredential URLs. Status lists embedded
// in a document's revocation service are handled by the identity connector
// directly; this client covers credentials whose status lives on a remote
// endpoint.
package credentialstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-identity-sdk/identity/common/util"
)

// Client fetches status list credentials over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a status list client with an instrumented transport and
// a sensible default timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// FetchStatusListCredential fetches and parses the status list credential at
// the given URL.
func (c *Client) FetchStatusListCredential(ctx context.Context, url string) (*StatusListCredential, error) {
	if url == "" {
		return nil, fmt.Errorf("statusListCredential URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call status list credential endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status list credential endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status list credential response: %w", err)
	}

	var credential StatusListCredential
	if err := json.Unmarshal(body, &credential); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status list credential JSON: %w", err)
	}

	return &credential, nil
}

// FetchStatusListCredentials fetches several status lists concurrently,
// preserving input order. Any single failure fails the batch.
func (c *Client) FetchStatusListCredentials(ctx context.Context, urls []string) ([]*StatusListCredential, error) {
	results := make([]*StatusListCredential, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			credential, err := c.FetchStatusListCredential(ctx, url)
			if err != nil {
				return err
			}
			results[i] = credential
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckRevocation fetches the status list at the given URL and reports
// whether the credential at position is revoked.
func (c *Client) CheckRevocation(ctx context.Context, url string, position int) (bool, error) {
	credential, err := c.FetchStatusListCredential(ctx, url)
	if err != nil {
		return false, err
	}
	return IsRevoked(position, credential.CredentialSubject)
}

// IsRevoked checks a position against the subject's encoded bitstring.
// Non-revocation status purposes report not revoked.
func IsRevoked(position int, subject StatusListCredentialSubject) (bool, error) {
	if subject.StatusPurpose != "revocation" {
		return false, nil
	}
	if position < 0 {
		return false, fmt.Errorf("status position %d must be non-negative", position)
	}

	bits, err := util.DecompressFromBase64URL(subject.EncodedList)
	if err != nil {
		return false, fmt.Errorf("failed to decode encoded list: %w", err)
	}

	byteIndex := position / 8
	if byteIndex >= len(bits) {
		return false, fmt.Errorf("status position %d exceeds list of %d bits", position, len(bits)*8)
	}

	return (bits[byteIndex]>>(position%8))&1 == 1, nil
}
