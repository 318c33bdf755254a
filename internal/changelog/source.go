package changelog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
)

// DefaultRemoteTimeout bounds a single remote changelog fetch.
const DefaultRemoteTimeout = 10 * time.Second

// DefaultFallbackPath is the local document used when the remote is unavailable.
const DefaultFallbackPath = "CHANGELOG.json"

// placeholderMarker identifies the template URL shipped in example configs.
const placeholderMarker = "your-username"

// ResponseShape selects how a remote response body is decoded.
type ResponseShape int

const (
	// RawDocument bodies are the document JSON itself.
	RawDocument ResponseShape = iota
	// EncodedEnvelope bodies are a contents-API envelope whose "content"
	// field holds the base64-encoded document JSON.
	EncodedEnvelope
)

// String returns the shape name for logging.
func (s ResponseShape) String() string {
	if s == EncodedEnvelope {
		return "encoded-envelope"
	}
	return "raw-document"
}

// Fetcher produces a changelog document.
type Fetcher interface {
	Fetch(ctx context.Context) (*Document, error)
}

// SourceConfig configures a Source.
type SourceConfig struct {
	// URL is the remote document location. Empty means local-only.
	URL string
	// Token authorizes GitHub requests. Optional.
	Token string
	// FallbackPath is the local file read when the remote is unavailable.
	FallbackPath string
	// Timeout bounds the remote fetch. Zero means DefaultRemoteTimeout.
	Timeout time.Duration
	// UserAgent is sent with remote requests. Optional.
	UserAgent string
}

// Endpoint is a remote location resolved once at construction time.
type Endpoint struct {
	URL           string
	Shape         ResponseShape
	Authorization string
}

var rawGitHubPattern = regexp.MustCompile(`raw\.githubusercontent\.com/([^/]+)/([^/]+)/(?:refs/heads/)?([^/?]+)/(.+?)(?:\?|$)`)

// ResolveEndpoint decides where and how to fetch the configured URL.
// Returns ok=false when no remote should be contacted at all.
//
// Private raw.githubusercontent.com URLs cannot be read with a token, so
// when a token is configured they are rewritten to the equivalent contents
// API URL, which responds with a base64 envelope.
func ResolveEndpoint(rawURL, token string) (Endpoint, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.Contains(rawURL, placeholderMarker) {
		return Endpoint{}, false
	}

	ep := Endpoint{URL: rawURL, Shape: RawDocument}

	switch {
	case token != "" && strings.Contains(rawURL, "raw.githubusercontent.com"):
		if m := rawGitHubPattern.FindStringSubmatch(rawURL); m != nil {
			user, repo, branch, file := m[1], m[2], m[3], m[4]
			ep.URL = fmt.Sprintf("https://api.github.com/repos/%s/%s/contents/%s?ref=%s", user, repo, file, branch)
			ep.Shape = EncodedEnvelope
			ep.Authorization = "token " + token
		}
	case strings.Contains(rawURL, "api.github.com"):
		ep.Shape = EncodedEnvelope
		if token != "" {
			ep.Authorization = "token " + token
		}
	}

	return ep, true
}

// Source retrieves the changelog from a remote location, falling back to
// a local file when the remote is skipped or fails for any reason.
type Source struct {
	endpoint     Endpoint
	remote       bool
	fallbackPath string
	client       *http.Client
	userAgent    string
}

// NewSource creates a Source, resolving the remote endpoint once.
func NewSource(cfg SourceConfig) *Source {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	fallback := cfg.FallbackPath
	if fallback == "" {
		fallback = DefaultFallbackPath
	}

	ep, remote := ResolveEndpoint(cfg.URL, cfg.Token)

	return &Source{
		endpoint:     ep,
		remote:       remote,
		fallbackPath: fallback,
		client:       &http.Client{Timeout: timeout},
		userAgent:    cfg.UserAgent,
	}
}

// Endpoint returns the resolved remote endpoint and whether it is used.
func (s *Source) Endpoint() (Endpoint, bool) {
	return s.endpoint, s.remote
}

// FallbackPath returns the local fallback file path.
func (s *Source) FallbackPath() string {
	return s.fallbackPath
}

// Fetch returns the changelog document. The remote is tried once, with no
// retry; on any failure the local fallback file is read. When both fail the
// error is an *errors.Error of category NotFound (no fallback file) or
// Retrieval (fallback file unreadable or malformed).
func (s *Source) Fetch(ctx context.Context) (*Document, error) {
	var remoteErr error

	if s.remote {
		doc, err := s.fetchRemote(ctx)
		if err == nil {
			log.Printf("[changelog] fetched %d entries from %s (%s)", len(doc.Entries), s.endpoint.URL, s.endpoint.Shape)
			return doc, nil
		}
		remoteErr = err
		log.Printf("[changelog] remote fetch failed, trying local file %s: %v", s.fallbackPath, err)
	}

	doc, err := s.loadFallback()
	if err == nil {
		return doc, nil
	}

	if remoteErr != nil {
		return nil, withRemoteCause(err, remoteErr)
	}
	return nil, err
}

// fetchRemote performs the single GET against the resolved endpoint.
func (s *Source) fetchRemote(ctx context.Context) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.endpoint.Authorization != "" {
		req.Header.Set("Authorization", s.endpoint.Authorization)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if sn := snippet(body); sn != "" {
			return nil, fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, sn)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if s.endpoint.Shape == EncodedEnvelope {
		return decodeEnvelope(body)
	}
	return Decode(body, FormatJSON)
}

// contentEnvelope is the subset of the GitHub contents API response we need.
type contentEnvelope struct {
	Content  *string `json:"content"`
	Encoding string  `json:"encoding"`
}

// decodeEnvelope unwraps a base64 contents-API envelope and parses the document.
func decodeEnvelope(body []byte) (*Document, error) {
	var env contentEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing content envelope: %w", err)
	}
	if env.Content == nil {
		return nil, errors.New("parsing content envelope: missing content field")
	}
	if env.Encoding != "" && env.Encoding != "base64" {
		return nil, fmt.Errorf("parsing content envelope: unsupported encoding %q", env.Encoding)
	}

	// The contents API wraps base64 at 60 columns.
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(*env.Content)
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 content: %w", err)
	}

	return Decode(decoded, FormatJSON)
}

// loadFallback reads the local fallback file.
func (s *Source) loadFallback() (*Document, error) {
	if _, err := os.Stat(s.fallbackPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, siteerrors.ChangelogUnavailable(s.fallbackPath, fmt.Errorf("local file %s does not exist", s.fallbackPath))
		}
		return nil, siteerrors.ChangelogUnparseable(s.fallbackPath, err)
	}

	doc, err := LoadFile(s.fallbackPath)
	if err != nil {
		return nil, siteerrors.ChangelogUnparseable(s.fallbackPath, err)
	}

	log.Printf("[changelog] loaded %d entries from local file %s", len(doc.Entries), s.fallbackPath)
	return doc, nil
}

// withRemoteCause prefixes the remote failure onto a fallback error so the
// terminal error carries the whole cause chain.
func withRemoteCause(fallbackErr, remoteErr error) error {
	e := siteerrors.As(fallbackErr)
	if e == nil {
		return fmt.Errorf("remote failed (%v) and fallback failed: %w", remoteErr, fallbackErr)
	}
	return &siteerrors.Error{
		Category:    e.Category,
		Message:     e.Message,
		Remediation: e.Remediation,
		Err:         fmt.Errorf("remote fetch: %v; fallback: %w", remoteErr, e.Err),
	}
}

// snippet returns up to 200 bytes of an error body for diagnostics.
func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max]
	}
	return s
}
