package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/mod/semver"
)

// Result is the outcome of one release check.
type Result struct {
	Latest string
	URL    string
	Newer  bool
	Err    error
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check asks url for the latest release on its own goroutine. The returned
// channel receives exactly one Result and is then closed.
func Check(ctx context.Context, client *http.Client, url, current string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- fetch(ctx, client, url, current)
	}()
	return ch
}

// Poll returns the result if it has arrived, without blocking.
func Poll(ch <-chan Result) (Result, bool) {
	select {
	case res, ok := <-ch:
		return res, ok
	default:
		return Result{}, false
	}
}

// Wait blocks until the result arrives or ctx is done.
func Wait(ctx context.Context, ch <-chan Result) (Result, error) {
	select {
	case res, ok := <-ch:
		if !ok {
			return Result{}, fmt.Errorf("update check already consumed")
		}
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func fetch(ctx context.Context, client *http.Client, url, current string) Result {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Err: fmt.Errorf("release check returned status %d", resp.StatusCode)}
	}
	var payload release
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{Err: fmt.Errorf("decode release: %w", err)}
	}

	latest := canonical(payload.TagName)
	if latest == "" {
		return Result{Err: fmt.Errorf("release tag %q is not a version", payload.TagName)}
	}
	res := Result{Latest: latest, URL: payload.HTMLURL}
	if cur := canonical(current); cur != "" {
		res.Newer = semver.Compare(latest, cur) > 0
	}
	return res
}

// canonical turns "1.2.3" or "v1.2.3" into a semver string, or "" if invalid.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
