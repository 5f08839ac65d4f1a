package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-version"

	"github.com/nulzo/chat-relay/internal/httpclient"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "v0.1.0"

type Release struct {
	TagName string `json:"tag_name"`
}

// Update describes a newer published release.
type Update struct {
	Current string
	Latest  string
}

// CheckForUpdates asks the release endpoint for the latest tag and reports
// whether it is newer than current. A nil Update means up to date.
func CheckForUpdates(ctx context.Context, client httpclient.HTTPClient, url, current string) (*Update, error) {
	body, err := httpclient.Send(ctx, client, http.MethodGet, url, map[string]string{"Accept": "application/vnd.github+json"}, nil)
	if err != nil {
		return nil, err
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}

	cur, err := version.NewVersion(current)
	if err != nil {
		return nil, fmt.Errorf("parsing current version %q: %w", current, err)
	}

	latest, err := version.NewVersion(release.TagName)
	if err != nil {
		return nil, fmt.Errorf("parsing release tag %q: %w", release.TagName, err)
	}

	if cur.LessThan(latest) {
		return &Update{Current: current, Latest: release.TagName}, nil
	}
	return nil, nil
}
