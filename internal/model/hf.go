package model

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// hfRepoInfo is the subset of the Hugging Face models API response this
// package needs to resolve a snapshot revision and its file listing.
type hfRepoInfo struct {
	SHA      string `json:"sha"`
	Siblings []struct {
		Filename string `json:"rfilename"`
	} `json:"siblings"`
}

// hfClient is the HTTP client used for all Hugging Face Hub calls. Kept as a
// package var (mirroring the teacher's zero-timeout download client) so
// tests can point it at a local httptest server.
var hfClient = &http.Client{Timeout: 0}

func fetchRepoInfo(repoID, token string) (hfRepoInfo, error) {
	url := fmt.Sprintf("https://huggingface.co/api/models/%s", repoID)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return hfRepoInfo{}, fmt.Errorf("build repo info request: %w", err)
	}

	setAuth(req, token)

	resp, err := hfClient.Do(req)
	if err != nil {
		return hfRepoInfo{}, fmt.Errorf("repo info request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return hfRepoInfo{}, &AccessDeniedError{Repo: repoID}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return hfRepoInfo{}, fmt.Errorf("repo info request for %q failed: %s", repoID, resp.Status)
	}

	var info hfRepoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return hfRepoInfo{}, fmt.Errorf("decode repo info: %w", err)
	}

	if info.SHA == "" {
		info.SHA = fmt.Sprintf("unpinned-%d", time.Now().UTC().Unix())
	}

	return info, nil
}

func resolveFileURL(repoID, revision, filename string) string {
	return fmt.Sprintf("https://huggingface.co/%s/resolve/%s/%s", repoID, revision, filename)
}

func setAuth(req *http.Request, token string) {
	if token == "" {
		return
	}

	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
}
