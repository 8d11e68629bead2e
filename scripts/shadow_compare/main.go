// Command shadow_compare replays a fixed set of read-only requests against
// the new API and the legacy MCU dashboard side by side and reports status
// and body differences. Volatile envelope metadata (cache flags, request
// IDs) is stripped before comparing.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type result struct {
	Target       target
	NewStatus    int
	LegacyStatus int
	StatusMatch  bool
	BodyMatch    bool
	Err          error
}

func main() {
	var (
		newBase     string
		legacyBase  string
		token       string
		targetsPath string
		timeout     time.Duration
	)
	flag.StringVar(&newBase, "new-base", "http://localhost:8080", "new API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8501", "legacy app base URL")
	flag.StringVar(&token, "token", "", "bearer token for authenticated routes")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	breaking := 0
	fmt.Println("MCU shadow compare")
	fmt.Println("==================")
	for _, tgt := range targets {
		res := compare(client, newBase, legacyBase, token, tgt)
		report(res)
		if tgt.Critical && (res.Err != nil || !res.StatusMatch || !res.BodyMatch) {
			breaking++
		}
	}
	fmt.Printf("breaking diffs: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg struct {
		Targets []target `json:"targets"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets in %s", path)
	}
	return cfg.Targets, nil
}

func compare(client *http.Client, newBase, legacyBase, token string, tgt target) result {
	res := result{Target: tgt}

	newStatus, newBody, err := fetch(client, newBase, token, tgt)
	if err != nil {
		res.Err = fmt.Errorf("new api: %w", err)
		return res
	}
	legacyStatus, legacyBody, err := fetch(client, legacyBase, token, tgt)
	if err != nil {
		res.Err = fmt.Errorf("legacy: %w", err)
		return res
	}

	res.NewStatus = newStatus
	res.LegacyStatus = legacyStatus
	res.StatusMatch = newStatus == legacyStatus
	res.BodyMatch = bodiesEqual(newBody, legacyBody)
	return res
}

func fetch(client *http.Client, base, token string, tgt target) (int, []byte, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// volatileKeys lists envelope fields expected to differ between the two
// deployments on every run.
var volatileKeys = map[string]struct{}{
	"meta":       {},
	"cached":     {},
	"request_id": {},
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var av, bv interface{}
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	scrub(&av)
	scrub(&bv)
	return reflect.DeepEqual(av, bv)
}

// scrub drops volatile keys and collapses whole-number floats so the two
// JSON decoders compare equal on numerically identical payloads.
func scrub(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k := range val {
			if _, skip := volatileKeys[k]; skip {
				delete(val, k)
			}
		}
		for k, inner := range val {
			scrub(&inner)
			val[k] = inner
		}
	case []interface{}:
		for i, inner := range val {
			scrub(&inner)
			val[i] = inner
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(res result) {
	status := "OK"
	switch {
	case res.Err != nil:
		status = "ERROR"
	case !res.StatusMatch || !res.BodyMatch:
		status = "DIFF"
	}
	fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
	if res.Err != nil {
		fmt.Printf("  error: %v\n", res.Err)
		return
	}
	fmt.Printf("  new=%d legacy=%d status_match=%t body_match=%t critical=%t\n",
		res.NewStatus, res.LegacyStatus, res.StatusMatch, res.BodyMatch, res.Target.Critical)
}
