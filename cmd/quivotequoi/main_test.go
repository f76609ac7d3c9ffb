package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const minutesXML = `<?xml version="1.0" encoding="UTF-8"?>
<votes>
<vote>
<label>Rapport: John Roe (A9-0200/2024)</label>
<votings>
<voting result="+" type="AMENDMENT">
<title>§ 1</title>
<amendmentNumber>7</amendmentNumber>
<amendmentAuthor>The Left</amendmentAuthor>
<rcv><value>AN</value></rcv>
<observations>250, 200, 30</observations>
</voting>
<voting result="+"><title>Proposition de résolution</title><observations>400, 0, 0</observations></voting>
</votings>
</vote>
</votes>`

const rollCallsXML = `<?xml version="1.0" encoding="UTF-8"?>
<PV.RollCallVoteResults>
<RollCallVote.Result Identifier="101">
<RollCallVote.Description.Text>A9-0200/2024 - John Roe - Am 7</RollCallVote.Description.Text>
<Result.For Number="250"><Result.PoliticalGroup.List Identifier="PPE"><PoliticalGroup.Member.Name PersId="1">Alpha</PoliticalGroup.Member.Name></Result.PoliticalGroup.List></Result.For>
<Result.Against Number="200"/>
<Result.Abstention Number="30"/>
</RollCallVote.Result>
</PV.RollCallVoteResults>`

const calendarJSON = `{
  "startDate": "16/07/2024",
  "endDate": "15/07/2029",
  "sessionCalendar": [
    {"year": "2024", "monthStartDateSession": "9", "dayStartDateSession": "17",
     "monthEndDateSession": "9", "dayEndDateSession": "17"}
  ]
}`

// plenary serves the documents of 2024-09-17 and counts requests.
type plenary struct {
	*httptest.Server
	requests atomic.Int64
}

// newPlenary starts the server. overrides replace documents by path.
func newPlenary(t *testing.T, overrides ...map[string]string) *plenary {
	t.Helper()

	docs := map[string]string{
		"/PV-10-2024-09-17-VOT_FR.xml": minutesXML,
		"/PV-10-2024-09-17-RCV_FR.xml": rollCallsXML,
		"/calendar":                    calendarJSON,
	}
	for _, o := range overrides {
		for path, body := range o {
			docs[path] = body
		}
	}
	p := &plenary{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.requests.Add(1)
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(p.Close)
	return p
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// projectFile writes an empty project file so that no file from the
// working or home directory is picked up.
func projectFile(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, ".quivotequoi")
	if err := os.WriteFile(path, []byte("term: 10\n"), 0600); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
