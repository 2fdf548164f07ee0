package analyses

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"resume-tailor/internal/accounts"
	"resume-tailor/internal/analyzer"
	"resume-tailor/internal/tracker"
)

const testAnalysisID = "665f1c2e9b1e8a3d4c5b6a7f"

func testDOCX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(`<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>Built payment APIs in Go</w:t></w:r></w:p></w:body></w:document>`)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func testInput(t *testing.T) Input {
	return Input{
		JobTitle:       "Backend Engineer",
		JobDescription: "Go and Postgres",
		Resume:         analyzer.File{Name: "cv.docx", Data: testDOCX(t)},
	}
}

const samplePayload = `{
  "score": 82,
  "summary": "Strong backend match.",
  "skillAnalysis": {"skillsToEmphasize": ["Go"], "potentialGaps": ["Kubernetes"]},
  "bulletPointSuggestions": [
    {"id": "b1", "original": "Wrote APIs", "suggestion": "Designed payment APIs serving 2M requests a day"},
    {"id": "b2", "original": "Fixed bugs", "suggestion": "Cut incident rate by 40% through targeted fixes"},
    {"id": "b3", "original": "Did tests", "suggestion": "Raised test coverage from 40% to 85%"}
  ]
}`

type gateFixture struct {
	gate     *Gate
	accounts *accounts.Service
	tracker  *tracker.Service
	results  *Service
	calls    int
}

func newGateFixture(t *testing.T, balance int64, client analyzer.Client) *gateFixture {
	t.Helper()
	f := &gateFixture{
		accounts: accounts.NewService(balance),
		tracker:  tracker.NewService(tracker.NewMemoryRepo()),
		results:  &Service{Repo: NewMemoryRepo()},
	}
	if _, err := f.accounts.Create(context.Background(), "user-1"); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if client == nil {
		client = analyzer.ClientFunc(func(ctx context.Context, req analyzer.Request) (analyzer.Result, error) {
			f.calls++
			return analyzer.Result{AnalysisID: testAnalysisID}, nil
		})
	}
	f.gate = &Gate{
		Credits:      f.accounts,
		Applications: f.tracker,
		Analyzer:     client,
		Results:      f.results,
		Cost:         40,
	}
	return f
}

func (f *gateFixture) balance(t *testing.T) int64 {
	t.Helper()
	n, err := f.accounts.Balance(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return n
}

func (f *gateFixture) tracked(t *testing.T) int64 {
	t.Helper()
	n, err := f.tracker.TrackedCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("tracked count: %v", err)
	}
	return n
}
