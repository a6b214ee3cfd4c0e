package summarizer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

const testTemplate = "Summarize:\n%s"

func standupSession(t *testing.T) *transcript.Session {
	t.Helper()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	s := transcript.NewSession("standup", start)
	if _, err := s.Append(start, []string{"おはようございます。", "今日の議題です。"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(start.Add(time.Minute), []string{"以上です。"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Finish(start.Add(2 * time.Minute)); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBuildTranscript(t *testing.T) {
	got := BuildTranscript(standupSession(t))
	want := "[09:00:00]\nおはようございます。\n今日の議題です。\n[09:01:00]\n以上です。\n"
	if got != want {
		t.Errorf("BuildTranscript() = %q, want %q", got, want)
	}
}

func TestBuildTranscriptEmpty(t *testing.T) {
	s := transcript.NewSession("empty", time.Now())
	if got := BuildTranscript(s); got != "" {
		t.Errorf("BuildTranscript() = %q, want empty", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "openai", cfg: Config{Provider: ProviderOpenAI, APIKey: "sk"}},
		{name: "default provider", cfg: Config{APIKey: "sk"}},
		{name: "gemini", cfg: Config{Provider: ProviderGemini, GeminiKeys: []string{"k"}}},
		{name: "gemini without keys", cfg: Config{Provider: ProviderGemini}, wantErr: true},
		{name: "unknown", cfg: Config{Provider: "other"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, logger.Nop())
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAI(t *testing.T, url string) Summarizer {
	t.Helper()
	s, err := New(Config{
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o",
		Temperature:    0.5,
		MaxTokens:      500,
		SystemPrompt:   "You summarize meetings.",
		PromptTemplate: testTemplate,
		APIKey:         "sk-test",
		BaseURL:        url + "/v1",
	}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOpenAISummarize(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"  朝会の要約です。\n"}}]}`)
	}))
	defer srv.Close()

	summary, err := newOpenAI(t, srv.URL).Summarize(context.Background(), standupSession(t))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "朝会の要約です。" {
		t.Errorf("summary = %q", summary)
	}

	if got.Model != "gpt-4o" || got.MaxTokens != 500 || got.Temperature != 0.5 {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "You summarize meetings." {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || !strings.Contains(got.Messages[1].Content, "[09:01:00]\n以上です。") {
		t.Errorf("user message = %+v", got.Messages[1])
	}
}

func TestOpenAISummarizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom","type":"server_error"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "blank content", status: http.StatusOK, body: `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			if _, err := newOpenAI(t, srv.URL).Summarize(context.Background(), standupSession(t)); err == nil {
				t.Error("Summarize() should fail")
			}
		})
	}
}

func TestGeminiSummarizeRotatesOnQuota(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-goog-api-key")
		keys = append(keys, key)
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		if key == "k1" {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
			return
		}
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"要約"},{"text":"です。"}]}}]}`)
	}))
	defer srv.Close()

	s, err := New(Config{
		Provider:       ProviderGemini,
		Model:          "gemini-2.5-flash",
		Temperature:    0.5,
		MaxTokens:      500,
		PromptTemplate: testTemplate,
		GeminiKeys:     []string{"k1", "k2"},
		GeminiBaseURL:  srv.URL + "/",
	}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}

	summary, err := s.Summarize(context.Background(), standupSession(t))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "要約です。" {
		t.Errorf("summary = %q", summary)
	}
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Errorf("keys tried = %v, want [k1 k2]", keys)
	}
}

func TestGeminiSummarizeAllKeysExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	s, err := New(Config{
		Provider:       ProviderGemini,
		Model:          "gemini-2.5-flash",
		PromptTemplate: testTemplate,
		GeminiKeys:     []string{"k1", "k2"},
		GeminiBaseURL:  srv.URL + "/",
	}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Summarize(context.Background(), standupSession(t))
	if err == nil || !strings.Contains(err.Error(), "exhausted") {
		t.Errorf("Summarize() error = %v, want keys exhausted", err)
	}
}
