package transcriber

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio_temp.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVEfmt fake audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestTranscriber(url string) Transcriber {
	return New(Config{
		APIKey:   "sk-test",
		BaseURL:  url + "/v1",
		Model:    "whisper-1",
		Language: "ja",
	}, logger.Nop())
}

func TestTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotLanguage, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		f, header, err := r.FormFile("file")
		if err == nil {
			defer f.Close()
			data, _ := io.ReadAll(f)
			gotFile = header.Filename + ":" + string(data)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text": "おはようございます。"}`)
	}))
	defer srv.Close()

	res := newTestTranscriber(srv.URL).Transcribe(context.Background(), writeAudio(t))
	if res.Failed() {
		t.Fatalf("Transcribe() error = %v", res.Err)
	}
	if res.Text != "おはようございます。" {
		t.Errorf("Text = %q", res.Text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotLanguage != "ja" {
		t.Errorf("model/language = %q/%q", gotModel, gotLanguage)
	}
	if !strings.HasPrefix(gotFile, "audio_temp.wav:RIFF") {
		t.Errorf("file part = %q", gotFile)
	}
}

func TestTranscribeTemperatureField(t *testing.T) {
	tests := []struct {
		name        string
		temperature float32
		want        []string
	}{
		{name: "zero uses the service default", temperature: 0, want: nil},
		{name: "explicit value", temperature: 0.2, want: []string{"0.20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			var fields int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				got = r.MultipartForm.Value["temperature"]
				fields = len(r.MultipartForm.Value)
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"text": "x"}`)
			}))
			defer srv.Close()

			tr := New(Config{
				APIKey:      "sk-test",
				BaseURL:     srv.URL + "/v1",
				Model:       "whisper-1",
				Language:    "ja",
				Temperature: tt.temperature,
			}, logger.Nop())
			if res := tr.Transcribe(context.Background(), writeAudio(t)); res.Failed() {
				t.Fatalf("Transcribe() error = %v", res.Err)
			}
			if len(got) != len(tt.want) || (len(got) == 1 && got[0] != tt.want[0]) {
				t.Errorf("temperature field = %v, want %v", got, tt.want)
			}
			if fields != 3+len(tt.want) {
				t.Errorf("form fields = %d, want model, language, response_format and %d temperature", fields, len(tt.want))
			}
		})
	}
}

func TestTranscribeMissingText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	res := newTestTranscriber(srv.URL).Transcribe(context.Background(), writeAudio(t))
	if res.Failed() {
		t.Fatalf("Transcribe() error = %v", res.Err)
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty", res.Text)
	}
}

func TestTranscribeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": {"message": "upstream failure", "type": "server_error"}}`)
	}))
	defer srv.Close()

	res := newTestTranscriber(srv.URL).Transcribe(context.Background(), writeAudio(t))
	if !res.Failed() {
		t.Fatal("Transcribe() should fail on HTTP 500")
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty on failure", res.Text)
	}
}

func TestTranscribeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := newTestTranscriber(url).Transcribe(context.Background(), writeAudio(t))
	if !res.Failed() {
		t.Fatal("Transcribe() should fail when the server is unreachable")
	}
}

func TestTranscribeCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestTranscriber(srv.URL).Transcribe(ctx, writeAudio(t))
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	res := newTestTranscriber("http://127.0.0.1:0").Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	if !res.Failed() {
		t.Fatal("Transcribe() should fail for a missing file")
	}
}
