package config

import "testing"

func TestLoadIncludesPipelineDefaults(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("EVALUATION_FAILURE_FATAL", "")
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("CONVERSION_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.ChunkSize != 500 {
		t.Fatalf("expected default chunk size 500, got %d", cfg.ChunkSize)
	}
	if cfg.EvaluationFailureFatal {
		t.Fatalf("evaluation failures must be non-fatal by default")
	}
	if cfg.NATSSubject != "papers.convert" {
		t.Fatalf("expected default subject papers.convert, got %q", cfg.NATSSubject)
	}
	if cfg.ConversionTimeoutSeconds != 1800 {
		t.Fatalf("expected default conversion timeout 1800, got %d", cfg.ConversionTimeoutSeconds)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "250")
	t.Setenv("EVALUATION_FAILURE_FATAL", "true")
	t.Setenv("TTS_URL", "http://tts.internal:9000")
	t.Setenv("TTS_TIMEOUT_SECONDS", "45")

	cfg := Load()
	if cfg.ChunkSize != 250 {
		t.Fatalf("expected chunk size 250, got %d", cfg.ChunkSize)
	}
	if !cfg.EvaluationFailureFatal {
		t.Fatalf("expected fatal evaluation override")
	}
	if cfg.TTSURL != "http://tts.internal:9000" {
		t.Fatalf("expected tts url override, got %q", cfg.TTSURL)
	}
	if cfg.TTSTimeoutSeconds != 45 {
		t.Fatalf("expected tts timeout 45, got %d", cfg.TTSTimeoutSeconds)
	}
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "lots")
	t.Setenv("EVALUATION_FAILURE_FATAL", "sometimes")

	cfg := Load()
	if cfg.ChunkSize != 500 {
		t.Fatalf("malformed int must fall back to default, got %d", cfg.ChunkSize)
	}
	if cfg.EvaluationFailureFatal {
		t.Fatalf("malformed bool must fall back to default")
	}
}
