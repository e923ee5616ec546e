package chat

import (
	"strings"
	"testing"
)

func TestClassifyExtractionSuccess(t *testing.T) {
	text := strings.Repeat("demonstrativo de resultados do exercício ", 4)
	block := classifyExtraction(text)

	if !strings.Contains(block, "Conteúdo extraído do PDF") {
		t.Errorf("Expected success block, got %q", block)
	}
	if !strings.Contains(block, text) {
		t.Error("Expected extracted text carried into the block")
	}
}

func TestClassifyExtractionErrorPrefix(t *testing.T) {
	block := classifyExtraction("Erro: arquivo corrompido durante a leitura do documento enviado pelo usuário")

	if strings.Contains(block, "Conteúdo extraído do PDF") {
		t.Errorf("Error phrase must not be treated as document text: %q", block)
	}
	if !strings.Contains(block, "arquivo corrompido") {
		t.Errorf("Expected error detail extracted, got %q", block)
	}
}

func TestClassifyExtractionPoppler(t *testing.T) {
	block := classifyExtraction("Erro: Unable to get page count. Is poppler installed and in PATH?")

	if !strings.Contains(block, "Poppler") {
		t.Errorf("Expected poppler diagnostic, got %q", block)
	}
}

func TestClassifyExtractionScannedImage(t *testing.T) {
	block := classifyExtraction("Erro: o PDF parece ser uma imagem escaneada de baixa qualidade")

	if !strings.Contains(block, "imagem escaneada") {
		t.Errorf("Expected scanned image diagnostic, got %q", block)
	}
}

func TestClassifyExtractionEmptyPDF(t *testing.T) {
	block := classifyExtraction("O documento está vazio")

	if !strings.Contains(block, "vazio") {
		t.Errorf("Expected empty PDF diagnostic, got %q", block)
	}
}

func TestClassifyExtractionShortOutput(t *testing.T) {
	block := classifyExtraction("Não foi possível")

	if strings.Contains(block, "Conteúdo extraído do PDF") {
		t.Errorf("Short output must not pass as document text: %q", block)
	}
}

func TestAudioMimeType(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"data:audio/wav;base64,AAAA", "audio/wav"},
		{"https://cdn.example.com/voice.mp3", "audio/mpeg"},
		{"https://cdn.example.com/voice.ogg", "audio/ogg"},
		{"https://cdn.example.com/voice.m4a", "audio/mp4"},
		{"https://cdn.example.com/voice.webm", "audio/webm"},
		{"https://cdn.example.com/voice", "audio/mpeg"},
	}
	for _, tc := range cases {
		if got := audioMimeType(tc.url); got != tc.want {
			t.Errorf("audioMimeType(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
