package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func parseLSPOutput(t *testing.T, output string) string {
	t.Helper()
	parts := strings.SplitN(output, "\r\n\r\n", 2)
	if len(parts) != 2 {
		t.Fatalf("invalid LSP output format (header/body split failed): %q", output)
	}
	return parts[1]
}

func setupServer(uri, code string) (*Server, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	s := NewServer(buf)
	s.analyze(uri, code)
	return s, buf
}

func TestInitializeAdvertisesHoverOnly(t *testing.T) {
	buf := new(bytes.Buffer)
	s := NewServer(buf)

	if err := s.handleInitialize(float64(1)); err != nil {
		t.Fatalf("handleInitialize: %v", err)
	}

	var resp ResponseMessage
	if err := json.Unmarshal([]byte(parseLSPOutput(t, buf.String())), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, _ := resp.Result.(map[string]interface{})
	caps, _ := result["capabilities"].(map[string]interface{})
	if caps["hoverProvider"] != true {
		t.Fatalf("expected hoverProvider true, got capabilities %v", caps)
	}
	for key := range caps {
		if strings.HasSuffix(key, "Provider") && key != "hoverProvider" {
			t.Fatalf("unexpected capability %q advertised: %v", key, caps)
		}
	}
}

func TestHoverReturnsExpressionType(t *testing.T) {
	uri := "file:///test.nova"
	code := "module m\nfun identity(x: Number): Number = x\n"
	s, buf := setupServer(uri, code)
	buf.Reset()

	// Body "x" starts at line index 1 (0-based), character 34.
	err := s.handleHover(float64(2), HoverParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 1, Character: 34},
	})
	if err != nil {
		t.Fatalf("handleHover: %v", err)
	}

	var resp ResponseMessage
	if err := json.Unmarshal([]byte(parseLSPOutput(t, buf.String())), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Result == nil {
		t.Fatalf("expected a hover result, got nil")
	}
}

func TestHoverUnknownDocumentReturnsNilResult(t *testing.T) {
	buf := new(bytes.Buffer)
	s := NewServer(buf)

	err := s.handleHover(float64(3), HoverParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///missing.nova"},
		Position:     Position{Line: 0, Character: 0},
	})
	if err != nil {
		t.Fatalf("handleHover: %v", err)
	}

	var resp ResponseMessage
	if err := json.Unmarshal([]byte(parseLSPOutput(t, buf.String())), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Result != nil {
		t.Fatalf("expected nil result for unknown document, got %v", resp.Result)
	}
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	buf := new(bytes.Buffer)
	s := NewServer(buf)

	if err := s.handleRequest(float64(4), "textDocument/completion", nil); err != nil {
		t.Fatalf("handleRequest: %v", err)
	}

	var resp ResponseMessage
	if err := json.Unmarshal([]byte(parseLSPOutput(t, buf.String())), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != errMethodNotFound {
		t.Fatalf("expected method-not-found error, got %+v", resp.Error)
	}
}
