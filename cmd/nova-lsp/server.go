package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cybellereaper/nova/internal/analyzer"
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/pipeline"
)

// documentState is the cached analysis result for one open document,
// re-run in full on every didOpen/didChange (Nova files are small
// enough that incremental reanalysis buys nothing spec.md asks for).
type documentState struct {
	content   string
	astRoot   *ast.Program
	semantics *analyzer.Context
}

// Server is the Content-Length-framed JSON-RPC stdio loop, the same
// shape as funxy's cmd/lsp/server.go LanguageServer, narrowed to the
// three methods spec.md §6 names.
type Server struct {
	documents map[string]*documentState
	mu        sync.RWMutex
	writer    io.Writer
}

func NewServer(writer io.Writer) *Server {
	if writer == nil {
		writer = os.Stdout
	}
	return &Server{documents: make(map[string]*documentState), writer: writer}
}

// Start reads Content-Length framed JSON-RPC messages from stdin until
// EOF or an `exit` notification, the same header/blank-line/body loop
// as funxy's LanguageServer.Start.
func (s *Server) Start() {
	reader := bufio.NewReader(os.Stdin)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("nova-lsp: error reading header: %v", err)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "Content-Length: ") {
			continue
		}

		contentLength, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
		if err != nil {
			log.Printf("nova-lsp: bad Content-Length: %v", err)
			continue
		}

		for {
			sep, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.TrimRight(sep, "\r\n") == "" {
				break
			}
		}

		content := make([]byte, contentLength)
		if _, err := io.ReadFull(reader, content); err != nil {
			log.Printf("nova-lsp: error reading body: %v", err)
			return
		}

		if err := s.handleMessage(content); err != nil {
			log.Printf("nova-lsp: error handling message: %v", err)
		}
	}
}

func (s *Server) handleMessage(content []byte) error {
	var base struct {
		ID     interface{} `json:"id,omitempty"`
		Method string      `json:"method"`
	}
	if err := json.Unmarshal(content, &base); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	if base.ID != nil {
		return s.handleRequest(base.ID, base.Method, content)
	}
	return s.handleNotification(base.Method, content)
}

func (s *Server) handleRequest(id interface{}, method string, content []byte) error {
	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "shutdown":
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	case "textDocument/hover":
		var req struct {
			Params HoverParams `json:"params"`
		}
		if err := json.Unmarshal(content, &req); err != nil {
			return err
		}
		return s.handleHover(id, req.Params)
	default:
		return s.sendResponse(ResponseMessage{
			Jsonrpc: "2.0",
			ID:      id,
			Error:   &RPCError{Code: errMethodNotFound, Message: fmt.Sprintf("method not found: %s", method)},
		})
	}
}

func (s *Server) handleNotification(method string, content []byte) error {
	switch method {
	case "initialized":
		return nil
	case "textDocument/didOpen":
		var req struct {
			Params DidOpenTextDocumentParams `json:"params"`
		}
		if err := json.Unmarshal(content, &req); err != nil {
			return err
		}
		s.analyze(req.Params.TextDocument.URI, req.Params.TextDocument.Text)
		return nil
	case "textDocument/didChange":
		var req struct {
			Params DidChangeTextDocumentParams `json:"params"`
		}
		if err := json.Unmarshal(content, &req); err != nil {
			return err
		}
		if len(req.Params.ContentChanges) == 0 {
			return nil
		}
		// Full-sync only (TextDocumentSync: 1): the last change event
		// carries the entire new document text.
		last := req.Params.ContentChanges[len(req.Params.ContentChanges)-1]
		s.analyze(req.Params.TextDocument.URI, last.Text)
		return nil
	case "textDocument/didClose":
		var req struct {
			Params DidCloseTextDocumentParams `json:"params"`
		}
		if err := json.Unmarshal(content, &req); err != nil {
			return err
		}
		s.mu.Lock()
		delete(s.documents, req.Params.TextDocument.URI)
		s.mu.Unlock()
		return nil
	case "exit":
		os.Exit(0)
		return nil
	default:
		return nil
	}
}

func (s *Server) handleInitialize(id interface{}) error {
	result := InitializeResult{Capabilities: ServerCapabilities{
		TextDocumentSync: 1,
		HoverProvider:    true,
	}}
	return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: result})
}

// analyze runs the parser/analyzer stages over a document's full text
// and caches the result, swallowing parse/analysis errors: a document
// mid-edit is expected to be syntactically broken and hover should
// still answer for whatever parsed.
func (s *Server) analyze(uri, text string) {
	ast.ResetExprIDs()
	ctx := pipeline.NewContext(uri, text)
	p := pipeline.New(pipeline.ParserStage{}, pipeline.AnalyzerStage{})
	ctx = p.Run(ctx)

	s.mu.Lock()
	s.documents[uri] = &documentState{content: text, astRoot: ctx.AstRoot, semantics: ctx.Semantics}
	s.mu.Unlock()
}

func (s *Server) sendResponse(response ResponseMessage) error {
	return s.sendMessage(response)
}

func (s *Server) sendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return err
}
