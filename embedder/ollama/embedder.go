package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/w-h-a/originality/embedder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultLocation = "http://localhost:11434"

type ollamaEmbedder struct {
	options embedder.Options
	client  *http.Client
}

func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	bs, err := json.Marshal(map[string]any{
		"model": e.options.Model,
		"input": texts,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.options.Location+"/api/embed",
		bytes.NewReader(bs),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")

	rsp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= 400 {
		payload, _ := io.ReadAll(rsp.Body)
		return nil, fmt.Errorf("ollama embed: status %d: %s", rsp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var res struct {
		Embeddings [][]float32 `json:"embeddings"`
	}

	if err := json.NewDecoder(rsp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}

	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d texts", len(res.Embeddings), len(texts))
	}

	return res.Embeddings, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	options.Location = strings.TrimSuffix(options.Location, "/")
	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	if len(options.Model) == 0 {
		options.Model = "nomic-embed-text"
	}

	e := &ollamaEmbedder{
		options: options,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	return e
}
