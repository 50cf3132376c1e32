// Package embedder содержит клиент сервиса мультимодальных эмбеддингов.
// Сервис кодирует изображения и текст CLIP-подобной моделью в одно
// пространство сравнения.
package embedder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/modaics/go-backend/internal/cfg"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/jitter"
	"github.com/modaics/go-backend/pkg/logger"
)

const (
	embedImagePath = "/embed_image"
	embedTextPath  = "/embed_text"
)

// Client — HTTP-клиент сервиса эмбеддингов с ограничением конкурентности
// и повторами с экспоненциальной задержкой.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	sem        chan struct{}
	logger     logger.Logger

	mu           sync.RWMutex
	modelVersion string
}

type embedImageReq struct {
	ImageBase64 string `json:"image_base64"`
}

type embedTextReq struct {
	Text string `json:"text"`
}

type embedRes struct {
	Vector       []float32 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

func NewClient(cfg *cfg.EmbedderCfg, logger logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.Addr,
		maxRetries: cfg.MaxRetries,
		sem:        make(chan struct{}, cfg.MaxConcurrent),
		logger:     logger,
	}
}

// EmbedImage кодирует изображение в вектор общего пространства сравнения.
func (c *Client) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	const op = "embedder.Client.EmbedImage"

	if len(image) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	body, err := json.Marshal(embedImageReq{ImageBase64: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return c.embed(ctx, op, embedImagePath, body)
}

// EmbedText кодирует текст в вектор общего пространства сравнения.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	const op = "embedder.Client.EmbedText"

	if text == "" {
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}

	body, err := json.Marshal(embedTextReq{Text: text})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return c.embed(ctx, op, embedTextPath, body)
}

// ModelVersion возвращает версию модели из последнего успешного ответа.
func (c *Client) ModelVersion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.modelVersion == "" {
		return "unknown"
	}
	return c.modelVersion
}

// embed выполняет запрос с повторами. Ошибки сети и 5xx повторяются,
// 4xx — нет. Исчерпание попыток трактуется как недоступность бэкенда.
func (c *Client) embed(ctx context.Context, op, path string, body []byte) ([]float32, error) {
	const (
		baseBackoff = 500 * time.Millisecond
		maxBackoff  = 10 * time.Second
	)

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, e.Wrap(op, ctx.Err())
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		vector, retryable, err := c.doRequest(ctx, path, body)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if !retryable || attempt == c.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(baseBackoff, maxBackoff, attempt, jitter.DefaultJitter)
		c.logger.Warnf("embed request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrEncodingUnavailable, lastErr))
}

// doRequest выполняет один HTTP-запрос. Второй результат сообщает,
// имеет ли смысл повторять запрос.
func (c *Client) doRequest(ctx context.Context, path string, body []byte) ([]float32, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("embedder returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("embedder returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	var res embedRes
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, err
	}
	if len(res.Vector) == 0 {
		return nil, false, e.ErrEmptyVector
	}

	if res.ModelVersion != "" {
		c.mu.Lock()
		c.modelVersion = res.ModelVersion
		c.mu.Unlock()
	}

	return res.Vector, false, nil
}
