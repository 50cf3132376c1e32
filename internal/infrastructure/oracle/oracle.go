// Package oracle содержит клиент визуального оракула — vision-модели,
// умеющей читать логотипы и бирки на фотографиях. Оракул необязателен
// и используется только первым ярусом каскада определения бренда.
package oracle

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/modaics/go-backend/internal/cfg"
	"github.com/modaics/go-backend/internal/fusion"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

const visionPrompt = `Look at this clothing item photo. Answer in exactly two lines:
BRAND: <brand name if a logo or tag is clearly readable, otherwise Unknown>
COLOR: <dominant color of the item>`

// maxAnswerTokens ограничивает ответ: нужны лишь две короткие строки.
const maxAnswerTokens = 50

// Client — клиент vision-оракула поверх OpenAI-совместимого API.
// Жёсткий таймаут не даёт медленному оракулу задержать каскад.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

func NewClient(cfg *cfg.OracleCfg, logger logger.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// DescribeImage запрашивает у оракула бренд и цвет по фотографии.
func (c *Client) DescribeImage(ctx context.Context, imageData []byte) (*fusion.OracleClaim, error) {
	const op = "oracle.Client.DescribeImage"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxAnswerTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: visionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, e.Wrap(op, e.ErrOracleTimeout)
		}
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrOracleUnreachable, err))
	}

	if len(resp.Choices) == 0 {
		return nil, e.Wrap(op, e.ErrOracleUnreachable)
	}

	return parseClaim(resp.Choices[0].Message.Content), nil
}

// parseClaim разбирает построчный ответ оракула.
// Бренды-заглушки ("Unknown", "None", "N/A") означают нечитаемый логотип.
func parseClaim(content string) *fusion.OracleClaim {
	claim := &fusion.OracleClaim{}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasPrefixFold(line, "BRAND:"):
			claim.Brand = strings.TrimSpace(line[len("BRAND:"):])
		case hasPrefixFold(line, "COLOR:"):
			claim.Color = strings.TrimSpace(line[len("COLOR:"):])
		}
	}

	claim.Legible = isLegibleBrand(claim.Brand)
	if !claim.Legible {
		claim.Brand = ""
	}

	return claim
}

func isLegibleBrand(brand string) bool {
	switch strings.ToLower(strings.Trim(brand, ".")) {
	case "", "unknown", "none", "n/a", "no brand", "not visible":
		return false
	}
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
