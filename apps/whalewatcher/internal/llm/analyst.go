package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/model"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const analystModel = "gpt-4.1-mini"

const summarySystemPrompt = "You are an on-chain crypto analyst helping a user understand a whale-monitoring dashboard. " +
	"You look at large Ethereum transfers and answer questions about possible explanations. " +
	"Be precise, avoid overconfidence, and mention uncertainty when you don't know."

const chatSystemPrompt = "You are an on-chain crypto analyst. " +
	"You look at large Ethereum transfers and answer questions about possible explanations. " +
	"Be precise, avoid overconfidence, and mention uncertainty when you don't know."

// Analyst turns a set of whale transfers into LLM commentary. It is pure
// prompt construction over already-fetched data; it never triggers a fetch.
type Analyst struct {
	client *openai.Client
	logger *zap.Logger
}

// NewAnalyst creates an analyst backed by the OpenAI chat-completions API.
func NewAnalyst(apiKey string, logger *zap.Logger) *Analyst {
	return &Analyst{
		client: openai.NewClient(apiKey),
		logger: logger,
	}
}

// Summarize asks the model to explain the given transfers in a few sentences.
func (a *Analyst) Summarize(ctx context.Context, transfers []model.WhaleTransfer) (string, error) {
	userPrompt := "Here are recent large transfers on Ethereum:\n\n" +
		formatTransfers(transfers) +
		"\n\nIn 3-5 sentences, explain what might be going on. " +
		"Mention whether this looks like internal movements, exchange inflows/outflows, OTC trades, " +
		"or accumulation by a large wallet. If you are not sure, say so."

	return a.complete(ctx, summarySystemPrompt, userPrompt, 0.4)
}

// Chat answers a user question grounded on the given transfers.
func (a *Analyst) Chat(ctx context.Context, transfers []model.WhaleTransfer, question string) (string, error) {
	userPrompt := "Here are recent large transfers on Ethereum:\n\n" +
		formatTransfers(transfers) +
		fmt.Sprintf("\n\nThe user asks: %s\n\n", question) +
		"Answer in 3-6 sentences. Base your answer strictly on the flows above and common on-chain patterns. " +
		"If something is speculative, say that it is only a possibility."

	return a.complete(ctx, chatSystemPrompt, userPrompt, 0.5)
}

func (a *Analyst) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       analystModel,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// formatTransfers renders one compact line per transfer so the prompt stays
// small: shortened addresses, amount, symbol, block.
func formatTransfers(transfers []model.WhaleTransfer) string {
	lines := make([]string, 0, len(transfers))
	for _, t := range transfers {
		lines = append(lines, fmt.Sprintf("- %g %s from %s to %s (block %d)",
			t.Amount, t.AssetSymbol, shortenAddress(t.FromAddress), shortenAddress(t.ToAddress), t.BlockNumber))
	}
	return strings.Join(lines, "\n")
}

func shortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
