package llm

// chatPrices is USD per 1K tokens, [input, output]. Local models are absent
// and cost nothing.
var chatPrices = map[string][2]float64{
	"gpt-3.5-turbo":             {0.0005, 0.0015},
	"gpt-4o-mini":               {0.00015, 0.0006},
	"gpt-4o":                    {0.005, 0.015},
	"claude-3-5-haiku-20241022": {0.0008, 0.004},
	"claude-sonnet-4-20250514":  {0.003, 0.015},
}

func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	prices, ok := chatPrices[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)*prices[0] + float64(outputTokens)*prices[1]) / 1000
}
