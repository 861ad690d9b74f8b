package llm

// Per-million-token USD rates. Logging and audit only; never consulted for
// control flow.
type modelRate struct {
	inputPerM  float64
	outputPerM float64
}

var modelRates = map[string]modelRate{
	"gpt-4o-mini": {inputPerM: 0.15, outputPerM: 0.60},
	"gpt-4o":      {inputPerM: 2.50, outputPerM: 10.00},
	"gpt-4.1":     {inputPerM: 2.00, outputPerM: 8.00},
}

// CostUSD estimates the cost of a call. Unknown models cost zero so a new
// model name never breaks logging.
func CostUSD(model string, inputTokens, outputTokens int) float64 {
	r, ok := modelRates[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1e6*r.inputPerM + float64(outputTokens)/1e6*r.outputPerM
}
