package analyst

import (
	"fmt"

	"market-analyst/models"
)

const analysisPromptTemplate = `You are a financial analyst. Provide a brief market analysis for %s based on the following data:

Current Price: %s%s
Previous Close: %s%s
Day Change: %s%%
50-day Moving Average: %s%s
Current Trend: %s
Volume: %d

Keep the analysis to a few short paragraphs focused on what this data shows about recent price action.`

const recommendationPromptTemplate = `You are a financial analyst. Based on the following data for %s, give a single BUY, HOLD, or WAIT recommendation with a short explanation of your reasoning:

Current Price: %s%s
Previous Close: %s%s
Day Change: %s%%
50-day Moving Average: %s%s
Current Trend: %s
Volume: %d

State the recommendation clearly on the first line, then explain.`

// BuildAnalysisPrompt renders the market analysis prompt from the rounded
// snapshot values and display name
func BuildAnalysisPrompt(snapshot *models.MarketSnapshot, name models.DisplayName, currencySymbol string) string {
	return fmt.Sprintf(analysisPromptTemplate,
		name.Name,
		currencySymbol, snapshot.CurrentPrice.StringFixed(2),
		currencySymbol, snapshot.PreviousClose.StringFixed(2),
		snapshot.DayChangePercent.StringFixed(2),
		currencySymbol, snapshot.MovingAverage50.StringFixed(2),
		snapshot.Trend,
		snapshot.Volume,
	)
}

// BuildRecommendationPrompt renders the BUY/HOLD/WAIT recommendation prompt
// from the rounded snapshot values and display name
func BuildRecommendationPrompt(snapshot *models.MarketSnapshot, name models.DisplayName, currencySymbol string) string {
	return fmt.Sprintf(recommendationPromptTemplate,
		name.Name,
		currencySymbol, snapshot.CurrentPrice.StringFixed(2),
		currencySymbol, snapshot.PreviousClose.StringFixed(2),
		snapshot.DayChangePercent.StringFixed(2),
		currencySymbol, snapshot.MovingAverage50.StringFixed(2),
		snapshot.Trend,
		snapshot.Volume,
	)
}
