package admin

import (
	"strings"
)

func isPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func isSentiment(s string) bool {
	return s == SentimentGood || s == SentimentBad
}

// validateFeedbackFilters checks optional sentiment and priority filters
func validateFeedbackFilters(sentiment, priority string) error {
	verrs := &ValidationErrors{}
	if sentiment != "" && !isSentiment(sentiment) {
		verrs.Add("sentiment", "Sentiment must be good or bad", sentiment)
	}
	if priority != "" && !isPriority(priority) {
		verrs.Add("priority", "Priority must be low, medium or high", priority)
	}
	return verrs.OrNil()
}

// exportFormat defaults the format to CSV and rejects anything but CSV or JSON
func exportFormat(format string) (string, error) {
	switch format {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON:
		return format, nil
	default:
		return "", newValidationError("format", "Format must be csv or json", format)
	}
}

// requireID rejects blank path identifiers
func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return newValidationError(field, "ID is required", value)
	}
	return nil
}

func validateFAQItem(item *FAQItem) error {
	verrs := &ValidationErrors{}
	if item == nil || strings.TrimSpace(item.Question) == "" {
		verrs.Add("question", "Question is required", nil)
	}
	if item == nil || strings.TrimSpace(item.Answer) == "" {
		verrs.Add("answer", "Answer is required", nil)
	}
	return verrs.OrNil()
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError("category", "Category name is required", name)
	}
	return nil
}

func validateLanguage(lang string) error {
	if strings.TrimSpace(lang) == "" {
		return newValidationError("lang", "Language is required", lang)
	}
	return nil
}
