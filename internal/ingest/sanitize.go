package ingest

import (
	"regexp"
	"strings"
)

// Brazilian bank exports embed account holder identifiers in descriptions.
// These patterns strip CPF, CNPJ and branch/account fragments before a
// description is stored or sent to a classification provider.
var sanitizePatterns = []*regexp.Regexp{
	// "Agência: 0001 Conta: 12345-6"
	regexp.MustCompile(`(?i)Agência:\s*\d+\s*Conta:\s*[\d\-]+`),
	// CPF with trailing check digits: "- 123.456.789-01"
	regexp.MustCompile(`\s*[-•]+\s*\d{3}\.\d{3}\.\d{3}[-•]\d{2}\s*`),
	// CNPJ: "12.345.678/0001-99"
	regexp.MustCompile(`\s*\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\s*`),
	// Partial CPF without check digits: "- 123.456.789"
	regexp.MustCompile(`\s*[-•]+\s*\d{3}\.\d{3}\.\d{3}\s*`),
}

// SanitizeDescription removes personally identifying fragments from a
// transaction description. Descriptions that end up empty get a generic
// placeholder rather than an empty string.
func SanitizeDescription(description string) string {
	for _, pattern := range sanitizePatterns {
		description = pattern.ReplaceAllString(description, " ")
	}
	description = strings.Join(strings.Fields(description), " ")
	description = strings.Trim(description, " -")
	if description == "" {
		return "Transaction"
	}
	return description
}
