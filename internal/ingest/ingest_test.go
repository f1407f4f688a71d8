package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

func TestReadCommaSeparated(t *testing.T) {
	csv := "date,description,amount\n" +
		"2024-01-15,UBER TRIP,-45.90\n" +
		"2024-01-16,SALARY,5000.00\n"

	txns, err := Read(strings.NewReader(csv), 1)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "UBER TRIP", txns[0].Description)
	assert.Equal(t, -45.90, txns[0].Amount)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, int64(1), txns[0].UserID)
	assert.Equal(t, model.StatusPending, txns[0].Status)

	assert.Equal(t, 5000.0, txns[1].Amount)
}

func TestReadSemicolonWithPortugueseHeaders(t *testing.T) {
	csv := "Data;Descrição;Valor\n" +
		"15/01/2024;IFOOD PEDIDO;\"R$ -35,50\"\n"

	txns, err := Read(strings.NewReader(csv), 2)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, "IFOOD PEDIDO", txns[0].Description)
	assert.Equal(t, -35.50, txns[0].Amount)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), txns[0].Date)
}

func TestReadTabSeparated(t *testing.T) {
	csv := "data\tdescricao\tvalor\n" +
		"2024-02-01\tNETFLIX.COM\t-55,90\n"

	txns, err := Read(strings.NewReader(csv), 1)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "NETFLIX.COM", txns[0].Description)
	assert.Equal(t, -55.90, txns[0].Amount)
}

func TestReadStripsBOM(t *testing.T) {
	csv := "\xef\xbb\xbfdate,description,amount\n2024-01-15,UBER TRIP,-10\n"

	txns, err := Read(strings.NewReader(csv), 1)
	require.NoError(t, err)
	require.Len(t, txns, 1)
}

func TestReadSkipsMalformedRows(t *testing.T) {
	csv := "date,description,amount\n" +
		"2024-01-15,UBER TRIP,-45.90\n" +
		"not a date,JUNK ROW,abc\n" +
		"2024-01-16,NETFLIX.COM,-55.90\n"

	txns, err := Read(strings.NewReader(csv), 1)
	require.NoError(t, err)
	require.Len(t, txns, 2)
}

func TestReadMissingColumns(t *testing.T) {
	csv := "date,amount\n2024-01-15,-45.90\n"

	_, err := Read(strings.NewReader(csv), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""), 1)
	require.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"1.234,56", 1234.56},
		{"1,50", 1.5},
		{"-45,90", -45.90},
		{"R$ -45,90", -45.90},
		{"1234.56", 1234.56},
		{"100", 100},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "R$"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cpf with check digits", "IFOOD - 123.456.789-01", "IFOOD"},
		{"partial cpf", "PIX TRANSF - 123.456.789", "PIX TRANSF"},
		{"cnpj", "PAYMENT 12.345.678/0001-99 STORE", "PAYMENT STORE"},
		{"branch and account", "TED Agência: 0001 Conta: 12345-6", "TED"},
		{"clean description untouched", "UBER TRIP", "UBER TRIP"},
		{"only pii becomes placeholder", "- 123.456.789-01", "Transaction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeDescription(tt.input))
		})
	}
}
