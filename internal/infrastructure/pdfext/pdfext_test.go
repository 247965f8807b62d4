package pdfext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rephind/rephind/pkg/errors"
)

func TestExtractClaim(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled english claim",
			text: "BACKGROUND\nSome description.\nClaim 1: A steel sheet comprising carbon\nand manganese.\nClaim 2: The sheet of claim 1.",
			want: "A steel sheet comprising carbon and manganese.",
		},
		{
			name: "labeled korean claim",
			text: "발명의 설명\n【청구항 1】 C : 0.1 ~ 0.2 %를 포함하는 강판.\n【청구항 2】 제1항에 있어서.",
			want: "C : 0.1 ~ 0.2 %를 포함하는 강판.",
		},
		{
			name: "numbered claim list",
			text: "CLAIMS\n1. A method for producing a steel sheet\n   by hot stamping.\n2. The method of claim 1.",
			want: "A method for producing a steel sheet by hot stamping.",
		},
		{
			name: "claim runs to end of document",
			text: "Claim 1. An apparatus comprising a furnace and a press.",
			want: "An apparatus comprising a furnace and a press.",
		},
		{
			name: "collapses internal whitespace",
			text: "Claim 1:  A   steel\n\tsheet   comprising  boron.",
			want: "A steel sheet comprising boron.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractClaim(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractClaimParagraphFallback(t *testing.T) {
	text := "Title page\n\n" +
		"A high strength steel sheet comprising a controlled amount of carbon and a martensitic microstructure for automotive use.\n\n" +
		"Figures follow."

	got, err := ExtractClaim(text)
	require.NoError(t, err)
	assert.Contains(t, got, "comprising a controlled amount of carbon")
}

func TestExtractClaimNotFound(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"no claim-like content", "short\n\nnotes\n\nfigure captions only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractClaim(tt.text)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeClaimNotFound, errors.GetCode(err))
		})
	}
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	_, err := ExtractText([]byte("this is not a pdf"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePDFParseFailed, errors.GetCode(err))
}
