package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/sanitize"
)

func TestChatText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no markers",
			input: "  Hello world \n",
			want:  "Hello world",
		},
		{
			name:  "single think span",
			input: "<think>reasoning</think>Hi there",
			want:  "Hi there",
		},
		{
			name:  "thinking spelling",
			input: "<thinking>\nstep 1\nstep 2\n</thinking>\n\nAnswer",
			want:  "Answer",
		},
		{
			name:  "mixed spellings and case",
			input: "<THINK>a</Thinking>Result<thinking>b</THINK>",
			want:  "Result",
		},
		{
			name:  "repeated spans",
			input: "A<think>x</think>B<think>y</think>C",
			want:  "ABC",
		},
		{
			name:  "nested spans",
			input: "<think>outer<think>inner</think>still outer</think>Final",
			want:  "Final",
		},
		{
			name:  "unterminated open marker is kept",
			input: "Answer <think>never closed",
			want:  "Answer <think>never closed",
		},
		{
			name:  "stray close marker is kept",
			input: "Answer</think>",
			want:  "Answer</think>",
		},
		{
			name:  "unterminated outer around a closed pair",
			input: "<think>open <think>inner</think> tail",
			want:  "<think>open  tail",
		},
		{
			name:  "fragments joined by removal form a new span",
			input: "<thi<think>a</think>nk>z</thi<think>b</think>nk>ok",
			want:  "ok",
		},
		{
			name:  "only reasoning",
			input: "<think>everything</think>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize.ChatText(tt.input))
		})
	}
}

func TestChatText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"<think>x</think>y",
		"<think><thinking>deep</thinking></think> text ",
		"<thi<think>a</think>nk>z</thi<think>b</think>nk>",
		"</think><think>",
		"a <think> b <think> c </think> d",
		"\n\t<Thinking>multi\nline</thinking>\n reply \n",
	}

	for _, input := range inputs {
		once := sanitize.ChatText(input)
		assert.Equal(t, once, sanitize.ChatText(once), "input=%q", input)
	}
}

func TestChatText_NoResidualMarkers(t *testing.T) {
	spellings := []struct{ open, close string }{
		{"<think>", "</think>"},
		{"<thinking>", "</thinking>"},
		{"<THINK>", "</thinking>"},
		{"<Thinking>", "</Think>"},
	}

	for _, outer := range spellings {
		for _, inner := range spellings {
			input := outer.open + "secret-a" + inner.open + "secret-b" + inner.close + outer.close +
				"visible" + inner.open + "secret-c" + inner.close

			got := sanitize.ChatText(input)

			assert.Equal(t, "visible", got)
			assert.False(t, sanitize.ContainsReasoning(got))
			assert.False(t, strings.Contains(got, "secret"))
		}
	}
}
