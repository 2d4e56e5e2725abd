package summarize

import (
	"errors"
	"testing"
)

func TestExtractContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{
			name: "chat message content",
			raw:  `{"choices":[{"message":{"content":"今日要闻汇总"}}]}`,
			want: "今日要闻汇总",
		},
		{
			name: "content is trimmed",
			raw:  `{"choices":[{"message":{"content":"  汇总  "}}]}`,
			want: "汇总",
		},
		{
			name: "legacy text field when content empty",
			raw:  `{"choices":[{"message":{"content":""},"text":"completion text"}]}`,
			want: "completion text",
		},
		{
			name: "output_text wins over later keys",
			raw:  `{"output_text":"first","result":"second"}`,
			want: "first",
		},
		{
			name: "result field",
			raw:  `{"result":"generated"}`,
			want: "generated",
		},
		{
			name: "content field",
			raw:  `{"content":"generated"}`,
			want: "generated",
		},
		{
			name: "data field",
			raw:  `{"data":"generated"}`,
			want: "generated",
		},
		{
			name: "structured data does not mask string output_text",
			raw:  `{"data":{"items":[1,2]},"output_text":"usable"}`,
			want: "usable",
		},
		{
			name: "empty chat falls through to alternate keys",
			raw:  `{"choices":[{"message":{"content":"  "}}],"content":"alternate"}`,
			want: "alternate",
		},
		{
			name:    "modelscope welcome message",
			raw:     `{"message":"Welcome to ModelScope API-Inference! Please check the docs."}`,
			wantErr: ErrEndpointMisconfigured,
		},
		{
			name:    "welcome probe beats any other field",
			raw:     `{"message":"ModelScope API-Inference","content":"ignored"}`,
			wantErr: ErrEndpointMisconfigured,
		},
		{
			name: "unrelated message string falls through",
			raw:  `{"message":"ok","content":"still usable"}`,
			want: "still usable",
		},
		{
			name:    "empty choices array",
			raw:     `{"choices":[]}`,
			wantErr: ErrNoContent,
		},
		{
			name:    "whitespace-only candidates everywhere",
			raw:     `{"choices":[{"message":{"content":" "}}],"result":"  "}`,
			wantErr: ErrNoContent,
		},
		{
			name:    "top-level array",
			raw:     `[{"content":"x"}]`,
			wantErr: ErrNoContent,
		},
		{
			name:    "not JSON at all",
			raw:     `<html>bad gateway</html>`,
			wantErr: ErrNoContent,
		},
		{
			name:    "empty object",
			raw:     `{}`,
			wantErr: ErrNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractContent([]byte(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
