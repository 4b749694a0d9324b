package apiclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sessionlab/authkit/pkg/apiclient"
)

func TestExtractFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "plain double quoted",
			header: `attachment; filename="test.pdf"`,
			want:   "test.pdf",
		},
		{
			name:   "plain single quoted",
			header: `attachment; filename='report.xlsx'`,
			want:   "report.xlsx",
		},
		{
			name:   "plain unquoted",
			header: `attachment; filename=data.csv`,
			want:   "data.csv",
		},
		{
			name:   "rfc5987 extended form",
			header: `attachment; filename*=UTF-8''%E6%B5%8B%E8%AF%95.pdf`,
			want:   "测试.pdf",
		},
		{
			name:   "extended form wins over plain",
			header: `attachment; filename="test.pdf"; filename*=UTF-8''%E6%B5%8B%E8%AF%95.pdf`,
			want:   "测试.pdf",
		},
		{
			name:   "extended form wins regardless of order",
			header: `attachment; filename*=UTF-8''%E6%B5%8B%E8%AF%95.pdf; filename="test.pdf"`,
			want:   "测试.pdf",
		},
		{
			name:   "no filename parameter",
			header: "inline",
			want:   "",
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
		{
			name:   "malformed percent encoding falls back to raw value",
			header: `attachment; filename*=UTF-8''%ZZbroken.pdf`,
			want:   "%ZZbroken.pdf",
		},
		{
			name:   "whitespace around equals",
			header: `attachment; filename = "padded.txt"`,
			want:   "padded.txt",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, apiclient.ExtractFilename(tt.header))
		})
	}
}
