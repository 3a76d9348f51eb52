package security

import "testing"

func TestContentSanitizer_Sanitize(t *testing.T) {
	s := NewContentSanitizer()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "焼きたてパンの詰め合わせ", "焼きたてパンの詰め合わせ"},
		{"empty", "", ""},
		{"script tag", `<script>alert("xss")</script>パン`, "パン"},
		{"bold tag", "<b>お得</b>なセット", "お得なセット"},
		{"img tag", `<img src="x" onerror="alert(1)">住所`, "住所"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Sanitize(tc.input)
			if got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// 同一入力に対して常に同一出力を返すこと（冪等性）を確認する。
func TestContentSanitizer_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p>詰め合わせ</p><script>x</script>`
	first := s.Sanitize(input)
	second := s.Sanitize(first)

	if first != second {
		t.Errorf("Sanitize is not idempotent: first = %q, second = %q", first, second)
	}
}
