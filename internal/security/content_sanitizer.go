// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はフードバッグの名称・説明・住所など
// ユーザーが入力するテキストをサニタイズし、保存データに
// マークアップが混入することを防ぐ。
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizerService はテキストサニタイズ機能のインターフェースを定義する。
// フードバッグの作成・更新時、保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去したテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// フードバッグのテキスト項目は装飾を持たないプレーンテキストなので、
// タグを一切許可しないStrictPolicyを使用する。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去したテキストを返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return s.policy.Sanitize(raw)
}

// compile-time interface check
var _ ContentSanitizerService = (*contentSanitizer)(nil)
