// Package preview はリンクプレビュー（Open Graph / Twitter Card）の
// メタデータ抽出と取得サービスを提供する。
package preview

import (
	"regexp"
	"strconv"
	"strings"
)

// metaKeys は抽出対象のmetaタグキー。
var metaKeys = []string{
	"og:title", "twitter:title",
	"og:description", "twitter:description",
	"og:image", "twitter:image",
	"og:site_name",
}

// metaPatterns はキーごとの正規表現ペア。パッケージ初期化時に1回だけコンパイルする。
// HTMLパーサーは使わず、SNSクローラーと同様にソースを直接走査する。
// 属性順は property/name が先のものと content が先のものの2通りを試す。
var metaPatterns = func() map[string][2]*regexp.Regexp {
	patterns := make(map[string][2]*regexp.Regexp, len(metaKeys))
	for _, key := range metaKeys {
		quoted := regexp.QuoteMeta(key)
		patterns[key] = [2]*regexp.Regexp{
			regexp.MustCompile(`(?i)<meta\s+(?:property|name)=["']` + quoted + `["']\s+content=["']([^"']+)["']`),
			regexp.MustCompile(`(?i)<meta\s+content=["']([^"']+)["']\s+(?:property|name)=["']` + quoted + `["']`),
		}
	}
	return patterns
}()

// PickMeta はHTMLソースから指定キーのmetaタグのcontent値を抽出する。
// property属性とname属性の両方を受け付け、属性順が逆のタグも検出する。
// 最初にマッチした値をエンティティ復号して返す。見つからない場合は空文字。
// 未知のキーはその場でコンパイルする（既知キーは初期化済みパターンを使う）。
func PickMeta(html, key string) string {
	patterns, ok := metaPatterns[key]
	if !ok {
		quoted := regexp.QuoteMeta(key)
		patterns = [2]*regexp.Regexp{
			regexp.MustCompile(`(?i)<meta\s+(?:property|name)=["']` + quoted + `["']\s+content=["']([^"']+)["']`),
			regexp.MustCompile(`(?i)<meta\s+content=["']([^"']+)["']\s+(?:property|name)=["']` + quoted + `["']`),
		}
	}
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			return DecodeHTMLEntities(m[1])
		}
	}
	return ""
}

// namedEntities は復号対象の名前付き文字参照。
var namedEntities = map[string]string{
	"&amp;":  "&",
	"&quot;": `"`,
	"&apos;": "'",
	"&lt;":   "<",
	"&gt;":   ">",
}

// DecodeHTMLEntities は文字列中のHTML文字参照を復号する。
// 元の文字列を左から右へ1回だけ走査し、置換結果を再走査しない。
// このため "&amp;lt;" は "&lt;" になり、"<" まで復号されることはない。
// 対応するのは名前付き参照（amp, quot, apos, lt, gt）と
// 数値参照（&#NNN; / &#xHH;）で、それ以外はそのまま出力する。
func DecodeHTMLEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}

		if decoded, length, ok := decodeEntityAt(s, i); ok {
			b.WriteString(decoded)
			i += length
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String()
}

// decodeEntityAt は位置iから始まる文字参照を復号する。
// 復号できた場合は置換文字列と消費した長さを返す。
func decodeEntityAt(s string, i int) (string, int, bool) {
	// 名前付き参照
	for entity, replacement := range namedEntities {
		if strings.HasPrefix(s[i:], entity) {
			return replacement, len(entity), true
		}
	}

	// 数値参照 &#NNN; / &#xHH;
	if !strings.HasPrefix(s[i:], "&#") {
		return "", 0, false
	}
	end := strings.IndexByte(s[i:], ';')
	if end < 0 {
		return "", 0, false
	}
	body := s[i+2 : i+end]
	if body == "" {
		return "", 0, false
	}

	var code int64
	var err error
	if body[0] == 'x' || body[0] == 'X' {
		code, err = strconv.ParseInt(body[1:], 16, 32)
	} else {
		code, err = strconv.ParseInt(body, 10, 32)
	}
	if err != nil || code < 0 || code > 0x10FFFF {
		return "", 0, false
	}

	return string(rune(code)), end + 1, true
}

// ExtractedMeta はHTMLから抽出したプレビューメタデータ。
// 各フィールドは見つからなかった場合に空文字。
type ExtractedMeta struct {
	Title       string
	Description string
	Image       string
	SiteName    string
}

// ExtractMeta はHTMLソースからプレビュー用メタデータ一式を抽出する。
// 各項目はOpen Graphを優先し、無ければTwitter Cardにフォールバックする。
func ExtractMeta(html string) ExtractedMeta {
	return ExtractedMeta{
		Title:       pickFirst(html, "og:title", "twitter:title"),
		Description: pickFirst(html, "og:description", "twitter:description"),
		Image:       pickFirst(html, "og:image", "twitter:image"),
		SiteName:    PickMeta(html, "og:site_name"),
	}
}

// pickFirst は複数キーを順に試し、最初に見つかった値を返す。
func pickFirst(html string, keys ...string) string {
	for _, key := range keys {
		if v := PickMeta(html, key); v != "" {
			return v
		}
	}
	return ""
}
