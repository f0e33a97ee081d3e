// Package names 提供作者姓名标准化：去变音符号、小写、按空白切分为 first/middle/last。
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rushteam/scholarfeed/core"
)

// 无法通过 NFD 分解去掉变音的字母。
var transliterations = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O", "ł", "l", "Ł", "L", "đ", "d", "Đ", "D",
	"ı", "i", "þ", "th", "Þ", "TH",
)

// Fold 去掉变音符号并转小写，例如 "Łukasz Kaiser" → "lukasz kaiser"。
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, transliterations.Replace(s))
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Normalize 把作者全名拆为标准化的 first/middle/last：
//   - 一个词：first 与 last 相同
//   - 两个词：没有 middle
//   - 三个及以上：中间的词以空格连接作为 middle
func Normalize(name string) core.Author {
	parts := strings.Fields(Fold(name))
	if len(parts) == 0 {
		return core.Author{}
	}
	a := core.Author{
		FirstName: parts[0],
		LastName:  parts[len(parts)-1],
	}
	if len(parts) > 2 {
		a.MiddleName = strings.Join(parts[1:len(parts)-1], " ")
	}
	return a
}

// NormalizeWithAffiliation 同 Normalize，并附带机构。
func NormalizeWithAffiliation(name, affiliation string) core.Author {
	a := Normalize(name)
	a.Affiliation = affiliation
	return a
}
