package gotext

import (
	"slices"

	"golang.org/x/text/language"
)

// exemplars lists, per language, characters a font must map for the
// language to count as supported. The lists are short samples of the
// letters that set each language apart, not full orthographies.
var exemplars = []struct {
	tag   language.Tag
	chars string
}{
	{language.English, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"},
	{language.German, "äöüÄÖÜß"},
	{language.French, "àâçéèêëîïôùûüÿœÀÇÉ"},
	{language.Spanish, "áéíñóúü¿¡Ñ"},
	{language.Portuguese, "ãõáâçéêíóôú"},
	{language.Polish, "ąćęłńóśźżŁŚŻ"},
	{language.Czech, "čďěňřšťůžŘŠŽ"},
	{language.Turkish, "çğıöşüİĞŞ"},
	{language.Vietnamese, "ăâđêôơưạảấầẩẫậ"},
	{language.Russian, "абвгдеёжзийклмнопрстуфхцчшщъыьэюяАБВ"},
	{language.Ukrainian, "ґєіїҐЄІЇ"},
	{language.Greek, "αβγδεζηθικλμνξοπρστυφχψωάέήίόύώ"},
	{language.Hebrew, "אבגדהוזחטיכלמנסעפצקרשת"},
	{language.Arabic, "ابتثجحخدذرزسشصضطظعغفقكلمنهوي"},
	{language.Hindi, "अआइईउऊएऐओऔकखगघचछजझ"},
	{language.Thai, "กขคงจฉชซญดตถทนบปผพฟมยรลวสหอ"},
	{language.Japanese, "あいうえおかきくけこアイウエオ日本語"},
	{language.SimplifiedChinese, "的一是不了人我在有他这中"},
	{language.Korean, "가나다라마바사아자차카타파하"},
}

// coveredLanguages returns the languages whose exemplar characters s maps
// completely, in exemplar order.
func coveredLanguages(s *FontSource) []string {
	var out []string
	for _, ex := range exemplars {
		if !slices.ContainsFunc([]rune(ex.chars), func(r rune) bool { return !s.Covers(r) }) {
			out = append(out, ex.tag.String())
		}
	}
	return out
}
