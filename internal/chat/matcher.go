package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/apricodi/builder/internal/schema"
)

// band is one topic rule of the reply matcher.
type band struct {
	name     string
	keywords []string
	reply    func(c *schema.CompanyInfo) string
}

// Bands are evaluated in this order; the first one that matches wins.
var bands = []band{
	{
		name: "product",
		keywords: []string{
			"ürün", "hizmet", "neler yapıyorsunuz", "ne sunuyorsunuz", "katalog",
			"product", "service", "what do you offer", "what do you sell",
		},
		reply: productReply,
	},
	{
		name: "pricing",
		keywords: []string{
			"fiyat", "ücret", "ne kadar", "kaç para", "maliyet", "paket", "tarife",
			"price", "pricing", "cost", "how much", "plan",
		},
		reply: pricingReply,
	},
	{
		name: "contact",
		keywords: []string{
			"iletişim", "telefon", "adres", "e-posta", "eposta", "ulaş", "numara",
			"contact", "phone", "email", "e-mail", "address", "reach",
		},
		reply: contactReply,
	},
	{
		name: "demo",
		keywords: []string{
			"demo", "deneme", "denemek", "ücretsiz dene",
			"trial", "free trial", "try",
		},
		reply: demoReply,
	},
	{
		name: "greeting",
		keywords: []string{
			"merhaba", "selam", "günaydın", "iyi günler", "iyi akşamlar",
			"hello", "hi", "hey", "good morning",
		},
		reply: greetingReply,
	},
	{
		name: "thanks",
		keywords: []string{
			"teşekkür", "sağol", "sağ ol", "eyvallah",
			"thanks", "thank you", "thx",
		},
		reply: thanksReply,
	},
}

// Matcher computes deterministic assistant replies for one chat element.
type Matcher struct {
	qa      []schema.QAEntry
	company *schema.CompanyInfo
}

// NewMatcher builds a matcher from the element's Q&A database and company
// info. Both are optional.
func NewMatcher(el schema.Element) *Matcher {
	return &Matcher{qa: el.QADatabase, company: el.CompanyInfo}
}

// Reply returns the assistant reply for input. Q&A entries are checked
// first, then the topic bands in order, then the fallback.
func (m *Matcher) Reply(input string) string {
	_, reply := m.match(input)
	return reply
}

// Band reports which rule answers input: "qa", a band name, or "" for the
// fallback.
func (m *Matcher) Band(input string) string {
	name, _ := m.match(input)
	return name
}

func (m *Matcher) match(input string) (string, string) {
	text := lower(strings.TrimSpace(input))
	if text == "" {
		return "", fallbackReply(m.company)
	}

	if answer, ok := m.lookupQA(text); ok {
		return "qa", answer
	}

	tokens := tokenize(text)
	for _, b := range bands {
		if matchesAny(text, tokens, b.keywords) {
			return b.name, b.reply(m.company)
		}
	}
	return "", fallbackReply(m.company)
}

// minFragment is the shortest input, in runes, that may match a Q&A entry
// by being contained in its question.
const minFragment = 3

func (m *Matcher) lookupQA(text string) (string, bool) {
	fragment := utf8.RuneCountInString(text) >= minFragment
	for _, entry := range m.qa {
		question := lower(strings.TrimSpace(entry.Question))
		if question != "" && (strings.Contains(text, question) || (fragment && strings.Contains(question, text))) {
			return entry.Answer, true
		}
		for _, kw := range entry.Keywords {
			kw = lower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(text, kw) {
				return entry.Answer, true
			}
		}
	}
	return "", false
}

var dottedI = strings.NewReplacer("İ", "i")

// lower folds case. Turkish capital dotted I is mapped to a plain i so that
// "İletişim" and "iletişim" compare equal.
func lower(s string) string {
	return strings.ToLower(dottedI.Replace(s))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// matchesAny applies the keyword rules: phrases (anything containing a
// non-letter) match as substrings, keywords of four or more letters match a
// token prefix so that suffixed Turkish forms hit, and shorter keywords need
// a whole token.
func matchesAny(text string, tokens, keywords []string) bool {
	for _, kw := range keywords {
		if isPhrase(kw) {
			if strings.Contains(text, kw) {
				return true
			}
			continue
		}
		long := len([]rune(kw)) >= 4
		for _, tok := range tokens {
			if tok == kw || (long && strings.HasPrefix(tok, kw)) {
				return true
			}
		}
	}
	return false
}

func isPhrase(kw string) bool {
	for _, r := range kw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
