// Package i18n holds the user facing strings of the public share pages.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	LangEnglish = "en"
	LangArabic  = "ar"
)

const (
	MsgShareOK             = "shared.ok"
	MsgShareNotFound       = "shared.not_found"
	MsgShareExpired        = "shared.expired"
	MsgShareSecretRequired = "shared.secret_required"
	MsgShareSecretMismatch = "shared.secret_mismatch"
	MsgShareTooMany        = "shared.too_many"
	MsgUnexpected          = "error.unexpected"
)

var supported = []language.Tag{language.English, language.Arabic}

var supportedCodes = []string{LangEnglish, LangArabic}

var matcher = language.NewMatcher(supported)

var messages = map[string]map[string]string{
	LangEnglish: {
		MsgShareOK:             "Link verified",
		MsgShareNotFound:       "The requested link does not exist or is invalid.",
		MsgShareExpired:        "This link is no longer valid. Please request a new link from the booklet owner.",
		MsgShareSecretRequired: "Please enter the secret code to access this booklet",
		MsgShareSecretMismatch: "Incorrect secret code",
		MsgShareTooMany:        "Too many attempts, please try again later",
		MsgUnexpected:          "An unexpected error occurred",
	},
	LangArabic: {
		MsgShareOK:             "تم التحقق من الرابط",
		MsgShareNotFound:       "الرابط غير موجود",
		MsgShareExpired:        "انتهت صلاحية هذا الرابط",
		MsgShareSecretRequired: "يرجى إدخال الرمز السري للوصول إلى هذا الكتيب",
		MsgShareSecretMismatch: "الرمز السري غير صحيح",
		MsgShareTooMany:        "محاولات كثيرة، يرجى المحاولة لاحقاً",
		MsgUnexpected:          "حدث خطأ غير متوقع",
	},
}

// Match picks the best supported language for an Accept-Language header,
// defaulting to English.
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LangEnglish
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(supportedCodes) {
		return LangEnglish
	}
	return supportedCodes[idx]
}

// Text returns the message for key in lang, falling back to English and then
// to the key itself.
func Text(lang, key string) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[LangEnglish][key]; ok {
		return msg
	}
	return key
}
