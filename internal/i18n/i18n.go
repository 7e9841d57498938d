package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Supported locales. English is the fallback and must define every key.
const (
	LocaleEN = "en"
	LocaleAR = "ar"

	DefaultLocale = LocaleEN
)

// Key identifies one translatable string. The set of keys is closed: every
// locale is checked against it by Validate at startup.
type Key string

const (
	KeyAppTitle     Key = "app.title"
	KeyAppUploadNew Key = "app.upload_new"

	KeyUploaderTitle       Key = "uploader.title"
	KeyUploaderOr          Key = "uploader.or"
	KeyUploaderButton      Key = "uploader.button"
	KeyUploaderDescription Key = "uploader.description"

	KeyGeneratorOriginal    Key = "generator.original_image"
	KeyGeneratorDetails     Key = "generator.details.title"
	KeyGeneratorStyles      Key = "generator.styles.title"
	KeyGeneratorButton      Key = "generator.button.generate"
	KeyGeneratorButtonBusy  Key = "generator.button.generating"

	KeyCardWaiting      Key = "card.waiting"
	KeyCardFailed       Key = "card.failed"
	KeyCardErrorUnknown Key = "card.error.unknown"
	KeyCardDownload     Key = "card.download_aria"
	KeyCardRegenerate   Key = "card.regenerate_aria"
	KeyCardPreview      Key = "card.preview_aria"

	KeyStyleNone       Key = "style.none"
	KeyStyleDramatic   Key = "style.dramatic"
	KeyStyleArtistic   Key = "style.artistic"
	KeyStyleModern     Key = "style.modern"
	KeyStyleCinematic  Key = "style.cinematic"
	KeyStyleVintage    Key = "style.vintage"
	KeyStyleRetro      Key = "style.retro"
	KeyStyleGraffiti   Key = "style.graffiti"
	KeyStyleFuturistic Key = "style.futuristic"
)

var allKeys = []Key{
	KeyAppTitle, KeyAppUploadNew,
	KeyUploaderTitle, KeyUploaderOr, KeyUploaderButton, KeyUploaderDescription,
	KeyGeneratorOriginal, KeyGeneratorDetails, KeyGeneratorStyles,
	KeyGeneratorButton, KeyGeneratorButtonBusy,
	KeyCardWaiting, KeyCardFailed, KeyCardErrorUnknown,
	KeyCardDownload, KeyCardRegenerate, KeyCardPreview,
	KeyStyleNone, KeyStyleDramatic, KeyStyleArtistic, KeyStyleModern,
	KeyStyleCinematic, KeyStyleVintage, KeyStyleRetro, KeyStyleGraffiti,
	KeyStyleFuturistic,
}

var translations = map[string]map[Key]string{
	LocaleEN: {
		KeyAppTitle:     "AI Angle Generator",
		KeyAppUploadNew: "Upload New Image",

		KeyUploaderTitle:       "Drag & Drop an Image",
		KeyUploaderOr:          "or",
		KeyUploaderButton:      "Upload an Image",
		KeyUploaderDescription: "Upload a single image, and we'll transform it into 3 different angles using advanced AI.",

		KeyGeneratorOriginal:   "Your Original Image",
		KeyGeneratorDetails:    "Add more details (Optional)",
		KeyGeneratorStyles:     "Choose an Image Style",
		KeyGeneratorButton:     "Generate 3 New Angles",
		KeyGeneratorButtonBusy: "Generating Angles...",

		KeyCardWaiting:      "Waiting to generate...",
		KeyCardFailed:       "Generation Failed",
		KeyCardErrorUnknown: "An unknown error occurred.",
		KeyCardDownload:     "Download {title}",
		KeyCardRegenerate:   "Regenerate {title}",
		KeyCardPreview:      "Preview {title}",

		KeyStyleNone:       "None",
		KeyStyleDramatic:   "Dramatic",
		KeyStyleArtistic:   "Artistic",
		KeyStyleModern:     "Modern",
		KeyStyleCinematic:  "Cinematic",
		KeyStyleVintage:    "Vintage",
		KeyStyleRetro:      "Retro",
		KeyStyleGraffiti:   "Graffiti",
		KeyStyleFuturistic: "Futuristic",
	},
	LocaleAR: {
		KeyAppTitle:     "مولد الزوايا بالذكاء الاصطناعي",
		KeyAppUploadNew: "رفع صورة جديدة",

		KeyUploaderTitle:       "اسحب وأفلت صورة هنا",
		KeyUploaderOr:          "أو",
		KeyUploaderButton:      "رفع صورة",
		KeyUploaderDescription: "قم برفع صورة واحدة، وسنحولها إلى 3 صور بزوايا مختلفة باستخدام تقنيات الذكاء الاصطناعي المتقدمة.",

		KeyGeneratorOriginal:   "صورتك الأصلية",
		KeyGeneratorDetails:    "أضف المزيد من التفاصيل (اختياري)",
		KeyGeneratorStyles:     "اختر نمط الصورة",
		KeyGeneratorButton:     "إنشاء 3 زوايا جديدة",
		KeyGeneratorButtonBusy: "جاري إنشاء الزوايا...",

		KeyCardWaiting:      "في انتظار الإنشاء...",
		KeyCardFailed:       "فشل الإنشاء",
		KeyCardErrorUnknown: "حدث خطأ غير معروف.",
		KeyCardDownload:     "تنزيل {title}",
		KeyCardRegenerate:   "إعادة إنشاء {title}",
		KeyCardPreview:      "معاينة {title}",

		KeyStyleNone:       "بدون",
		KeyStyleDramatic:   "درامي",
		KeyStyleArtistic:   "فني",
		KeyStyleModern:     "عصري",
		KeyStyleCinematic:  "سينمائي",
		KeyStyleVintage:    "عتيق",
		KeyStyleRetro:      "ريترو",
		KeyStyleGraffiti:   "جرافيتي",
		KeyStyleFuturistic: "مستقبلي",
	},
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // fallback, index 0
	language.Arabic,
})

// Locales returns the supported locale codes in a stable order.
func Locales() []string {
	out := make([]string, 0, len(translations))
	for locale := range translations {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Known reports whether the locale is part of the catalog.
func Known(locale string) bool {
	_, ok := translations[locale]
	return ok
}

// Has reports whether the key belongs to the closed key set.
func Has(key Key) bool {
	_, ok := translations[LocaleEN][key]
	return ok
}

// Match resolves an Accept-Language header value to a supported locale.
// Unparseable or empty input resolves to English.
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LocaleEN
	}
	_, idx, _ := matcher.Match(tags...)
	if idx == 1 {
		return LocaleAR
	}
	return LocaleEN
}

// T translates key into the given locale, falling back to English for
// unknown locales. Placeholders of the form {name} are substituted from
// replacements.
func T(locale string, key Key, replacements map[string]string) string {
	table, ok := translations[locale]
	if !ok {
		table = translations[LocaleEN]
	}
	text, ok := table[key]
	if !ok {
		text = translations[LocaleEN][key]
	}
	for name, value := range replacements {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

// Validate checks that every locale defines exactly the closed key set.
// It is called at process start so a missing translation fails boot
// instead of surfacing as a blank string at render time.
func Validate() error {
	for locale, table := range translations {
		for _, key := range allKeys {
			if _, ok := table[key]; !ok {
				return fmt.Errorf("i18n: locale %q is missing key %q", locale, key)
			}
		}
		if len(table) != len(allKeys) {
			for key := range table {
				if !containsKey(allKeys, key) {
					return fmt.Errorf("i18n: locale %q defines unknown key %q", locale, key)
				}
			}
		}
	}
	return nil
}

func containsKey(keys []Key, key Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
